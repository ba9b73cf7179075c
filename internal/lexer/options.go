package lexer

import (
	"drift/internal/source"
)

// Reporter is a thin sink for soft scan anomalies. The scanner only calls
// it; formatting and severity policy belong to the caller.
type Reporter interface {
	Report(kind string, span source.Span, msg string)
}

// Options configures a Scanner.
type Options struct {
	Reporter Reporter // may be nil: anomalies are dropped but scanning continues
}

// Config selects the grammar variations a front end needs. The token
// vocabulary never changes; only how raw bytes are grouped into it.
type Config struct {
	// QualifiedWords keeps '::'-qualified names such as
	// tests::auth::expired together as a single Word.
	QualifiedWords bool
}

func (sc *Scanner) report(kind string, sp source.Span, msg string) {
	if sc.opts.Reporter != nil {
		sc.opts.Reporter.Report(kind, sp, msg)
	}
}
