package cargotest

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"drift/internal/ast"
	"drift/internal/frontend"
	"drift/internal/source"
	"drift/internal/token"
)

// builder folds cargo test output into the structure tree. Lines it
// recognizes:
//
//	running N tests
//	test NAME ... ok|FAILED|ignored
//	---- NAME stdout ----
//	thread 'NAME' panicked at FILE:LINE:COL:
//	assertion `left OP right` failed[: NOTE] with left:/right: lines
//	stack backtrace: followed by "N: frame" lines
//	error[CODE]: MSG, error: MSG, warning: MSG with --> FILE:LINE:COL
//	test result: ok|FAILED. N passed; N failed; ...
//
// Everything else becomes Unstructured leaves; no input is rejected here.
type builder struct{}

func (builder) Build(file *source.File, toks []token.Token) (*ast.Tree, *frontend.ParseError) {
	p := &parser{file: file, b: ast.NewBuilder(file.ID, uint(len(toks)/8))}
	for _, ln := range frontend.SplitLines(toks) {
		p.line(ln)
	}
	return p.finish()
}

// parser is the line-by-line state machine behind Build. At most one
// suite, one section under it, and one assertion under that are open at a
// time; diagnostics never nest inside sections.
type parser struct {
	file *source.File
	b    *ast.Builder

	inSuite     bool
	inSection   bool
	inAssertion bool
	inDiag      bool
	inBacktrace bool
	awaitPanic  bool // next section line is the panic message
	seenLeft    bool
	seenRight   bool
	frames      []string // innermost-first, as printed
	perr        *frontend.ParseError
}

func (p *parser) line(ln frontend.Line) {
	if ln.IsBlank() {
		p.closeAssertion()
		p.closeDiag()
		p.inBacktrace = false
		p.awaitPanic = false
		return
	}
	if p.matchRunning(ln) || p.matchResult(ln) || p.matchFailures(ln) {
		return
	}
	if p.matchSectionHeader(ln) {
		return
	}
	if p.inSection {
		if !p.matchSectionLine(ln) {
			p.chatter(ln)
		}
		return
	}
	if p.matchCase(ln) {
		return
	}
	if p.inDiag && p.matchDiagDetail(ln) {
		return
	}
	if p.matchDiagHeader(ln) {
		return
	}
	p.closeDiag()
	p.chatter(ln)
}

// matchRunning opens a Suite at "running N tests". A suite still open here
// never saw its result line, which is a partial parse.
func (p *parser) matchRunning(ln frontend.Line) bool {
	if ln.TextAt(0) != "running" || ln.KindAt(1) != token.Int {
		return false
	}
	if unit := ln.TextAt(2); unit != "test" && unit != "tests" {
		return false
	}
	p.abandonSuite(p.file.Pos(ln.Span.Start))
	p.b.Open(ast.NodeSuite, ln.Span)
	p.inSuite = true
	p.b.SetField("count", ln.TextAt(1))
	return true
}

// matchResult closes the open suite at "test result: STATUS. N passed; ...".
func (p *parser) matchResult(ln frontend.Line) bool {
	if ln.TextAt(0) != "test" || ln.TextAt(1) != "result" || ln.TextAt(2) != ":" {
		return false
	}
	p.closeSection()
	p.closeDiag()
	if !p.inSuite {
		p.chatter(ln)
		return true
	}
	p.b.SetField("result", normStatus(ln.TextAt(3)))
	for i := 0; i+1 < len(ln.Toks); i++ {
		if ln.Toks[i].Kind != token.Int || ln.Toks[i+1].Kind != token.Word {
			continue
		}
		switch key := ln.Toks[i+1].Text; key {
		case "passed", "failed", "ignored", "measured", "filtered":
			p.b.SetField(key, ln.Toks[i].Text)
		}
	}
	p.b.Extend(ln.Span)
	p.b.Close()
	p.inSuite = false
	return true
}

// matchFailures consumes the bare "failures:" marker lines. They end any
// open section but carry no structure of their own.
func (p *parser) matchFailures(ln frontend.Line) bool {
	if len(ln.Toks) != 2 || ln.TextAt(0) != "failures" || ln.TextAt(1) != ":" {
		return false
	}
	p.closeSection()
	p.closeDiag()
	p.chatter(ln)
	return true
}

// matchCase records one "test NAME ... STATUS" line. Doc-test names span
// several tokens, so the name is sliced raw between "test" and the dots.
func (p *parser) matchCase(ln frontend.Line) bool {
	if !p.inSuite || ln.TextAt(0) != "test" || len(ln.Toks) < 4 {
		return false
	}
	dots := -1
	for i := 2; i < len(ln.Toks); i++ {
		if ln.Toks[i].Kind == token.Punct && ln.Toks[i].Text == "..." {
			dots = i
			break
		}
	}
	if dots < 2 || dots+1 >= len(ln.Toks) {
		return false
	}
	status := ln.TextAt(dots + 1)
	if status != "ok" && status != "FAILED" && status != "ignored" && status != "bench" {
		return false
	}
	p.closeDiag()
	name := ln.Slice(p.file, 1, dots-1)
	p.b.Leaf(ast.NodeCase, ln.Span,
		ast.Field{Key: "name", Val: name},
		ast.Field{Key: "status", Val: normStatus(status)},
	)
	return true
}

// matchSectionHeader opens a Section at "---- NAME stdout ----".
func (p *parser) matchSectionHeader(ln frontend.Line) bool {
	n := len(ln.Toks)
	if n < 4 || !isDashRun(ln.At(0)) || !isDashRun(ln.At(n-1)) {
		return false
	}
	stream := ln.TextAt(n - 2)
	if stream != "stdout" && stream != "stderr" {
		return false
	}
	p.closeSection()
	p.closeDiag()
	name := ln.Slice(p.file, 1, n-3)
	p.b.Open(ast.NodeSection, ln.Span)
	p.inSection = true
	p.b.SetField("name", name)
	p.b.SetField("stream", stream)
	return true
}

// matchSectionLine consumes the recognized lines inside a stdout section:
// the panic header, the panic message or assertion block, and backtrace
// frames.
func (p *parser) matchSectionLine(ln frontend.Line) bool {
	if p.matchPanicHeader(ln) {
		return true
	}
	if p.matchAssertionHeader(ln) {
		return true
	}
	if p.inAssertion && p.matchAssertionSide(ln) {
		return true
	}
	if p.matchBacktraceStart(ln) {
		return true
	}
	if p.inBacktrace && p.matchFrame(ln) {
		return true
	}
	if p.awaitPanic {
		p.awaitPanic = false
		p.b.SetField("panic", strings.TrimSpace(ln.Text(p.file)))
		p.b.Extend(ln.Span)
		return true
	}
	return false
}

// matchPanicHeader lifts the failure location out of
// "thread 'NAME' panicked at FILE:LINE:COL:".
func (p *parser) matchPanicHeader(ln frontend.Line) bool {
	if ln.TextAt(0) != "thread" || ln.KindAt(1) != token.String ||
		ln.TextAt(2) != "panicked" || ln.TextAt(3) != "at" {
		return false
	}
	p.closeAssertion()
	p.b.SetField("thread", unquote(ln.TextAt(1)))
	if ln.KindAt(4) == token.Path {
		file, line, col := frontend.SplitLocation(ln.TextAt(4))
		p.setLocation(file, line, col)
	}
	p.b.Extend(ln.Span)
	p.awaitPanic = true
	return true
}

// matchAssertionHeader opens an Assertion at
// "assertion `left OP right` failed[: NOTE]".
func (p *parser) matchAssertionHeader(ln frontend.Line) bool {
	if ln.TextAt(0) != "assertion" || ln.KindAt(1) != token.String || ln.TextAt(2) != "failed" {
		return false
	}
	p.closeAssertion()
	p.awaitPanic = false
	p.b.Open(ast.NodeAssertion, ln.Span)
	p.inAssertion = true
	p.seenLeft, p.seenRight = false, false
	if op := assertionOp(unquote(ln.TextAt(1))); op != "" {
		p.b.SetField("op", op)
	}
	if ln.TextAt(3) == ":" {
		if note := strings.TrimSpace(ln.Rest(p.file, 4)); note != "" {
			p.b.SetField("note", note)
		}
	}
	return true
}

// matchAssertionSide captures one "left: VALUE" or "right: VALUE" line.
// The value is the raw slice after the colon, quoting and all.
func (p *parser) matchAssertionSide(ln frontend.Line) bool {
	side := ln.TextAt(0)
	if (side != "left" && side != "right") || ln.TextAt(1) != ":" {
		return false
	}
	p.b.SetField(side, ln.Rest(p.file, 2))
	p.b.Extend(ln.Span)
	if side == "left" {
		p.seenLeft = true
	} else {
		p.seenRight = true
	}
	if p.seenLeft && p.seenRight {
		p.closeAssertion()
	}
	return true
}

func (p *parser) matchBacktraceStart(ln frontend.Line) bool {
	if ln.TextAt(0) != "stack" || ln.TextAt(1) != "backtrace" || ln.TextAt(2) != ":" {
		return false
	}
	p.closeAssertion()
	p.inBacktrace = true
	p.b.Extend(ln.Span)
	return true
}

// matchFrame collects one "N: frame" backtrace line; "at FILE:LINE"
// continuations extend the section without adding frames.
func (p *parser) matchFrame(ln frontend.Line) bool {
	if ln.KindAt(0) == token.Int && ln.TextAt(1) == ":" && len(ln.Toks) >= 3 {
		p.frames = append(p.frames, strings.TrimSpace(ln.Rest(p.file, 2)))
		p.b.Extend(ln.Span)
		return true
	}
	if ln.TextAt(0) == "at" && len(ln.Toks) >= 2 {
		p.b.Extend(ln.Span)
		return true
	}
	p.inBacktrace = false
	return false
}

// matchDiagHeader opens a Diagnostic at "error[CODE]: MSG", "error: MSG"
// or "warning: MSG".
func (p *parser) matchDiagHeader(ln frontend.Line) bool {
	sev := ln.TextAt(0)
	if sev != "error" && sev != "warning" {
		return false
	}
	code := ""
	msgFrom := 0
	switch {
	case ln.TextAt(1) == ":":
		msgFrom = 2
	case ln.TextAt(1) == "[" && ln.KindAt(2) == token.Word && ln.TextAt(3) == "]" && ln.TextAt(4) == ":":
		code = ln.TextAt(2)
		msgFrom = 5
	default:
		return false
	}
	p.closeDiag()
	p.b.Open(ast.NodeDiagnostic, ln.Span)
	p.inDiag = true
	p.b.SetField("severity", sev)
	if code != "" {
		p.b.SetField("code", code)
	}
	p.b.SetField("msg", strings.TrimSpace(ln.Rest(p.file, msgFrom)))
	p.liftExpectedFound(ln)
	return true
}

// matchDiagDetail extends the open Diagnostic over its arrow, snippet, and
// note lines, lifting the location and any expected/found type pair.
func (p *parser) matchDiagDetail(ln frontend.Line) bool {
	switch {
	case ln.TextAt(0) == "--" && ln.TextAt(1) == ">" && ln.KindAt(2) == token.Path:
		if _, ok := p.b.Current().Field("file"); !ok {
			file, line, col := frontend.SplitLocation(ln.TextAt(2))
			p.setLocation(file, line, col)
		}
	case ln.TextAt(0) == "|":
	case ln.KindAt(0) == token.Int && ln.TextAt(1) == "|":
	case ln.TextAt(0) == "=":
	case (ln.TextAt(0) == "note" || ln.TextAt(0) == "help") && ln.TextAt(1) == ":":
	default:
		return false
	}
	p.liftExpectedFound(ln)
	p.b.Extend(ln.Span)
	return true
}

// liftExpectedFound scans a diagnostic line for the
// "expected `X`, found `Y`" pair rustc prints in snippet annotations.
func (p *parser) liftExpectedFound(ln frontend.Line) {
	if _, ok := p.b.Current().Field("expected"); ok {
		return
	}
	var exp, fnd string
	for i := 0; i+1 < len(ln.Toks); i++ {
		if ln.Toks[i].Kind != token.Word || ln.Toks[i+1].Kind != token.String {
			continue
		}
		switch ln.Toks[i].Text {
		case "expected":
			exp = unquote(ln.Toks[i+1].Text)
		case "found":
			fnd = unquote(ln.Toks[i+1].Text)
		}
	}
	if exp != "" && fnd != "" {
		p.b.SetField("expected", exp)
		p.b.SetField("found", fnd)
	}
}

// chatter records a line no grammar rule claimed.
func (p *parser) chatter(ln frontend.Line) {
	p.b.Leaf(ast.NodeUnstructured, ln.Span)
}

func (p *parser) finish() (*ast.Tree, *frontend.ParseError) {
	end, err := safecast.Conv[uint32](len(p.file.Content))
	if err != nil {
		panic(fmt.Errorf("capture length overflow: %w", err))
	}
	p.abandonSuite(p.file.Pos(end))
	tree := p.b.Finish()
	if p.perr != nil {
		p.perr.Partial = tree
	}
	return tree, p.perr
}

// abandonSuite force-closes a suite that never saw its result line and
// records the partial parse once.
func (p *parser) abandonSuite(pos source.Pos) {
	p.closeSection()
	p.closeDiag()
	if !p.inSuite {
		return
	}
	p.b.Close()
	p.inSuite = false
	if p.perr == nil {
		p.perr = &frontend.ParseError{
			Tool:   Tool,
			Reason: "test run ended without a result line",
			Pos:    pos,
		}
	}
}

func (p *parser) closeSection() {
	p.closeAssertion()
	if !p.inSection {
		return
	}
	// frames print innermost-first; the tree stores them outermost-first
	for i := len(p.frames) - 1; i >= 0; i-- {
		p.b.SetField("frame", p.frames[i])
	}
	p.frames = p.frames[:0]
	p.inBacktrace = false
	p.awaitPanic = false
	p.b.Close()
	p.inSection = false
}

func (p *parser) closeAssertion() {
	if !p.inAssertion {
		return
	}
	p.b.Close()
	p.inAssertion = false
}

func (p *parser) closeDiag() {
	if !p.inDiag {
		return
	}
	p.b.Close()
	p.inDiag = false
}

// setLocation stores file/line/col payload fields on the current node.
func (p *parser) setLocation(file string, line, col uint32) {
	if file == "" || line == 0 {
		return
	}
	p.b.SetField("file", file)
	p.b.SetField("line", strconv.FormatUint(uint64(line), 10))
	if col > 0 {
		p.b.SetField("col", strconv.FormatUint(uint64(col), 10))
	}
}

// normStatus maps cargo's status words onto the tree's pass/fail/skip
// vocabulary.
func normStatus(s string) string {
	switch s {
	case "ok":
		return "pass"
	case "FAILED":
		return "fail"
	case "ignored":
		return "skip"
	}
	return strings.ToLower(s)
}

// assertionOp extracts the comparison out of "left == right".
func assertionOp(cond string) string {
	fields := strings.Fields(cond)
	if len(fields) == 3 && fields[0] == "left" && fields[2] == "right" {
		return fields[1]
	}
	return ""
}

// unquote strips one layer of matching quotes the scanner keeps in token
// text.
func unquote(s string) string {
	if len(s) >= 2 {
		open := s[0]
		if (open == '\'' || open == '"' || open == '`') && s[len(s)-1] == open {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func isDashRun(tok token.Token) bool {
	return tok.Kind == token.Punct && len(tok.Text) >= 2 && strings.Trim(tok.Text, "-") == ""
}
