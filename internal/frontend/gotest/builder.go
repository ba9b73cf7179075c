package gotest

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

// builder folds `go test` output into the structure tree. Lines it
// recognizes:
//
//	=== RUN|PAUSE|CONT|NAME TestName
//	--- PASS|FAIL|SKIP: TestName (0.01s)
//	FILE:LINE: message            (indented, inside a failing case)
//	panic: MSG / fatal error: MSG followed by a goroutine stack
//	# PKG                         (compiler diagnostics follow)
//	./FILE:LINE:COL: message
//	ok|FAIL PKG 0.12s | [build failed] | (cached)
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

// parser is the line-by-line state machine behind Build. At most one suite,
// one failing case or panic section under it, and one goroutine trace under
// that are open at a time. Subtest headers are flattened: nesting stays
// recoverable from the slash-joined names.
type parser struct {
	file *source.File
	b    *ast.Builder

	inSuite   bool
	named     bool // suite carries its package name already
	suiteName string
	inCase    bool
	inSection bool
	inTrace   bool
	traceDone bool // only the first goroutine block contributes frames
	lastUser  bool // last frame did not belong to runtime/testing plumbing
	lastFail  string
	frames    []string // innermost-first, as printed
	perr      *frontend.ParseError
}

func (p *parser) line(ln frontend.Line) {
	if ln.IsBlank() {
		p.closeCase()
		if p.inTrace {
			p.inTrace = false
			p.traceDone = true
		}
		return
	}
	if p.matchRunMarker(ln) || p.matchCaseHeader(ln) {
		return
	}
	if p.matchVerdict(ln) || p.matchTrailer(ln) {
		return
	}
	if p.matchPanic(ln) || p.matchFatal(ln) {
		return
	}
	if p.inSection && p.matchTraceLine(ln) {
		return
	}
	if p.matchPackageHeader(ln) {
		return
	}
	if p.inCase && p.matchCaseLog(ln) {
		return
	}
	if p.matchBuildDiag(ln) {
		return
	}
	p.chatter(ln)
}

// matchRunMarker consumes the "=== RUN TestName" progress markers. They
// prove a test run is in flight but carry no outcome, so they open the
// suite and stay unstructured.
func (p *parser) matchRunMarker(ln frontend.Line) bool {
	if !isEqRun(ln.At(0)) {
		return false
	}
	switch ln.TextAt(1) {
	case "RUN", "PAUSE", "CONT", "NAME":
	default:
		return false
	}
	p.closeCase()
	p.openSuite(ln)
	p.chatter(ln)
	return true
}

// matchCaseHeader records one "--- STATUS: NAME (0.01s)" line. A failing
// case stays open so its log lines attach to it; pass and skip close at
// once.
func (p *parser) matchCaseHeader(ln frontend.Line) bool {
	if !isDashRun(ln.At(0)) || ln.TextAt(2) != ":" || len(ln.Toks) < 4 {
		return false
	}
	var status string
	switch ln.TextAt(1) {
	case "PASS":
		status = "pass"
	case "FAIL":
		status = "fail"
	case "SKIP":
		status = "skip"
	case "BENCH":
		status = "bench"
	default:
		return false
	}
	p.closeCase()
	p.closeSection()
	p.openSuite(ln)
	name, elapsed := p.nameElapsed(ln)
	p.b.Open(ast.NodeCase, ln.Span)
	p.b.SetField("name", name)
	p.b.SetField("status", status)
	if elapsed != "" {
		p.b.SetField("elapsed", elapsed)
	}
	if status == "fail" {
		p.inCase = true
		p.lastFail = name
	} else {
		p.b.Close()
	}
	return true
}

// nameElapsed slices the case name and the parenthesized duration out of a
// header line. Auto-numbered subtest names span several tokens, so the name
// is recovered raw.
func (p *parser) nameElapsed(ln frontend.Line) (string, string) {
	n := len(ln.Toks)
	if n >= 8 && ln.TextAt(n-4) == "(" && ln.KindAt(n-3) == token.Float &&
		ln.TextAt(n-2) == "s" && ln.TextAt(n-1) == ")" {
		return ln.Slice(p.file, 3, n-5), ln.TextAt(n-3)
	}
	return ln.Slice(p.file, 3, n-1), ""
}

// matchVerdict consumes the bare PASS/FAIL verdict line printed before the
// package trailer.
func (p *parser) matchVerdict(ln frontend.Line) bool {
	if len(ln.Toks) != 1 || (ln.TextAt(0) != "PASS" && ln.TextAt(0) != "FAIL") {
		return false
	}
	p.closeCase()
	p.chatter(ln)
	return true
}

// matchTrailer closes the package block at "ok PKG 0.12s",
// "FAIL PKG [build failed]" or "ok PKG (cached)". A trailer for a package
// other than the open one records the open block as it stands and keeps the
// trailer as a childless suite.
func (p *parser) matchTrailer(ln frontend.Line) bool {
	res := ln.TextAt(0)
	if res != "ok" && res != "FAIL" {
		return false
	}
	if len(ln.Toks) < 3 || (ln.KindAt(1) != token.Word && ln.KindAt(1) != token.Path) {
		return false
	}
	switch {
	case ln.KindAt(2) == token.Float:
	case ln.TextAt(2) == "[":
	case ln.TextAt(2) == "(":
	default:
		return false
	}
	p.closeCase()
	p.closeSection()

	pkg := ln.TextAt(1)
	status := "pass"
	if res == "FAIL" {
		status = "fail"
	}
	note := ""
	if ln.TextAt(2) == "[" {
		note = strings.Trim(strings.TrimSpace(ln.Rest(p.file, 2)), "[]")
	}

	if p.inSuite && (!p.named || p.suiteName == pkg) {
		if !p.named {
			p.b.SetField("name", pkg)
		}
		p.b.SetField("result", status)
		if ln.KindAt(2) == token.Float {
			p.b.SetField("elapsed", ln.TextAt(2))
		}
		if note != "" {
			p.b.SetField("note", note)
		}
		p.b.Extend(ln.Span)
		p.endSuite()
		return true
	}

	p.endSuite()
	fields := []ast.Field{
		{Key: "name", Val: pkg},
		{Key: "result", Val: status},
	}
	if ln.KindAt(2) == token.Float {
		fields = append(fields, ast.Field{Key: "elapsed", Val: ln.TextAt(2)})
	}
	if note != "" {
		fields = append(fields, ast.Field{Key: "note", Val: note})
	}
	p.b.Leaf(ast.NodeSuite, ln.Span, fields...)
	return true
}

// matchPanic opens a Section at "panic: MSG". The testing runner reprints
// the panic once recovered, so a second header inside an open section only
// extends it.
func (p *parser) matchPanic(ln frontend.Line) bool {
	if ln.TextAt(0) != "panic" || ln.TextAt(1) != ":" || len(ln.Toks) < 3 {
		return false
	}
	if p.inSection {
		p.b.Extend(ln.Span)
		return true
	}
	msg := strings.TrimSuffix(strings.TrimSpace(ln.Rest(p.file, 2)), " [recovered]")
	p.openSection(ln, msg)
	return true
}

// matchFatal opens a Section at "fatal error: MSG" (deadlocks, concurrent
// map writes); the goroutine dump that follows reads the same as a panic's.
func (p *parser) matchFatal(ln frontend.Line) bool {
	if ln.TextAt(0) != "fatal" || ln.TextAt(1) != "error" || ln.TextAt(2) != ":" || len(ln.Toks) < 4 {
		return false
	}
	if p.inSection {
		p.b.Extend(ln.Span)
		return true
	}
	p.openSection(ln, strings.TrimSpace(ln.Rest(p.file, 3)))
	return true
}

func (p *parser) openSection(ln frontend.Line, msg string) {
	p.closeCase()
	p.b.Open(ast.NodeSection, ln.Span)
	p.inSection = true
	p.traceDone = false
	p.b.SetField("panic", msg)
	if p.lastFail != "" {
		p.b.SetField("case", p.lastFail)
	}
}

// matchTraceLine consumes the goroutine dump under an open section: the
// goroutine headers, the alternating frame and location lines, and the
// "created by" trailers. Frame names are unindented, their locations
// indented; only the first goroutine block contributes frames and the
// failure location.
func (p *parser) matchTraceLine(ln frontend.Line) bool {
	if ln.TextAt(0) == "goroutine" && ln.KindAt(1) == token.Int && ln.TextAt(2) == "[" {
		if !p.traceDone {
			p.inTrace = true
		}
		p.b.Extend(ln.Span)
		return true
	}
	if ln.TextAt(0) == "created" && ln.TextAt(1) == "by" {
		p.b.Extend(ln.Span)
		return true
	}
	if !p.inTrace {
		return false
	}
	if ln.Indent == "" && (ln.KindAt(0) == token.Word || ln.KindAt(0) == token.Path) {
		raw := strings.TrimSpace(ln.Text(p.file))
		i := strings.LastIndex(raw, "(")
		if i <= 0 || !strings.HasSuffix(raw, ")") {
			return false
		}
		name := raw[:i]
		p.frames = append(p.frames, name)
		p.lastUser = !plumbing(name)
		p.b.Extend(ln.Span)
		return true
	}
	if ln.Indent != "" && ln.KindAt(0) == token.Path {
		if file, line, col := frontend.SplitLocation(ln.TextAt(0)); line > 0 && p.lastUser {
			if _, ok := p.b.Current().Field("file"); !ok {
				p.setLocation(file, line, col)
			}
		}
		p.b.Extend(ln.Span)
		return true
	}
	return false
}

// matchPackageHeader starts a named suite at "# PKG". A header while an
// unnamed test block is still open means that block was cut off, which is
// a partial parse; a header after another header is the normal multi-package
// build-failure flow.
func (p *parser) matchPackageHeader(ln frontend.Line) bool {
	if ln.TextAt(0) != "#" || len(ln.Toks) < 2 {
		return false
	}
	if p.inSuite && !p.named {
		p.abandonSuite(p.file.Pos(ln.Span.Start))
	} else {
		p.endSuite()
	}
	name := strings.TrimSpace(ln.Rest(p.file, 1))
	p.b.Open(ast.NodeSuite, ln.Span)
	p.inSuite = true
	p.named = true
	p.suiteName = name
	p.b.SetField("name", name)
	return true
}

// matchCaseLog attaches one indented "FILE:LINE: message" log line to the
// open failing case. A got/want shaped message becomes an Assertion child;
// anything else stays as a log field, and the first location seen becomes
// the case's own.
func (p *parser) matchCaseLog(ln frontend.Line) bool {
	if ln.Indent == "" || ln.KindAt(0) != token.Path || ln.TextAt(1) != ":" {
		return false
	}
	file, line, _ := frontend.SplitLocation(ln.TextAt(0))
	if line == 0 {
		return false
	}
	msg := strings.TrimSpace(ln.Rest(p.file, 2))
	if want, got, ok := parseGotWant(msg); ok {
		p.b.Open(ast.NodeAssertion, ln.Span)
		p.b.SetField("want", want)
		p.b.SetField("got", got)
		p.setLocation(file, line, 0)
		p.b.Close()
		p.b.Extend(ln.Span)
		return true
	}
	if _, ok := p.b.Current().Field("file"); !ok {
		p.setLocation(file, line, 0)
	}
	p.b.SetField("log", msg)
	p.b.Extend(ln.Span)
	return true
}

// matchBuildDiag records one compiler or vet diagnostic:
// "./FILE:LINE:COL: MSG", "FILE:LINE: MSG" or "vet: FILE:LINE:COL: MSG".
// These never print indented, which keeps them apart from case logs.
func (p *parser) matchBuildDiag(ln frontend.Line) bool {
	if ln.Indent != "" || p.inSection {
		return false
	}
	var (
		file      string
		line, col uint32
		msgFrom   int
	)
	switch {
	case ln.TextAt(0) == "." && ln.KindAt(1) == token.Path && ln.TextAt(2) == ":":
		file, line, col = frontend.SplitLocation(ln.TextAt(1))
		file = strings.TrimPrefix("."+file, "./")
		msgFrom = 3
	case ln.KindAt(0) == token.Path && ln.TextAt(1) == ":":
		file, line, col = frontend.SplitLocation(ln.TextAt(0))
		msgFrom = 2
	case ln.TextAt(0) == "vet" && ln.TextAt(1) == ":" && ln.KindAt(2) == token.Path && ln.TextAt(3) == ":":
		file, line, col = frontend.SplitLocation(ln.TextAt(2))
		msgFrom = 4
	default:
		return false
	}
	if line == 0 || msgFrom >= len(ln.Toks) {
		return false
	}
	p.closeCase()
	p.openSuite(ln)
	p.b.Open(ast.NodeDiagnostic, ln.Span)
	p.b.SetField("severity", "error")
	p.b.SetField("msg", strings.TrimSpace(ln.Rest(p.file, msgFrom)))
	p.setLocation(file, line, col)
	p.b.Close()
	return true
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

// abandonSuite force-closes an unnamed suite that never saw its package
// result line and records the partial parse once. Named header suites end
// silently: their natural close is the next header or trailer.
func (p *parser) abandonSuite(pos source.Pos) {
	if p.inSuite && !p.named && p.perr == nil {
		p.perr = &frontend.ParseError{
			Tool:   Tool,
			Reason: "test run ended without a package result",
			Pos:    pos,
		}
	}
	p.endSuite()
}

func (p *parser) openSuite(ln frontend.Line) {
	if p.inSuite {
		return
	}
	p.b.Open(ast.NodeSuite, ln.Span)
	p.inSuite = true
}

func (p *parser) endSuite() {
	p.closeCase()
	p.closeSection()
	if !p.inSuite {
		return
	}
	p.b.Close()
	p.inSuite = false
	p.named = false
	p.suiteName = ""
	p.lastFail = ""
}

func (p *parser) closeCase() {
	if !p.inCase {
		return
	}
	p.b.Close()
	p.inCase = false
}

func (p *parser) closeSection() {
	if !p.inSection {
		return
	}
	// frames print innermost-first; the tree stores them outermost-first
	for i := len(p.frames) - 1; i >= 0; i-- {
		p.b.SetField("frame", p.frames[i])
	}
	p.frames = p.frames[:0]
	p.inTrace = false
	p.traceDone = false
	p.lastUser = false
	p.b.Close()
	p.inSection = false
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

// parseGotWant extracts the asserted pair out of the conventional failure
// messages: "got X, want Y", "Foo(...) = X, want Y", "expected Y, got X".
func parseGotWant(msg string) (want, got string, ok bool) {
	if rest, found := strings.CutPrefix(msg, "expected "); found {
		for _, sep := range []string{", got ", "; got "} {
			if w, g, found := strings.Cut(rest, sep); found {
				return w, g, true
			}
		}
	}
	for _, sep := range []string{", want ", "; want "} {
		i := strings.LastIndex(msg, sep)
		if i < 0 {
			continue
		}
		want = msg[i+len(sep):]
		head := msg[:i]
		if g, found := strings.CutPrefix(head, "got "); found {
			return want, g, true
		}
		if j := strings.LastIndex(head, " = "); j >= 0 {
			return want, head[j+len(" = "):], true
		}
		return want, head, true
	}
	return "", "", false
}

// plumbing reports whether a goroutine frame belongs to the runtime or the
// testing harness rather than to the code under test.
func plumbing(name string) bool {
	switch {
	case name == "panic" || name == "goexit":
		return true
	case strings.HasPrefix(name, "runtime."):
		return true
	case strings.HasPrefix(name, "runtime/"):
		return true
	case strings.HasPrefix(name, "testing."):
		return true
	}
	return false
}

func isDashRun(tok token.Token) bool {
	return tok.Kind == token.Punct && len(tok.Text) >= 2 && strings.Trim(tok.Text, "-") == ""
}

func isEqRun(tok token.Token) bool {
	return tok.Kind == token.Punct && len(tok.Text) >= 2 && strings.Trim(tok.Text, "=") == ""
}
