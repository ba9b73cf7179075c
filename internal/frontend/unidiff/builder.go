package unidiff

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

// builder folds a unified diff into the structure tree. Lines it
// recognizes:
//
//	--- OLDPATH [TAB mtime]
//	+++ NEWPATH [TAB mtime]
//	@@ -START[,COUNT] +START[,COUNT] @@ [heading]
//	the marker-prefixed payload lines a hunk declares
//	diff ...                    (file boundary; git metadata stays chatter)
//
// A hunk's range counts decide how many payload lines follow, so payload
// that happens to look like a header is never misread. Everything else
// becomes Unstructured leaves.
type builder struct{}

func (builder) Build(file *source.File, toks []token.Token) (*ast.Tree, *frontend.ParseError) {
	p := &parser{file: file, b: ast.NewBuilder(file.ID, uint(len(toks)/8))}
	for _, ln := range frontend.SplitLines(toks) {
		p.line(ln)
	}
	return p.finish()
}

// parser is the line-by-line state machine behind Build. At most one
// file-pair suite and one hunk under it are open at a time; while the open
// hunk is owed payload lines, nothing else is matched.
type parser struct {
	file *source.File
	b    *ast.Builder

	inFile bool
	inHunk bool
	oldRem int // old-side payload lines still owed
	newRem int // new-side payload lines still owed

	oldPath    string
	oldPending bool // "---" seen, waiting for its "+++"
	oldSpan    source.Span

	perr *frontend.ParseError
}

func (p *parser) line(ln frontend.Line) {
	if p.inHunk && (p.oldRem > 0 || p.newRem > 0) {
		p.payload(ln)
		return
	}
	if p.inHunk && strings.HasPrefix(ln.Text(p.file), "\\") {
		// "\ No newline at end of file" after the hunk's last owed line
		p.b.Extend(ln.Span)
		return
	}
	if p.matchOldHeader(ln) || p.matchNewHeader(ln) {
		return
	}
	p.flushPendingOld()
	if p.matchHunkHeader(ln) {
		return
	}
	if p.matchFileBoundary(ln) {
		return
	}
	p.chatter(ln)
}

// payload consumes one line the open hunk is owed. The first raw byte is
// the marker; the rest is the line as it stands in the file.
func (p *parser) payload(ln frontend.Line) {
	raw := ln.Text(p.file)
	if raw == "" {
		// an empty context line, the trailing marker space trimmed away
		p.decBoth()
		p.b.Extend(ln.Span)
		return
	}
	switch raw[0] {
	case ' ':
		p.decBoth()
	case '-':
		p.b.SetField("del", raw[1:])
		p.oldRem--
	case '+':
		p.b.SetField("add", raw[1:])
		p.newRem--
	case '\\':
		// "\ No newline at end of file" counts toward neither side
	default:
		p.partial(ln, "hunk payload lost its marker")
		p.closeHunk()
		p.line(ln)
		return
	}
	p.b.Extend(ln.Span)
}

func (p *parser) decBoth() {
	if p.oldRem > 0 {
		p.oldRem--
	}
	if p.newRem > 0 {
		p.newRem--
	}
}

// matchOldHeader holds the "--- OLDPATH" line until its "+++" partner
// confirms a file pair. A pending header nothing confirms is chatter.
func (p *parser) matchOldHeader(ln frontend.Line) bool {
	if ln.TextAt(0) != "---" || len(ln.Toks) < 2 {
		return false
	}
	p.flushPendingOld()
	p.oldPath = stripTimestamp(strings.TrimSpace(ln.Rest(p.file, 1)))
	p.oldPending = true
	p.oldSpan = ln.Span
	return true
}

// matchNewHeader closes the previous file pair and opens the next at a
// "+++ NEWPATH" line following a held "---".
func (p *parser) matchNewHeader(ln frontend.Line) bool {
	if ln.TextAt(0) != "+++" || len(ln.Toks) < 2 || !p.oldPending {
		return false
	}
	newPath := stripTimestamp(strings.TrimSpace(ln.Rest(p.file, 1)))
	p.endFile()
	p.b.Open(ast.NodeSuite, p.oldSpan)
	p.b.Extend(ln.Span)
	p.inFile = true
	p.oldPending = false
	p.b.SetField("name", displayPath(p.oldPath, newPath))
	p.b.SetField("old", p.oldPath)
	p.b.SetField("new", newPath)
	return true
}

// matchHunkHeader opens a hunk at "@@ -START[,COUNT] +START[,COUNT] @@"
// and notes how many payload lines each side is owed. COUNT defaults to 1
// as the format allows.
func (p *parser) matchHunkHeader(ln frontend.Line) bool {
	if ln.TextAt(0) != "@@" || ln.TextAt(1) != "-" || ln.KindAt(2) != token.Int {
		return false
	}
	oldStart := ln.TextAt(2)
	oldCount, i := "1", 3
	if ln.TextAt(i) == "," && ln.KindAt(i+1) == token.Int {
		oldCount = ln.TextAt(i + 1)
		i += 2
	}
	if ln.TextAt(i) != "+" || ln.KindAt(i+1) != token.Int {
		return false
	}
	newStart := ln.TextAt(i + 1)
	newCount := "1"
	i += 2
	if ln.TextAt(i) == "," && ln.KindAt(i+1) == token.Int {
		newCount = ln.TextAt(i + 1)
		i += 2
	}
	if ln.TextAt(i) != "@@" {
		return false
	}
	if !p.inFile {
		p.partial(ln, "hunk before any file header")
		return false
	}

	p.closeHunk()
	p.b.Open(ast.NodeHunk, ln.Span)
	p.inHunk = true
	p.b.SetField("oldstart", oldStart)
	p.b.SetField("oldcount", oldCount)
	p.b.SetField("newstart", newStart)
	p.b.SetField("newcount", newCount)
	if i+1 < len(ln.Toks) {
		p.b.SetField("heading", strings.TrimSpace(ln.Rest(p.file, i+1)))
	}
	p.oldRem = atoi(oldCount)
	p.newRem = atoi(newCount)
	if p.oldRem == 0 && p.newRem == 0 {
		p.closeHunk()
	}
	return true
}

// matchFileBoundary closes the open file pair at git's "diff ..." line.
// The metadata lines that follow (index, modes, renames) stay chatter.
func (p *parser) matchFileBoundary(ln frontend.Line) bool {
	if ln.TextAt(0) != "diff" {
		return false
	}
	p.endFile()
	p.chatter(ln)
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
	if p.inHunk && (p.oldRem > 0 || p.newRem > 0) && p.perr == nil {
		p.perr = &frontend.ParseError{
			Tool:   Tool,
			Reason: "diff ended inside a hunk",
			Pos:    p.file.Pos(end),
		}
	}
	p.flushPendingOld()
	p.endFile()
	tree := p.b.Finish()
	if p.perr != nil {
		p.perr.Partial = tree
	}
	return tree, p.perr
}

func (p *parser) flushPendingOld() {
	if !p.oldPending {
		return
	}
	p.b.Leaf(ast.NodeUnstructured, p.oldSpan)
	p.oldPending = false
}

func (p *parser) closeHunk() {
	if !p.inHunk {
		return
	}
	p.b.Close()
	p.inHunk = false
	p.oldRem, p.newRem = 0, 0
}

func (p *parser) endFile() {
	p.closeHunk()
	if !p.inFile {
		return
	}
	p.b.Close()
	p.inFile = false
}

// partial records the first structural failure; parsing continues on a
// best-effort basis afterwards.
func (p *parser) partial(ln frontend.Line, reason string) {
	if p.perr != nil {
		return
	}
	p.perr = &frontend.ParseError{
		Tool:   Tool,
		Reason: reason,
		Pos:    p.file.Pos(ln.Span.Start),
	}
}

// stripTimestamp drops the modification time diff appends after a tab.
func stripTimestamp(s string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		return s[:i]
	}
	return s
}

// displayPath picks the post-change path for the record, falling back to
// the pre-change one for deletions, and strips the a/ and b/ prefixes
// git fabricates.
func displayPath(oldPath, newPath string) string {
	path := newPath
	if path == "/dev/null" {
		path = oldPath
	}
	for _, prefix := range []string{"a/", "b/"} {
		if rest, ok := strings.CutPrefix(path, prefix); ok {
			return rest
		}
	}
	return path
}

func atoi(s string) int {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0
	}
	return int(n)
}
