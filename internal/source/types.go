package source

import "fmt"

type (
	// FileID uniquely identifies one captured output within a FileSet.
	FileID uint32
	// FileFlags encodes normalization metadata for a captured output.
	FileFlags uint8
)

const (
	// FileVirtual indicates the capture was added from memory (stdin, test, API caller).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates a UTF-8 BOM was stripped during normalization.
	FileHadBOM
	// FileNormalizedCRLF indicates CRLF sequences were folded to LF.
	FileNormalizedCRLF
	// FileHadANSI indicates ANSI escape sequences were stripped.
	// Tool output captured from a TTY is routinely colorized.
	FileHadANSI
)

// File is one captured tool invocation's output, normalized for lexing.
type File struct {
	ID      FileID
	Path    string // origin path, or a synthetic name for virtual captures
	Content []byte
	LineIdx []uint32 // byte offsets of '\n', for line/col resolution
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable 1-based position inside a capture.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Pos is a fully resolved position: 1-based line/column plus the byte offset.
// Lex and parse failures carry a Pos so callers can point at the exact byte.
type Pos struct {
	Line   uint32 `json:"line"`
	Col    uint32 `json:"col"`
	Offset uint32 `json:"offset"`
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
