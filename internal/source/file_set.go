package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet holds the captured outputs of one or more tool invocations and
// resolves byte offsets into line/column positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> latest id
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores an already-normalized capture, computes its line index and
// content hash, and returns a fresh FileID. Re-adding a path produces a new
// FileID; the index tracks the latest.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Normalize prepares raw captured bytes for lexing: strips a UTF-8 BOM,
// folds CRLF to LF, and removes ANSI escapes. The returned flags record
// which transformations fired.
func Normalize(raw []byte) ([]byte, FileFlags) {
	flags := FileFlags(0)
	content, hadBOM := removeBOM(raw)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadANSI := stripANSI(content)
	if hadANSI {
		flags |= FileHadANSI
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// Load reads a capture from disk, normalizes it, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(raw)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual normalizes and stores an in-memory capture (stdin, tests, API
// callers) under a synthetic name.
func (fileSet *FileSet) AddVirtual(name string, raw []byte) FileID {
	content, flags := Normalize(raw)
	return fileSet.Add(name, content, flags|FileVirtual)
}

// Get returns the capture for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// GetLatest returns the latest FileID recorded for path, if any.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Len reports how many captures the set holds.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Resolve converts a span into start and end line/column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// ResolvePos materializes the full position (line, column, byte offset)
// for a single offset inside a capture.
func (fileSet *FileSet) ResolvePos(id FileID, off uint32) Pos {
	f := fileSet.files[id]
	lc := toLineCol(f.LineIdx, off)
	return Pos{Line: lc.Line, Col: lc.Col, Offset: off}
}

// Pos materializes the full position for an offset inside this capture.
// Front ends use it to attach line:col detail to lex failures without
// threading the owning FileSet through.
func (f *File) Pos(off uint32) Pos {
	lc := toLineCol(f.LineIdx, off)
	return Pos{Line: lc.Line, Col: lc.Col, Offset: off}
}

// GetLine returns the 1-based line lineNum of the capture, without its
// trailing newline. Missing lines yield "".
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	var start, end, lenLineIdx, lenContent uint32
	var err error
	lenLineIdx, err = safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err = safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}

	return string(f.Content[start:end])
}
