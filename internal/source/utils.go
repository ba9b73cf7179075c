package source

import (
	"path/filepath"
	"slices"
)

// normalizeCRLF folds every \r\n into \n, leaving lone \r intact.
// Returns the new slice and whether anything changed.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// stripANSI removes ANSI CSI/OSC escape sequences (colors, cursor movement)
// from captured output. Test runners and build tools emit them when they
// believe stdout is a TTY; they carry no structural information.
func stripANSI(content []byte) ([]byte, bool) {
	if !slices.Contains(content, 0x1b) {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] != 0x1b {
			out = append(out, content[i])
			i++
			continue
		}
		changed = true
		if i+1 >= len(content) {
			// truncated escape at end of capture
			break
		}
		switch content[i+1] {
		case '[': // CSI: ESC [ params... final-byte in 0x40..0x7e
			j := i + 2
			for j < len(content) && (content[j] < 0x40 || content[j] > 0x7e) {
				j++
			}
			if j < len(content) {
				j++
			}
			i = j
		case ']': // OSC: ESC ] ... terminated by BEL or ESC \
			j := i + 2
			for j < len(content) {
				if content[j] == 0x07 {
					j++
					break
				}
				if content[j] == 0x1b && j+1 < len(content) && content[j+1] == '\\' {
					j += 2
					break
				}
				j++
			}
			i = j
		default: // two-byte escape
			i += 2
		}
	}
	return out, changed
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// An empty index means the whole capture is one line.
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// Binary search for the largest lineIdx[i] <= off.
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi // 0-based line index

	if line < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	var startOff uint32
	if line == 0 {
		startOff = 0
	} else {
		startOff = lineIdx[line-1] + 1
	}
	if lineIdx[line] < off {
		startOff = lineIdx[line] + 1
		line++
	}

	return LineCol{Line: uint32(line + 1), Col: off - startOff + 1}
}

func normalizePath(p string) string {
	// One canonical form so captured paths compare across platforms.
	return filepath.ToSlash(filepath.Clean(p))
}
