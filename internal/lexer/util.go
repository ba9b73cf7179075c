package lexer

import (
	"unicode"
	"unicode/utf8"
)

const utf8RuneSelf = utf8.RuneSelf

// peekRune decodes the rune at the cursor without advancing.
func (sc *Scanner) peekRune() (r rune, size int) {
	if sc.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := sc.cursor.Peek()
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(sc.file.Content[sc.cursor.Off:])
}

// bumpRune advances the cursor past a rune of known size.
func (sc *Scanner) bumpRune(size int) {
	if size <= 0 {
		size = 1
	}
	sc.cursor.Off += uint32(size)
}

func isWordStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isWordContinueByte(b byte) bool {
	return isWordStartByte(b) || (b >= '0' && b <= '9')
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}
