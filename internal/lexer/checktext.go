package lexer

import (
	"fmt"

	"fortio.org/safecast"
)

// checkTextSample bounds how far CheckText looks before deciding. Binary
// blobs betray themselves long before this.
const checkTextSample = 8 << 10

// CheckText decides whether normalized capture bytes are tokenizable text
// at all. A NUL byte anywhere, or a dense run of control bytes near the
// start, marks the capture as binary; ok=false comes with the offset and a
// short reason for the failure position.
//
// Unexpected but textual content always passes; tolerance for that lives
// in the token stream, not here.
func CheckText(content []byte) (offset uint32, reason string, ok bool) {
	sample := len(content)
	if sample > checkTextSample {
		sample = checkTextSample
	}

	suspects := 0
	firstSuspect := -1
	for i := 0; i < sample; i++ {
		b := content[i]
		if b == 0x00 {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("capture offset overflow: %w", err))
			}
			return off, "NUL byte", false
		}
		if b < 0x20 && b != '\n' && b != '\t' && b != '\r' {
			if firstSuspect < 0 {
				firstSuspect = i
			}
			suspects++
		}
	}
	if sample > 0 && suspects*8 > sample {
		off, err := safecast.Conv[uint32](firstSuspect)
		if err != nil {
			panic(fmt.Errorf("capture offset overflow: %w", err))
		}
		return off, "control-byte density", false
	}

	// NUL past the sample window still disqualifies: binary blobs often
	// open with a text-looking header
	for i := sample; i < len(content); i++ {
		if content[i] == 0x00 {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("capture offset overflow: %w", err))
			}
			return off, "NUL byte", false
		}
	}
	return 0, "", true
}
