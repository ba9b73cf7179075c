package reportfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"drift/internal/source"
	"drift/internal/token"
)

// TokenOutput is one token for JSON output.
type TokenOutput struct {
	Kind  string     `json:"kind"`
	Text  string     `json:"text,omitempty"`
	Start source.Pos `json:"start"`
	End   source.Pos `json:"end"`
}

// FormatTokensPretty lists a capture's tokens one per line with their
// resolved positions.
func FormatTokensPretty(w io.Writer, file *source.File, toks []token.Token) error {
	for i, tok := range toks {
		start := file.Pos(tok.Span.Start)
		end := file.Pos(tok.Span.End)

		fmt.Fprintf(w, "%4d: %-12s", i, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", start.Line, start.Col, end.Line, end.Col)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON serializes a capture's tokens.
func FormatTokensJSON(w io.Writer, file *source.File, toks []token.Token) error {
	out := make([]TokenOutput, 0, len(toks))
	for _, tok := range toks {
		out = append(out, TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Start: file.Pos(tok.Span.Start),
			End:   file.Pos(tok.Span.End),
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
