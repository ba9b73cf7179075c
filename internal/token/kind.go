package token

// Kind represents the category of a captured-output token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the captured input.
	EOF

	// Newline represents a line break. Line structure is significant in
	// every supported tool grammar, so breaks are tokens, not trivia.
	Newline
	// Indent represents the leading whitespace of a line.
	Indent
	// Word represents a bare run of identifier-like characters, including
	// qualified names such as tests::auth::expired or pkg.TestAuth.
	Word
	// Int represents an integer literal.
	Int
	// Float represents a floating-point literal.
	Float
	// String represents a quoted literal, quotes included.
	String
	// Path represents a file path, optionally with :line or :line:col
	// suffixes attached by the emitting tool.
	Path
	// Punct represents a single punctuation or operator character.
	Punct
	// Unstructured represents a span the grammar does not recognize.
	Unstructured
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Newline:
		return "Newline"
	case Indent:
		return "Indent"
	case Word:
		return "Word"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Path:
		return "Path"
	case Punct:
		return "Punct"
	case Unstructured:
		return "Unstructured"
	default:
		return "Unknown"
	}
}
