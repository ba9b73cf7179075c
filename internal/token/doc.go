// Package token defines the shared lexical vocabulary for tool-output
// front ends.
// Invariants:
//   - Token.Text is a slice of the normalized capture (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Every front end emits the same Kind set; grammar differences live in
//     the front end's scanner, never in new kinds.
//   - Interior runs of spaces and tabs are skipped, not emitted; leading
//     whitespace on a line is emitted as a single Indent token so builders
//     can recover nesting.
//   - Content the grammar does not recognize is emitted as Unstructured,
//     never dropped and never a scan failure.
package token
