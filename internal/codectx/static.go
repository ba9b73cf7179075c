package codectx

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"

	"drift/internal/ir"
)

// Static is a provider backed by a TOML table, loaded once. It serves CLI
// runs where a project index is precomputed, and doubles as a deterministic
// provider for exercising resolver enrichment.
type Static struct {
	symbols map[string]Symbol
	renames map[string]Rename
}

type staticFile struct {
	Symbols []staticSymbol `toml:"symbol"`
	Renames []staticRename `toml:"rename"`
}

type staticSymbol struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	File string `toml:"file"`
	Line uint32 `toml:"line"`
	Col  uint32 `toml:"col"`
}

type staticRename struct {
	Old  string `toml:"old"`
	New  string `toml:"new"`
	File string `toml:"file"`
	Line uint32 `toml:"line"`
}

// LoadStatic reads a [[symbol]]/[[rename]] table file.
func LoadStatic(path string) (*Static, error) {
	var cfg staticFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return newStatic(cfg), nil
}

// ParseStatic reads the same table format from memory.
func ParseStatic(data []byte) (*Static, error) {
	var cfg staticFile
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return newStatic(cfg), nil
}

func newStatic(cfg staticFile) *Static {
	s := &Static{
		symbols: make(map[string]Symbol, len(cfg.Symbols)),
		renames: make(map[string]Rename, len(cfg.Renames)),
	}
	for _, sym := range cfg.Symbols {
		s.symbols[sym.Name] = Symbol{
			Name:         sym.Name,
			DeclaredType: sym.Type,
			DeclaredAt:   ir.Location{File: sym.File, Line: sym.Line, Col: sym.Col},
		}
	}
	for _, ren := range cfg.Renames {
		// keyed by the old name: resolvers ask about the name the tool
		// still prints
		s.renames[ren.Old] = Rename{
			OldName:  ren.Old,
			NewName:  ren.New,
			Location: ir.Location{File: ren.File, Line: ren.Line},
		}
	}
	return s
}

// LookupSymbol implements Provider.
func (s *Static) LookupSymbol(_ context.Context, name string, _ ir.Location) (Symbol, bool, error) {
	sym, ok := s.symbols[name]
	return sym, ok, nil
}

// FindRecentRename implements Provider.
func (s *Static) FindRecentRename(_ context.Context, name string) (Rename, bool, error) {
	ren, ok := s.renames[name]
	return ren, ok, nil
}
