package index

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	lccerrors "github.com/standardbeagle/lcc/internal/errors"
	"github.com/standardbeagle/lcc/internal/types"
)

// Corpus snapshots are stored as TOML symbol tables:
//
//	[[symbol]]
//	name = "foo"
//	scope = "ns::"
//	kind = "function"
//	detail = "void"
//
// The format is line-diffable so corpus fixtures can live in version
// control next to the tests that use them.

type snapshotFile struct {
	Symbols []snapshotSymbol `toml:"symbol"`
}

type snapshotSymbol struct {
	Name          string `toml:"name"`
	Scope         string `toml:"scope,omitempty"`
	Kind          string `toml:"kind"`
	InsertText    string `toml:"insert_text,omitempty"`
	Label         string `toml:"label,omitempty"`
	Documentation string `toml:"documentation,omitempty"`
	Detail        string `toml:"detail,omitempty"`
}

// LoadSnapshot reads a corpus snapshot and returns it as a frozen Store
// tagged with static origin. On failure the caller keeps whatever snapshot
// it already holds; this function never returns a partial store.
func LoadSnapshot(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, lccerrors.NewSnapshotError("read", path, err)
	}
	var file snapshotFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, lccerrors.NewSnapshotError("parse", path, err)
	}

	b := NewBuilder(len(file.Symbols))
	for _, entry := range file.Symbols {
		sym := types.Symbol{
			ID:            types.MakeSymbolID(entry.Scope + entry.Name),
			Name:          entry.Name,
			Scope:         entry.Scope,
			Kind:          types.ParseKind(entry.Kind),
			InsertText:    entry.InsertText,
			Label:         entry.Label,
			Documentation: entry.Documentation,
			Detail:        entry.Detail,
			Origin:        types.OriginStatic,
		}
		b.Insert(sym)
	}
	return b.Build(), nil
}

// SaveSnapshot writes the store's symbols to a TOML snapshot file.
func SaveSnapshot(path string, store *Store) error {
	file := snapshotFile{Symbols: make([]snapshotSymbol, 0, store.Len())}
	for _, sym := range store.All() {
		entry := snapshotSymbol{
			Name:          sym.Name,
			Scope:         sym.Scope,
			Kind:          sym.Kind.String(),
			Documentation: sym.Documentation,
			Detail:        sym.Detail,
		}
		if sym.InsertText != sym.Name {
			entry.InsertText = sym.InsertText
		}
		if sym.Label != sym.Name {
			entry.Label = sym.Label
		}
		file.Symbols = append(file.Symbols, entry)
	}
	raw, err := toml.Marshal(file)
	if err != nil {
		return lccerrors.NewSnapshotError("encode", path, err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return lccerrors.NewSnapshotError("write", path, err)
	}
	return nil
}
