package index

import (
	"sync"

	"github.com/standardbeagle/lcc/internal/types"
)

// FileSet is the dynamic index: one frozen Store per open file, replaced
// atomically whenever that file is re-added. Writers follow
// single-writer-per-file semantics; readers grab the current set of frozen
// stores under a short read lock and then query lock-free, so an in-flight
// query always sees the snapshots that were current when it started.
type FileSet struct {
	mu    sync.RWMutex
	files map[string]fileEntry
}

type fileEntry struct {
	version int
	store   *Store
}

// NewFileSet creates an empty dynamic index.
func NewFileSet() *FileSet {
	return &FileSet{files: make(map[string]fileEntry)}
}

// Update replaces the file's contribution with a freshly frozen store built
// from symbols, reporting whether the swap happened. The version guard
// discards out-of-order updates from stale rebuilds: a swap only happens when
// version is not older than the current entry. Symbols are tagged with
// dynamic origin.
func (fs *FileSet) Update(path string, version int, symbols []types.Symbol) bool {
	b := NewBuilder(len(symbols))
	for _, sym := range symbols {
		sym.Origin = types.OriginDynamic
		b.Insert(sym)
	}
	store := b.Build()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if cur, ok := fs.files[path]; ok && cur.version > version {
		return false
	}
	fs.files[path] = fileEntry{version: version, store: store}
	return true
}

// Remove drops a file's contribution entirely.
func (fs *FileSet) Remove(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, path)
}

// Files reports how many files currently contribute symbols.
func (fs *FileSet) Files() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.files)
}

// Query implements Index. Results are unioned across files by ID; when two
// files declare the same qualified entity only one record is returned.
func (fs *FileSet) Query(q Query) []types.Symbol {
	fs.mu.RLock()
	stores := make([]*Store, 0, len(fs.files))
	for _, entry := range fs.files {
		stores = append(stores, entry.store)
	}
	fs.mu.RUnlock()

	var out []types.Symbol
	seen := make(map[types.SymbolID]struct{})
	for _, store := range stores {
		for _, sym := range store.Query(q) {
			if _, dup := seen[sym.ID]; dup {
				continue
			}
			seen[sym.ID] = struct{}{}
			out = append(out, sym)
		}
	}
	return out
}
