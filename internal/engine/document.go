package engine

import (
	"strings"
	"sync"

	"github.com/standardbeagle/lcc/internal/sema"
)

// documentStore holds the engine's open documents. Each entry keeps the last
// text snapshot and a monotonically increasing version used to discard stale
// dynamic-index rebuilds.
type documentStore struct {
	mu   sync.RWMutex
	docs map[string]sema.Document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]sema.Document)}
}

// put stores text for path and returns the snapshot with its new version.
func (s *documentStore) put(path, text string) sema.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := sema.Document{
		Path:    path,
		Version: s.docs[path].Version + 1,
		Text:    text,
	}
	s.docs[path] = doc
	return doc
}

func (s *documentStore) get(path string) (sema.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	return doc, ok
}

func (s *documentStore) remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// CursorContextAt derives the lexical completion context at offset by
// scanning backwards: first the identifier run being typed (the filter), then
// the construct immediately before it — a member-access operator, a scope
// qualifier chain, or nothing.
func CursorContextAt(text string, offset int) sema.CursorContext {
	start := offset
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	cur := sema.CursorContext{
		Filter: text[start:offset],
		Offset: offset,
	}

	switch {
	case start >= 1 && text[start-1] == '.':
		cur.Trigger = sema.TriggerMember
	case start >= 2 && text[start-2:start] == "->":
		cur.Trigger = sema.TriggerMember
	case start >= 2 && text[start-2:start] == "::":
		cur.Trigger = sema.TriggerQualified
		cur.Qualifier = qualifierBefore(text, start)
		cur.GlobalQualified = strings.HasPrefix(cur.Qualifier, "::")
	}
	return cur
}

// qualifierBefore extracts the scope chain ending at end, which must point
// just past a "::" token: for "a::b::fi^" it returns "a::b::", for "::fi^"
// it returns "::".
func qualifierBefore(text string, end int) string {
	p := end
	for {
		if p < 2 || text[p-2:p] != "::" {
			break
		}
		p -= 2
		for p > 0 && isIdentByte(text[p-1]) {
			p--
		}
	}
	return text[p:end]
}
