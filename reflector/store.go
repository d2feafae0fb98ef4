package reflector

import (
	"sync"

	"github.com/mago-php/mago-core/issue"
	"github.com/mago-php/mago-core/source"
)

// Store is the project-wide symbol table, built concurrently during the
// scan phase (spec §5: "each worker contributes its local symbol
// fragments to a shared reflection store protected by a concurrent map
// keyed by interned name") and read-only for the rest of the run once
// Freeze returns (spec §3's reflection-entry invariant).
type Store struct {
	mu        sync.RWMutex
	frozen    bool
	classes   map[string]*ClassLike
	functions map[string]*FunctionSymbol
	constants map[string]*ConstantSymbol
	// duplicates records every declaration that lost a name collision,
	// so the scan phase can turn them into diagnostics without aborting.
	duplicates []issue.Issue
}

// NewStore returns an empty, writable Store.
func NewStore() *Store {
	return &Store{
		classes:   make(map[string]*ClassLike),
		functions: make(map[string]*FunctionSymbol),
		constants: make(map[string]*ConstantSymbol),
	}
}

// AddClassLike registers c under its canonical name. A second declaration
// of the same name is recorded as a duplicate-declaration diagnostic and
// discarded; the first one wins (spec §4.5, "tolerant... duplicate
// declarations become diagnostics but do not abort the pass").
func (s *Store) AddClassLike(c *ClassLike) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panicIfFrozen()
	key := canonicalKey(c.Name)
	if existing, ok := s.classes[key]; ok {
		s.duplicates = append(s.duplicates, duplicateIssue(existing.Span, c.Span, c.Name))
		return
	}
	s.classes[key] = c
}

// AddFunction registers fn, following the same first-wins duplicate rule.
func (s *Store) AddFunction(fn *FunctionSymbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panicIfFrozen()
	key := canonicalKey(fn.Name)
	if existing, ok := s.functions[key]; ok {
		s.duplicates = append(s.duplicates, duplicateIssue(existing.Span, fn.Span, fn.Name))
		return
	}
	s.functions[key] = fn
}

// AddConstant registers c, following the same first-wins duplicate rule.
func (s *Store) AddConstant(c *ConstantSymbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panicIfFrozen()
	key := canonicalKey(c.Name)
	if existing, ok := s.constants[key]; ok {
		s.duplicates = append(s.duplicates, duplicateIssue(existing.Span, c.Span, c.Name))
		return
	}
	s.constants[key] = c
}

// Freeze marks the store read-only. Calling any Add* method afterward
// panics, matching the invariant that the reflection store never mutates
// after the scan phase completes.
func (s *Store) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

func (s *Store) panicIfFrozen() {
	if s.frozen {
		panic("reflector: Store written to after Freeze")
	}
}

// ClassLike looks up a class-like symbol by name; like every Store key,
// the lookup ignores ASCII case.
func (s *Store) ClassLike(name string) (*ClassLike, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.classes[canonicalKey(name)]
	return c, ok
}

// Function looks up a function symbol by canonical name.
func (s *Store) Function(name string) (*FunctionSymbol, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.functions[canonicalKey(name)]
	return fn, ok
}

// Constant looks up a constant symbol by canonical name.
func (s *Store) Constant(name string) (*ConstantSymbol, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.constants[canonicalKey(name)]
	return c, ok
}

// Duplicates returns every duplicate-declaration diagnostic accumulated
// while building the store.
func (s *Store) Duplicates() []issue.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]issue.Issue(nil), s.duplicates...)
}

// ResolveMember walks c's Extends/Uses edges (not Implements, which never
// contributes members) looking up parent chains in store, to find a
// property or method c itself doesn't declare. It tolerates dangling
// edges (spec §4.5): a parent that isn't in the store is simply not
// searched, the lookup just returns not-found.
func (s *Store) ResolveMember(c *ClassLike, name string) (prop *Property, method *Method, ok bool) {
	seen := make(map[string]bool)
	return s.resolveMember(c, name, seen)
}

func (s *Store) resolveMember(c *ClassLike, name string, seen map[string]bool) (*Property, *Method, bool) {
	if c == nil || seen[c.Name] {
		return nil, nil, false
	}
	seen[c.Name] = true
	if p, ok := c.Properties[name]; ok {
		return p, nil, true
	}
	if m, ok := c.Methods[name]; ok {
		return nil, m, true
	}
	for _, edge := range c.Uses {
		if trait, ok := s.ClassLike(edge.Name); ok {
			if p, m, ok := s.resolveMember(trait, name, seen); ok {
				return p, m, true
			}
		}
	}
	if c.Extends != nil {
		if parent, ok := s.ClassLike(c.Extends.Name); ok {
			return s.resolveMember(parent, name, seen)
		}
	}
	return nil, nil, false
}

func canonicalKey(name string) string {
	// PHP class-like and function names are case-insensitive, so keys are
	// ASCII-lowercased. Constant keys are lowercased as well, although
	// PHP constants are case-sensitive: two constants that differ only in
	// case share one key.
	return lowerASCII(name)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func duplicateIssue(first, second source.Span, name string) issue.Issue {
	return issue.New(issue.DuplicateDeclaration, second, "duplicate declaration of "+name).
		WithSecondary(first, "previously declared here")
}
