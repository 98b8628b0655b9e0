package transform

// Scope is the set of identifiers introduced by enclosing template
// constructs (v-for variables, slot parameters). The same name may be
// introduced at several nesting levels, so entries are counted.
type Scope struct {
	idents map[string]int
}

// NewScope returns an empty scope.
func NewScope() Scope {
	return Scope{idents: make(map[string]int)}
}

// Add registers one in-reach identifier.
func (s *Scope) Add(name string) {
	s.idents[name]++
}

// Remove unregisters one occurrence of an identifier.
func (s *Scope) Remove(name string) {
	n, ok := s.idents[name]
	if !ok {
		return
	}
	if n <= 1 {
		delete(s.idents, name)
		return
	}
	s.idents[name] = n - 1
}

// Has reports whether name is currently in reach.
func (s *Scope) Has(name string) bool {
	_, ok := s.idents[name]
	return ok
}
