package ir

import "minic/internal/diag"

// SymbolTable maps declared identifiers to stack-slot IDs for a single
// function. Compound statements do not introduce their own scope, so this
// is a flat table owned by the function being lowered.
type SymbolTable struct {
	order []string
	index map[string]SlotID
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{index: make(map[string]SlotID)}
}

// Declare allocates a new dense slot for name. Returns Redeclared if name
// already has a slot.
func (s *SymbolTable) Declare(name string) (SlotID, error) {
	if _, exists := s.index[name]; exists {
		return 0, diag.New(diag.Redeclared, "%q already declared", name)
	}
	id := SlotID(len(s.order))
	s.order = append(s.order, name)
	s.index[name] = id
	return id, nil
}

// Lookup returns the slot for name, if declared.
func (s *SymbolTable) Lookup(name string) (SlotID, bool) {
	id, ok := s.index[name]
	return id, ok
}

// Len returns the number of declared slots (parameters plus locals).
func (s *SymbolTable) Len() int { return len(s.order) }

// Names returns the declared names in slot-index order, primarily for
// debug dumps.
func (s *SymbolTable) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
