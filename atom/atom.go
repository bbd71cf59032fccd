// Package atom interns name strings into small comparable tokens.
//
// Every namespace and multiname in the VM refers to its name through an
// Atom. Two atoms obtained from the same Interner are equal exactly when
// their strings are equal, so name comparison on the hot matching path is a
// single pointer comparison instead of a string comparison.
package atom

import "sync"

// ---------------------------------------------------------------------------
// Atom: Canonical name token
// ---------------------------------------------------------------------------

// Atom is a canonical handle to an interned string.
// The zero Atom is not produced by any Interner and renders as "".
// Atoms from different interners never compare equal.
type Atom struct {
	e *entry
}

type entry struct {
	id   uint32
	name string
}

// String returns the interned string.
func (a Atom) String() string {
	if a.e == nil {
		return ""
	}
	return a.e.name
}

// ID returns the atom's position in its interner, or 0 for the zero Atom.
// IDs start at 1.
func (a Atom) ID() uint32 {
	if a.e == nil {
		return 0
	}
	return a.e.id
}

// IsEmpty reports whether the atom names the empty string.
func (a Atom) IsEmpty() bool {
	return a.e == nil || a.e.name == ""
}

// IsZero reports whether a was never interned.
func (a Atom) IsZero() bool {
	return a.e == nil
}

// ---------------------------------------------------------------------------
// Interner: Append-only string table
// ---------------------------------------------------------------------------

// Interner canonicalizes strings into atoms.
// The table is append-only and outlives every namespace built from it.
type Interner struct {
	mu     sync.RWMutex
	byName map[string]*entry // name -> entry
	byID   []*entry          // ID-1 -> entry
}

// NewInterner creates a new empty interner.
func NewInterner() *Interner {
	return &Interner{
		byName: make(map[string]*entry),
		byID:   make([]*entry, 0, 256),
	}
}

// Intern returns the atom for name, creating it if needed.
func (in *Interner) Intern(name string) Atom {
	// Fast path: read-only lookup
	in.mu.RLock()
	if e, ok := in.byName[name]; ok {
		in.mu.RUnlock()
		return Atom{e}
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()

	// Double-check after acquiring write lock
	if e, ok := in.byName[name]; ok {
		return Atom{e}
	}

	e := &entry{id: uint32(len(in.byID)) + 1, name: name}
	in.byName[name] = e
	in.byID = append(in.byID, e)
	return Atom{e}
}

// Lookup returns the atom for name without creating one.
func (in *Interner) Lookup(name string) (Atom, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	e, ok := in.byName[name]
	return Atom{e}, ok
}

// ByID returns the atom with the given ID, or false if out of range.
func (in *Interner) ByID(id uint32) (Atom, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()

	if id == 0 || int(id) > len(in.byID) {
		return Atom{}, false
	}
	return Atom{in.byID[id-1]}, true
}

// Len returns the number of interned strings.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byID)
}

// All returns all interned strings in ID order.
func (in *Interner) All() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()

	result := make([]string, len(in.byID))
	for i, e := range in.byID {
		result[i] = e.name
	}
	return result
}
