// Package abc models the parts of an ABC constant pool that namespaces are
// built from: the string table and the namespace table.
//
// Both tables are 1-indexed. Index 0 of the string table is the empty
// string; index 0 of the namespace table is the wildcard namespace.
package abc

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Pool Error Types
// ---------------------------------------------------------------------------

var (
	ErrUnexpectedEOF         = errors.New("unexpected end of constant pool data")
	ErrU30Overflow           = errors.New("u30 value out of range")
	ErrInvalidStringIndex    = errors.New("invalid string index")
	ErrInvalidNamespaceIndex = errors.New("invalid namespace index")
	ErrInvalidNamespaceKind  = errors.New("invalid namespace kind")
)

// Index is a 1-based constant pool index.
type Index uint32

// NamespaceKind is the kind byte of a namespace_info entry.
type NamespaceKind uint8

const (
	KindPrivate         NamespaceKind = 0x05
	KindNamespace       NamespaceKind = 0x08
	KindPackage         NamespaceKind = 0x16
	KindPackageInternal NamespaceKind = 0x17
	KindProtected       NamespaceKind = 0x18
	KindExplicit        NamespaceKind = 0x19
	KindStaticProtected NamespaceKind = 0x1A
)

// Valid reports whether k is one of the seven defined kind bytes.
func (k NamespaceKind) Valid() bool {
	switch k {
	case KindPrivate, KindNamespace, KindPackage, KindPackageInternal,
		KindProtected, KindExplicit, KindStaticProtected:
		return true
	}
	return false
}

// IsPublic reports whether k is Namespace or Package, the two public tags.
func (k NamespaceKind) IsPublic() bool {
	return k == KindNamespace || k == KindPackage
}

func (k NamespaceKind) String() string {
	switch k {
	case KindPrivate:
		return "Private"
	case KindNamespace:
		return "Namespace"
	case KindPackage:
		return "Package"
	case KindPackageInternal:
		return "PackageInternal"
	case KindProtected:
		return "Protected"
	case KindExplicit:
		return "Explicit"
	case KindStaticProtected:
		return "StaticProtected"
	}
	return fmt.Sprintf("NamespaceKind(%#x)", uint8(k))
}

// NamespaceEntry is a raw namespace_info: a kind and a string index.
type NamespaceEntry struct {
	Kind NamespaceKind `cbor:"1,keyasint"`
	Name Index         `cbor:"2,keyasint"`
}

// ---------------------------------------------------------------------------
// ConstantPool
// ---------------------------------------------------------------------------

// ConstantPool holds the string and namespace tables of one ABC file.
// Strings[i] is pool string i+1; Namespaces[i] is pool namespace i+1.
type ConstantPool struct {
	Strings    []string         `cbor:"1,keyasint"`
	Namespaces []NamespaceEntry `cbor:"2,keyasint"`
}

// String returns pool string idx. Index 0 is the empty string.
func (p *ConstantPool) String(idx Index) (string, error) {
	if idx == 0 {
		return "", nil
	}
	if int(idx) > len(p.Strings) {
		return "", fmt.Errorf("%w: %d (pool has %d)", ErrInvalidStringIndex, idx, len(p.Strings))
	}
	return p.Strings[idx-1], nil
}

// Namespace returns the raw namespace entry idx. Index 0 has no entry.
func (p *ConstantPool) Namespace(idx Index) (NamespaceEntry, error) {
	if idx == 0 || int(idx) > len(p.Namespaces) {
		return NamespaceEntry{}, fmt.Errorf("%w: %d (pool has %d)", ErrInvalidNamespaceIndex, idx, len(p.Namespaces))
	}
	return p.Namespaces[idx-1], nil
}

// AddString appends s and returns its index.
func (p *ConstantPool) AddString(s string) Index {
	p.Strings = append(p.Strings, s)
	return Index(len(p.Strings))
}

// AddNamespace appends a namespace entry and returns its index.
func (p *ConstantPool) AddNamespace(kind NamespaceKind, name Index) Index {
	p.Namespaces = append(p.Namespaces, NamespaceEntry{Kind: kind, Name: name})
	return Index(len(p.Namespaces))
}

// NamespaceCount returns the number of namespace indices including the
// reserved index 0.
func (p *ConstantPool) NamespaceCount() int {
	return len(p.Namespaces) + 1
}
