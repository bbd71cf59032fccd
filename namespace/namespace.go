// Package namespace implements AVM2 namespace values and the relations the
// property resolver uses to compare them.
//
// A Namespace is a small immutable value. Public, package-internal,
// protected, explicit and static-protected namespaces compare structurally
// on their kind, name atom and (for public namespaces) API version. Private
// namespaces compare by an identity handle minted once per declaration.
//
// Namespace has no Equal method: callers choose between
// ExactVersionMatch and MatchesNS.
package namespace

import (
	"fmt"
	"sync/atomic"

	"github.com/chazu/avmns/apiversion"
	"github.com/chazu/avmns/atom"
)

// Kind identifies a namespace variant.
type Kind uint8

const (
	// KindAny is the wildcard; it is the zero Kind.
	KindAny Kind = iota
	// KindPublic covers both the ABC Namespace and Package tags.
	KindPublic
	KindPackageInternal
	KindProtected
	KindExplicit
	KindStaticProtected
	KindPrivate
)

var kindNames = [...]string{
	KindAny:             "Any",
	KindPublic:          "Namespace",
	KindPackageInternal: "PackageInternal",
	KindProtected:       "Protected",
	KindExplicit:        "Explicit",
	KindStaticProtected: "StaticProtected",
	KindPrivate:         "Private",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ---------------------------------------------------------------------------
// Namespace: Immutable namespace value
// ---------------------------------------------------------------------------

// Namespace is an AVM2 namespace. The zero value is the Any namespace.
type Namespace struct {
	kind    Kind
	name    atom.Atom
	version apiversion.Version // KindPublic only
	private uint64             // KindPrivate only; never 0
}

// privateSeq mints private namespace identities.
var privateSeq atomic.Uint64

// Any returns the wildcard namespace.
func Any() Namespace {
	return Namespace{}
}

// Package returns the public namespace for a package name at the given API
// version. The empty name is the default public namespace.
func Package(in *atom.Interner, name string, version apiversion.Version) Namespace {
	return Namespace{kind: KindPublic, name: in.Intern(name), version: version}
}

// Internal returns the package-internal namespace for a package name.
func Internal(in *atom.Interner, name string) Namespace {
	return Namespace{kind: KindPackageInternal, name: in.Intern(name)}
}

// FromParts builds a non-private namespace. The version is kept only for
// KindPublic. It panics for KindPrivate; use NewPrivate.
func FromParts(kind Kind, name atom.Atom, version apiversion.Version) Namespace {
	switch kind {
	case KindAny:
		return Namespace{}
	case KindPublic:
		return Namespace{kind: KindPublic, name: name, version: version}
	case KindPackageInternal, KindProtected, KindExplicit, KindStaticProtected:
		return Namespace{kind: kind, name: name}
	case KindPrivate:
		panic("namespace: FromParts cannot build a private namespace")
	}
	panic(fmt.Sprintf("namespace: unknown kind %d", kind))
}

// NewPrivate mints a private namespace with a fresh identity. Every call
// returns a namespace unequal to all others, whatever its name.
func NewPrivate(name atom.Atom) Namespace {
	return Namespace{kind: KindPrivate, name: name, private: privateSeq.Add(1)}
}

// Kind returns the namespace variant.
func (ns Namespace) Kind() Kind { return ns.kind }

// Name returns the name atom. It is the zero atom for Any.
func (ns Namespace) Name() atom.Atom { return ns.name }

// Version returns the API version of a public namespace.
func (ns Namespace) Version() (apiversion.Version, bool) {
	if ns.kind != KindPublic {
		return 0, false
	}
	return ns.version, true
}

// IsPublic reports whether ns is the default public namespace: public with
// an empty name.
func (ns Namespace) IsPublic() bool {
	return ns.kind == KindPublic && ns.name.IsEmpty()
}

// IsPublicIgnoringName reports whether ns is any public namespace, named
// package or not.
func (ns Namespace) IsPublicIgnoringName() bool {
	return ns.kind == KindPublic
}

// IsNamespace is IsPublicIgnoringName.
func (ns Namespace) IsNamespace() bool {
	return ns.kind == KindPublic
}

func (ns Namespace) IsAny() bool     { return ns.kind == KindAny }
func (ns Namespace) IsPrivate() bool { return ns.kind == KindPrivate }

// AsURIOpt returns the namespace name, or false for Any.
func (ns Namespace) AsURIOpt() (string, bool) {
	if ns.kind == KindAny {
		return "", false
	}
	return ns.name.String(), true
}

// AsURI returns the namespace name ignoring its kind; "" for Any.
func (ns Namespace) AsURI() string {
	uri, _ := ns.AsURIOpt()
	return uri
}

// String renders ns for logs and diagnostics.
func (ns Namespace) String() string {
	switch ns.kind {
	case KindAny:
		return "Any"
	case KindPublic:
		return fmt.Sprintf("Namespace(%q, %v)", ns.name.String(), ns.version)
	case KindPrivate:
		return fmt.Sprintf("Private(%q, #%d)", ns.name.String(), ns.private)
	}
	return fmt.Sprintf("%v(%q)", ns.kind, ns.name.String())
}
