package avm

import (
	"fmt"

	"github.com/chazu/avmns/abc"
	"github.com/chazu/avmns/apiversion"
	"github.com/chazu/avmns/namespace"
	"github.com/chazu/avmns/versionmark"
)

// namespaceKind maps an ABC kind byte onto a namespace kind. Namespace and
// Package are both public.
func namespaceKind(k abc.NamespaceKind) (namespace.Kind, error) {
	switch k {
	case abc.KindNamespace, abc.KindPackage:
		return namespace.KindPublic, nil
	case abc.KindPackageInternal:
		return namespace.KindPackageInternal, nil
	case abc.KindProtected:
		return namespace.KindProtected, nil
	case abc.KindExplicit:
		return namespace.KindExplicit, nil
	case abc.KindStaticProtected:
		return namespace.KindStaticProtected, nil
	case abc.KindPrivate:
		return namespace.KindPrivate, nil
	}
	return 0, fmt.Errorf("%w: %#x", abc.ErrInvalidNamespaceKind, uint8(k))
}

// isVersionedURL reports whether a built-in public namespace without a mark
// is reserved for the VM's own lookups.
func isVersionedURL(name string) bool {
	return name == ""
}

// materialize builds the namespace for pool index idx. It mints a fresh
// identity for private namespaces on every call; PoolNamespace is the only
// caller.
func (tu *TranslationUnit) materialize(idx abc.Index) (namespace.Namespace, error) {
	if idx == 0 {
		return namespace.Any(), nil
	}

	entry, err := tu.pool.Namespace(idx)
	if err != nil {
		return namespace.Namespace{}, malformed(ErrUnknownNamespace, err)
	}
	kind, err := namespaceKind(entry.Kind)
	if err != nil {
		return namespace.Namespace{}, err
	}
	name, err := tu.PoolString(entry.Name)
	if err != nil {
		return namespace.Namespace{}, err
	}

	in := tu.rt.interner

	// Private namespaces don't get any of the version checks
	if kind == namespace.KindPrivate {
		return namespace.NewPrivate(in.Intern(name)), nil
	}

	isPublic := kind == namespace.KindPublic

	var version apiversion.Version
	if entry.Name != 0 {
		isPlayerGlobals := tu.domain.IsPlayerGlobals()

		version = apiversion.AllVersions
		stripped, marked, hasMark, err := versionmark.Strip(name)
		if err != nil {
			return namespace.Namespace{}, tu.rt.violation(err)
		}
		if hasMark {
			if !isPlayerGlobals {
				return namespace.Namespace{}, tu.rt.violation(
					fmt.Errorf("%w: %q in %v", ErrVersionMarkOutsideBuiltins, name, tu.domain))
			}
			name = stripped
			version = marked
		}

		if isPlayerGlobals {
			if !hasMark && isPublic && isVersionedURL(name) {
				version = apiversion.VMInternal
			}
		} else if isPublic {
			version = tu.apiVersion
		}
	} else {
		// avmplus walks the user call stack for the current API version.
		// Flash Player uses the root movie's version for every loaded
		// movie, so we do the same.
		version = tu.rt.RootAPIVersion()
	}

	return namespace.FromParts(kind, in.Intern(name), version), nil
}
