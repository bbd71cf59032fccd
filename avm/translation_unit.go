package avm

import (
	"sync"

	"github.com/chazu/avmns/abc"
	"github.com/chazu/avmns/apiversion"
	"github.com/chazu/avmns/namespace"
)

// resolved is one namespace cache slot.
type resolved struct {
	ns   namespace.Namespace
	err  error
	done bool
}

// TranslationUnit is one loaded ABC constant pool.
//
// Namespaces are resolved lazily and cached per pool index, so a private
// namespace declaration always yields the same identity and every failure
// is reported once.
type TranslationUnit struct {
	rt         *Runtime
	domain     *Domain
	pool       *abc.ConstantPool
	apiVersion apiversion.Version

	mu         sync.RWMutex
	namespaces []resolved // indexed by pool index, including 0
}

func newTranslationUnit(rt *Runtime, domain *Domain, pool *abc.ConstantPool, version apiversion.Version) *TranslationUnit {
	return &TranslationUnit{
		rt:         rt,
		domain:     domain,
		pool:       pool,
		apiVersion: version,
		namespaces: make([]resolved, pool.NamespaceCount()),
	}
}

// Domain returns the domain the unit was loaded into.
func (tu *TranslationUnit) Domain() *Domain { return tu.domain }

// Pool returns the unit's constant pool.
func (tu *TranslationUnit) Pool() *abc.ConstantPool { return tu.pool }

// APIVersion returns the unit's declared API version.
func (tu *TranslationUnit) APIVersion() apiversion.Version { return tu.apiVersion }

// PoolString returns pool string idx.
func (tu *TranslationUnit) PoolString(idx abc.Index) (string, error) {
	s, err := tu.pool.String(idx)
	if err != nil {
		return "", malformed(ErrUnknownString, err)
	}
	return s, nil
}

// PoolNamespace resolves pool namespace idx. Index 0 is Any.
func (tu *TranslationUnit) PoolNamespace(idx abc.Index) (namespace.Namespace, error) {
	if int(idx) >= len(tu.namespaces) {
		_, err := tu.pool.Namespace(idx)
		rerr := &ResolveError{Index: idx, Err: malformed(ErrUnknownNamespace, err)}
		logger().Warningf("%v", rerr)
		return namespace.Namespace{}, rerr
	}

	tu.mu.RLock()
	r := tu.namespaces[idx]
	tu.mu.RUnlock()
	if r.done {
		return r.ns, r.err
	}

	tu.mu.Lock()
	defer tu.mu.Unlock()

	// Double-check after acquiring write lock
	if r := tu.namespaces[idx]; r.done {
		return r.ns, r.err
	}

	ns, err := tu.materialize(idx)
	if err != nil {
		err = &ResolveError{Index: idx, Err: err}
		logger().Warningf("%v", err)
	} else {
		logger().Debugf("namespace constant %d resolved to %v", idx, ns)
	}
	tu.namespaces[idx] = resolved{ns: ns, err: err, done: true}
	return ns, err
}

// Namespaces resolves the whole namespace table, index 0 included. It stops
// at the first failure.
func (tu *TranslationUnit) Namespaces() ([]namespace.Namespace, error) {
	out := make([]namespace.Namespace, len(tu.namespaces))
	for i := range out {
		ns, err := tu.PoolNamespace(abc.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = ns
	}
	return out, nil
}
