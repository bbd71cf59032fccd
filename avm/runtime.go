package avm

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/chazu/avmns/abc"
	"github.com/chazu/avmns/apiversion"
	"github.com/chazu/avmns/atom"
	"github.com/chazu/avmns/namespace"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("avmns.avm")
}

// Options configures a Runtime.
type Options struct {
	// PlayerRuntime selects the Flash Player or AIR API version track.
	PlayerRuntime apiversion.PlayerRuntime

	// RootSWFVersion fixes the root API version up front. When 0, the
	// first content unit loaded becomes the root movie.
	RootSWFVersion uint8

	// TrustedBuiltins panics on version mark invariant violations instead
	// of returning them as errors. Only enable it when every loaded unit
	// comes from the platform's own toolchain.
	TrustedBuiltins bool
}

// ---------------------------------------------------------------------------
// Runtime
// ---------------------------------------------------------------------------

// Runtime owns the state shared by every loaded translation unit.
type Runtime struct {
	interner      *atom.Interner
	playerGlobals *Domain
	playerRuntime apiversion.PlayerRuntime
	trusted       bool

	mu             sync.RWMutex
	rootAPIVersion apiversion.Version
	rootSet        bool
	domains        map[uuid.UUID]*Domain
}

// NewRuntime creates a runtime with an empty playerglobals domain.
func NewRuntime(opts Options) *Runtime {
	rt := &Runtime{
		interner:       atom.NewInterner(),
		playerGlobals:  newDomain("playerglobals", nil, true),
		playerRuntime:  opts.PlayerRuntime,
		trusted:        opts.TrustedBuiltins,
		rootAPIVersion: apiversion.AllVersions,
	}
	rt.domains = map[uuid.UUID]*Domain{rt.playerGlobals.id: rt.playerGlobals}
	if opts.RootSWFVersion != 0 {
		rt.rootAPIVersion = apiversion.FromSWFVersion(opts.RootSWFVersion, opts.PlayerRuntime)
		rt.rootSet = true
	}
	return rt
}

// Interner returns the runtime's name table.
func (rt *Runtime) Interner() *atom.Interner { return rt.interner }

// PlayerGlobals returns the built-in domain.
func (rt *Runtime) PlayerGlobals() *Domain { return rt.playerGlobals }

// PlayerRuntime returns the configured version track.
func (rt *Runtime) PlayerRuntime() apiversion.PlayerRuntime { return rt.playerRuntime }

// Trusted reports whether invariant violations panic.
func (rt *Runtime) Trusted() bool { return rt.trusted }

// NewDomain creates and registers a content domain under playerglobals.
func (rt *Runtime) NewDomain(name string) *Domain {
	d := newDomain(name, rt.playerGlobals, false)
	rt.mu.Lock()
	rt.domains[d.id] = d
	rt.mu.Unlock()
	return d
}

// LookupDomain returns the registered domain with the given ID.
func (rt *Runtime) LookupDomain(id uuid.UUID) (*Domain, bool) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	d, ok := rt.domains[id]
	return d, ok
}

// DomainCount returns the number of registered domains, playerglobals
// included.
func (rt *Runtime) DomainCount() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.domains)
}

// RootAPIVersion returns the API version of the root movie. It is used for
// every default public namespace, whichever unit declares it.
func (rt *Runtime) RootAPIVersion() apiversion.Version {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.rootAPIVersion
}

// SetRootAPIVersion overrides the root API version.
func (rt *Runtime) SetRootAPIVersion(v apiversion.Version) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.rootAPIVersion = v
	rt.rootSet = true
}

// APIVersionForSWF maps a SWF version onto the runtime's version track.
func (rt *Runtime) APIVersionForSWF(swf uint8) apiversion.Version {
	return apiversion.FromSWFVersion(swf, rt.playerRuntime)
}

// LoadBuiltins loads a built-in constant pool into playerglobals.
func (rt *Runtime) LoadBuiltins(pool *abc.ConstantPool) *TranslationUnit {
	return newTranslationUnit(rt, rt.playerGlobals, pool, apiversion.AllVersions)
}

// LoadContent loads a content constant pool compiled for swfVersion into
// domain. The first content unit loaded fixes the root API version unless
// Options.RootSWFVersion already did.
func (rt *Runtime) LoadContent(pool *abc.ConstantPool, domain *Domain, swfVersion uint8) *TranslationUnit {
	version := rt.APIVersionForSWF(swfVersion)

	rt.mu.Lock()
	if !rt.rootSet {
		rt.rootAPIVersion = version
		rt.rootSet = true
		logger().Infof("root API version set to %v from SWF %d", version, swfVersion)
	}
	rt.mu.Unlock()

	return newTranslationUnit(rt, domain, pool, version)
}

// Package builds a public namespace named by a built-in package.
func (rt *Runtime) Package(name string, version apiversion.Version) namespace.Namespace {
	return namespace.Package(rt.interner, name, version)
}

// Internal builds a package-internal namespace.
func (rt *Runtime) Internal(name string) namespace.Namespace {
	return namespace.Internal(rt.interner, name)
}

// violation reports an invariant violation, panicking in trusted mode.
func (rt *Runtime) violation(err error) error {
	if rt.trusted {
		panic(err)
	}
	return err
}
