package avm

import (
	"errors"
	"testing"

	"github.com/chazu/avmns/abc"
	"github.com/chazu/avmns/apiversion"
	"github.com/chazu/avmns/namespace"
	"github.com/chazu/avmns/versionmark"
)

// entry is a (kind, name) pair for poolWith.
type entry struct {
	kind abc.NamespaceKind
	name string
}

// poolWith builds a pool where namespace i+1 is entries[i].
func poolWith(entries ...entry) *abc.ConstantPool {
	p := &abc.ConstantPool{}
	for _, e := range entries {
		p.AddNamespace(e.kind, p.AddString(e.name))
	}
	return p
}

func mustResolve(t *testing.T, tu *TranslationUnit, idx abc.Index) namespace.Namespace {
	t.Helper()
	ns, err := tu.PoolNamespace(idx)
	if err != nil {
		t.Fatalf("PoolNamespace(%d) failed: %v", idx, err)
	}
	return ns
}

func wantPublic(t *testing.T, ns namespace.Namespace, name string, version apiversion.Version) {
	t.Helper()
	if !ns.IsPublicIgnoringName() {
		t.Fatalf("got %v, want a public namespace", ns)
	}
	if ns.AsURI() != name {
		t.Errorf("name = %q, want %q", ns.AsURI(), name)
	}
	if v, _ := ns.Version(); v != version {
		t.Errorf("version = %v, want %v", v, version)
	}
}

func TestIndexZeroIsAny(t *testing.T) {
	rt := NewRuntime(Options{})
	pool := poolWith(entry{abc.KindPrivate, "x"}, entry{abc.KindNamespace, "y"})

	units := []*TranslationUnit{
		rt.LoadBuiltins(pool),
		rt.LoadContent(pool, rt.NewDomain("content"), 16),
		rt.LoadContent(&abc.ConstantPool{}, rt.NewDomain("empty"), 9),
	}
	for _, tu := range units {
		ns := mustResolve(t, tu, 0)
		if !ns.IsAny() {
			t.Errorf("index 0 in %v resolved to %v, want Any", tu.Domain(), ns)
		}
	}
}

func TestBuiltinEmptyPublicIsVMInternal(t *testing.T) {
	rt := NewRuntime(Options{RootSWFVersion: 16})
	tu := rt.LoadBuiltins(poolWith(
		entry{abc.KindNamespace, ""},
		entry{abc.KindNamespace, versionmark.EncodeAllVersions("")},
		entry{abc.KindPackage, ""},
	))

	unmarked := mustResolve(t, tu, 1)
	wantPublic(t, unmarked, "", apiversion.VMInternal)

	marked := mustResolve(t, tu, 2)
	wantPublic(t, marked, "", apiversion.AllVersions)

	if unmarked.ExactVersionMatch(marked) {
		t.Error("VM_INTERNAL and AllVersions empty namespaces must differ")
	}
	if !unmarked.IsPublic() || !marked.IsPublic() {
		t.Error("Both should still be the default public namespace by kind and name")
	}

	// The Package tag is public too.
	wantPublic(t, mustResolve(t, tu, 3), "", apiversion.VMInternal)
}

func TestBuiltinMarkedNames(t *testing.T) {
	rt := NewRuntime(Options{})
	tu := rt.LoadBuiltins(poolWith(
		entry{abc.KindPackage, versionmark.Encode("flash.display", apiversion.SWF16)},
		entry{abc.KindPackage, "flash.events"},
		entry{abc.KindPackageInternal, versionmark.Encode("flash.display", apiversion.SWF16)},
		entry{abc.KindProtected, "flash.display:Sprite"},
		entry{abc.KindNamespace, versionmark.Encode("", apiversion.SWF12)},
	))

	wantPublic(t, mustResolve(t, tu, 1), "flash.display", apiversion.SWF16)
	wantPublic(t, mustResolve(t, tu, 2), "flash.events", apiversion.AllVersions)
	wantPublic(t, mustResolve(t, tu, 5), "", apiversion.SWF12)

	internal := mustResolve(t, tu, 3)
	if internal.Kind() != namespace.KindPackageInternal || internal.AsURI() != "flash.display" {
		t.Errorf("got %v, want PackageInternal(flash.display)", internal)
	}
	if !internal.ExactVersionMatch(rt.Internal("flash.display")) {
		t.Error("Marked internal namespace should equal an unmarked bootstrap one")
	}

	protected := mustResolve(t, tu, 4)
	if protected.Kind() != namespace.KindProtected {
		t.Errorf("got %v, want Protected", protected)
	}
}

func TestContentNamespaceVersions(t *testing.T) {
	rt := NewRuntime(Options{RootSWFVersion: 32})
	tu := rt.LoadContent(poolWith(
		entry{abc.KindNamespace, ""},
		entry{abc.KindPackage, "flash.display"},
		entry{abc.KindPackageInternal, "com.example"},
	), rt.NewDomain("content"), 12)

	if tu.APIVersion() != apiversion.SWF12 {
		t.Fatalf("unit version = %v, want SWF_12", tu.APIVersion())
	}

	// Property: no marker and non-built-in domain uses the unit's version.
	wantPublic(t, mustResolve(t, tu, 1), "", apiversion.SWF12)
	wantPublic(t, mustResolve(t, tu, 2), "flash.display", apiversion.SWF12)

	internal := mustResolve(t, tu, 3)
	if _, ok := internal.Version(); ok || internal.Kind() != namespace.KindPackageInternal {
		t.Errorf("got %v, want unversioned PackageInternal", internal)
	}
}

func TestDefaultNamespaceUsesRootVersion(t *testing.T) {
	rt := NewRuntime(Options{})
	pool := &abc.ConstantPool{}
	pool.AddNamespace(abc.KindNamespace, 0)
	pool.AddNamespace(abc.KindPackageInternal, 0)

	root := rt.LoadContent(pool, rt.NewDomain("root"), 20)
	if rt.RootAPIVersion() != apiversion.SWF20 {
		t.Fatalf("root version = %v, want SWF_20", rt.RootAPIVersion())
	}

	// A later, older movie still gets the root version for string index 0.
	child := rt.LoadContent(pool, rt.NewDomain("child"), 11)
	if rt.RootAPIVersion() != apiversion.SWF20 {
		t.Errorf("loading a second movie changed the root version to %v", rt.RootAPIVersion())
	}

	builtins := rt.LoadBuiltins(pool)

	for _, tu := range []*TranslationUnit{root, child, builtins} {
		wantPublic(t, mustResolve(t, tu, 1), "", apiversion.SWF20)
		if ns := mustResolve(t, tu, 2); ns.Kind() != namespace.KindPackageInternal || ns.AsURI() != "" {
			t.Errorf("got %v, want PackageInternal(\"\")", ns)
		}
	}
}

func TestSetRootAPIVersion(t *testing.T) {
	rt := NewRuntime(Options{})
	rt.SetRootAPIVersion(apiversion.SWF14)

	pool := &abc.ConstantPool{}
	pool.AddNamespace(abc.KindPackage, 0)
	tu := rt.LoadContent(pool, rt.NewDomain("content"), 30)

	if rt.RootAPIVersion() != apiversion.SWF14 {
		t.Errorf("root version = %v, want SWF_14", rt.RootAPIVersion())
	}
	wantPublic(t, mustResolve(t, tu, 1), "", apiversion.SWF14)
}

func TestAIRTrack(t *testing.T) {
	rt := NewRuntime(Options{PlayerRuntime: apiversion.AIR})
	tu := rt.LoadContent(poolWith(entry{abc.KindPackage, "air.net"}), rt.NewDomain("app"), 13)

	wantPublic(t, mustResolve(t, tu, 1), "air.net", apiversion.AIR3_0)
	if rt.PlayerRuntime() != apiversion.AIR {
		t.Errorf("PlayerRuntime = %v", rt.PlayerRuntime())
	}
}

func TestNewestAIRContentCannotSeeVMInternal(t *testing.T) {
	rt := NewRuntime(Options{PlayerRuntime: apiversion.AIR})
	builtin := mustResolve(t, rt.LoadBuiltins(poolWith(entry{abc.KindNamespace, ""})), 1)

	for _, swf := range []uint8{32, 33, 255} {
		tu := rt.LoadContent(poolWith(entry{abc.KindPackage, ""}), rt.NewDomain("app"), swf)
		content := mustResolve(t, tu, 1)
		wantPublic(t, content, "", apiversion.AIR20_0)
		if builtin.MatchesNS(content) {
			t.Errorf("SWF %d AIR content sees %v", swf, builtin)
		}
	}
	if rt.RootAPIVersion() != apiversion.AIR20_0 {
		t.Errorf("root version = %v, want AIR_20_0", rt.RootAPIVersion())
	}
}

func TestPrivateNamespacesAreMemoized(t *testing.T) {
	rt := NewRuntime(Options{})
	tu := rt.LoadContent(poolWith(
		entry{abc.KindPrivate, "Main"},
		entry{abc.KindPrivate, "Main"},
	), rt.NewDomain("content"), 16)

	first := mustResolve(t, tu, 1)
	again := mustResolve(t, tu, 1)
	other := mustResolve(t, tu, 2)

	if !first.IsPrivate() || !other.IsPrivate() {
		t.Fatal("Expected private namespaces")
	}
	if !first.ExactVersionMatch(again) {
		t.Error("Resolving the same entry twice must yield the same identity")
	}
	if first.ExactVersionMatch(other) || first.MatchesNS(other) {
		t.Error("Distinct private declarations must not match")
	}
	if first.AsURI() != other.AsURI() {
		t.Error("Distinct private declarations should share their URI")
	}

	// Same pool loaded again is a different unit with different identities.
	tu2 := rt.LoadContent(tu.Pool(), rt.NewDomain("content2"), 16)
	if mustResolve(t, tu2, 1).ExactVersionMatch(first) {
		t.Error("Private namespaces must not be shared across translation units")
	}
}

func TestPrivateSkipsVersionChecks(t *testing.T) {
	rt := NewRuntime(Options{})
	marked := versionmark.Encode("secret", apiversion.SWF16)
	tu := rt.LoadContent(poolWith(entry{abc.KindPrivate, marked}), rt.NewDomain("content"), 16)

	ns := mustResolve(t, tu, 1)
	if !ns.IsPrivate() || ns.AsURI() != marked {
		t.Errorf("got %v, want private namespace with its name untouched", ns)
	}
}

func TestMalformedIndices(t *testing.T) {
	rt := NewRuntime(Options{})
	pool := &abc.ConstantPool{}
	pool.AddNamespace(abc.KindPackage, 7)
	tu := rt.LoadContent(pool, rt.NewDomain("content"), 16)

	_, err := tu.PoolNamespace(1)
	if !errors.Is(err, ErrUnknownString) || !errors.Is(err, abc.ErrInvalidStringIndex) {
		t.Errorf("Expected ErrUnknownString, got %v", err)
	}
	var rerr *ResolveError
	if !errors.As(err, &rerr) || rerr.Index != 1 {
		t.Errorf("Expected *ResolveError for index 1, got %v", err)
	}

	_, err = tu.PoolNamespace(2)
	if !errors.Is(err, ErrUnknownNamespace) || !errors.Is(err, abc.ErrInvalidNamespaceIndex) {
		t.Errorf("Expected ErrUnknownNamespace, got %v", err)
	}
	if IsInvariantViolation(err) {
		t.Error("Malformed bytecode is not an invariant violation")
	}

	if _, err := tu.PoolString(9); !errors.Is(err, ErrUnknownString) {
		t.Errorf("PoolString(9) err = %v", err)
	}
}

func TestInvalidKindInPool(t *testing.T) {
	rt := NewRuntime(Options{})
	pool := &abc.ConstantPool{}
	pool.AddNamespace(abc.NamespaceKind(0x42), 0)
	tu := rt.LoadContent(pool, rt.NewDomain("content"), 16)

	if _, err := tu.PoolNamespace(1); !errors.Is(err, abc.ErrInvalidNamespaceKind) {
		t.Errorf("Expected ErrInvalidNamespaceKind, got %v", err)
	}
}

func TestFailuresAreCached(t *testing.T) {
	rt := NewRuntime(Options{})
	pool := &abc.ConstantPool{}
	pool.AddNamespace(abc.KindPackage, 7)
	tu := rt.LoadContent(pool, rt.NewDomain("content"), 16)

	_, err1 := tu.PoolNamespace(1)
	_, err2 := tu.PoolNamespace(1)
	if err1 == nil || err1 != err2 {
		t.Errorf("Expected the same cached error, got %v and %v", err1, err2)
	}
}

func TestMarkerOutsideBuiltins(t *testing.T) {
	rt := NewRuntime(Options{})
	tu := rt.LoadContent(poolWith(
		entry{abc.KindNamespace, versionmark.EncodeAllVersions("")},
		entry{abc.KindPackageInternal, versionmark.Encode("flash.x", apiversion.SWF12)},
	), rt.NewDomain("content"), 16)

	for _, idx := range []abc.Index{1, 2} {
		_, err := tu.PoolNamespace(idx)
		if !errors.Is(err, ErrVersionMarkOutsideBuiltins) {
			t.Errorf("index %d: expected ErrVersionMarkOutsideBuiltins, got %v", idx, err)
		}
		if !IsInvariantViolation(err) {
			t.Errorf("index %d: expected an invariant violation", idx)
		}
	}
}

func TestUnsupportedVersionMark(t *testing.T) {
	rt := NewRuntime(Options{})
	bad := "flash.future" + string(rune(versionmark.WeirdStart+int(apiversion.Max)+1))
	tu := rt.LoadBuiltins(poolWith(entry{abc.KindPackage, bad}))

	_, err := tu.PoolNamespace(1)
	if !errors.Is(err, ErrUnsupportedVersionMark) || !IsInvariantViolation(err) {
		t.Errorf("Expected ErrUnsupportedVersionMark, got %v", err)
	}
}

func TestTrustedBuiltinsPanic(t *testing.T) {
	rt := NewRuntime(Options{TrustedBuiltins: true})
	tu := rt.LoadContent(poolWith(
		entry{abc.KindPackage, versionmark.Encode("flash.x", apiversion.SWF12)},
		entry{abc.KindPackage, "flash.y"},
	), rt.NewDomain("content"), 16)

	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, ErrVersionMarkOutsideBuiltins) {
				t.Errorf("Expected panic with ErrVersionMarkOutsideBuiltins, got %v", r)
			}
		}()
		tu.PoolNamespace(1)
	}()

	// The unit stays usable after the panic.
	wantPublic(t, mustResolve(t, tu, 2), "flash.y", apiversion.SWF16)
}

func TestNamespacesResolvesWholeTable(t *testing.T) {
	rt := NewRuntime(Options{})
	tu := rt.LoadBuiltins(poolWith(
		entry{abc.KindPackage, "flash.display"},
		entry{abc.KindPrivate, "Stage"},
	))

	all, err := tu.Namespaces()
	if err != nil {
		t.Fatalf("Namespaces failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d namespaces, want 3", len(all))
	}
	if !all[0].IsAny() || !all[1].IsPublicIgnoringName() || !all[2].IsPrivate() {
		t.Errorf("unexpected table %v", all)
	}
	if !all[2].ExactVersionMatch(mustResolve(t, tu, 2)) {
		t.Error("Namespaces must go through the cache")
	}

	broken := &abc.ConstantPool{}
	broken.AddNamespace(abc.KindPackage, 3)
	if _, err := rt.LoadBuiltins(broken).Namespaces(); !errors.Is(err, ErrUnknownString) {
		t.Errorf("Expected ErrUnknownString, got %v", err)
	}
}

func TestEndToEndVisibility(t *testing.T) {
	rt := NewRuntime(Options{RootSWFVersion: 12})

	builtins := rt.LoadBuiltins(poolWith(
		entry{abc.KindPackage, versionmark.Encode("flash.display", apiversion.SWF12)},
		entry{abc.KindPackage, versionmark.Encode("flash.display", apiversion.SWF16)},
		entry{abc.KindPackage, "flash.display"},
	))
	oldContent := rt.LoadContent(poolWith(entry{abc.KindPackage, "flash.display"}), rt.NewDomain("old"), 12)
	newContent := rt.LoadContent(poolWith(entry{abc.KindPackage, "flash.display"}), rt.NewDomain("new"), 16)

	atSWF12 := mustResolve(t, builtins, 1)
	atSWF16 := mustResolve(t, builtins, 2)
	everywhere := mustResolve(t, builtins, 3)
	oldCaller := mustResolve(t, oldContent, 1)
	newCaller := mustResolve(t, newContent, 1)

	tests := []struct {
		name      string
		def, from namespace.Namespace
		want      bool
	}{
		{"SWF_12 def from SWF_12 content", atSWF12, oldCaller, true},
		{"SWF_12 def from SWF_16 content", atSWF12, newCaller, true},
		{"SWF_16 def from SWF_12 content", atSWF16, oldCaller, false},
		{"SWF_16 def from SWF_16 content", atSWF16, newCaller, true},
		{"unmarked def from SWF_12 content", everywhere, oldCaller, true},
	}
	for _, tt := range tests {
		if got := tt.def.MatchesNS(tt.from); got != tt.want {
			t.Errorf("%s: MatchesNS = %v, want %v", tt.name, got, tt.want)
		}
	}
}
