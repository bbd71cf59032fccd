package namespace

// Set is an ordered namespace set, as carried by multinames.
type Set []Namespace

// NewSet returns a set holding the given namespaces in order.
func NewSet(nss ...Namespace) Set {
	return Set(nss)
}

// Contains reports whether some member exactly matches ns.
func (s Set) Contains(ns Namespace) bool {
	for _, m := range s {
		if m.ExactVersionMatch(ns) {
			return true
		}
	}
	return false
}

// Match returns the first member through which a definition in def is
// visible, or false. An Any member matches every definition.
func (s Set) Match(def Namespace) (Namespace, bool) {
	for _, m := range s {
		if m.IsAny() || def.MatchesNS(m) {
			return m, true
		}
	}
	return Namespace{}, false
}

// HasPublic reports whether the set includes any public namespace.
func (s Set) HasPublic() bool {
	for _, m := range s {
		if m.IsPublicIgnoringName() {
			return true
		}
	}
	return false
}
