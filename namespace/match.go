package namespace

import "github.com/tliron/commonlog"

// logger is looked up per call; the backend may be installed after init.
func logger() commonlog.Logger {
	return commonlog.GetLogger("avmns.namespace")
}

// ExactVersionMatch compares two namespaces requiring identical versions.
// Private namespaces match only themselves. Most callers want MatchesNS.
func (ns Namespace) ExactVersionMatch(other Namespace) bool {
	if ns.kind == KindPrivate || other.kind == KindPrivate {
		return ns.kind == other.kind && ns.private == other.private
	}
	return ns.kind == other.kind && ns.name == other.name && ns.version == other.version
}

// MatchesNS reports whether definitions in ns are visible to lookups made
// through other. Beyond an exact match, two public namespaces with the same
// name match when ns's version is at or below other's: a definition added at
// SWF_16 is visible from SWF_16 and later content but not from earlier.
func (ns Namespace) MatchesNS(other Namespace) bool {
	if ns.ExactVersionMatch(other) {
		return true
	}
	if ns.kind != KindPublic || other.kind != KindPublic {
		return false
	}

	nameMatches := ns.name == other.name
	versionMatches := ns.version <= other.version
	if nameMatches && !versionMatches {
		logger().Infof("Rejecting namespace match due to versions: %v %v", ns, other)
	}
	return nameMatches && versionMatches
}
