package avm

import (
	"fmt"

	"github.com/google/uuid"
)

// Domain is the scope a translation unit is loaded into. Exactly one domain
// per runtime, playerglobals, holds the platform's built-in definitions.
type Domain struct {
	id            uuid.UUID
	name          string
	parent        *Domain
	playerGlobals bool
}

func newDomain(name string, parent *Domain, playerGlobals bool) *Domain {
	return &Domain{
		id:            uuid.New(),
		name:          name,
		parent:        parent,
		playerGlobals: playerGlobals,
	}
}

// ID returns the domain's unique identifier.
func (d *Domain) ID() uuid.UUID { return d.id }

// Name returns the domain's display name.
func (d *Domain) Name() string { return d.name }

// Parent returns the enclosing domain, or nil for playerglobals.
func (d *Domain) Parent() *Domain { return d.parent }

// IsPlayerGlobals reports whether d holds the built-in definitions.
func (d *Domain) IsPlayerGlobals() bool { return d.playerGlobals }

// String renders the domain by name; the ID is not included.
func (d *Domain) String() string {
	return fmt.Sprintf("Domain(%s)", d.name)
}
