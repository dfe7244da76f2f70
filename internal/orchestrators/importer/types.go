package importer

import (
	"github.com/KirkDiggler/creature-import/internal/entities"
)

// ImportInput is one payload to import
type ImportInput struct {
	Payload []byte
	// ExistingCreatureID re-imports over a stored creature. Weapons and
	// features are replaced, resolved abilities are kept.
	ExistingCreatureID string
	// AutoAssign binds every placeholder the resolver matches uniquely
	AutoAssign bool
	// StartSession opens a resolution session for what is left unresolved
	StartSession bool
}

// ImportOutput is the stored creature and what happened on the way
type ImportOutput struct {
	Creature *entities.CreatureRecord
	// AutoAssigned lists the abilities bound without operator input
	AutoAssigned []entities.ResolvedAbility
	// Session is set when a session was requested and something is unresolved
	Session *entities.ResolutionSession
	// Reimported is set when an existing creature was updated
	Reimported bool
}
