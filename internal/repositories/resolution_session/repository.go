// Package resolutionsession stores resumable resolution sessions
package resolutionsession

//go:generate mockgen -destination=mock/mock_repository.go -package=resolutionsessionmock github.com/KirkDiggler/creature-import/internal/repositories/resolution_session Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/creature-import/internal/entities"
)

// CreateInput contains parameters for creating a session
type CreateInput struct {
	Session *entities.ResolutionSession
	TTL     time.Duration // How long the session should live
}

// CreateOutput contains the created session
type CreateOutput struct {
	Session *entities.ResolutionSession
}

// GetInput contains parameters for retrieving a session
type GetInput struct {
	ID string
}

// GetOutput contains the result of retrieving a session
type GetOutput struct {
	Session *entities.ResolutionSession
}

// UpdateInput contains the session to store
type UpdateInput struct {
	Session *entities.ResolutionSession
}

// UpdateOutput contains the stored session
type UpdateOutput struct {
	Session *entities.ResolutionSession
}

// DeleteInput contains parameters for deleting a session
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of deleting a session
type DeleteOutput struct {
	// ItemsLogged is how many decisions the deleted session had recorded
	ItemsLogged int
}

// Repository defines the interface for resolution session storage
type Repository interface {
	// Create stores a new session with the specified TTL
	// Returns errors.FailedPrecondition while the creature has another open session
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session by ID
	// Returns errors.NotFound for unknown and expired sessions
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces a session, keeping its remaining TTL. A session that
	// reaches a terminal state releases its creature.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a session
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
