package port

import (
	"context"

	"github.com/google/uuid"

	"snapquote/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SessionRepository persists quote session snapshots. The snapshot is the
// minimal recoverable state: base items, edit overlay, rates, metadata.
type SessionRepository interface {
	Save(ctx context.Context, rec *domain.SessionRecord) error
	GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.SessionRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.SessionRecord, int, error)
	Delete(ctx context.Context, userID, sessionID uuid.UUID) error
}
