package repositories

import (
	"context"

	"github.com/parlo-app/server/domain/entities"
)

// UserRepository defines data access methods for users
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entities.User, error)
	// GetByGoogleIDOrEmail finds the account matching either identity,
	// used on OAuth callback. Returns (nil, nil) when no account exists.
	GetByGoogleIDOrEmail(ctx context.Context, googleID string, email string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) error
	Update(ctx context.Context, user *entities.User) error
	// UpdateVoice overwrites the stored cloned-voice reference and
	// label for the account. The superseded reference is discarded.
	UpdateVoice(ctx context.Context, userID string, voiceModelID string, voiceName string) error
}
