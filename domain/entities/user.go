package entities

import (
	"errors"
	"time"
)

// User represents a learner account created on first Google login.
type User struct {
	// ID is the hex form of the Mongo object id; it is assigned by the
	// repository, not decoded from documents.
	ID           string    `json:"id" bson:"-"`
	Email        string    `json:"email" bson:"email"`
	GoogleID     string    `json:"google_id" bson:"google_id"`
	Name         string    `json:"name" bson:"name"`
	Picture      string    `json:"picture" bson:"picture"`
	VoiceModelID string    `json:"voice_model_id,omitempty" bson:"voice_model_id,omitempty"`
	VoiceName    string    `json:"voice_name,omitempty" bson:"voice_name,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Domain validation methods
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.GoogleID == "" {
		return errors.New("google id is required")
	}
	return nil
}

// HasClonedVoice reports whether a voice clone has been registered for
// this account.
func (u *User) HasClonedVoice() bool {
	return u.VoiceModelID != ""
}
