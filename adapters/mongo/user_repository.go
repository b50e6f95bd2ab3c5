package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/parlo-app/server/domain/entities"
	"github.com/parlo-app/server/domain/repositories"
)

type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new MongoDB user repository
func NewUserRepository(db *mongo.Database) repositories.UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// Create implements repositories.UserRepository
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := user.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	doc := bson.M{
		"email":      user.Email,
		"google_id":  user.GoogleID,
		"name":       user.Name,
		"picture":    user.Picture,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}
	if user.VoiceModelID != "" {
		doc["voice_model_id"] = user.VoiceModelID
		doc["voice_name"] = user.VoiceName
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}

	return nil
}

// GetByID implements repositories.UserRepository
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if id == "" {
		return nil, errors.New("user ID cannot be empty")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	var user entities.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	user.ID = id
	return &user, nil
}

// GetByGoogleIDOrEmail implements repositories.UserRepository
func (r *UserRepository) GetByGoogleIDOrEmail(ctx context.Context, googleID string, email string) (*entities.User, error) {
	if googleID == "" && email == "" {
		return nil, errors.New("google ID or email is required")
	}

	filter := bson.M{"$or": []bson.M{
		{"google_id": googleID},
		{"email": email},
	}}

	var doc struct {
		ID            primitive.ObjectID `bson:"_id"`
		entities.User `bson:",inline"`
	}
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // No matching account, not an error
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := doc.User
	user.ID = doc.ID.Hex()
	return &user, nil
}

// Update implements repositories.UserRepository
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if user.ID == "" {
		return errors.New("user ID cannot be empty")
	}

	objectID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	user.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"email":      user.Email,
			"google_id":  user.GoogleID,
			"name":       user.Name,
			"picture":    user.Picture,
			"updated_at": user.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s not found", user.ID)
	}

	return nil
}

// UpdateVoice implements repositories.UserRepository. The stored voice
// reference is overwritten unconditionally; the superseded reference
// is not kept.
func (r *UserRepository) UpdateVoice(ctx context.Context, userID string, voiceModelID string, voiceName string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}
	if voiceModelID == "" {
		return errors.New("voice model ID cannot be empty")
	}

	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"voice_model_id": voiceModelID,
			"voice_name":     voiceName,
			"updated_at":     time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update voice reference: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s not found", userID)
	}

	return nil
}
