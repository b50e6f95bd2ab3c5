package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/parlo-app/server/domain"
	"github.com/parlo-app/server/domain/entities"
	"github.com/parlo-app/server/domain/repositories"
	"github.com/parlo-app/server/internal/voices"
)

// VoiceService resolves voice identities and manages per-user voice
// clones.
type VoiceService struct {
	registry    voices.Registry
	synthesizer repositories.VoiceSynthesizer
	users       repositories.UserRepository
	logger      *zap.Logger
}

// NewVoiceService creates a new voice service
func NewVoiceService(
	registry voices.Registry,
	synthesizer repositories.VoiceSynthesizer,
	users repositories.UserRepository,
	logger *zap.Logger,
) *VoiceService {
	return &VoiceService{
		registry:    registry,
		synthesizer: synthesizer,
		users:       users,
		logger:      logger,
	}
}

// Resolve maps a requested model id to a provider voice reference. A
// preset key resolves to that preset's id; anything else is treated as
// a direct cloned-voice id and passed through unchanged.
func (s *VoiceService) Resolve(modelID string) (string, error) {
	if strings.TrimSpace(modelID) == "" {
		return "", domain.InvalidRequest("A voice model is required")
	}

	preset, ok, err := s.registry.Lookup(modelID)
	if err != nil {
		return "", fmt.Errorf("preset registry lookup failed: %w", err)
	}
	if ok {
		s.logger.Debug("Resolved preset voice",
			zap.String("key", modelID),
			zap.String("voiceID", preset.ID))
		return preset.ID, nil
	}

	return modelID, nil
}

// CreateClone registers a voice clone from the supplied sample and
// unconditionally overwrites the account's stored voice reference and
// label. An account never holds two live references.
func (s *VoiceService) CreateClone(ctx context.Context, user *entities.User, audioSample []byte, label string) (string, error) {
	if len(audioSample) < minAudioBytes {
		return "", domain.InvalidRequest("Audio file is too small. Please provide at least 10 seconds of clear audio.")
	}

	title := label
	if title == "" {
		title = user.VoiceName
	}
	if title == "" {
		title = "My Voice"
	}

	voiceID, err := s.synthesizer.CreateClone(ctx, audioSample, title,
		fmt.Sprintf("Custom voice clone for %s", user.Email))
	if err != nil {
		return "", err
	}

	if err := s.users.UpdateVoice(ctx, user.ID, voiceID, label); err != nil {
		return "", fmt.Errorf("failed to store voice reference: %w", err)
	}

	previous := user.VoiceModelID
	user.VoiceModelID = voiceID
	user.VoiceName = label

	s.logger.Info("Voice clone stored",
		zap.String("userID", user.ID),
		zap.String("voiceID", voiceID),
		zap.String("replaced", previous))

	return voiceID, nil
}
