package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/parlo-app/server/domain"
	"github.com/parlo-app/server/domain/entities"
)

func TestVoiceService_Resolve(t *testing.T) {
	logger := zaptest.NewLogger(t)
	service := NewVoiceService(fakeRegistry{
		"energetic_male": {ID: "preset-voice-1"},
		"adam":           {ID: "preset-voice-2"},
	}, &mockSynthesizer{}, &mockUserRepository{}, logger)

	// Known preset key resolves to exactly that preset's stored id.
	ref, err := service.Resolve("energetic_male")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ref != "preset-voice-1" {
		t.Errorf("Expected 'preset-voice-1', got '%s'", ref)
	}

	// Unknown key passes through unchanged as a direct cloned id.
	ref, err = service.Resolve("some-cloned-id")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ref != "some-cloned-id" {
		t.Errorf("Expected passthrough, got '%s'", ref)
	}

	// Empty id is a request error.
	if _, err := service.Resolve("  "); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Expected invalid request for empty model id, got %v", err)
	}
}

func TestVoiceService_CreateClone(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tts := &mockSynthesizer{cloneID: "clone-1"}
	users := &mockUserRepository{}
	service := NewVoiceService(fakeRegistry{}, tts, users, logger)

	user := &entities.User{ID: "507f1f77bcf86cd799439011", Email: "learner@example.com"}
	sample := make([]byte, 2000)

	voiceID, err := service.CreateClone(context.Background(), user, sample, "My Voice")
	if err != nil {
		t.Fatalf("CreateClone failed: %v", err)
	}
	if voiceID != "clone-1" {
		t.Errorf("Expected 'clone-1', got '%s'", voiceID)
	}
	if users.voiceID != "clone-1" {
		t.Errorf("Expected voice reference stored, got '%s'", users.voiceID)
	}
	if user.VoiceModelID != "clone-1" {
		t.Errorf("Expected account updated in memory, got '%s'", user.VoiceModelID)
	}
}

func TestVoiceService_CreateClone_OverwritesPrevious(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tts := &mockSynthesizer{cloneID: "clone-1"}
	users := &mockUserRepository{}
	service := NewVoiceService(fakeRegistry{}, tts, users, logger)

	user := &entities.User{ID: "507f1f77bcf86cd799439011", Email: "learner@example.com"}
	sample := make([]byte, 2000)

	if _, err := service.CreateClone(context.Background(), user, sample, "First"); err != nil {
		t.Fatalf("First clone failed: %v", err)
	}

	tts.cloneID = "clone-2"
	if _, err := service.CreateClone(context.Background(), user, sample, "Second"); err != nil {
		t.Fatalf("Second clone failed: %v", err)
	}

	// Exactly one live reference: the second call's result.
	if users.voiceID != "clone-2" {
		t.Errorf("Expected stored reference 'clone-2', got '%s'", users.voiceID)
	}
	if user.VoiceModelID != "clone-2" {
		t.Errorf("Expected account reference 'clone-2', got '%s'", user.VoiceModelID)
	}
	if users.voiceCalls != 2 {
		t.Errorf("Expected two overwrites, got %d", users.voiceCalls)
	}
}

func TestVoiceService_CreateClone_RejectsSmallSample(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tts := &mockSynthesizer{cloneID: "clone-1"}
	service := NewVoiceService(fakeRegistry{}, tts, &mockUserRepository{}, logger)

	user := &entities.User{ID: "507f1f77bcf86cd799439011", Email: "learner@example.com"}

	_, err := service.CreateClone(context.Background(), user, make([]byte, 100), "My Voice")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("Expected invalid request, got %v", err)
	}
	if tts.cloneCalls != 0 {
		t.Error("Expected provider not to be called for undersized sample")
	}
}
