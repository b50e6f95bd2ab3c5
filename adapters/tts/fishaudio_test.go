package tts

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/parlo-app/server/domain"
)

func TestNewFishAudioTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Test without API key
	os.Unsetenv("FISH_AUDIO_API_KEY")
	config := NewFishAudioConfigFromEnv()
	_, err := NewFishAudioTTS(config, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	// Test with API key
	os.Setenv("FISH_AUDIO_API_KEY", "test-api-key")
	defer os.Unsetenv("FISH_AUDIO_API_KEY")

	config = NewFishAudioConfigFromEnv()
	tts, err := NewFishAudioTTS(config, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	if tts.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", tts.apiKey)
	}
	if tts.OutputFormat() != defaultOutputFormat {
		t.Errorf("Expected default output format '%s', got '%s'", defaultOutputFormat, tts.OutputFormat())
	}
}

func TestValidateFishAudioConfig_BadFormat(t *testing.T) {
	err := ValidateFishAudioConfig(FishAudioConfig{APIKey: "key", OutputFormat: "flac"})
	if err == nil {
		t.Error("Expected error for unsupported output format")
	}
}

func TestFishAudioTTS_Synthesize_Preconditions(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tts, err := NewFishAudioTTS(FishAudioConfig{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	ctx := context.Background()

	_, err = tts.Synthesize(ctx, "", "voice-id")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Expected invalid request for empty text, got %v", err)
	}

	_, err = tts.Synthesize(ctx, "   ", "voice-id")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Expected invalid request for whitespace text, got %v", err)
	}

	_, err = tts.Synthesize(ctx, "hola", "")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Expected invalid request for empty voice reference, got %v", err)
	}
}

func TestFishAudioTTS_Synthesize(t *testing.T) {
	logger := zaptest.NewLogger(t)

	audio := []byte("WAVDATA-0123456789-WAVDATA")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tts" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-api-key" {
			t.Errorf("Unexpected auth header %s", r.Header.Get("Authorization"))
		}
		w.Write(audio)
	}))
	defer server.Close()

	tts, err := NewFishAudioTTS(FishAudioConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
		ChunkSize:  8, // force multiple reads to exercise chunk collection
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	got, err := tts.Synthesize(context.Background(), "Yo soy feliz", "voice-id")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("Expected collected audio to match provider output")
	}
}

func TestFishAudioTTS_Synthesize_ProviderError(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid reference"}`, http.StatusPaymentRequired)
	}))
	defer server.Close()

	tts, err := NewFishAudioTTS(FishAudioConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	_, err = tts.Synthesize(context.Background(), "hola", "voice-id")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("Expected upstream error, got %v", err)
	}
}

func TestFishAudioTTS_CreateClone(t *testing.T) {
	logger := zaptest.NewLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Expected multipart form: %v", err)
		}
		if r.FormValue("title") != "My Voice" {
			t.Errorf("Expected title 'My Voice', got '%s'", r.FormValue("title"))
		}
		if r.FormValue("visibility") != "private" {
			t.Errorf("Expected private visibility, got '%s'", r.FormValue("visibility"))
		}
		if _, _, err := r.FormFile("voices"); err != nil {
			t.Errorf("Expected voices file part: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id": "voice-123"}`))
	}))
	defer server.Close()

	tts, err := NewFishAudioTTS(FishAudioConfig{
		APIKey:     "test-api-key",
		APIBaseURL: server.URL,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	voiceID, err := tts.CreateClone(context.Background(), []byte("sample audio"), "My Voice", "clone for tests")
	if err != nil {
		t.Fatalf("CreateClone failed: %v", err)
	}
	if voiceID != "voice-123" {
		t.Errorf("Expected voice id 'voice-123', got '%s'", voiceID)
	}
}

func TestFishAudioTTS_CreateClone_Preconditions(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tts, err := NewFishAudioTTS(FishAudioConfig{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	_, err = tts.CreateClone(context.Background(), nil, "My Voice", "")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Expected invalid request for empty sample, got %v", err)
	}

	_, err = tts.CreateClone(context.Background(), []byte("sample"), " ", "")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("Expected invalid request for empty title, got %v", err)
	}
}

// Integration test - only runs if FISH_AUDIO_API_KEY is set with a real API key
func TestFishAudioTTS_Synthesize_Integration(t *testing.T) {
	apiKey := os.Getenv("FISH_AUDIO_API_KEY")
	voiceID := os.Getenv("FISH_AUDIO_TEST_VOICE_ID")
	if apiKey == "" || apiKey == "test-api-key" || voiceID == "" {
		t.Skip("Skipping integration test - set FISH_AUDIO_API_KEY and FISH_AUDIO_TEST_VOICE_ID")
	}

	logger := zaptest.NewLogger(t)
	tts, err := NewFishAudioTTS(NewFishAudioConfigFromEnv(), logger)
	if err != nil {
		t.Fatalf("Failed to create FishAudioTTS: %v", err)
	}

	audio, err := tts.Synthesize(context.Background(), "Hola, esto es una prueba.", voiceID)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(audio) == 0 {
		t.Error("Expected non-empty audio payload")
	}
}
