package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/parlo-app/server/domain"
	"github.com/parlo-app/server/domain/repositories"
)

const (
	defaultAPIBaseURL     = "https://api.fish.audio"
	defaultOutputFormat   = "mp3"
	defaultChunkSize      = 4096
	defaultTimeoutSeconds = 60
)

// FishAudioConfig holds configuration for the FishAudioTTS adapter.
// Required fields:
// - APIKey: Your Fish Audio API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Fish Audio API (default: "https://api.fish.audio")
// - OutputFormat: The audio container to request, "mp3" or "wav" (default: "mp3")
// - ChunkSize: The read size used when collecting streamed audio (default: 4096)
// - TimeoutSeconds: Request timeout in seconds (default: 60)
type FishAudioConfig struct {
	APIKey         string
	APIBaseURL     string
	OutputFormat   string
	ChunkSize      int
	TimeoutSeconds int
}

// FishAudioTTS implements the VoiceSynthesizer interface using the
// Fish Audio text-to-speech and voice-cloning API.
type FishAudioTTS struct {
	apiKey       string
	apiBaseURL   string
	outputFormat string
	chunkSize    int
	client       *http.Client
	logger       *zap.Logger
}

// Ensure FishAudioTTS implements the VoiceSynthesizer interface
var _ repositories.VoiceSynthesizer = (*FishAudioTTS)(nil)

// fishAudioTTSRequest represents the request payload for the Fish
// Audio TTS API.
type fishAudioTTSRequest struct {
	Text        string `json:"text"`
	ReferenceID string `json:"reference_id"`
	Format      string `json:"format"`
}

// ValidateFishAudioConfig validates the FishAudioConfig
func ValidateFishAudioConfig(config FishAudioConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("fish audio API key is required")
	}
	if config.OutputFormat != "" && config.OutputFormat != "mp3" && config.OutputFormat != "wav" {
		return fmt.Errorf("output format must be mp3 or wav, got %s", config.OutputFormat)
	}
	if config.ChunkSize < 0 {
		return fmt.Errorf("chunk size must be positive, got %d", config.ChunkSize)
	}
	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}
	return nil
}

// NewFishAudioTTS creates a new Fish Audio TTS instance
func NewFishAudioTTS(config FishAudioConfig, logger *zap.Logger) (*FishAudioTTS, error) {
	if err := ValidateFishAudioConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = defaultOutputFormat
	}

	chunkSize := config.ChunkSize
	if chunkSize == 0 {
		chunkSize = defaultChunkSize
	}

	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	return &FishAudioTTS{
		apiKey:       config.APIKey,
		apiBaseURL:   apiBaseURL,
		outputFormat: outputFormat,
		chunkSize:    chunkSize,
		client:       &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		logger:       logger,
	}, nil
}

// OutputFormat reports the audio container the adapter requests from
// the provider.
func (f *FishAudioTTS) OutputFormat() string {
	return f.outputFormat
}

// Synthesize renders text with the given voice reference. Both must be
// non-empty; violating either fails before any network call.
func (f *FishAudioTTS) Synthesize(ctx context.Context, text string, voiceReference string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.InvalidRequest("text cannot be empty")
	}
	if strings.TrimSpace(voiceReference) == "" {
		return nil, domain.InvalidRequest("voice reference cannot be empty")
	}

	requestBody, err := json.Marshal(fishAudioTTSRequest{
		Text:        text,
		ReferenceID: voiceReference,
		Format:      f.outputFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/tts", f.apiBaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+f.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, domain.UpstreamFailure("fish audio", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		f.logger.Error("Fish Audio API returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return nil, domain.UpstreamFailure("fish audio",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	// Collect the streamed body into one buffer. Provider output is
	// opaque bytes in the configured container.
	var audio bytes.Buffer
	buffer := make([]byte, f.chunkSize)
	for {
		n, err := resp.Body.Read(buffer)
		if n > 0 {
			audio.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.UpstreamFailure("fish audio", err)
		}
	}

	f.logger.Info("Synthesis completed",
		zap.String("voiceReference", voiceReference),
		zap.String("format", f.outputFormat),
		zap.Int("audioSize", audio.Len()))

	return audio.Bytes(), nil
}

// CreateClone registers a new cloned voice from an audio sample and
// returns the provider-issued voice reference id.
func (f *FishAudioTTS) CreateClone(ctx context.Context, audioSample []byte, title string, description string) (string, error) {
	if len(audioSample) == 0 {
		return "", domain.InvalidRequest("audio sample cannot be empty")
	}
	if strings.TrimSpace(title) == "" {
		return "", domain.InvalidRequest("voice title cannot be empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"title":       title,
		"description": description,
		"type":        "tts",
		"train_mode":  "fast",
		"visibility":  "private",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile("voices", "sample.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audioSample); err != nil {
		return "", fmt.Errorf("failed to write audio sample: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	url := fmt.Sprintf("%s/model", f.apiBaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+f.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return "", domain.UpstreamFailure("fish audio", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.UpstreamFailure("fish audio", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		f.logger.Error("Fish Audio clone request failed",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(responseBody)))
		return "", domain.UpstreamFailure("fish audio",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	var cloneResponse struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(responseBody, &cloneResponse); err != nil {
		return "", domain.UpstreamFailure("fish audio",
			fmt.Errorf("decode response: %w", err))
	}
	if cloneResponse.ID == "" {
		return "", domain.UpstreamFailure("fish audio",
			fmt.Errorf("response contained no model id"))
	}

	f.logger.Info("Voice clone created",
		zap.String("voiceID", cloneResponse.ID),
		zap.String("title", title))

	return cloneResponse.ID, nil
}

// NewFishAudioConfigFromEnv creates a new FishAudioConfig from
// environment variables.
func NewFishAudioConfigFromEnv() FishAudioConfig {
	config := FishAudioConfig{
		APIKey:       os.Getenv("FISH_AUDIO_API_KEY"),
		APIBaseURL:   os.Getenv("FISH_AUDIO_API_BASE_URL"),
		OutputFormat: os.Getenv("FISH_AUDIO_OUTPUT_FORMAT"),
	}

	if chunkSizeStr := os.Getenv("FISH_AUDIO_CHUNK_SIZE"); chunkSizeStr != "" {
		if chunkSize, err := strconv.Atoi(chunkSizeStr); err == nil && chunkSize > 0 {
			config.ChunkSize = chunkSize
		}
	}

	if timeoutStr := os.Getenv("FISH_AUDIO_TIMEOUT_SECONDS"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			config.TimeoutSeconds = timeout
		}
	}

	return config
}
