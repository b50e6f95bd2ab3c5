package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/parlo-app/server/domain"
	"github.com/parlo-app/server/domain/repositories"
)

const (
	defaultAPIBaseURL     = "https://api.deepgram.com/v1"
	defaultModel          = "nova-2"
	defaultTimeoutSeconds = 60
)

// DeepgramConfig holds configuration for the DeepgramSTT adapter.
// Required fields:
// - APIKey: Your Deepgram API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Deepgram API (default: "https://api.deepgram.com/v1")
// - Model: The recognition model to use (default: "nova-2")
// - TimeoutSeconds: Request timeout in seconds (default: 60)
type DeepgramConfig struct {
	APIKey         string
	APIBaseURL     string
	Model          string
	TimeoutSeconds int
}

// DeepgramSTT implements the SpeechToText interface using Deepgram's
// prerecorded transcription API.
type DeepgramSTT struct {
	apiKey     string
	apiBaseURL string
	model      string
	client     *http.Client
	logger     *zap.Logger
}

// Ensure DeepgramSTT implements the SpeechToText interface
var _ repositories.SpeechToText = (*DeepgramSTT)(nil)

// deepgramResponse mirrors the subset of Deepgram's prerecorded
// response the adapter consumes.
type deepgramResponse struct {
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// ValidateDeepgramConfig validates the DeepgramConfig
func ValidateDeepgramConfig(config DeepgramConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("deepgram API key is required")
	}
	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}
	return nil
}

// NewDeepgramSTT creates a new Deepgram STT instance
func NewDeepgramSTT(config DeepgramConfig, logger *zap.Logger) (*DeepgramSTT, error) {
	if err := ValidateDeepgramConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	return &DeepgramSTT{
		apiKey:     config.APIKey,
		apiBaseURL: apiBaseURL,
		model:      model,
		client:     &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		logger:     logger,
	}, nil
}

// Transcribe converts audio data to text using Deepgram's prerecorded
// API. A languageHint of "auto" enables provider-side language
// detection; any other value is passed through and disables detection.
func (d *DeepgramSTT) Transcribe(ctx context.Context, audioData []byte, languageHint string) (repositories.Utterance, error) {
	params := url.Values{}
	params.Set("model", d.model)
	params.Set("smart_format", "true")
	if languageHint == repositories.LanguageAuto || languageHint == "" {
		params.Set("detect_language", "true")
	} else {
		params.Set("language", languageHint)
	}

	endpoint := fmt.Sprintf("%s/listen?%s", d.apiBaseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audioData))
	if err != nil {
		return repositories.Utterance{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Token "+d.apiKey)
	httpReq.Header.Set("Content-Type", "application/octet-stream")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return repositories.Utterance{}, domain.UpstreamFailure("deepgram", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return repositories.Utterance{}, domain.UpstreamFailure("deepgram", err)
	}

	if resp.StatusCode != http.StatusOK {
		d.logger.Error("Deepgram API returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(body)))
		return repositories.Utterance{}, domain.UpstreamFailure("deepgram",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed deepgramResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return repositories.Utterance{}, domain.UpstreamFailure("deepgram",
			fmt.Errorf("decode response: %w", err))
	}

	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return repositories.Utterance{}, domain.UpstreamFailure("deepgram",
			fmt.Errorf("response contained no transcription alternatives"))
	}

	channel := parsed.Results.Channels[0]
	utterance := repositories.Utterance{
		Text:             channel.Alternatives[0].Transcript,
		Confidence:       channel.Alternatives[0].Confidence,
		DetectedLanguage: channel.DetectedLanguage,
	}

	d.logger.Info("Transcription completed",
		zap.Float64("confidence", utterance.Confidence),
		zap.String("detectedLanguage", utterance.DetectedLanguage),
		zap.Int("transcriptLength", len(utterance.Text)))

	return utterance, nil
}

// NewDeepgramConfigFromEnv creates a new DeepgramConfig from
// environment variables.
func NewDeepgramConfigFromEnv() DeepgramConfig {
	config := DeepgramConfig{
		APIKey:     os.Getenv("DEEPGRAM_API_KEY"),
		APIBaseURL: os.Getenv("DEEPGRAM_API_BASE_URL"),
		Model:      os.Getenv("DEEPGRAM_MODEL"),
	}

	if timeoutStr := os.Getenv("DEEPGRAM_TIMEOUT_SECONDS"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			config.TimeoutSeconds = timeout
		}
	}

	return config
}
