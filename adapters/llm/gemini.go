package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/parlo-app/server/domain"
	"github.com/parlo-app/server/domain/repositories"
)

const (
	defaultModel          = "gemini-2.5-flash"
	defaultTemperature    = 0.4
	defaultMaxTokens      = 1024
	defaultTimeoutSeconds = 30

	// maxHistoryTurns bounds the conversation context sent to the
	// model, keeping prompt size flat regardless of session length.
	maxHistoryTurns = 10
)

// languageNames maps supported language codes to display names used in
// prompts. Unmapped codes are passed through verbatim, a deliberate
// fallback rather than an error.
var languageNames = map[string]string{
	"es": "Spanish",
	"fr": "French",
	"en": "English",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ja": "Japanese",
	"zh": "Chinese",
	"ko": "Korean",
}

// GeminiConfig holds configuration for the GeminiLLM adapter.
// Required fields:
// - APIKey: Your Google AI API key
// Optional fields with defaults:
// - Model: The model to use (default: "gemini-2.5-flash")
// - Temperature: Sampling temperature between 0 and 1 (default: 0.4)
// - MaxOutputTokens: Response token cap (default: 1024)
// - TimeoutSeconds: Per-request timeout in seconds (default: 30)
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int
	TimeoutSeconds  int
}

// GeminiLLM implements the LanguageModel interface using Google's
// Gemini API for both the correction and reply stages.
type GeminiLLM struct {
	client          *genai.Client
	logger          *zap.Logger
	model           string
	temperature     float32
	maxOutputTokens int
	timeoutSeconds  int
}

// Ensure GeminiLLM implements the LanguageModel interface
var _ repositories.LanguageModel = (*GeminiLLM)(nil)

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required")
	}
	if config.Temperature != 0 && (config.Temperature < 0 || config.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}
	if config.MaxOutputTokens < 0 {
		return fmt.Errorf("maxOutputTokens must be positive, got %d", config.MaxOutputTokens)
	}
	if config.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout must be positive, got %d", config.TimeoutSeconds)
	}
	return nil
}

// NewGeminiLLM creates a new Gemini LLM instance
func NewGeminiLLM(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiLLM, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = float32(defaultTemperature)
	}

	maxOutputTokens := config.MaxOutputTokens
	if maxOutputTokens == 0 {
		maxOutputTokens = defaultMaxTokens
	}

	timeoutSeconds := config.TimeoutSeconds
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultTimeoutSeconds
	}

	return &GeminiLLM{
		client:          client,
		logger:          logger,
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
		timeoutSeconds:  timeoutSeconds,
	}, nil
}

// Correct returns the grammatically corrected form of text in the same
// language. Already-correct input passes through unchanged.
func (g *GeminiLLM) Correct(ctx context.Context, text string, language string) (string, error) {
	prompt := buildCorrectionPrompt(text, language)

	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	var parsed struct {
		CorrectedText string `json:"corrected_text"`
	}
	if err := json.Unmarshal([]byte(ExtractJSONPayload(raw)), &parsed); err != nil {
		g.logger.Error("Correction response was not valid JSON", zap.String("response", raw))
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedModelOutput, err)
	}
	if parsed.CorrectedText == "" {
		g.logger.Error("Correction response missing corrected_text key", zap.String("response", raw))
		return "", fmt.Errorf("%w: missing corrected_text key", domain.ErrMalformedModelOutput)
	}

	g.logger.Info("Correction completed",
		zap.String("language", language),
		zap.Int("inputLength", len(text)),
		zap.Int("outputLength", len(parsed.CorrectedText)))

	return parsed.CorrectedText, nil
}

// Reply generates the next conversational turn, responding in the
// target language and threading at most the recent history.
func (g *GeminiLLM) Reply(ctx context.Context, message string, history []repositories.ChatMessage, language string) (string, error) {
	prompt := buildReplyPrompt(message, history, language)

	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(ExtractJSONPayload(raw)), &parsed); err != nil {
		g.logger.Error("Reply response was not valid JSON", zap.String("response", raw))
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedModelOutput, err)
	}
	if parsed.Reply == "" {
		g.logger.Error("Reply response missing reply key", zap.String("response", raw))
		return "", fmt.Errorf("%w: missing reply key", domain.ErrMalformedModelOutput)
	}

	g.logger.Info("Reply generated",
		zap.String("language", language),
		zap.Int("historyTurns", len(history)),
		zap.Int("replyLength", len(parsed.Reply)))

	return parsed.Reply, nil
}

// generate runs a single completion and returns the raw response text.
// No retries: a failed stage aborts the whole pipeline run.
func (g *GeminiLLM) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.timeoutSeconds)*time.Second)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: int32(g.maxOutputTokens),
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", domain.UpstreamFailure("gemini", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil ||
		len(response.Candidates[0].Content.Parts) == 0 {
		return "", domain.UpstreamFailure("gemini", fmt.Errorf("no content generated"))
	}

	var responseText string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			responseText += part.Text
		}
	}

	if responseText == "" {
		return "", domain.UpstreamFailure("gemini", fmt.Errorf("empty response"))
	}

	return responseText, nil
}

func buildCorrectionPrompt(text string, language string) string {
	name := languageDisplayName(language)
	return fmt.Sprintf(`You are a %s language tutor. The student said: "%s"

Check the sentence for grammatical mistakes and correct them.
Rules:
- Respond only in %s. Never translate.
- If the sentence is already correct, return it unchanged.
- Return a single JSON object with exactly one key "corrected_text".

Example: {"corrected_text": "..."}`, name, text, name)
}

func buildReplyPrompt(message string, history []repositories.ChatMessage, language string) string {
	name := languageDisplayName(language)

	var context strings.Builder
	for _, turn := range boundHistory(history, maxHistoryTurns) {
		switch turn.Role {
		case repositories.AssistantRole:
			context.WriteString("Assistant: " + turn.Content + "\n")
		default:
			context.WriteString("User: " + turn.Content + "\n")
		}
	}
	context.WriteString("User: " + message + "\n")

	return fmt.Sprintf(`You are a friendly conversation partner helping someone practice %s.

Conversation so far:
%s
Continue the conversation naturally.
Rules:
- Respond only in %s.
- Stay conversational, 1 to 3 sentences.
- Return strict JSON: {"reply": "..."}`, name, context.String(), name)
}

// boundHistory returns at most the last limit turns, preserving order.
func boundHistory(history []repositories.ChatMessage, limit int) []repositories.ChatMessage {
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

// languageDisplayName resolves a language code to its display name,
// passing unmapped codes through verbatim.
func languageDisplayName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// NewGeminiConfigFromEnv creates a new GeminiConfig from environment
// variables.
func NewGeminiConfigFromEnv() GeminiConfig {
	config := GeminiConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	}

	if tempStr := os.Getenv("GEMINI_TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 32); err == nil && temp >= 0 && temp <= 1 {
			config.Temperature = float32(temp)
		}
	}

	if maxStr := os.Getenv("GEMINI_MAX_OUTPUT_TOKENS"); maxStr != "" {
		if max, err := strconv.Atoi(maxStr); err == nil && max > 0 {
			config.MaxOutputTokens = max
		}
	}

	if timeoutStr := os.Getenv("GEMINI_TIMEOUT_SECONDS"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			config.TimeoutSeconds = timeout
		}
	}

	return config
}
