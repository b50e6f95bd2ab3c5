package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parlo-app/server/domain/repositories"
)

// ConversationResult is the outcome of one conversation pipeline run.
type ConversationResult struct {
	UserMessage string
	ReplyText   string
	Audio       []byte
	AudioFormat string
}

// ConversationService orchestrates open-ended dialogue: transcribe the
// learner's turn, generate a reply threaded with prior turns, and
// synthesize it.
type ConversationService struct {
	speechToText  repositories.SpeechToText
	languageModel repositories.LanguageModel
	synthesizer   repositories.VoiceSynthesizer
	voices        *VoiceService
	logger        *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	stt repositories.SpeechToText,
	llm repositories.LanguageModel,
	tts repositories.VoiceSynthesizer,
	voices *VoiceService,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		speechToText:  stt,
		languageModel: llm,
		synthesizer:   tts,
		voices:        voices,
		logger:        logger,
	}
}

// Run executes the conversation pipeline for one uploaded clip.
// historyJSON is the client-held prior turns, serialized; it is parsed
// defensively and never aborts the run.
func (s *ConversationService) Run(ctx context.Context, audio []byte, targetLang string, modelID string, historyJSON string) (*ConversationResult, error) {
	logger := s.logger.With(zap.String("runID", uuid.NewString()))
	logger.Info("Conversation pipeline started",
		zap.Int("audioSize", len(audio)),
		zap.String("targetLanguage", targetLang))

	utterance, err := transcribeUpload(ctx, s.speechToText, audio, targetLang, logger)
	if err != nil {
		return nil, err
	}

	history := ParseHistory(historyJSON)
	if historyJSON != "" && len(history) == 0 {
		logger.Warn("Chat history could not be parsed, continuing without it")
	}

	replyText, err := s.languageModel.Reply(ctx, utterance.Text, history, targetLang)
	if err != nil {
		return nil, err
	}

	voiceRef, err := s.voices.Resolve(modelID)
	if err != nil {
		return nil, err
	}

	audioOut, err := s.synthesizer.Synthesize(ctx, replyText, voiceRef)
	if err != nil {
		return nil, err
	}

	logger.Info("Conversation pipeline completed",
		zap.Int("historyTurns", len(history)),
		zap.Int("audioSize", len(audioOut)))

	return &ConversationResult{
		UserMessage: utterance.Text,
		ReplyText:   replyText,
		Audio:       audioOut,
		AudioFormat: s.synthesizer.OutputFormat(),
	}, nil
}

// ParseHistory deserializes a client-supplied conversation history.
// Both a bare array of turns and a {"messages": [...]} wrapper are
// accepted. Invalid JSON or an unexpected shape degrades to an empty
// history rather than failing the request; turns without content are
// dropped.
func ParseHistory(raw string) []repositories.ChatMessage {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var turns []repositories.ChatMessage
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		var wrapped struct {
			Messages []repositories.ChatMessage `json:"messages"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return nil
		}
		turns = wrapped.Messages
	}

	var history []repositories.ChatMessage
	for _, turn := range turns {
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		history = append(history, turn)
	}

	return history
}
