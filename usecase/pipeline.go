package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/parlo-app/server/domain"
	"github.com/parlo-app/server/domain/repositories"
)

// minAudioBytes is a cheap guard against empty or garbage uploads, not
// a real audio-validity check. Providers reject malformed audio
// themselves.
const minAudioBytes = 1000

// transcribeUpload runs the shared front of both pipelines: payload
// floor check, then transcription, then the no-speech guard. No
// downstream stage runs when any of these fail.
func transcribeUpload(ctx context.Context, stt repositories.SpeechToText, audio []byte, targetLang string, logger *zap.Logger) (repositories.Utterance, error) {
	if len(audio) < minAudioBytes {
		return repositories.Utterance{}, domain.InvalidRequest("Audio file is too small or empty")
	}

	utterance, err := stt.Transcribe(ctx, audio, targetLang)
	if err != nil {
		return repositories.Utterance{}, err
	}

	if strings.TrimSpace(utterance.Text) == "" {
		return repositories.Utterance{}, domain.ErrNoSpeechDetected
	}

	// Detected language is informational only; targetLang stays
	// authoritative for the downstream stage.
	logger.Info("Transcription accepted",
		zap.Float64("confidence", utterance.Confidence),
		zap.String("detectedLanguage", utterance.DetectedLanguage),
		zap.String("targetLanguage", targetLang))

	return utterance, nil
}
