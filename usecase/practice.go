package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parlo-app/server/domain/repositories"
)

// PracticeResult is the outcome of one practice pipeline run.
type PracticeResult struct {
	CorrectedText string
	Audio         []byte
	AudioFormat   string
}

// PracticeService orchestrates the "repeat after me" drill: transcribe
// the learner's audio, correct it, and synthesize the corrected
// sentence in the requested voice.
type PracticeService struct {
	speechToText  repositories.SpeechToText
	languageModel repositories.LanguageModel
	synthesizer   repositories.VoiceSynthesizer
	voices        *VoiceService
	logger        *zap.Logger
}

// NewPracticeService creates a new practice service
func NewPracticeService(
	stt repositories.SpeechToText,
	llm repositories.LanguageModel,
	tts repositories.VoiceSynthesizer,
	voices *VoiceService,
	logger *zap.Logger,
) *PracticeService {
	return &PracticeService{
		speechToText:  stt,
		languageModel: llm,
		synthesizer:   tts,
		voices:        voices,
		logger:        logger,
	}
}

// Run executes the practice pipeline for one uploaded clip. Stages are
// strictly sequential; any stage failure aborts the run and discards
// all intermediate results.
func (s *PracticeService) Run(ctx context.Context, audio []byte, targetLang string, modelID string) (*PracticeResult, error) {
	logger := s.logger.With(zap.String("runID", uuid.NewString()))
	logger.Info("Practice pipeline started",
		zap.Int("audioSize", len(audio)),
		zap.String("targetLanguage", targetLang))

	utterance, err := transcribeUpload(ctx, s.speechToText, audio, targetLang, logger)
	if err != nil {
		return nil, err
	}

	correctedText, err := s.languageModel.Correct(ctx, utterance.Text, targetLang)
	if err != nil {
		return nil, err
	}

	voiceRef, err := s.voices.Resolve(modelID)
	if err != nil {
		return nil, err
	}

	audioOut, err := s.synthesizer.Synthesize(ctx, correctedText, voiceRef)
	if err != nil {
		return nil, err
	}

	logger.Info("Practice pipeline completed",
		zap.Int("audioSize", len(audioOut)),
		zap.String("audioFormat", s.synthesizer.OutputFormat()))

	return &PracticeResult{
		CorrectedText: correctedText,
		Audio:         audioOut,
		AudioFormat:   s.synthesizer.OutputFormat(),
	}, nil
}
