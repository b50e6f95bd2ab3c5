package repositories

import "context"

// LanguageAuto asks the speech provider to detect the spoken language
// instead of being told which one to expect.
const LanguageAuto = "auto"

// Utterance is a transcription result. Confidence is advisory and
// never blocks the pipeline.
type Utterance struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	// DetectedLanguage is set when the provider performed language
	// detection. Informational only; the caller-supplied target
	// language stays authoritative for downstream stages.
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// Transcribe converts audio data to text. languageHint is a
	// language code, or LanguageAuto for provider-side detection.
	Transcribe(ctx context.Context, audioData []byte, languageHint string) (Utterance, error)
}
