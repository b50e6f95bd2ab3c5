package repositories

import "context"

// VoiceSynthesizer abstracts the voice-cloning text-to-speech
// provider.
type VoiceSynthesizer interface {
	// Synthesize renders text with the given voice reference and
	// returns the full audio payload as opaque bytes.
	Synthesize(ctx context.Context, text string, voiceReference string) ([]byte, error)
	// CreateClone registers a new cloned voice from an audio sample and
	// returns the provider-issued voice reference.
	CreateClone(ctx context.Context, audioSample []byte, title string, description string) (string, error)
	// OutputFormat reports the audio container the provider is
	// configured to emit, e.g. "mp3" or "wav".
	OutputFormat() string
}
