package usecase

import (
	"context"

	"github.com/parlo-app/server/domain/entities"
	"github.com/parlo-app/server/domain/repositories"
	"github.com/parlo-app/server/internal/voices"
)

type mockSpeechToText struct {
	utterance repositories.Utterance
	err       error
	calls     int
	lastLang  string
}

func (m *mockSpeechToText) Transcribe(ctx context.Context, audioData []byte, languageHint string) (repositories.Utterance, error) {
	m.calls++
	m.lastLang = languageHint
	return m.utterance, m.err
}

type mockLanguageModel struct {
	corrected    string
	reply        string
	correctErr   error
	replyErr     error
	correctCalls int
	replyCalls   int
	lastText     string
	lastHistory  []repositories.ChatMessage
}

func (m *mockLanguageModel) Correct(ctx context.Context, text string, language string) (string, error) {
	m.correctCalls++
	m.lastText = text
	return m.corrected, m.correctErr
}

func (m *mockLanguageModel) Reply(ctx context.Context, message string, history []repositories.ChatMessage, language string) (string, error) {
	m.replyCalls++
	m.lastText = message
	m.lastHistory = history
	return m.reply, m.replyErr
}

type mockSynthesizer struct {
	audio      []byte
	format     string
	err        error
	cloneID    string
	cloneErr   error
	calls      int
	cloneCalls int
	lastText   string
	lastVoice  string
	lastTitle  string
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, text string, voiceReference string) ([]byte, error) {
	m.calls++
	m.lastText = text
	m.lastVoice = voiceReference
	return m.audio, m.err
}

func (m *mockSynthesizer) CreateClone(ctx context.Context, audioSample []byte, title string, description string) (string, error) {
	m.cloneCalls++
	m.lastTitle = title
	return m.cloneID, m.cloneErr
}

func (m *mockSynthesizer) OutputFormat() string {
	if m.format == "" {
		return "mp3"
	}
	return m.format
}

type mockUserRepository struct {
	users       map[string]*entities.User
	voiceID     string
	voiceName   string
	voiceCalls  int
	lastVoiceID string
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepository) GetByGoogleIDOrEmail(ctx context.Context, googleID string, email string) (*entities.User, error) {
	for _, user := range m.users {
		if user.GoogleID == googleID || user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) error {
	if m.users == nil {
		m.users = map[string]*entities.User{}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return nil
}

func (m *mockUserRepository) UpdateVoice(ctx context.Context, userID string, voiceModelID string, voiceName string) error {
	m.voiceCalls++
	m.voiceID = voiceModelID
	m.voiceName = voiceName
	m.lastVoiceID = voiceModelID
	return nil
}

type fakeRegistry map[string]voices.PresetVoice

func (r fakeRegistry) Lookup(key string) (voices.PresetVoice, bool, error) {
	voice, ok := r[key]
	return voice, ok, nil
}

func (r fakeRegistry) All() (map[string]voices.PresetVoice, error) {
	return r, nil
}
