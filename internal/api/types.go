package api

import "github.com/parlo-app/server/domain/entities"

// PracticeResponse is the result of one practice pipeline run.
type PracticeResponse struct {
	Success       bool   `json:"success"`
	CorrectedText string `json:"corrected_text"`
	AudioBase64   string `json:"audio_base64"`
	AudioFormat   string `json:"audio_format"`
}

// ReplyResponse is the result of one conversation pipeline run.
type ReplyResponse struct {
	Success     bool   `json:"success"`
	UserMessage string `json:"user_message"`
	ReplyText   string `json:"reply_text"`
	ReplyAudio  string `json:"reply_audio"`
	AudioFormat string `json:"audio_format"`
}

// TTSRequest represents the request payload for direct synthesis
type TTSRequest struct {
	Transcript string `json:"transcript"`
	ModelID    string `json:"model_id"`
}

// CloneResponse represents the response payload for voice cloning
type CloneResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	VoiceID   string `json:"voice_id"`
	VoiceName string `json:"voice_name"`
}

// TokenResponse carries a freshly issued session token plus the
// account it belongs to.
type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *entities.User `json:"user"`
}

// AuthStatusResponse reports OAuth configuration state
type AuthStatusResponse struct {
	Configured      bool   `json:"configured"`
	ClientIDSet     bool   `json:"client_id_set"`
	ClientSecretSet bool   `json:"client_secret_set"`
	RedirectURI     string `json:"redirect_uri"`
	Message         string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
