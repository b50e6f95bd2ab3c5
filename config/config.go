package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings holds every environment-sourced value the server needs,
// read once at startup and passed down explicitly.
type Settings struct {
	// Server
	Port      string
	ServerURL string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// JWT sessions
	JWTSecret          string
	TokenExpiryMinutes int

	// Providers
	DeepgramAPIKey  string
	GeminiAPIKey    string
	FishAudioAPIKey string

	// Provider request timeout, seconds. Applied to every outbound
	// provider call; the source design had none.
	ProviderTimeoutSeconds int

	// Storage
	MongoURI      string
	MongoDatabase string

	// Static preset voice registry
	PresetVoicesPath string
}

// Load reads settings from the environment, loading a .env file first
// when one is present.
func Load() (*Settings, error) {
	// Missing .env is fine in production, real env vars take over.
	_ = godotenv.Load()

	s := &Settings{
		Port:               getEnv("PORT", "8080"),
		ServerURL:          getEnv("SERVER_URL", "http://localhost:8080"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/auth/callback"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenExpiryMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),

		DeepgramAPIKey:  os.Getenv("DEEPGRAM_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		FishAudioAPIKey: os.Getenv("FISH_AUDIO_API_KEY"),

		ProviderTimeoutSeconds: getEnvInt("PROVIDER_TIMEOUT_SECONDS", 60),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "parlo"),

		PresetVoicesPath: getEnv("PRESET_VOICES_PATH", "preset_voices.json"),
	}

	if s.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return s, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
