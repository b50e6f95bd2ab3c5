package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/parlo-app/server/domain"
	"github.com/parlo-app/server/domain/repositories"
	"github.com/parlo-app/server/internal/auth"
	"github.com/parlo-app/server/internal/voices"
	"github.com/parlo-app/server/usecase"
)

// Server bundles the dependencies the HTTP handlers need. Everything
// is constructed once at process start and injected here.
type Server struct {
	Practice     *usecase.PracticeService
	Conversation *usecase.ConversationService
	Voices       *usecase.VoiceService
	Synthesizer  repositories.VoiceSynthesizer
	Users        repositories.UserRepository
	Registry     voices.Registry
	OAuth        *auth.GoogleOAuth
	Tokens       *auth.TokenIssuer
	Logger       *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, s *Server) {
	e.GET("/", s.index)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "parlo-server",
		})
	})

	// Pipeline APIs
	apiGroup := e.Group("/api")
	apiGroup.POST("/practice", s.practice)
	apiGroup.POST("/reply", s.reply)
	apiGroup.POST("/tts", s.tts)
	apiGroup.GET("/preset_voices", s.presetVoices)
	apiGroup.POST("/create_clone", s.createClone, s.requireAuth)

	// OAuth + session APIs
	authGroup := e.Group("/auth")
	authGroup.GET("/login", s.login)
	authGroup.GET("/callback", s.callback)
	authGroup.GET("/me", s.me, s.requireAuth)
	authGroup.POST("/logout", s.logout)
	authGroup.GET("/status", s.authStatus)
}

func (s *Server) index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Language Conversation API",
		"auth": map[string]string{
			"login":    "/auth/login",
			"callback": "/auth/callback",
			"me":       "/auth/me",
		},
	})
}

// respondError maps a pipeline error to an HTTP response. Provider
// internals stay in the logs; clients get a fixed message per error
// class.
func (s *Server) respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		message := "Invalid request"
		var reqErr *domain.RequestError
		if errors.As(err, &reqErr) {
			message = reqErr.Reason
		}
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: message,
		})

	case errors.Is(err, domain.ErrNoSpeechDetected):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "no_speech_detected",
			Message: "No speech was detected",
		})

	case errors.Is(err, domain.ErrUpstream), errors.Is(err, domain.ErrMalformedModelOutput):
		s.Logger.Error("Pipeline stage failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "processing_failed",
			Message: "Something went wrong while processing your request. Please try again.",
		})

	default:
		s.Logger.Error("Unexpected handler error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong while processing your request. Please try again.",
		})
	}
}
