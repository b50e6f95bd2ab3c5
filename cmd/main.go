package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/parlo-app/server/adapters/llm"
	"github.com/parlo-app/server/adapters/mongo"
	"github.com/parlo-app/server/adapters/stt"
	"github.com/parlo-app/server/adapters/tts"
	"github.com/parlo-app/server/config"
	"github.com/parlo-app/server/internal/api"
	"github.com/parlo-app/server/internal/auth"
	"github.com/parlo-app/server/internal/voices"
	"github.com/parlo-app/server/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	settings, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Storage
	mongoClient, err := mongo.NewClient(settings.MongoURI, settings.MongoDatabase, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	userRepository := mongo.NewUserRepository(mongoClient.Database)

	// Provider adapters
	speechToText, err := stt.NewDeepgramSTT(stt.DeepgramConfig{
		APIKey:         settings.DeepgramAPIKey,
		TimeoutSeconds: settings.ProviderTimeoutSeconds,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech-to-text", zap.Error(err))
	}

	languageModel, err := llm.NewGeminiLLM(context.Background(), llm.GeminiConfig{
		APIKey:         settings.GeminiAPIKey,
		TimeoutSeconds: settings.ProviderTimeoutSeconds,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize language model", zap.Error(err))
	}

	synthesizer, err := tts.NewFishAudioTTS(tts.FishAudioConfig{
		APIKey:         settings.FishAudioAPIKey,
		TimeoutSeconds: settings.ProviderTimeoutSeconds,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize voice synthesizer", zap.Error(err))
	}

	// Usecase services
	registry := voices.NewFileRegistry(settings.PresetVoicesPath)
	voiceService := usecase.NewVoiceService(registry, synthesizer, userRepository, logger)
	practiceService := usecase.NewPracticeService(speechToText, languageModel, synthesizer, voiceService, logger)
	conversationService := usecase.NewConversationService(speechToText, languageModel, synthesizer, voiceService, logger)

	// Auth
	tokenIssuer := auth.NewTokenIssuer(settings.JWTSecret, settings.TokenExpiryMinutes)
	googleOAuth := auth.NewGoogleOAuth(settings.GoogleClientID, settings.GoogleClientSecret, settings.GoogleRedirectURI)
	if !googleOAuth.Configured() {
		logger.Warn("Google OAuth credentials are not set, login endpoints will be unavailable")
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize API routes
	api.InitRoutes(e, &api.Server{
		Practice:     practiceService,
		Conversation: conversationService,
		Voices:       voiceService,
		Synthesizer:  synthesizer,
		Users:        userRepository,
		Registry:     registry,
		OAuth:        googleOAuth,
		Tokens:       tokenIssuer,
		Logger:       logger,
	})

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + settings.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", settings.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := mongoClient.Close(ctx); err != nil {
		logger.Error("Failed to close MongoDB connection", zap.Error(err))
	}

	logger.Info("Server exited")
}
