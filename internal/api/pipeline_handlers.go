package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/parlo-app/server/domain"
	"github.com/parlo-app/server/domain/repositories"
)

// readUpload pulls the uploaded audio file out of a multipart form.
func readUpload(c echo.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, domain.InvalidRequest("An audio file is required")
	}
	return readMultipartFile(fileHeader)
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, nil
}

func targetLanguage(c echo.Context) string {
	if lang := strings.TrimSpace(c.FormValue("target_lang")); lang != "" {
		return lang
	}
	return repositories.LanguageAuto
}

func (s *Server) practice(c echo.Context) error {
	audio, err := readUpload(c)
	if err != nil {
		return s.respondError(c, err)
	}

	result, err := s.Practice.Run(
		c.Request().Context(),
		audio,
		targetLanguage(c),
		c.FormValue("model_id"),
	)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, PracticeResponse{
		Success:       true,
		CorrectedText: result.CorrectedText,
		AudioBase64:   base64.StdEncoding.EncodeToString(result.Audio),
		AudioFormat:   result.AudioFormat,
	})
}

func (s *Server) reply(c echo.Context) error {
	audio, err := readUpload(c)
	if err != nil {
		return s.respondError(c, err)
	}

	result, err := s.Conversation.Run(
		c.Request().Context(),
		audio,
		targetLanguage(c),
		c.FormValue("model_id"),
		c.FormValue("chat_history"),
	)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, ReplyResponse{
		Success:     true,
		UserMessage: result.UserMessage,
		ReplyText:   result.ReplyText,
		ReplyAudio:  base64.StdEncoding.EncodeToString(result.Audio),
		AudioFormat: result.AudioFormat,
	})
}

func (s *Server) tts(c echo.Context) error {
	var req TTSRequest
	if err := c.Bind(&req); err != nil {
		return s.respondError(c, domain.InvalidRequest("Invalid request format"))
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return s.respondError(c, domain.InvalidRequest("A transcript is required"))
	}

	voiceRef, err := s.Voices.Resolve(req.ModelID)
	if err != nil {
		return s.respondError(c, err)
	}

	audio, err := s.Synthesizer.Synthesize(c.Request().Context(), req.Transcript, voiceRef)
	if err != nil {
		return s.respondError(c, err)
	}

	format := s.Synthesizer.OutputFormat()
	contentType := "audio/mpeg"
	if format == "wav" {
		contentType = "audio/wav"
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=speech.%s", format))
	return c.Blob(http.StatusOK, contentType, audio)
}

func (s *Server) createClone(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
	}

	audio, err := readUpload(c)
	if err != nil {
		return s.respondError(c, err)
	}

	voiceName := strings.TrimSpace(c.FormValue("voice_name"))
	voiceID, err := s.Voices.CreateClone(c.Request().Context(), user, audio, voiceName)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, CloneResponse{
		Success:   true,
		Message:   "Voice clone saved successfully",
		VoiceID:   voiceID,
		VoiceName: voiceName,
	})
}

func (s *Server) presetVoices(c echo.Context) error {
	presets, err := s.Registry.All()
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"preset_voices": presets,
	})
}
