package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/parlo-app/server/domain/entities"
)

const stateCookieName = "oauth_state"

// currentUser returns the authenticated account set by requireAuth, or
// nil.
func currentUser(c echo.Context) *entities.User {
	if user, ok := c.Get("user").(*entities.User); ok {
		return user
	}
	return nil
}

// requireAuth validates the bearer token and loads the account into
// the request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var token string
		authHeader := c.Request().Header.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}

		if token == "" {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "missing_token",
				Message: "JWT token is required in Authorization header",
			})
		}

		claims, err := s.Tokens.ValidateToken(token)
		if err != nil {
			s.Logger.Warn("Request rejected: invalid token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Invalid or expired JWT token",
			})
		}

		user, err := s.Users.GetByID(c.Request().Context(), claims.UserID)
		if err != nil {
			s.Logger.Error("Failed to load authenticated user", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to load account",
			})
		}
		if user == nil {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unknown_account",
				Message: "Account no longer exists",
			})
		}

		c.Set("user", user)
		return next(c)
	}
}

func (s *Server) login(c echo.Context) error {
	if !s.OAuth.Configured() {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "oauth_not_configured",
			Message: "Google OAuth is not configured",
		})
	}

	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
	})

	return c.Redirect(http.StatusTemporaryRedirect, s.OAuth.AuthCodeURL(state))
}

func (s *Server) callback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_code",
			Message: "Authorization code is required",
		})
	}

	if cookie, err := c.Cookie(stateCookieName); err != nil || cookie.Value != c.QueryParam("state") {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_state",
			Message: "OAuth state mismatch",
		})
	}

	ctx := c.Request().Context()
	profile, err := s.OAuth.Exchange(ctx, code)
	if err != nil {
		s.Logger.Warn("OAuth exchange failed", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "oauth_failed",
			Message: "Could not verify Google account",
		})
	}

	user, err := s.Users.GetByGoogleIDOrEmail(ctx, profile.ID, profile.Email)
	if err != nil {
		s.Logger.Error("User lookup failed", zap.Error(err))
		return s.respondError(c, err)
	}

	if user == nil {
		user = &entities.User{
			Email:    profile.Email,
			GoogleID: profile.ID,
			Name:     profile.Name,
			Picture:  profile.Picture,
		}
		if err := s.Users.Create(ctx, user); err != nil {
			s.Logger.Error("User creation failed", zap.Error(err))
			return s.respondError(c, err)
		}
		s.Logger.Info("New account created", zap.String("userID", user.ID))
	} else {
		user.Email = profile.Email
		user.GoogleID = profile.ID
		if profile.Name != "" {
			user.Name = profile.Name
		}
		if profile.Picture != "" {
			user.Picture = profile.Picture
		}
		if err := s.Users.Update(ctx, user); err != nil {
			s.Logger.Error("User update failed", zap.Error(err))
			return s.respondError(c, err)
		}
	}

	token, err := s.Tokens.GenerateUserToken(user.ID)
	if err != nil {
		s.Logger.Error("Token generation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (s *Server) me(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) logout(c echo.Context) error {
	// Stateless sessions: the client discards its token.
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Successfully logged out",
	})
}

func (s *Server) authStatus(c echo.Context) error {
	configured := s.OAuth.Configured()
	message := "OAuth is configured"
	if !configured {
		message = "OAuth is not configured. Please set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET."
	}
	return c.JSON(http.StatusOK, AuthStatusResponse{
		Configured:      configured,
		ClientIDSet:     s.OAuth.ClientIDSet(),
		ClientSecretSet: s.OAuth.ClientSecretSet(),
		RedirectURI:     s.OAuth.RedirectURI(),
		Message:         message,
	})
}
