package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the Google userinfo response the
// server consumes.
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleOAuth wraps the Google authorization-code flow. Token exchange
// semantics belong to the oauth2 library; this type only sequences the
// redirect, the exchange, and the profile fetch.
type GoogleOAuth struct {
	config *oauth2.Config
}

// NewGoogleOAuth creates a Google OAuth client for the code flow.
func NewGoogleOAuth(clientID, clientSecret, redirectURI string) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Configured reports whether client credentials are present.
func (g *GoogleOAuth) Configured() bool {
	return g.ClientIDSet() && g.ClientSecretSet()
}

// ClientIDSet reports whether a client id is configured.
func (g *GoogleOAuth) ClientIDSet() bool {
	return g.config.ClientID != ""
}

// ClientSecretSet reports whether a client secret is configured.
func (g *GoogleOAuth) ClientSecretSet() bool {
	return g.config.ClientSecret != ""
}

// RedirectURI returns the configured callback URL.
func (g *GoogleOAuth) RedirectURI() string {
	return g.config.RedirectURL
}

// AuthCodeURL builds the Google consent page URL for state.
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for the user's profile.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := g.config.Client(ctx, token)
	resp, err := client.Get(userinfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if profile.Email == "" || profile.ID == "" {
		return nil, fmt.Errorf("user info missing email or subject id")
	}

	return &profile, nil
}
