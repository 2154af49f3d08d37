package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"formforge/internal/config"
	"formforge/internal/model"

	"go.uber.org/zap"
)

const formsScopes = "https://www.googleapis.com/auth/forms.body https://www.googleapis.com/auth/drive.file"

// GoogleOAuth drives the authorization-code flow for the Forms export
// scopes: consent URL, code exchange and token refresh.
type GoogleOAuth struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authURL      string
	tokenURL     string
	httpClient   *http.Client
	log          *zap.Logger
}

// NewGoogleOAuth creates a new Google OAuth client
func NewGoogleOAuth(cfg config.GoogleConfig, log *zap.Logger) *GoogleOAuth {
	return &GoogleOAuth{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		authURL:      "https://accounts.google.com/o/oauth2/v2/auth",
		tokenURL:     "https://oauth2.googleapis.com/token",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// IsConfigured returns true if the OAuth client credentials are set
func (g *GoogleOAuth) IsConfigured() bool {
	return g.clientID != "" && g.clientSecret != ""
}

// AuthCodeURL builds the consent page URL for the given state nonce
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	v := url.Values{}
	v.Set("client_id", g.clientID)
	v.Set("redirect_uri", g.redirectURI)
	v.Set("response_type", "code")
	v.Set("scope", formsScopes)
	v.Set("state", state)
	v.Set("access_type", "offline")
	v.Set("prompt", "consent")
	return g.authURL + "?" + v.Encode()
}

// Exchange trades an authorization code for tokens
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*model.GoogleToken, error) {
	v := url.Values{}
	v.Set("grant_type", "authorization_code")
	v.Set("code", code)
	v.Set("redirect_uri", g.redirectURI)
	return g.tokenRequest(ctx, v)
}

// Refresh obtains a fresh access token from a refresh token
func (g *GoogleOAuth) Refresh(ctx context.Context, refreshToken string) (*model.GoogleToken, error) {
	v := url.Values{}
	v.Set("grant_type", "refresh_token")
	v.Set("refresh_token", refreshToken)
	return g.tokenRequest(ctx, v)
}

func (g *GoogleOAuth) tokenRequest(ctx context.Context, v url.Values) (*model.GoogleToken, error) {
	v.Set("client_id", g.clientID)
	v.Set("client_secret", g.clientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", g.tokenURL, strings.NewReader(v.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		g.log.Warn("google token endpoint error",
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tr struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		Scope        string `json:"scope"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &model.GoogleToken{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
		Scope:        tr.Scope,
		Expiry:       time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
