package googleauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"autopost/domain/model"
	"autopost/domain/repository"
	"autopost/infrastructure/configuration"
	"autopost/infrastructure/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/youtube/v3"
)

// Drive authorization is read-only; YouTube needs upload + force-ssl.
var providerScopes = map[string][]string{
	model.ProviderGoogleDrive: {drive.DriveReadonlyScope},
	model.ProviderGoogleYouTube: {
		youtube.YoutubeUploadScope,
		youtube.YoutubeForceSslScope,
	},
}

// OAuthConfig builds the oauth2 config for a provider from configuration
func OAuthConfig(provider string) (*oauth2.Config, error) {
	if !configuration.IsGoogleConfigured() {
		return nil, fmt.Errorf("google OAuth not configured: set GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REDIRECT_URI")
	}
	scopes, ok := providerScopes[provider]
	if !ok {
		return nil, fmt.Errorf("unknown google provider: %s", provider)
	}
	return &oauth2.Config{
		ClientID:     configuration.C.Google.ClientID,
		ClientSecret: configuration.C.Google.ClientSecret,
		RedirectURL:  configuration.C.Google.RedirectURI,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}, nil
}

// AuthURL returns the consent URL for a provider. Offline access with forced
// consent so a refresh token is always issued.
func AuthURL(provider, state string) (string, error) {
	cfg, err := OAuthConfig(provider)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

// Exchange trades an authorization code for tokens
func Exchange(ctx context.Context, provider, code string) (*oauth2.Token, error) {
	cfg, err := OAuthConfig(provider)
	if err != nil {
		return nil, err
	}
	return cfg.Exchange(ctx, code)
}

// TokenProvider serves valid access tokens from the token store, refreshing
// and persisting rotations transparently.
type TokenProvider struct {
	tokenRepo repository.IOAuthToken
}

func NewTokenProvider(tokenRepo repository.IOAuthToken) *TokenProvider {
	return &TokenProvider{tokenRepo: tokenRepo}
}

func (p *TokenProvider) GetValidAccessToken(ctx context.Context, userID int64, provider string) (string, error) {
	tok, err := p.tokenRepo.GetToken(ctx, userID, provider)
	if err != nil {
		return "", err
	}
	if tok == nil {
		return "", fmt.Errorf("%s not connected. Please authorize access", providerLabel(provider))
	}

	// Not expired (or no recorded expiry): use as stored
	if tok.ExpiresAt == nil || tok.ExpiresAt.After(time.Now()) {
		return tok.AccessToken, nil
	}
	if tok.RefreshToken == nil || *tok.RefreshToken == "" {
		return "", fmt.Errorf("%s credential expired and no refresh token is available", providerLabel(provider))
	}

	cfg, err := OAuthConfig(provider)
	if err != nil {
		return "", err
	}
	refreshed, err := cfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: *tok.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       *tok.ExpiresAt,
	}).Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh %s token: %w", providerLabel(provider), err)
	}

	update := &model.OAuthToken{
		UserID:      userID,
		Provider:    provider,
		AccessToken: refreshed.AccessToken,
		Scope:       tok.Scope,
	}
	if refreshed.RefreshToken != "" {
		v := refreshed.RefreshToken
		update.RefreshToken = &v
	} else {
		update.RefreshToken = tok.RefreshToken
	}
	if !refreshed.Expiry.IsZero() {
		exp := refreshed.Expiry
		update.ExpiresAt = &exp
	}
	if err := p.tokenRepo.UpsertToken(ctx, update); err != nil {
		logger.GetLogger().WithField("error", err).WithField("provider", provider).Warn("Failed to persist refreshed token")
	}
	return refreshed.AccessToken, nil
}

// Revoke invalidates the stored credential with Google (best effort) and
// always deletes it from the store.
func (p *TokenProvider) Revoke(ctx context.Context, userID int64, provider string) error {
	tok, err := p.tokenRepo.GetToken(ctx, userID, provider)
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	form := url.Values{"token": {tok.AccessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://oauth2.googleapis.com/revoke", strings.NewReader(form.Encode()))
	if err == nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if resp, rErr := http.DefaultClient.Do(req); rErr != nil {
			logger.GetLogger().WithField("error", rErr).WithField("provider", provider).Warn("Token revocation request failed")
		} else {
			resp.Body.Close()
		}
	}
	return p.tokenRepo.DeleteToken(ctx, userID, provider)
}

func providerLabel(provider string) string {
	switch provider {
	case model.ProviderGoogleDrive:
		return "Google Drive"
	case model.ProviderGoogleYouTube:
		return "YouTube"
	}
	return provider
}
