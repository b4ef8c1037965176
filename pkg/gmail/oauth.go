package gmail

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Titan-M/mailsift/pkg/types"
)

// refreshWindow is how close to expiry a token must be before we refresh it
const refreshWindow = 5 * time.Minute

// NeedsRefresh reports whether stored credentials should be refreshed
// before use.
func NeedsRefresh(creds *types.GmailCredentials) bool {
	if creds == nil || creds.RefreshToken == "" {
		return false
	}
	if creds.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(creds.ExpiresAt) < refreshWindow
}

// GoogleOAuth refreshes Gmail access tokens using the stored refresh token
type GoogleOAuth struct {
	config *oauth2.Config
}

func NewGoogleOAuth(cfg types.GoogleOAuthConfig) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"https://www.googleapis.com/auth/gmail.readonly"},
		},
	}
}

// IsConfigured returns true if the OAuth client has credentials to work with
func (g *GoogleOAuth) IsConfigured() bool {
	return g.config.ClientID != "" && g.config.ClientSecret != ""
}

// Refresh exchanges the refresh token for a new access token. The refresh
// token itself is preserved when Google doesn't rotate it.
func (g *GoogleOAuth) Refresh(ctx context.Context, creds *types.GmailCredentials) (*types.GmailCredentials, error) {
	if creds.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token available")
	}

	src := g.config.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = creds.RefreshToken
	}

	return &types.GmailCredentials{
		UserId:       creds.UserId,
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}
