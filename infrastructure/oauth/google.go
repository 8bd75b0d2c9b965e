package oauth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"travelkeep/pkg/config"
)

// GoogleOAuth handles the Google sign-in flow: authorization URL, code
// exchange and userinfo lookup.
type GoogleOAuth struct {
	config *oauth2.Config
}

type GoogleUserInfo struct {
	ID         string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Picture    string
}

type TokenInfo struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

func NewGoogleOAuth(cfg config.GoogleOAuthConfig) *GoogleOAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			googleoauth2.OpenIDScope,
			googleoauth2.UserinfoEmailScope,
			googleoauth2.UserinfoProfileScope,
		},
		Endpoint: google.Endpoint,
	}

	return &GoogleOAuth{config: oauthConfig}
}

// GetAuthURL generates the OAuth authorization URL
func (g *GoogleOAuth) GetAuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode exchanges the authorization code for tokens
func (g *GoogleOAuth) ExchangeCode(ctx context.Context, code string) (*TokenInfo, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return &TokenInfo{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
	}, nil
}

// GetUserInfo fetches the user's profile information using the access token
func (g *GoogleOAuth) GetUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	svc, err := googleoauth2.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	if info.Id == "" {
		return nil, errors.New("invalid user info: missing ID")
	}

	return &GoogleUserInfo{
		ID:         info.Id,
		Email:      info.Email,
		Name:       info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		Picture:    info.Picture,
	}, nil
}

// ValidateConfig checks if the Google OAuth configuration is valid
func (g *GoogleOAuth) ValidateConfig() error {
	if g.config.ClientID == "" {
		return errors.New("GOOGLE_CLIENT_ID is not configured")
	}
	if g.config.ClientSecret == "" {
		return errors.New("GOOGLE_CLIENT_SECRET is not configured")
	}
	if g.config.RedirectURL == "" {
		return errors.New("GOOGLE_REDIRECT_URL is not configured")
	}
	return nil
}
