package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/lmorales-dev/vestra-backend/pkg/config"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

// Identity is the normalized profile a provider reports after code exchange.
type Identity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	AvatarURL  *string
}

type providerClient interface {
	AuthCodeURL(state string) string
	FetchIdentity(ctx context.Context, code string) (*Identity, error)
}

// newProviders builds the provider registry from config. Providers missing
// credentials are left out so sign-in attempts against them fail cleanly.
func newProviders(cfg config.OAuthConfig) map[string]providerClient {
	registry := make(map[string]providerClient)
	if p := cfg.Google(); p.Configured() {
		registry[ProviderGoogle] = &googleProvider{cfg: &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}}
	}
	if p := cfg.GitHub(); p.Configured() {
		registry[ProviderGitHub] = &githubProvider{cfg: &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}}
	}
	return registry
}

type googleProvider struct {
	cfg *oauth2.Config
}

func (g *googleProvider) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *googleProvider) FetchIdentity(ctx context.Context, code string) (*Identity, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange google code: %w", err)
	}

	var payload struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := fetchJSON(ctx, g.cfg.Client(ctx, token), googleUserInfoURL, &payload); err != nil {
		return nil, fmt.Errorf("fetch google profile: %w", err)
	}
	if payload.Email == "" {
		return nil, fmt.Errorf("google profile missing email")
	}

	identity := &Identity{
		Provider:   ProviderGoogle,
		ProviderID: payload.Sub,
		Email:      payload.Email,
		Name:       payload.Name,
	}
	if payload.Picture != "" {
		identity.AvatarURL = &payload.Picture
	}
	if identity.Name == "" {
		identity.Name = identity.Email
	}
	return identity, nil
}

type githubProvider struct {
	cfg *oauth2.Config
}

func (g *githubProvider) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

func (g *githubProvider) FetchIdentity(ctx context.Context, code string) (*Identity, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange github code: %w", err)
	}
	client := g.cfg.Client(ctx, token)

	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := fetchJSON(ctx, client, githubUserURL, &payload); err != nil {
		return nil, fmt.Errorf("fetch github profile: %w", err)
	}

	email := payload.Email
	if email == "" {
		// The profile email is often hidden; the emails endpoint still lists it.
		primary, err := fetchGitHubPrimaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
		email = primary
	}
	if email == "" {
		return nil, fmt.Errorf("github profile missing email")
	}

	identity := &Identity{
		Provider:   ProviderGitHub,
		ProviderID: strconv.FormatInt(payload.ID, 10),
		Email:      email,
		Name:       payload.Name,
	}
	if payload.AvatarURL != "" {
		identity.AvatarURL = &payload.AvatarURL
	}
	if identity.Name == "" {
		identity.Name = payload.Login
	}
	return identity, nil
}

func fetchGitHubPrimaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := fetchJSON(ctx, client, githubEmailsURL, &emails); err != nil {
		return "", fmt.Errorf("fetch github emails: %w", err)
	}
	for _, entry := range emails {
		if entry.Primary && entry.Verified {
			return entry.Email, nil
		}
	}
	for _, entry := range emails {
		if entry.Verified {
			return entry.Email, nil
		}
	}
	return "", nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
