package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lmorales-dev/vestra-backend/internal/users"
	pkgauth "github.com/lmorales-dev/vestra-backend/pkg/auth"
	"github.com/lmorales-dev/vestra-backend/pkg/auth/session"
	"github.com/lmorales-dev/vestra-backend/pkg/config"
	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
	redisclient "github.com/lmorales-dev/vestra-backend/pkg/redis"
)

const stateBytes = 24

// UserDTO is the signed-in user's profile payload.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Provider  string    `json:"provider"`
}

// TokenPairDTO carries a freshly minted access/refresh pair.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignInResultDTO is returned once the OAuth callback completes.
type SignInResultDTO struct {
	User   UserDTO      `json:"user"`
	Tokens TokenPairDTO `json:"tokens"`
}

type userStore interface {
	UpsertByEmail(ctx context.Context, params users.UpsertParams) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type stateStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	OAuthStateKey(state string) string
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	OAuth    config.OAuthConfig
	JWT      config.JWTConfig
	Users    userStore
	State    stateStore
	Sessions sessionManager
}

// Service exposes the OAuth sign-in and session lifecycle.
type Service interface {
	BeginSignIn(ctx context.Context, provider string) (string, error)
	CompleteSignIn(ctx context.Context, provider, state, code string) (*SignInResultDTO, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPairDTO, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

type service struct {
	providers map[string]providerClient
	jwtCfg    config.JWTConfig
	stateTTL  time.Duration
	users     userStore
	state     stateStore
	sessions  sessionManager
	now       func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user store is required")
	}
	if params.State == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "state store is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	stateTTL := params.OAuth.StateTTL
	if stateTTL <= 0 {
		stateTTL = 10 * time.Minute
	}
	return &service{
		providers: newProviders(params.OAuth),
		jwtCfg:    params.JWT,
		stateTTL:  stateTTL,
		users:     params.Users,
		state:     params.State,
		sessions:  params.Sessions,
		now:       time.Now,
	}, nil
}

// BeginSignIn issues a one-shot state nonce and returns the provider's
// consent URL.
func (s *service) BeginSignIn(ctx context.Context, provider string) (string, error) {
	client, ok := s.providers[provider]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown sign-in provider")
	}

	state, err := newStateNonce()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate oauth state")
	}
	if err := s.state.Set(ctx, s.state.OAuthStateKey(state), provider, s.stateTTL); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store oauth state")
	}
	return client.AuthCodeURL(state), nil
}

// CompleteSignIn consumes the state nonce, exchanges the code, and resolves
// the reported profile to a user row plus a token pair.
func (s *service) CompleteSignIn(ctx context.Context, provider, state, code string) (*SignInResultDTO, error) {
	client, ok := s.providers[provider]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sign-in provider")
	}
	if state == "" || code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "state and code are required")
	}

	key := s.state.OAuthStateKey(state)
	issuedFor, err := s.state.Get(ctx, key)
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired oauth state")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load oauth state")
	}
	if issuedFor != provider {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "oauth state issued for a different provider")
	}
	// Consume the nonce before the exchange so a replayed callback cannot race it.
	if err := s.state.Del(ctx, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume oauth state")
	}

	identity, err := client.FetchIdentity(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "provider sign-in failed")
	}

	user, err := s.users.UpsertByEmail(ctx, users.UpsertParams{
		Email:      identity.Email,
		Name:       identity.Name,
		AvatarURL:  identity.AvatarURL,
		Provider:   identity.Provider,
		ProviderID: identity.ProviderID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert user")
	}

	tokens, err := s.mintTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &SignInResultDTO{User: newUserDTO(user), Tokens: *tokens}, nil
}

// Refresh rotates the refresh token and mints a new access token for the
// same user.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPairDTO, error) {
	if accessToken == "" || refreshToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access and refresh tokens are required")
	}

	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &TokenPairDTO{AccessToken: signed, RefreshToken: newRefresh}, nil
}

// Logout revokes the session tied to the presented access token. Expired
// tokens still log out.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access token is required")
	}
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Me loads the signed-in user's profile.
func (s *service) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	dto := newUserDTO(user)
	return &dto, nil
}

func (s *service) mintTokens(ctx context.Context, user *models.User) (*TokenPairDTO, error) {
	accessID := session.NewAccessID()
	signed, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	return &TokenPairDTO{AccessToken: signed, RefreshToken: refresh}, nil
}

func newUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Provider:  user.Provider,
	}
}

func newStateNonce() (string, error) {
	bytes := make([]byte, stateBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating state nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
