package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmorales-dev/vestra-backend/internal/users"
	pkgauth "github.com/lmorales-dev/vestra-backend/pkg/auth"
	"github.com/lmorales-dev/vestra-backend/pkg/auth/session"
	"github.com/lmorales-dev/vestra-backend/pkg/config"
	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
	pkgerrors "github.com/lmorales-dev/vestra-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "vestra-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

type fakeUserStore struct {
	user     *models.User
	upserted *users.UpsertParams
}

func (f *fakeUserStore) UpsertByEmail(ctx context.Context, params users.UpsertParams) (*models.User, error) {
	f.upserted = &params
	if f.user == nil {
		f.user = &models.User{
			ID:       uuid.New(),
			Email:    params.Email,
			Name:     params.Name,
			Provider: params.Provider,
		}
	}
	return f.user, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.user, nil
}

type fakeStateStore struct {
	values map[string]string
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{values: make(map[string]string)}
}

func (f *fakeStateStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStateStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (f *fakeStateStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStateStore) OAuthStateKey(state string) string {
	return "test:oauth_state:" + state
}

type fakeSessions struct {
	generated map[string]string
	revoked   []string
	rotateErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{generated: make(map[string]string)}
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.generated[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	stored, ok := f.generated[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.generated, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh-" + newID
	f.generated[newID] = token
	return newID, token, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	delete(f.generated, accessID)
	return nil
}

type stubProvider struct {
	identity *Identity
	err      error
}

func (s *stubProvider) AuthCodeURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (s *stubProvider) FetchIdentity(ctx context.Context, code string) (*Identity, error) {
	return s.identity, s.err
}

func newTestService(t *testing.T, provider providerClient) (*service, *fakeUserStore, *fakeStateStore, *fakeSessions) {
	t.Helper()

	store := &fakeUserStore{}
	state := newFakeStateStore()
	sessions := newFakeSessions()
	svc := &service{
		providers: map[string]providerClient{ProviderGoogle: provider},
		jwtCfg:    testJWTConfig(),
		stateTTL:  time.Minute,
		users:     store,
		state:     state,
		sessions:  sessions,
		now:       time.Now,
	}
	return svc, store, state, sessions
}

func TestBeginSignInUnknownProvider(t *testing.T) {
	svc, _, _, _ := newTestService(t, &stubProvider{})

	_, err := svc.BeginSignIn(context.Background(), "myspace")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestBeginSignInStoresState(t *testing.T) {
	svc, _, state, _ := newTestService(t, &stubProvider{})

	url, err := svc.BeginSignIn(context.Background(), ProviderGoogle)
	require.NoError(t, err)
	assert.Contains(t, url, "state=")
	assert.Len(t, state.values, 1)
	for _, provider := range state.values {
		assert.Equal(t, ProviderGoogle, provider)
	}
}

func TestCompleteSignInHappyPath(t *testing.T) {
	avatar := "https://cdn.example.com/a.png"
	provider := &stubProvider{identity: &Identity{
		Provider:   ProviderGoogle,
		ProviderID: "sub-123",
		Email:      "ada@example.com",
		Name:       "Ada",
		AvatarURL:  &avatar,
	}}
	svc, store, state, sessions := newTestService(t, provider)

	state.values[state.OAuthStateKey("nonce")] = ProviderGoogle

	result, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "nonce", "code")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	require.NotNil(t, store.upserted)
	assert.Equal(t, "sub-123", store.upserted.ProviderID)

	// The nonce is consumed and the session is live.
	assert.Empty(t, state.values)
	assert.Len(t, sessions.generated, 1)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, store.user.ID, claims.UserID)
}

func TestCompleteSignInRejectsProviderMismatch(t *testing.T) {
	svc, _, state, _ := newTestService(t, &stubProvider{identity: &Identity{Email: "a@b.c"}})
	state.values[state.OAuthStateKey("nonce")] = ProviderGitHub

	_, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "nonce", "code")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefreshRotatesSession(t *testing.T) {
	provider := &stubProvider{identity: &Identity{
		Provider:   ProviderGoogle,
		ProviderID: "sub-1",
		Email:      "ada@example.com",
		Name:       "Ada",
	}}
	svc, _, state, _ := newTestService(t, provider)
	state.values[state.OAuthStateKey("nonce")] = ProviderGoogle

	result, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "nonce", "code")
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), result.Tokens.AccessToken, result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)

	// The old refresh token cannot be replayed.
	_, err = svc.Refresh(context.Background(), result.Tokens.AccessToken, result.Tokens.RefreshToken)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestLogoutRevokesSession(t *testing.T) {
	provider := &stubProvider{identity: &Identity{
		Provider:   ProviderGoogle,
		ProviderID: "sub-1",
		Email:      "ada@example.com",
		Name:       "Ada",
	}}
	svc, _, state, sessions := newTestService(t, provider)
	state.values[state.OAuthStateKey("nonce")] = ProviderGoogle

	result, err := svc.CompleteSignIn(context.Background(), ProviderGoogle, "nonce", "code")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Tokens.AccessToken))
	assert.Len(t, sessions.revoked, 1)
	assert.Empty(t, sessions.generated)
}
