package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/abduss/uploader/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *memoryAccounts) {
	store := &memoryAccounts{byEmail: make(map[string]Account)}
	return NewService(store, config.AuthConfig{
		TokenSecret: "test-secret",
		TokenTTL:    time.Minute,
		BcryptCost:  4,
	}), store
}

func TestRegisterOpensSessionForNewOwner(t *testing.T) {
	service, store := newTestService()

	session, err := service.Register(context.Background(), " Owner@Example.com ", "StrongPass1!")
	require.NoError(t, err)

	assert.Empty(t, session.Account.PasswordHash)
	assert.Equal(t, "owner@example.com", session.Account.Email)
	assert.NotEmpty(t, store.byEmail["owner@example.com"].PasswordHash)

	id, err := service.Authenticate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, id.OwnerID)
	assert.Equal(t, "owner@example.com", id.Email)
}

func TestRegisterRejects(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, "owner@example.com", "StrongPass1!")
	require.NoError(t, err)

	_, err = service.Register(ctx, "OWNER@example.com", "AnotherPass2!")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = service.Register(ctx, "not-an-email", "StrongPass1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Register(ctx, "short@example.com", "short")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	registered, err := service.Register(ctx, "owner@example.com", "StrongPass1!")
	require.NoError(t, err)

	session, err := service.Login(ctx, "owner@example.com", "StrongPass1!")
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, session.Account.ID)

	_, err = service.Login(ctx, "owner@example.com", "WrongPass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, "nobody@example.com", "StrongPass1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectsExpired(t *testing.T) {
	service, _ := newTestService()

	session, err := service.Register(context.Background(), "owner@example.com", "StrongPass1!")
	require.NoError(t, err)

	service.nowFunc = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = service.Authenticate(session.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateRejectsForeignTokens(t *testing.T) {
	service, _ := newTestService()

	sign := func(claims jwt.RegisteredClaims, secret string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := jwt.RegisteredClaims{
		Subject:   "U1",
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}

	id, err := service.Authenticate(sign(valid, "test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "U1", id.OwnerID)

	wrongAudience := valid
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}
	noSubject := valid
	noSubject.Subject = ""
	noExpiry := valid
	noExpiry.ExpiresAt = nil

	for name, token := range map[string]string{
		"other secret":   sign(valid, "other-secret"),
		"wrong audience": sign(wrongAudience, "test-secret"),
		"no subject":     sign(noSubject, "test-secret"),
		"no expiry":      sign(noExpiry, "test-secret"),
		"blank":          "   ",
	} {
		_, err := service.Authenticate(token)
		assert.ErrorIs(t, err, ErrUnauthorized, name)
	}
}

type memoryAccounts struct {
	byEmail map[string]Account
}

func (m *memoryAccounts) Create(_ context.Context, email, passwordHash string) (Account, error) {
	if _, ok := m.byEmail[email]; ok {
		return Account{}, ErrEmailTaken
	}
	a := Account{
		ID:           "acct-" + strconv.Itoa(len(m.byEmail)+1),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.byEmail[email] = a
	return a, nil
}

func (m *memoryAccounts) FindByEmail(_ context.Context, email string) (Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}
