package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "staybook/internal/domain/auth"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/security"
	"staybook/internal/infra/storage/memory"
)

func newService(t *testing.T) (*Service, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	return &Service{
		Users:     users,
		Sessions:  memory.NewSessionStore(),
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.RandomTokenGenerator{},
	}, users
}

func TestRegisterIssuesSessionAndGuestRole(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.Register(context.Background(), RegisterParams{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.User.HasRole(domainuser.RoleGuest))
	assert.False(t, result.User.HasRole(domainuser.RoleHost))

	resolved, err := svc.ResolveToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, resolved.User.ID)
}

func TestRegisterWantToHostGrantsBothRoles(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.Register(context.Background(), RegisterParams{
		Email:      "bob@example.com",
		Name:       "Bob",
		Password:   "long enough",
		WantToHost: true,
	})
	require.NoError(t, err)
	assert.True(t, result.User.HasRole(domainuser.RoleGuest))
	assert.True(t, result.User.HasRole(domainuser.RoleHost))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "eve@example.com",
		Name:     "Eve",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginParams{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginParams{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc, _ := newService(t)
	result, err := svc.Register(context.Background(), RegisterParams{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Token))
	_, err = svc.ResolveToken(context.Background(), result.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestResolveTokenEvictsExpiredSession(t *testing.T) {
	svc, _ := newService(t)
	result, err := svc.Register(context.Background(), RegisterParams{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	require.NoError(t, err)

	stale, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  "stale-token",
		UserID: result.User.ID,
		Roles:  result.User.Roles,
		TTL:    time.Hour,
		Now:    time.Now().Add(-2 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, svc.Sessions.Save(context.Background(), stale))

	_, err = svc.ResolveToken(context.Background(), "stale-token")
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestBecomeHostAddsRole(t *testing.T) {
	svc, _ := newService(t)
	result, err := svc.Register(context.Background(), RegisterParams{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	require.NoError(t, err)

	user, err := svc.BecomeHost(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.True(t, user.HasRole(domainuser.RoleHost))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterParams{
		Email:    "ada@example.com",
		Name:     "Ada Again",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
}
