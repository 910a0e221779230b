package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midshelf/midshelf-server/internal/domain"
	apperrors "github.com/midshelf/midshelf-server/internal/errors"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestStore(t), newTestValidator(), time.Hour, discardLogger())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	account, session, err := svc.Register(ctx, domain.RegisterInput{
		Username: "alex42",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "alex42", account.Username)
	require.NotNil(t, session)
	assert.True(t, strings.HasPrefix(session.Token, "sess-"))
	assert.Equal(t, account.ID, session.AccountID)

	// The registration session authenticates immediately.
	got, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.AccountID)

	// A fresh login issues a distinct session and stamps last_login.
	loggedIn, loginSession, err := svc.Login(ctx, domain.LoginInput{
		Username: "alex42",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEqual(t, session.Token, loginSession.Token)
	assert.NotNil(t, loggedIn.LastLogin)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input domain.RegisterInput
	}{
		{"short username", domain.RegisterInput{Username: "ab", Password: "long enough pw"}},
		{"short password", domain.RegisterInput{Username: "alex42", Password: "short"}},
		{"non-alphanumeric username", domain.RegisterInput{Username: "alex!", Password: "long enough pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.input)
			require.Error(t, err)

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code)
		})
	}
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	in := domain.RegisterInput{Username: "alex42", Password: "long enough pw"}
	_, _, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, in)
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, domain.RegisterInput{Username: "alex42", Password: "long enough pw"})
	require.NoError(t, err)

	// Unknown username and wrong password produce the same error.
	for _, in := range []domain.LoginInput{
		{Username: "nobody", Password: "long enough pw"},
		{Username: "alex42", Password: "wrong password"},
	} {
		_, _, err := svc.Login(ctx, in)
		require.Error(t, err)

		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)
		assert.Equal(t, "invalid username or password", appErr.Message)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, session, err := svc.Register(ctx, domain.RegisterInput{Username: "alex42", Password: "long enough pw"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))

	_, err = svc.Authenticate(ctx, session.Token)
	require.Error(t, err)

	// Logging out again is a no-op.
	require.NoError(t, svc.Logout(ctx, session.Token))
}

func TestAuthService_AuthenticateRejections(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	for _, token := range []string{"", "sess-unknown"} {
		_, err := svc.Authenticate(ctx, token)
		require.Error(t, err, "token %q", token)

		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
	}
}

func TestAuthService_ExpiredSession(t *testing.T) {
	// A TTL in the past makes every new session already expired.
	svc := NewAuthService(newTestStore(t), newTestValidator(), time.Hour, discardLogger())
	svc.sessionTTL = -time.Minute
	ctx := context.Background()

	_, session, err := svc.Register(ctx, domain.RegisterInput{Username: "alex42", Password: "long enough pw"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, session.Token)
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}
