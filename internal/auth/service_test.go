package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"animehub/pkg/database"
	"animehub/pkg/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens := TokenService{Secret: []byte("test-secret"), Issuer: "animehub-test", Duration: time.Hour}
	return NewService(NewRepo(db), tokens)
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), "Sakura", "Sakura@Example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "sakura@example.com", u.Email)
	require.NotEqual(t, "hunter22", u.PasswordHash)
	require.Greater(t, len(u.PasswordHash), 20)
	require.True(t, u.IsActive)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "Sakura", "sakura@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Imposter", "SAKURA@EXAMPLE.COM", "different")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestValidateCredentials(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "Sakura", "sakura@example.com", "hunter22")
	require.NoError(t, err)

	u, err := svc.ValidateCredentials(context.Background(), "sakura@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "Sakura", u.Name)

	// wrong password and unknown email fail identically
	_, err = svc.ValidateCredentials(context.Background(), "sakura@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ValidateCredentials(context.Background(), "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateCredentialsDeactivated(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), "Sakura", "sakura@example.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, svc.Repo.Deactivate(context.Background(), u.ID))

	_, err = svc.ValidateCredentials(context.Background(), "sakura@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := TokenService{Secret: []byte("test-secret"), Issuer: "animehub-test", Duration: time.Hour}
	u := &models.User{ID: 42, Name: "Sakura", Email: "sakura@example.com"}

	signed, exp, err := tokens.Sign(u)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "sakura@example.com", claims.Email)
	require.Equal(t, "animehub-test", claims.Issuer)
}

func TestTokenExpired(t *testing.T) {
	tokens := TokenService{Secret: []byte("test-secret"), Issuer: "animehub-test", Duration: -time.Minute}
	u := &models.User{ID: 42, Email: "sakura@example.com"}

	signed, _, err := tokens.Sign(u)
	require.NoError(t, err)

	_, err = tokens.Parse(signed)
	require.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	signer := TokenService{Secret: []byte("secret-a"), Issuer: "animehub-test", Duration: time.Hour}
	verifier := TokenService{Secret: []byte("secret-b"), Issuer: "animehub-test", Duration: time.Hour}

	signed, _, err := signer.Sign(&models.User{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	require.Error(t, err)
}
