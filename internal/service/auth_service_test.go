package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func newAuthServiceForTest() (*AuthService, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4}
	svc := NewAuthService(AuthDependencies{
		UserRepo:     userRepo,
		TokenManager: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		Config:       cfg,
	})
	return svc, userRepo
}

func TestRegisterCreatesEndUserAndIssuesToken(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	result, err := svc.Register(context.Background(), "Dana@Example.com", "Dana Field", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, result.User.Role)
	assert.Equal(t, "dana@example.com", result.User.Email)
	assert.NotEmpty(t, result.Token)
	assert.False(t, result.ExpiresAt.IsZero())
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	_, err := svc.Register(context.Background(), "dup@example.com", "First", "password-one")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "dup@example.com", "Second", "password-two")
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	_, err := svc.Register(context.Background(), "not-an-email", "Name", "longenoughpw")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = svc.Register(context.Background(), "ok@example.com", "Name", "short")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestLoginVerifiesCredentials(t *testing.T) {
	svc, _ := newAuthServiceForTest()
	_, err := svc.Register(context.Background(), "lee@example.com", "Lee", "correct-horse")
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "lee@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "lee@example.com", result.User.Email)

	_, err = svc.Login(context.Background(), "lee@example.com", "wrong-horse")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestCreateUserHonorsExplicitRole(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	user, err := svc.CreateUser(context.Background(), "ops@example.com", "Ops Agent", "password123", domain.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, user.Role)

	_, err = svc.CreateUser(context.Background(), "x@example.com", "X", "password123", domain.Role("SUPERVISOR"))
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}
