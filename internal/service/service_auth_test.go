package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/mock"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
)

var testAppConfig = config.App{
	TokenSignKey:  "sign-key",
	TokenIssuer:   "life-keeper",
	TokenDuration: time.Hour,
}

func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (AuthService, *mock.MockUserRepository, *mock.MockPasswordHasher) {
	t.Helper()

	repo := mock.NewMockUserRepository(ctrl)
	hasher := mock.NewMockPasswordHasher(ctrl)

	return NewAuthService(repo, hasher, testAppConfig, logger.Nop()), repo, hasher
}

// ── RegisterUser ─────────────────────────────────────────────────────────────

func TestAuthService_RegisterUser_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, hasher := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		hasher.EXPECT().Hash("secret").Return("$argon2id$hash", nil),
		repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, u models.User) (models.User, error) {
				assert.Equal(t, "alice", u.Login)
				assert.Equal(t, "$argon2id$hash", u.PasswordHash)
				assert.Empty(t, u.Password, "plaintext password must not reach the repository")
				u.UserID = 42
				return u, nil
			},
		),
	)

	got, err := svc.RegisterUser(ctx, models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
}

func TestAuthService_RegisterUser_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		user models.User
	}{
		{"empty login", models.User{Password: "secret"}},
		{"empty password", models.User{Login: "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, _, _ := newTestAuthSvc(t, ctrl)

			_, err := svc.RegisterUser(context.Background(), tt.user)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestAuthService_RegisterUser_LoginTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, hasher := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	hasher.EXPECT().Hash(gomock.Any()).Return("hash", nil)
	repo.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrLoginAlreadyExists)

	_, err := svc.RegisterUser(ctx, models.User{Login: "alice", Password: "secret"})

	assert.ErrorIs(t, err, store.ErrLoginAlreadyExists)
}

func TestAuthService_RegisterUser_HashError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, hasher := newTestAuthSvc(t, ctrl)

	hasher.EXPECT().Hash(gomock.Any()).Return("", errors.New("entropy exhausted"))

	_, err := svc.RegisterUser(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "password hashing failed")
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, hasher := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	stored := models.User{UserID: 7, Login: "alice", PasswordHash: "hash"}

	repo.EXPECT().FindUserByLogin(ctx, "alice").Return(stored, nil)
	hasher.EXPECT().Verify("secret", "hash").Return(true, nil)

	got, err := svc.Login(ctx, models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, hasher := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByLogin(ctx, "alice").Return(models.User{UserID: 7, PasswordHash: "hash"}, nil)
	hasher.EXPECT().Verify("bad", "hash").Return(false, nil)

	_, err := svc.Login(ctx, models.User{Login: "alice", Password: "bad"})

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByLogin(ctx, "ghost").Return(models.User{}, store.ErrNoUserWasFound)

	_, err := svc.Login(ctx, models.User{Login: "ghost", Password: "x"})

	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

func TestAuthService_Login_CorruptHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, hasher := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByLogin(ctx, "alice").Return(models.User{PasswordHash: "garbage"}, nil)
	hasher.EXPECT().Verify("secret", "garbage").Return(false, errors.New("malformed hash"))

	_, err := svc.Login(ctx, models.User{Login: "alice", Password: "secret"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWrongPassword)
}

// ── Tokens ───────────────────────────────────────────────────────────────────

func TestAuthService_TokenRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{UserID: 11})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(11), parsed.UserID)
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.ParseToken(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_ParseToken_ForeignIssuer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestAuthSvc(t, ctrl)
	other := NewAuthService(nil, nil, config.App{TokenSignKey: "sign-key", TokenIssuer: "someone-else", TokenDuration: time.Hour}, logger.Nop())

	token, err := other.CreateToken(context.Background(), models.User{UserID: 1})
	require.NoError(t, err)

	_, err = svc.ParseToken(context.Background(), token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
