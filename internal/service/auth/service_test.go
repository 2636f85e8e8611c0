package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prettystyles/booking-api/internal/model"
	"github.com/prettystyles/booking-api/internal/service/auth/provider"
	"github.com/prettystyles/booking-api/pkg/auth"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateEmailVerified(_ context.Context, id uuid.UUID, verified bool) error {
	if u, ok := r.users[id]; ok {
		u.EmailVerified = verified
	}
	return nil
}

type fakeTokenRepo struct {
	verification map[string]uuid.UUID
	reset        map[string]uuid.UUID
	revoked      map[string]bool
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		verification: make(map[string]uuid.UUID),
		reset:        make(map[string]uuid.UUID),
		revoked:      make(map[string]bool),
	}
}

func (r *fakeTokenRepo) StoreVerificationToken(_ context.Context, userID uuid.UUID, token string, _ time.Time) error {
	r.verification[token] = userID
	return nil
}

func (r *fakeTokenRepo) ValidateVerificationToken(_ context.Context, token string) (uuid.UUID, error) {
	id, ok := r.verification[token]
	if !ok {
		return uuid.Nil, apperrors.NewNotFound("token", nil)
	}
	return id, nil
}

func (r *fakeTokenRepo) InvalidateVerificationToken(_ context.Context, token string) error {
	delete(r.verification, token)
	return nil
}

func (r *fakeTokenRepo) StoreResetToken(_ context.Context, userID uuid.UUID, token string, _ time.Time) error {
	r.reset[token] = userID
	return nil
}

func (r *fakeTokenRepo) ValidateResetToken(_ context.Context, token string) (uuid.UUID, error) {
	id, ok := r.reset[token]
	if !ok {
		return uuid.Nil, apperrors.NewNotFound("token", nil)
	}
	return id, nil
}

func (r *fakeTokenRepo) InvalidateToken(_ context.Context, token string) error {
	r.revoked[token] = true
	return nil
}

func (r *fakeTokenRepo) IsTokenInvalidated(_ context.Context, token string) (bool, error) {
	return r.revoked[token], nil
}

type fakeEmailService struct {
	verificationTokens map[string]string
	resetTokens        map[string]string
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{
		verificationTokens: make(map[string]string),
		resetTokens:        make(map[string]string),
	}
}

func (s *fakeEmailService) SendVerification(_ context.Context, email, token string) error {
	s.verificationTokens[email] = token
	return nil
}

func (s *fakeEmailService) SendPasswordReset(_ context.Context, email, token string) error {
	s.resetTokens[email] = token
	return nil
}

func (s *fakeEmailService) SendBookingConfirmation(_ context.Context, _ *model.BookingEventPayload) error {
	return nil
}

func (s *fakeEmailService) SendBookingRescheduled(_ context.Context, _ *model.BookingEventPayload) error {
	return nil
}

func (s *fakeEmailService) SendBookingCancelled(_ context.Context, _ *model.BookingEventPayload) error {
	return nil
}

type fakeProvider struct {
	profile *provider.Profile
}

func (p *fakeProvider) Name() model.AuthProvider { return model.ProviderGoogle }

func (p *fakeProvider) Exchange(_ context.Context, token string) (*provider.Profile, error) {
	if token != "good-token" {
		return nil, apperrors.NewUnauthorized("invalid provider token")
	}
	return p.profile, nil
}

type fixture struct {
	svc       *Service
	userRepo  *fakeUserRepo
	tokenRepo *fakeTokenRepo
	emails    *fakeEmailService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	emails := newFakeEmailService()
	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		Secret:             "access-secret",
		RefreshSecret:      "refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	})
	providers := provider.NewRegistry(&fakeProvider{profile: &provider.Profile{
		Email:     "grace@example.com",
		FirstName: "Grace",
		LastName:  "Okafor",
		AvatarURL: "https://lh3.example.com/grace.jpg",
	}})

	return &fixture{
		svc:       NewService(userRepo, tokenRepo, jwtSvc, emails, providers),
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		emails:    emails,
	}
}

func register(t *testing.T, f *fixture) *model.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), &model.RegisterRequest{
		Email:     "ada@example.com",
		Password:  "hunter2hunter2",
		FirstName: "Ada",
		LastName:  "Mensah",
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	user := register(t, f)

	assert.Equal(t, model.UserStatusPending, user.Status)
	assert.Equal(t, model.ProviderEmail, user.Provider)
	assert.False(t, user.EmailVerified)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	assert.NotEmpty(t, f.emails.verificationTokens["ada@example.com"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	register(t, f)

	_, err := f.svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "ada@example.com",
		Password: "another-password",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	register(t, f)

	session, err := f.svc.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	assert.NotEmpty(t, session.Tokens.AccessToken)
	assert.NotEmpty(t, session.Tokens.RefreshToken)
	assert.NotNil(t, session.User.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	register(t, f)

	_, err := f.svc.Login(context.Background(), "ada@example.com", "wrong")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	f := newFixture(t)
	user := register(t, f)

	for i := 0; i < maxLoginAttempts; i++ {
		_, err := f.svc.Login(context.Background(), "ada@example.com", "wrong")
		require.Error(t, err)
	}

	assert.Equal(t, model.UserStatusLocked, f.userRepo.users[user.ID].Status)

	// Even the right password bounces while the lockout holds.
	_, err := f.svc.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestSignInWithProvider_CreatesAccount(t *testing.T) {
	f := newFixture(t)

	session, err := f.svc.SignInWithProvider(context.Background(), model.ProviderGoogle, "good-token")
	require.NoError(t, err)

	assert.Equal(t, "grace@example.com", session.User.Email)
	assert.Equal(t, model.ProviderGoogle, session.User.Provider)
	assert.Equal(t, model.UserStatusActive, session.User.Status)
	assert.True(t, session.User.EmailVerified)
	require.NotNil(t, session.User.AvatarURL)
	assert.NotEmpty(t, session.Tokens.AccessToken)
}

func TestSignInWithProvider_MatchesExistingAccount(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.SignInWithProvider(context.Background(), model.ProviderGoogle, "good-token")
	require.NoError(t, err)
	second, err := f.svc.SignInWithProvider(context.Background(), model.ProviderGoogle, "good-token")
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, f.userRepo.users, 1)
}

func TestSignInWithProvider_Unsupported(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SignInWithProvider(context.Background(), model.ProviderFacebook, "good-token")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestValidateToken_RevokedAfterLogout(t *testing.T) {
	f := newFixture(t)
	register(t, f)

	session, err := f.svc.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = f.svc.ValidateToken(context.Background(), session.Tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), session.Tokens.AccessToken))

	_, err = f.svc.ValidateToken(context.Background(), session.Tokens.AccessToken)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	register(t, f)

	session, err := f.svc.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	tokens, err := f.svc.RefreshToken(context.Background(), session.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	_, err = f.svc.RefreshToken(context.Background(), session.Tokens.AccessToken)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)

	err := f.svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, f.emails.resetTokens)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	register(t, f)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "ada@example.com"))
	token := f.emails.resetTokens["ada@example.com"]
	require.NotEmpty(t, token)

	require.NoError(t, f.svc.ResetPassword(context.Background(), token, "new-password-123"))

	_, err := f.svc.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	assert.Error(t, err)

	_, err = f.svc.Login(context.Background(), "ada@example.com", "new-password-123")
	assert.NoError(t, err)
}

func TestVerifyEmailFlow(t *testing.T) {
	f := newFixture(t)
	user := register(t, f)

	token := f.emails.verificationTokens["ada@example.com"]
	require.NotEmpty(t, token)

	require.NoError(t, f.svc.VerifyEmail(context.Background(), token))
	assert.True(t, f.userRepo.users[user.ID].EmailVerified)

	// Verification tokens are single use.
	err := f.svc.VerifyEmail(context.Background(), token)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestResendVerification_AlreadyVerified(t *testing.T) {
	f := newFixture(t)
	user := register(t, f)
	f.userRepo.users[user.ID].EmailVerified = true

	err := f.svc.ResendVerification(context.Background(), "ada@example.com")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}
