package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/prettystyles/booking-api/internal/email"
	"github.com/prettystyles/booking-api/internal/model"
	"github.com/prettystyles/booking-api/internal/repository"
	"github.com/prettystyles/booking-api/internal/service/auth/provider"
	"github.com/prettystyles/booking-api/pkg/auth"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

const (
	resetTokenExpiry  = 1 * time.Hour
	verifyTokenExpiry = 48 * time.Hour
	maxLoginAttempts  = 5
	lockoutDuration   = 15 * time.Minute
	bcryptCost        = 12
)

type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtSvc    auth.JWTService
	emailSvc  email.Service
	providers *provider.Registry
}

func NewService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository,
	jwtSvc auth.JWTService, emailSvc email.Service, providers *provider.Registry) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSvc:    jwtSvc,
		emailSvc:  emailSvc,
		providers: providers,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, apperrors.NewConflict("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base: model.Base{
			ID: uuid.New(),
		},
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Provider:     model.ProviderEmail,
		Status:       model.UserStatusPending,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sendVerificationEmail(ctx, user); err != nil {
		// Registration stands even when the confirmation mail fails.
		log.Error().Err(err).Str("email", user.Email).Msg("failed to send verification email")
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, loginEmail, password string) (*model.SessionResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, loginEmail)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	if user.Status == model.UserStatusLocked {
		if time.Since(user.LastLoginAttempt) < lockoutDuration {
			return nil, apperrors.NewUnauthorized("account is locked, please try again later")
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.LoginAttempts++
		user.LastLoginAttempt = time.Now()

		if user.LoginAttempts >= maxLoginAttempts {
			user.Status = model.UserStatusLocked
		}

		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update login attempts: %w", err)
		}

		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	user.LoginAttempts = 0
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &model.SessionResponse{User: user, Tokens: tokens}, nil
}

// SignInWithProvider exchanges a provider token for a local session, creating
// the account on first sign-in. Social accounts skip email verification; the
// provider already owns that relationship.
func (s *Service) SignInWithProvider(ctx context.Context, name model.AuthProvider, token string) (*model.SessionResponse, error) {
	p, err := s.providers.Get(name)
	if err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}

	profile, err := p.Exchange(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, profile.Email)
	if apperrors.IsCode(err, apperrors.ErrNotFound) {
		user = &model.User{
			Base: model.Base{
				ID: uuid.New(),
			},
			Email:         profile.Email,
			FirstName:     profile.FirstName,
			LastName:      profile.LastName,
			Provider:      name,
			Status:        model.UserStatusActive,
			EmailVerified: true,
		}
		if profile.AvatarURL != "" {
			user.AvatarURL = &profile.AvatarURL
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &model.SessionResponse{User: user, Tokens: tokens}, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	revoked, err := s.tokenRepo.IsTokenInvalidated(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.NewUnauthorized("token has been revoked")
	}

	return claims, nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.generateTokens(user)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokenRepo.InvalidateToken(ctx, token)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.userRepo.Get(ctx, id)
}

func (s *Service) ForgotPassword(ctx context.Context, userEmail string) error {
	user, err := s.userRepo.GetByEmail(ctx, userEmail)
	if err != nil {
		// No account enumeration through the reset endpoint.
		return nil
	}

	token := uuid.New().String()
	if err := s.tokenRepo.StoreResetToken(ctx, user.ID, token, time.Now().Add(resetTokenExpiry)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokenRepo.ValidateResetToken(ctx, token)
	if err != nil {
		return apperrors.NewValidation("invalid or expired reset token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokenRepo.ValidateVerificationToken(ctx, token)
	if err != nil {
		return apperrors.NewValidation("invalid or expired verification token")
	}

	if err := s.userRepo.UpdateEmailVerified(ctx, userID, true); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	return s.tokenRepo.InvalidateVerificationToken(ctx, token)
}

func (s *Service) ResendVerification(ctx context.Context, userEmail string) error {
	user, err := s.userRepo.GetByEmail(ctx, userEmail)
	if err != nil {
		return err
	}

	if user.EmailVerified {
		return apperrors.NewConflict("email already verified")
	}

	return s.sendVerificationEmail(ctx, user)
}

func (s *Service) generateTokens(user *model.User) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) sendVerificationEmail(ctx context.Context, user *model.User) error {
	token := uuid.New().String()
	if err := s.tokenRepo.StoreVerificationToken(ctx, user.ID, token, time.Now().Add(verifyTokenExpiry)); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	return s.emailSvc.SendVerification(ctx, user.Email, token)
}
