package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"bookshare-backend/internal/domain"
	"bookshare-backend/internal/logger"
	"bookshare-backend/internal/repository"
	"bookshare-backend/internal/security"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrAuth)

// AuthOptions tunes signup and signin policy.
type AuthOptions struct {
	SkipEmailVerification bool
	VerifyURL             string
}

type authService struct {
	profileRepo repository.ProfileRepository
	tokens      security.TokenManager
	emailSvc    EmailService
	opts        AuthOptions
}

func NewAuthService(profileRepo repository.ProfileRepository, tokens security.TokenManager, emailSvc EmailService, opts AuthOptions) AuthService {
	return &authService{
		profileRepo: profileRepo,
		tokens:      tokens,
		emailSvc:    emailSvc,
		opts:        opts,
	}
}

func validateSignUp(in *SignUpInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)

	switch {
	case in.Email == "":
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	case in.FullName == "":
		return fmt.Errorf("%w: full name is required", domain.ErrValidation)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	case !in.Role.Valid():
		return fmt.Errorf("%w: role must be donor or receiver", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if len([]rune(in.Password)) < security.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, security.MinPasswordLength)
	}
	if in.Password != in.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	return nil
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*domain.Profile, error) {
	if err := validateSignUp(&in); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &domain.Profile{
		FullName:      in.FullName,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		Role:          in.Role,
		PasswordHash:  hash,
		EmailVerified: s.opts.SkipEmailVerification,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Profile created", "profileID", profile.ID, "role", profile.Role)

	if !profile.EmailVerified {
		s.sendVerification(ctx, profile)
	}
	return profile, nil
}

func (s *authService) sendVerification(ctx context.Context, profile *domain.Profile) {
	token, err := s.tokens.GenerateVerifyToken(profile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate verification token", "profileID", profile.ID, "error", err)
		return
	}
	link := s.opts.VerifyURL + "?token=" + url.QueryEscape(token)
	if err := s.emailSvc.SendVerification(ctx, profile.Email, profile.FullName, link); err != nil {
		logger.ErrorContext(ctx, "Failed to send verification email", "profileID", profile.ID, "error", err)
	}
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (*domain.Profile, error) {
	claims, err := s.tokens.ValidateTokenOfType(token, security.TokenTypeVerify)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	if err := s.profileRepo.MarkEmailVerified(ctx, claims.ProfileID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByID(ctx, claims.ProfileID)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := security.CheckPassword(profile.PasswordHash, password); err != nil {
		return nil, errInvalidCredentials
	}
	if !profile.EmailVerified && !s.opts.SkipEmailVerification {
		return nil, fmt.Errorf("%w: email address is not verified", domain.ErrAuth)
	}
	return s.issue(profile)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ValidateTokenOfType(refreshToken, security.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	profile, err := s.profileRepo.GetByID(ctx, claims.ProfileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: profile no longer exists", domain.ErrAuth)
		}
		return nil, err
	}
	return s.issue(profile)
}

// SignOut is stateless: tokens simply expire.
func (s *authService) SignOut(ctx context.Context, profileID int32) error {
	logger.InfoContext(ctx, "Profile signed out", "profileID", profileID)
	return nil
}

func (s *authService) GetProfile(ctx context.Context, profileID int32) (*domain.Profile, error) {
	return s.profileRepo.GetByID(ctx, profileID)
}

func (s *authService) issue(profile *domain.Profile) (*AuthResult, error) {
	access, err := s.tokens.GenerateAccessToken(profile)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(profile)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Profile: profile, AccessToken: access, RefreshToken: refresh}, nil
}
