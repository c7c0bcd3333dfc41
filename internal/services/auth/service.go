package auth

import (
	"context"
	"errors"
	"fmt"

	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/models"
	"mcadesk/internal/repositories"
	"mcadesk/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, userID uint) error
	// Authenticate resolves an access token to live claims.
	Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error)
}

type service struct {
	userRepo repositories.UserRepository
	tokens   *utils.TokenIssuer
	logger   *zap.Logger
}

func NewService(userRepo repositories.UserRepository, tokens *utils.TokenIssuer, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.Named("auth"),
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Info("login failed: unknown email")
			return nil, "", "", apperrors.ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("login failed: incorrect password", zap.Uint("user_id", user.ID))
		return nil, "", "", apperrors.ErrInvalidCredentials
	}
	if !user.IsActive() {
		s.logger.Info("login refused: inactive user", zap.Uint("user_id", user.ID))
		return nil, "", "", apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.GenerateTokens(claimsFor(user))
	if err != nil {
		return nil, "", "", fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.userRepo.TouchLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record login", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return "", "", apperrors.ErrInvalidToken
	}

	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return "", "", err
	}
	return s.tokens.GenerateTokens(claimsFor(user))
}

// Logout revokes every token issued to the user so far.
func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.userRepo.IncrementTokenVersion(ctx, userID)
}

func (s *service) Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error) {
	claims, err := s.tokens.ParseToken(accessToken, utils.TokenTypeAccess)
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		return nil, apperrors.ErrInvalidToken
	}
	if _, err := s.currentUser(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// currentUser checks that the token still matches an active user.
func (s *service) currentUser(ctx context.Context, claims *models.UserClaims) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	if user.TokenVersion != claims.TokenVersion || !user.IsActive() {
		return nil, apperrors.ErrSessionExpired
	}
	return user, nil
}

func claimsFor(user *models.User) *models.UserClaims {
	return &models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	}
}
