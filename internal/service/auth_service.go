package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/auth"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, cmd *domain.UpdateProfileCommand) (*domain.User, error)
}

type RegisterCommand struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	DateOfBirth *time.Time
}

type AuthService struct {
	userRepo   UserRepository
	jwtManager *auth.JWTManager
	log        *zap.Logger
}

func NewAuthService(userRepo UserRepository, jwtManager *auth.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtManager: jwtManager, log: log}
}

func (s *AuthService) Register(ctx context.Context, cmd *RegisterCommand) (*domain.User, *domain.TokenPair, error) {
	var errs []string
	if strings.TrimSpace(cmd.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		errs = append(errs, "email is required")
	}
	if cmd.Password == "" {
		errs = append(errs, "password is required")
	}
	if len(errs) > 0 {
		return nil, nil, &ValidationError{Fields: errs}
	}

	username := strings.TrimSpace(cmd.Username)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		s.log.Error("failed to check user uniqueness", zap.Error(err))
		return nil, nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, nil, domain.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(cmd.FullName),
		DateOfBirth:  cmd.DateOfBirth,
	}

	// The unique constraints remain the arbiter if two registrations race
	// past the existence check.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))

	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error) {
	if username == "" || password == "" {
		return nil, nil, &ValidationError{Fields: []string{"username and password are required"}}
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Burn a comparable amount of time on unknown usernames so response
		// timing does not reveal whether the account exists.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt", zap.String("username", username))
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))

	return user, pair, nil
}

// RefreshToken issues a new token pair given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, cmd *domain.UpdateProfileCommand) (*domain.User, error) {
	return s.userRepo.UpdateProfile(ctx, userID, cmd)
}

func (s *AuthService) issueTokens(user *domain.User) (*domain.TokenPair, error) {
	pair, err := s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}
	return pair, nil
}
