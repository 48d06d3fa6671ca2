package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fathima-sithara/social-connect/internal/models"
	"github.com/fathima-sithara/social-connect/internal/repository"
	"github.com/fathima-sithara/social-connect/internal/utils"
)

const refreshTokenPrefix = "refresh_token:"

// AuthTokens is the login/refresh response payload.
type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthService struct {
	users      repository.UserRepository
	redis      *redis.Client
	jwt        *utils.JWTManager
	refreshTTL time.Duration
	logger     *zap.SugaredLogger
}

func NewAuthService(users repository.UserRepository, rdb *redis.Client, jwtMgr *utils.JWTManager, refreshTTL time.Duration, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, redis: rdb, jwt: jwtMgr, refreshTTL: refreshTTL, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || name == "" {
		return nil, errors.New("email, password and name are required")
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, utils.ErrEmailTaken
	} else if !errors.Is(err, utils.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:     email,
		Password:  string(hash),
		Name:      name,
		Accounts:  models.NewAccounts(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Infow("user registered", "user_id", user.ID.Hex())
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthTokens, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			return nil, nil, utils.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, utils.ErrInvalidCredentials
	}
	tokens, err := s.issueTokens(ctx, user.ID.Hex())
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// Refresh rotates the refresh token: the presented token must match the
// one stored for the user, and a new pair replaces it.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (*AuthTokens, error) {
	stored, err := s.redis.Get(ctx, refreshTokenPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, utils.ErrInvalidToken
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if stored != refreshToken {
		return nil, utils.ErrInvalidToken
	}
	return s.issueTokens(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, userID string) (*AuthTokens, error) {
	access, exp, err := s.jwt.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.redis.Set(ctx, refreshTokenPrefix+userID, refresh, s.refreshTTL).Err(); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &AuthTokens{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}
