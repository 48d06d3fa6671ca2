package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fathima-sithara/social-connect/internal/models"
	"github.com/fathima-sithara/social-connect/internal/platform"
	"github.com/fathima-sithara/social-connect/internal/repository"
)

// AccountService owns the per-platform connection lifecycle.
type AccountService struct {
	users      repository.UserRepository
	publishers platform.Registry
	logger     *zap.SugaredLogger
}

func NewAccountService(users repository.UserRepository, publishers platform.Registry, logger *zap.SugaredLogger) *AccountService {
	return &AccountService{users: users, publishers: publishers, logger: logger}
}

// Connect verifies the supplied credentials with one read-only identity
// call before storing anything. On verification failure the stored account
// is left untouched.
func (s *AccountService) Connect(ctx context.Context, userID string, p platform.Platform, creds platform.Credentials) (*models.User, error) {
	pub, ok := s.publishers[p]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q", p)
	}
	identity, err := pub.VerifyCredentials(ctx, creds)
	if err != nil {
		s.logger.Warnw("credential verification failed", "platform", p, "user_id", userID, "error", err)
		return nil, fmt.Errorf("verify %s credentials: %w", p, err)
	}

	acct := models.SocialAccount{
		Connected:         true,
		AccessToken:       creds.AccessToken,
		AccessTokenSecret: creds.AccessTokenSecret,
		AccountID:         identity.AccountID,
		AccountName:       identity.AccountName,
	}
	// fall back to what the client sent when the platform omits a field
	if acct.AccountID == "" {
		acct.AccountID = creds.AccountID
	}
	if acct.AccountName == "" {
		acct.AccountName = creds.AccountName
	}

	user, err := s.users.SetAccount(ctx, userID, p, acct)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("account connected", "platform", p, "user_id", userID)
	return user, nil
}

// Disconnect unconditionally resets the platform record to disconnected
// with all credential fields cleared. Disconnecting twice is a no-op.
func (s *AccountService) Disconnect(ctx context.Context, userID string, p platform.Platform) (*models.User, error) {
	if _, ok := s.publishers[p]; !ok {
		return nil, fmt.Errorf("unknown platform %q", p)
	}
	user, err := s.users.SetAccount(ctx, userID, p, models.SocialAccount{})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("account disconnected", "platform", p, "user_id", userID)
	return user, nil
}

// Accounts returns the sanitized connection map for status display.
func (s *AccountService) Accounts(ctx context.Context, userID string) (map[platform.Platform]models.AccountView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.AccountViews(), nil
}
