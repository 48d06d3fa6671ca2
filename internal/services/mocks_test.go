package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fathima-sithara/social-connect/internal/models"
	"github.com/fathima-sithara/social-connect/internal/platform"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) SetAccount(ctx context.Context, userID string, p platform.Platform, acct models.SocialAccount) (*models.User, error) {
	args := m.Called(ctx, userID, p, acct)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) Insert(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepo) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepo) FindByIDForUser(ctx context.Context, id, userID string) (*models.Post, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockPostRepo) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

// stubPublisher is a controllable adapter for orchestrator tests.
type stubPublisher struct {
	name      platform.Platform
	outcome   platform.Outcome
	identity  *platform.Identity
	verifyErr error

	publishCalls int
	lastRequest  platform.PublishRequest
}

func (s *stubPublisher) Name() platform.Platform { return s.name }

func (s *stubPublisher) Publish(ctx context.Context, req platform.PublishRequest) platform.Outcome {
	s.publishCalls++
	s.lastRequest = req
	return s.outcome
}

func (s *stubPublisher) VerifyCredentials(ctx context.Context, creds platform.Credentials) (*platform.Identity, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	if s.identity != nil {
		return s.identity, nil
	}
	return &platform.Identity{}, nil
}
