package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/social-connect/internal/models"
	"github.com/fathima-sithara/social-connect/internal/platform"
	"github.com/fathima-sithara/social-connect/internal/repository"
	"github.com/fathima-sithara/social-connect/internal/storage"
	"github.com/fathima-sithara/social-connect/internal/utils"
)

// PublishService is the multi-platform publish orchestrator: it fans a
// single post out to every requested, connected platform and reduces the
// per-platform outcomes into one aggregate status.
type PublishService struct {
	users        repository.UserRepository
	posts        repository.PostRepository
	publishers   platform.Registry
	store        *storage.LocalStore
	cleanupGrace time.Duration
	logger       *zap.SugaredLogger
}

func NewPublishService(
	users repository.UserRepository,
	posts repository.PostRepository,
	publishers platform.Registry,
	store *storage.LocalStore,
	cleanupGrace time.Duration,
	logger *zap.SugaredLogger,
) *PublishService {
	return &PublishService{
		users:        users,
		posts:        posts,
		publishers:   publishers,
		store:        store,
		cleanupGrace: cleanupGrace,
		logger:       logger,
	}
}

// CreatePost publishes content to the requested platforms, one at a time
// in canonical order, and persists the aggregate result. Platform calls
// are sequential; per-platform failures never abort the remaining
// platforms. Only the first media file is forwarded to adapters, though
// up to four are stored on the post.
func (s *PublishService) CreatePost(ctx context.Context, userID, content string, mediaPaths []string, requested []platform.Platform) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, utils.ErrContentRequired
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:    user.ID,
		Content:   content,
		MediaURLs: mediaPaths,
		Platforms: models.NewResults(),
		Status:    models.StatusPosting,
		CreatedAt: time.Now().UTC(),
	}
	// persist before any outbound call so a record exists even if the
	// process dies mid-publish
	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, err
	}

	wanted := make(map[platform.Platform]bool, len(requested))
	for _, p := range requested {
		wanted[p] = true
	}

	var mediaPath string
	if len(mediaPaths) > 0 {
		mediaPath = mediaPaths[0]
	}

	for _, p := range platform.Order {
		if !wanted[p] {
			continue
		}
		acct := user.Account(p)
		if !acct.Connected {
			continue
		}
		pub, ok := s.publishers[p]
		if !ok {
			continue
		}

		outcome := pub.Publish(ctx, platform.PublishRequest{
			Content:     content,
			MediaPath:   mediaPath,
			Credentials: acct.Credentials(),
		})
		post.Platforms[p] = models.ResultFromOutcome(outcome)

		if outcome.Succeeded {
			s.logger.Infow("published", "platform", p, "post_id", post.ID.Hex(), "external_id", outcome.PostID)
		} else {
			s.logger.Warnw("publish failed", "platform", p, "post_id", post.ID.Hex(), "error", outcome.ErrorMessage)
		}
	}

	post.Status = models.DeriveStatus(requested, post.Platforms)
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	if s.store != nil {
		s.store.ScheduleCleanup(mediaPaths, s.cleanupGrace)
	}
	return post, nil
}

// History returns the user's most recent posts, newest first.
func (s *PublishService) History(ctx context.Context, userID string) ([]models.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

// Get returns a single post, ownership-checked.
func (s *PublishService) Get(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.posts.FindByIDForUser(ctx, postID, userID)
}
