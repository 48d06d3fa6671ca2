package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fathima-sithara/social-connect/internal/models"
	"github.com/fathima-sithara/social-connect/internal/platform"
	"github.com/fathima-sithara/social-connect/internal/utils"
)

func testUser(connected ...platform.Platform) *models.User {
	accounts := models.NewAccounts()
	for _, p := range connected {
		accounts[p] = models.SocialAccount{
			Connected:   true,
			AccessToken: "token-" + string(p),
			AccountID:   "acct-" + string(p),
		}
	}
	return &models.User{ID: primitive.NewObjectID(), Email: "a@b.c", Accounts: accounts}
}

func okOutcome(id string) platform.Outcome {
	return platform.Outcome{Succeeded: true, PostID: id, PostedAt: time.Now().UTC()}
}

func failedOutcome(msg string) platform.Outcome {
	return platform.Outcome{Succeeded: false, ErrorMessage: msg}
}

func newPublishFixture(user *models.User, pubs platform.Registry) (*PublishService, *mockUserRepo, *mockPostRepo) {
	users := new(mockUserRepo)
	posts := new(mockPostRepo)
	if user != nil {
		users.On("FindByID", mock.Anything, user.ID.Hex()).Return(user, nil)
	}
	posts.On("Insert", mock.Anything, mock.AnythingOfType("*models.Post")).Return(nil)
	posts.On("Update", mock.Anything, mock.AnythingOfType("*models.Post")).Return(nil)

	svc := NewPublishService(users, posts, pubs, nil, time.Millisecond, zap.NewNop().Sugar())
	return svc, users, posts
}

func TestCreatePostRejectsEmptyContent(t *testing.T) {
	users := new(mockUserRepo)
	posts := new(mockPostRepo)
	svc := NewPublishService(users, posts, platform.Registry{}, nil, time.Millisecond, zap.NewNop().Sugar())

	_, err := svc.CreatePost(context.Background(), "anyone", "   ", nil, []platform.Platform{platform.Twitter})
	assert.ErrorIs(t, err, utils.ErrContentRequired)
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	posts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreatePostAllPlatformsSucceed(t *testing.T) {
	user := testUser(platform.Twitter, platform.Facebook)
	tw := &stubPublisher{name: platform.Twitter, outcome: okOutcome("t1")}
	fb := &stubPublisher{name: platform.Facebook, outcome: okOutcome("f1")}
	svc, _, posts := newPublishFixture(user, platform.Registry{platform.Twitter: tw, platform.Facebook: fb})

	post, err := svc.CreatePost(context.Background(), user.ID.Hex(), "Hello", nil, []platform.Platform{platform.Twitter, platform.Facebook})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, post.Status)
	assert.True(t, post.Platforms[platform.Twitter].Posted)
	assert.True(t, post.Platforms[platform.Facebook].Posted)
	assert.Equal(t, "t1", post.Platforms[platform.Twitter].PostID)
	posts.AssertCalled(t, "Insert", mock.Anything, mock.Anything)
	posts.AssertCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreatePostAllFailuresIsFailed(t *testing.T) {
	user := testUser(platform.Twitter)
	tw := &stubPublisher{name: platform.Twitter, outcome: failedOutcome("auth rejected")}
	svc, _, _ := newPublishFixture(user, platform.Registry{platform.Twitter: tw})

	post, err := svc.CreatePost(context.Background(), user.ID.Hex(), "Hello", nil, []platform.Platform{platform.Twitter})
	require.NoError(t, err, "a zero-success publish is a result, not an error")

	assert.Equal(t, models.StatusFailed, post.Status)
	r := post.Platforms[platform.Twitter]
	assert.True(t, r.Attempted)
	assert.False(t, r.Posted)
	assert.Equal(t, "auth rejected", r.Error)
}

func TestDisconnectedPlatformIsNotAttempted(t *testing.T) {
	// twitter connected, tiktok requested but never connected
	user := testUser(platform.Twitter)
	tw := &stubPublisher{name: platform.Twitter, outcome: okOutcome("t1")}
	tk := &stubPublisher{name: platform.TikTok, outcome: okOutcome("never")}
	svc, _, _ := newPublishFixture(user, platform.Registry{platform.Twitter: tw, platform.TikTok: tk})

	post, err := svc.CreatePost(context.Background(), user.ID.Hex(), "Hello", nil, []platform.Platform{platform.Twitter, platform.TikTok})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPartial, post.Status)
	assert.Equal(t, 1, tw.publishCalls)
	assert.Zero(t, tk.publishCalls, "disconnected platform must not be called")
	assert.False(t, post.Platforms[platform.TikTok].Attempted)
	assert.Empty(t, post.Platforms[platform.TikTok].Error, "not attempted is distinct from failed")
}

func TestUnrequestedPlatformIsNeverCalled(t *testing.T) {
	user := testUser(platform.Twitter, platform.Facebook)
	tw := &stubPublisher{name: platform.Twitter, outcome: okOutcome("t1")}
	fb := &stubPublisher{name: platform.Facebook, outcome: okOutcome("f1")}
	svc, _, _ := newPublishFixture(user, platform.Registry{platform.Twitter: tw, platform.Facebook: fb})

	post, err := svc.CreatePost(context.Background(), user.ID.Hex(), "Hello", nil, []platform.Platform{platform.Twitter})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, post.Status)
	assert.Zero(t, fb.publishCalls)
	assert.False(t, post.Platforms[platform.Facebook].Attempted)
}

func TestMixedOutcomeIsPartial(t *testing.T) {
	user := testUser(platform.Twitter, platform.LinkedIn)
	tw := &stubPublisher{name: platform.Twitter, outcome: okOutcome("t1")}
	li := &stubPublisher{name: platform.LinkedIn, outcome: failedOutcome("network error")}
	svc, _, _ := newPublishFixture(user, platform.Registry{platform.Twitter: tw, platform.LinkedIn: li})

	post, err := svc.CreatePost(context.Background(), user.ID.Hex(), "Hello", nil, []platform.Platform{platform.Twitter, platform.LinkedIn})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartial, post.Status)
}

func TestOnlyFirstMediaForwardedToAdapters(t *testing.T) {
	user := testUser(platform.Facebook)
	fb := &stubPublisher{name: platform.Facebook, outcome: okOutcome("f1")}
	svc, _, _ := newPublishFixture(user, platform.Registry{platform.Facebook: fb})

	media := []string{"/tmp/a.jpg", "/tmp/b.jpg", "/tmp/c.jpg"}
	post, err := svc.CreatePost(context.Background(), user.ID.Hex(), "Hello", media, []platform.Platform{platform.Facebook})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/a.jpg", fb.lastRequest.MediaPath)
	assert.Equal(t, media, post.MediaURLs, "all media kept on the post record")
}

func TestAdapterCredentialsComeFromStoredAccount(t *testing.T) {
	user := testUser(platform.LinkedIn)
	li := &stubPublisher{name: platform.LinkedIn, outcome: okOutcome("l1")}
	svc, _, _ := newPublishFixture(user, platform.Registry{platform.LinkedIn: li})

	_, err := svc.CreatePost(context.Background(), user.ID.Hex(), "Hello", nil, []platform.Platform{platform.LinkedIn})
	require.NoError(t, err)
	assert.Equal(t, "token-linkedin", li.lastRequest.Credentials.AccessToken)
	assert.Equal(t, "acct-linkedin", li.lastRequest.Credentials.AccountID)
}

func TestCreatePostPersistsBeforePublishing(t *testing.T) {
	user := testUser(platform.Twitter)
	users := new(mockUserRepo)
	posts := new(mockPostRepo)
	users.On("FindByID", mock.Anything, user.ID.Hex()).Return(user, nil)

	inserted := false
	posts.On("Insert", mock.Anything, mock.AnythingOfType("*models.Post")).Run(func(args mock.Arguments) {
		inserted = true
		p := args.Get(1).(*models.Post)
		assert.Equal(t, models.StatusPosting, p.Status)
	}).Return(nil)
	posts.On("Update", mock.Anything, mock.AnythingOfType("*models.Post")).Return(nil)

	tw := &stubPublisher{name: platform.Twitter, outcome: okOutcome("t1")}
	svc := NewPublishService(users, posts, platform.Registry{platform.Twitter: tw}, nil, time.Millisecond, zap.NewNop().Sugar())

	_, err := svc.CreatePost(context.Background(), user.ID.Hex(), "Hello", nil, []platform.Platform{platform.Twitter})
	require.NoError(t, err)
	require.True(t, inserted)
	posts.AssertExpectations(t)
}

func TestHistoryAndGetDelegateToRepo(t *testing.T) {
	users := new(mockUserRepo)
	posts := new(mockPostRepo)
	svc := NewPublishService(users, posts, platform.Registry{}, nil, time.Millisecond, zap.NewNop().Sugar())

	want := []models.Post{{Content: "one"}}
	posts.On("ListByUser", mock.Anything, "u1").Return(want, nil)
	got, err := svc.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	posts.On("FindByIDForUser", mock.Anything, "p1", "u1").Return(nil, utils.ErrPostNotFound)
	_, err = svc.Get(context.Background(), "p1", "u1")
	assert.ErrorIs(t, err, utils.ErrPostNotFound)
}
