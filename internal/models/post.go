package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/social-connect/internal/platform"
)

// PostStatus is the aggregate result of one publish request.
type PostStatus string

const (
	StatusPending   PostStatus = "pending"
	StatusPosting   PostStatus = "posting"
	StatusCompleted PostStatus = "completed"
	StatusFailed    PostStatus = "failed"
	StatusPartial   PostStatus = "partial"
)

// PlatformResult records what happened on one platform for one post.
// Attempted distinguishes "never tried" (not requested, or requested but
// not connected) from "tried and failed".
type PlatformResult struct {
	Attempted bool       `bson:"attempted" json:"attempted"`
	Posted    bool       `bson:"posted" json:"posted"`
	PostID    string     `bson:"post_id,omitempty" json:"post_id,omitempty"`
	Error     string     `bson:"error,omitempty" json:"error,omitempty"`
	Warning   string     `bson:"warning,omitempty" json:"warning,omitempty"`
	PostedAt  *time.Time `bson:"posted_at,omitempty" json:"posted_at,omitempty"`
}

// ResultFromOutcome folds an adapter outcome into the persisted shape.
func ResultFromOutcome(o platform.Outcome) PlatformResult {
	r := PlatformResult{
		Attempted: true,
		Posted:    o.Succeeded,
		PostID:    o.PostID,
		Error:     o.ErrorMessage,
		Warning:   o.Warning,
	}
	if !o.PostedAt.IsZero() {
		t := o.PostedAt
		r.PostedAt = &t
	}
	return r
}

type Post struct {
	ID        primitive.ObjectID                   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID                   `bson:"user_id" json:"user_id"`
	Content   string                               `bson:"content" json:"content"`
	MediaURLs []string                             `bson:"media_urls,omitempty" json:"media_urls,omitempty"`
	Platforms map[platform.Platform]PlatformResult `bson:"platforms" json:"platforms"`
	Status    PostStatus                           `bson:"status" json:"status"`
	CreatedAt time.Time                            `bson:"created_at" json:"created_at"`
}

// NewResults returns the initial per-platform result map: every supported
// platform present and untouched.
func NewResults() map[platform.Platform]PlatformResult {
	m := make(map[platform.Platform]PlatformResult, len(platform.Order))
	for _, p := range platform.Order {
		m[p] = PlatformResult{}
	}
	return m
}

// DeriveStatus computes the aggregate status from the requested platform
// set and the recorded results. It is a pure function: failed when no
// requested platform succeeded, completed when all did, partial otherwise.
func DeriveStatus(requested []platform.Platform, results map[platform.Platform]PlatformResult) PostStatus {
	if len(requested) == 0 {
		return StatusCompleted
	}
	successes := 0
	for _, p := range requested {
		if results[p].Posted {
			successes++
		}
	}
	switch {
	case successes == 0:
		return StatusFailed
	case successes == len(requested):
		return StatusCompleted
	default:
		return StatusPartial
	}
}
