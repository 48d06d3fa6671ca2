package platform

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Platform identifies a supported social network.
type Platform string

const (
	Twitter  Platform = "twitter"
	LinkedIn Platform = "linkedin"
	Facebook Platform = "facebook"
	TikTok   Platform = "tiktok"
)

// Order is the canonical publish order. The orchestrator always walks
// platforms in this sequence.
var Order = []Platform{Twitter, LinkedIn, Facebook, TikTok}

// Parse normalizes a platform name from client input.
func Parse(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case Twitter:
		return Twitter, nil
	case LinkedIn:
		return LinkedIn, nil
	case Facebook:
		return Facebook, nil
	case TikTok:
		return TikTok, nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// ParseList parses and deduplicates a client-supplied platform list.
func ParseList(names []string) ([]Platform, error) {
	seen := make(map[Platform]bool, len(names))
	out := make([]Platform, 0, len(names))
	for _, n := range names {
		p, err := Parse(n)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// Credentials is the uniform per-platform credential record stored on a
// user's account. Which fields are meaningful depends on the platform:
// twitter uses AccessToken+AccessTokenSecret, facebook's AccountID is a
// page id, tiktok's an open id, linkedin's a profile id.
type Credentials struct {
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret,omitempty"`
	AccountID         string `json:"account_id,omitempty"`
	AccountName       string `json:"account_name,omitempty"`
}

// Identity is what a platform reports about the credential owner during
// connect verification.
type Identity struct {
	AccountID   string
	AccountName string
}

// Outcome is the result of one publish attempt against one platform.
// Adapters never return errors; every failure is folded into a false
// Succeeded with an ErrorMessage.
type Outcome struct {
	Succeeded    bool
	PostID       string
	ErrorMessage string
	Warning      string
	PostedAt     time.Time
}

// PublishRequest carries everything an adapter needs for one post.
// MediaPath is empty when no media was attached.
type PublishRequest struct {
	Content     string
	MediaPath   string
	Credentials Credentials
}

// Publisher adapts the generic publish contract to one platform's API.
type Publisher interface {
	Name() Platform

	// Publish performs the outbound call(s). It must not panic and must
	// not return partial platform state; any failure yields a failed
	// Outcome for the whole platform.
	Publish(ctx context.Context, req PublishRequest) Outcome

	// VerifyCredentials makes one read-only identity call with the given
	// credentials. A nil error means the credentials are usable.
	VerifyCredentials(ctx context.Context, creds Credentials) (*Identity, error)
}

// Registry maps platforms to their adapters.
type Registry map[Platform]Publisher

func failure(format string, args ...any) Outcome {
	return Outcome{Succeeded: false, ErrorMessage: fmt.Sprintf(format, args...)}
}

func success(postID string) Outcome {
	return Outcome{Succeeded: true, PostID: postID, PostedAt: time.Now().UTC()}
}
