package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// LinkedInConfig configures the UGC post adapter.
type LinkedInConfig struct {
	BaseURL string // override for tests; defaults to api.linkedin.com
	Timeout time.Duration
}

type linkedinPublisher struct {
	base string
	http *http.Client
}

func NewLinkedIn(cfg LinkedInConfig) Publisher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.linkedin.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeoutSeconds * time.Second
	}
	return &linkedinPublisher{
		base: cfg.BaseURL,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (l *linkedinPublisher) Name() Platform { return LinkedIn }

type ugcPostBody struct {
	Author          string         `json:"author"`
	LifecycleState  string         `json:"lifecycleState"`
	SpecificContent map[string]any `json:"specificContent"`
	Visibility      map[string]any `json:"visibility"`
}

// Publish creates a text-only UGC post. Image upload is not wired for
// linkedin; attached media is skipped and reported as a warning on the
// outcome rather than failing the platform.
func (l *linkedinPublisher) Publish(ctx context.Context, req PublishRequest) Outcome {
	body := ugcPostBody{
		Author:         "urn:li:person:" + req.Credentials.AccountID,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": req.Content},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return failure("linkedin encode post: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.base+"/v2/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return failure("linkedin build request: %v", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.Credentials.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := l.http.Do(httpReq)
	if err != nil {
		return failure("linkedin post: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := decodeResponse(resp, &created); err != nil {
		return failure("linkedin post: %v", err)
	}

	out := success(created.ID)
	if req.MediaPath != "" {
		out.Warning = "media not supported for linkedin, posted text only"
	}
	return out
}

func (l *linkedinPublisher) VerifyCredentials(ctx context.Context, creds Credentials) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.base+"/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin identity call: %w", err)
	}
	var profile struct {
		Sub  string `json:"sub"`
		Name string `json:"name"`
	}
	if err := decodeResponse(resp, &profile); err != nil {
		return nil, fmt.Errorf("linkedin identity call: %w", err)
	}
	return &Identity{AccountID: profile.Sub, AccountName: profile.Name}, nil
}
