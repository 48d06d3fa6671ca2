package platform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// FacebookConfig configures the Graph API page posting adapter.
type FacebookConfig struct {
	BaseURL string // override for tests; defaults to graph.facebook.com/v18.0
	Timeout time.Duration
}

type facebookPublisher struct {
	base string
	http *http.Client
}

func NewFacebook(cfg FacebookConfig) Publisher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.facebook.com/v18.0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeoutSeconds * time.Second
	}
	return &facebookPublisher{
		base: cfg.BaseURL,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (f *facebookPublisher) Name() Platform { return Facebook }

// Publish posts to the page feed, switching to the photos endpoint when
// media is attached (content becomes the caption). The endpoint choice is
// driven solely by media presence.
func (f *facebookPublisher) Publish(ctx context.Context, req PublishRequest) Outcome {
	pageID := req.Credentials.AccountID

	if req.MediaPath != "" {
		if _, err := os.Stat(req.MediaPath); err == nil {
			return f.publishPhoto(ctx, pageID, req)
		}
	}
	return f.publishFeed(ctx, pageID, req)
}

func (f *facebookPublisher) publishFeed(ctx context.Context, pageID string, req PublishRequest) Outcome {
	endpoint := fmt.Sprintf("%s/%s/feed", f.base, pageID)
	params := url.Values{}
	params.Set("message", req.Content)
	params.Set("access_token", req.Credentials.AccessToken)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return failure("facebook build request: %v", err)
	}
	resp, err := f.http.Do(httpReq)
	if err != nil {
		return failure("facebook feed post: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := decodeResponse(resp, &created); err != nil {
		return failure("facebook feed post: %v", err)
	}
	return success(created.ID)
}

func (f *facebookPublisher) publishPhoto(ctx context.Context, pageID string, req PublishRequest) Outcome {
	file, err := os.Open(req.MediaPath)
	if err != nil {
		return failure("facebook open media: %v", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("message", req.Content)
	_ = mw.WriteField("access_token", req.Credentials.AccessToken)
	part, err := mw.CreateFormFile("source", filepath.Base(req.MediaPath))
	if err != nil {
		return failure("facebook encode media: %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return failure("facebook read media: %v", err)
	}
	if err := mw.Close(); err != nil {
		return failure("facebook encode media: %v", err)
	}

	endpoint := fmt.Sprintf("%s/%s/photos", f.base, pageID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return failure("facebook build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := f.http.Do(httpReq)
	if err != nil {
		return failure("facebook photo post: %v", err)
	}
	var created struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := decodeResponse(resp, &created); err != nil {
		return failure("facebook photo post: %v", err)
	}
	if created.PostID != "" {
		return success(created.PostID)
	}
	return success(created.ID)
}

// VerifyCredentials checks that the token is a usable page access token by
// fetching the page itself.
func (f *facebookPublisher) VerifyCredentials(ctx context.Context, creds Credentials) (*Identity, error) {
	params := url.Values{}
	params.Set("fields", "id,name")
	params.Set("access_token", creds.AccessToken)

	endpoint := fmt.Sprintf("%s/%s?%s", f.base, creds.AccountID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook page lookup: %w", err)
	}
	var page struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := decodeResponse(resp, &page); err != nil {
		return nil, fmt.Errorf("facebook page lookup: %w", err)
	}
	return &Identity{AccountID: page.ID, AccountName: page.Name}, nil
}
