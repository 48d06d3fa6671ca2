package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dghubble/oauth1"
)

// TwitterConfig carries the application-level OAuth 1.0a consumer pair.
// The per-user token pair comes from the stored account credentials.
type TwitterConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	APIBaseURL     string // override for tests; defaults to api.twitter.com
	UploadBaseURL  string // override for tests; defaults to upload.twitter.com
	Timeout        time.Duration
}

type twitterPublisher struct {
	oauth      *oauth1.Config
	apiBase    string
	uploadBase string
	timeout    time.Duration
}

func NewTwitter(cfg TwitterConfig) Publisher {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.twitter.com"
	}
	if cfg.UploadBaseURL == "" {
		cfg.UploadBaseURL = "https://upload.twitter.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeoutSeconds * time.Second
	}
	return &twitterPublisher{
		oauth:      oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret),
		apiBase:    cfg.APIBaseURL,
		uploadBase: cfg.UploadBaseURL,
		timeout:    cfg.Timeout,
	}
}

func (t *twitterPublisher) Name() Platform { return Twitter }

// signedClient builds an OAuth1-signing client for one user's token pair.
func (t *twitterPublisher) signedClient(creds Credentials) *http.Client {
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	client := t.oauth.Client(oauth1.NoContext, token)
	client.Timeout = t.timeout
	return client
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (t *twitterPublisher) Publish(ctx context.Context, req PublishRequest) Outcome {
	client := t.signedClient(req.Credentials)

	var mediaID string
	if req.MediaPath != "" {
		if _, err := os.Stat(req.MediaPath); err == nil {
			id, err := t.uploadMedia(ctx, client, req.MediaPath)
			if err != nil {
				return failure("twitter media upload: %v", err)
			}
			mediaID = id
		}
	}

	body := tweetRequest{Text: req.Content}
	if mediaID != "" {
		body.Media = &tweetMedia{MediaIDs: []string{mediaID}}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return failure("twitter encode tweet: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiBase+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return failure("twitter build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return failure("twitter post tweet: %v", err)
	}
	var tweet tweetResponse
	if err := decodeResponse(resp, &tweet); err != nil {
		return failure("twitter post tweet: %v", err)
	}
	return success(tweet.Data.ID)
}

// uploadMedia pushes the file to the v1.1 media endpoint and returns the
// media id to attach to the tweet.
func (t *twitterPublisher) uploadMedia(ctx context.Context, client *http.Client, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open media: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read media: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.uploadBase+"/1.1/media/upload.json", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	var uploaded struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := decodeResponse(resp, &uploaded); err != nil {
		return "", err
	}
	if uploaded.MediaIDString == "" {
		return "", fmt.Errorf("no media id in upload response")
	}
	return uploaded.MediaIDString, nil
}

func (t *twitterPublisher) VerifyCredentials(ctx context.Context, creds Credentials) (*Identity, error) {
	client := t.signedClient(creds)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.apiBase+"/2/users/me", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter identity call: %w", err)
	}
	var me struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := decodeResponse(resp, &me); err != nil {
		return nil, fmt.Errorf("twitter identity call: %w", err)
	}
	return &Identity{AccountID: me.Data.ID, AccountName: me.Data.Username}, nil
}
