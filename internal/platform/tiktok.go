package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const tiktokTitleLimit = 150

// TikTokConfig configures the video publishing adapter.
type TikTokConfig struct {
	BaseURL string // override for tests; defaults to open.tiktokapis.com
	Timeout time.Duration
}

type tiktokPublisher struct {
	base string
	http *http.Client
}

func NewTikTok(cfg TikTokConfig) Publisher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://open.tiktokapis.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeoutSeconds * time.Second
	}
	return &tiktokPublisher{
		base: cfg.BaseURL,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (t *tiktokPublisher) Name() Platform { return TikTok }

type tiktokInitRequest struct {
	PostInfo struct {
		Title                 string `json:"title"`
		PrivacyLevel          string `json:"privacy_level"`
		DisableComment        bool   `json:"disable_comment"`
		DisableDuet           bool   `json:"disable_duet"`
		DisableStitch         bool   `json:"disable_stitch"`
		VideoCoverTimestampMS int    `json:"video_cover_timestamp_ms"`
	} `json:"post_info"`
	SourceInfo struct {
		Source          string `json:"source"`
		VideoSize       int64  `json:"video_size"`
		ChunkSize       int64  `json:"chunk_size"`
		TotalChunkCount int    `json:"total_chunk_count"`
	} `json:"source_info"`
}

type tiktokInitResponse struct {
	Data struct {
		UploadURL string `json:"upload_url"`
		PublishID string `json:"publish_id"`
	} `json:"data"`
}

// Publish runs the two-step upload: init a publish session, then transfer
// the raw video bytes to the returned upload target. The publish id is
// reported as the external post id even though tiktok finishes processing
// asynchronously; final state is not polled.
func (t *tiktokPublisher) Publish(ctx context.Context, req PublishRequest) Outcome {
	if req.MediaPath == "" {
		return failure("video required")
	}
	info, err := os.Stat(req.MediaPath)
	if err != nil {
		return failure("video required")
	}

	title := req.Content
	if r := []rune(title); len(r) > tiktokTitleLimit {
		title = string(r[:tiktokTitleLimit])
	}

	var initReq tiktokInitRequest
	initReq.PostInfo.Title = title
	initReq.PostInfo.PrivacyLevel = "SELF_ONLY"
	initReq.PostInfo.VideoCoverTimestampMS = 1000
	initReq.SourceInfo.Source = "FILE_UPLOAD"
	initReq.SourceInfo.VideoSize = info.Size()
	initReq.SourceInfo.ChunkSize = info.Size()
	initReq.SourceInfo.TotalChunkCount = 1

	payload, err := json.Marshal(initReq)
	if err != nil {
		return failure("tiktok encode init: %v", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+"/v2/post/publish/video/init/", bytes.NewReader(payload))
	if err != nil {
		return failure("tiktok build request: %v", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.Credentials.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(httpReq)
	if err != nil {
		return failure("tiktok init upload: %v", err)
	}
	var initResp tiktokInitResponse
	if err := decodeResponse(resp, &initResp); err != nil {
		return failure("tiktok init upload: %v", err)
	}
	if initResp.Data.UploadURL == "" || initResp.Data.PublishID == "" {
		return failure("tiktok init upload: missing upload target in response")
	}

	if err := t.uploadVideo(ctx, initResp.Data.UploadURL, req.MediaPath, info.Size()); err != nil {
		return failure("tiktok video upload: %v", err)
	}
	return success(initResp.Data.PublishID)
}

func (t *tiktokPublisher) uploadVideo(ctx context.Context, uploadURL, path string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, f)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "video/mp4")
	req.Header.Set("Content-Range", fmt.Sprintf("bytes 0-%d/%d", size-1, size))

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	return drainResponse(resp)
}

func (t *tiktokPublisher) VerifyCredentials(ctx context.Context, creds Credentials) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.base+"/v2/user/info/?fields=open_id,display_name,username", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tiktok identity call: %w", err)
	}
	var userInfo struct {
		Data struct {
			User struct {
				OpenID      string `json:"open_id"`
				DisplayName string `json:"display_name"`
				Username    string `json:"username"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := decodeResponse(resp, &userInfo); err != nil {
		return nil, fmt.Errorf("tiktok identity call: %w", err)
	}
	u := userInfo.Data.User
	name := u.Username
	if name == "" {
		name = u.DisplayName
	}
	return &Identity{AccountID: u.OpenID, AccountName: name}, nil
}
