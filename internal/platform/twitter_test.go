package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTwitterUnderTest(apiURL, uploadURL string) Publisher {
	return NewTwitter(TwitterConfig{
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		APIBaseURL:     apiURL,
		UploadBaseURL:  uploadURL,
	})
}

func TestTwitterTextOnlyTweet(t *testing.T) {
	var got tweetRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/tweets", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "tw-1", "text": "Hello"}})
	}))
	defer srv.Close()

	pub := newTwitterUnderTest(srv.URL, srv.URL)
	out := pub.Publish(context.Background(), PublishRequest{
		Content:     "Hello",
		Credentials: Credentials{AccessToken: "at", AccessTokenSecret: "ats"},
	})

	require.True(t, out.Succeeded, out.ErrorMessage)
	assert.Equal(t, "tw-1", out.PostID)
	assert.Equal(t, "Hello", got.Text)
	assert.Nil(t, got.Media)
	assert.True(t, strings.HasPrefix(auth, "OAuth "), "requests must be OAuth1-signed")
}

func TestTwitterUploadsMediaBeforeTweeting(t *testing.T) {
	image := filepath.Join(t.TempDir(), "pic.jpg")
	require.NoError(t, os.WriteFile(image, []byte("jpeg"), 0o644))

	var order []string
	var got tweetRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/1.1/media/upload.json", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "upload")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("media")
		require.NoError(t, err)
		_ = json.NewEncoder(w).Encode(map[string]string{"media_id_string": "m-55"})
	})
	mux.HandleFunc("/2/tweets", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "tweet")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "tw-2"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	pub := newTwitterUnderTest(srv.URL, srv.URL)
	out := pub.Publish(context.Background(), PublishRequest{
		Content:     "With media",
		MediaPath:   image,
		Credentials: Credentials{AccessToken: "at", AccessTokenSecret: "ats"},
	})

	require.True(t, out.Succeeded, out.ErrorMessage)
	assert.Equal(t, []string{"upload", "tweet"}, order)
	require.NotNil(t, got.Media)
	assert.Equal(t, []string{"m-55"}, got.Media.MediaIDs)
}

func TestTwitterMediaUploadFailureFailsPlatform(t *testing.T) {
	var tweeted bool
	mux := http.NewServeMux()
	mux.HandleFunc("/1.1/media/upload.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"media too large"}]}`, http.StatusBadRequest)
	})
	mux.HandleFunc("/2/tweets", func(w http.ResponseWriter, r *http.Request) {
		tweeted = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	image := filepath.Join(t.TempDir(), "big.jpg")
	require.NoError(t, os.WriteFile(image, []byte("x"), 0o644))

	pub := newTwitterUnderTest(srv.URL, srv.URL)
	out := pub.Publish(context.Background(), PublishRequest{
		Content:     "With media",
		MediaPath:   image,
		Credentials: Credentials{AccessToken: "at", AccessTokenSecret: "ats"},
	})

	assert.False(t, out.Succeeded)
	assert.Contains(t, out.ErrorMessage, "twitter media upload")
	assert.False(t, tweeted, "tweet must not be created after a failed media upload")
}

func TestTwitterVerifyCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2/users/me", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "u1", "username": "jdoe"}})
	}))
	defer srv.Close()

	pub := newTwitterUnderTest(srv.URL, srv.URL)
	id, err := pub.VerifyCredentials(context.Background(), Credentials{AccessToken: "at", AccessTokenSecret: "ats"})
	require.NoError(t, err)
	assert.Equal(t, "u1", id.AccountID)
	assert.Equal(t, "jdoe", id.AccountName)
}
