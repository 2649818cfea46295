package snapdl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igdlapi/pkg/errors"
)

func TestBuildRequestURL(t *testing.T) {
	got := BuildRequestURL("https://snapdownloader.com/tools/instagram-reels-downloader/download?url=",
		"https://www.instagram.com/reel/ABC123/")

	assert.Equal(t,
		"https://snapdownloader.com/tools/instagram-reels-downloader/download?url=https%3A%2F%2Fwww.instagram.com%2Freel%2FABC123%2F",
		got)
}

func TestFetchPage(t *testing.T) {
	const target = "https://www.instagram.com/reel/ABC123/"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, target, r.URL.Query().Get("url"))
		assert.Equal(t, "https://snapdownloader.com/", r.Header.Get("Referer"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte("<html>page</html>"))
	}))
	defer ts.Close()

	client := NewClient(5*time.Second, "https://snapdownloader.com/", nil)
	body, err := client.FetchPage(context.Background(), ts.URL+"/?url=", target)
	require.NoError(t, err)
	assert.Equal(t, "<html>page</html>", body)
}

func TestFetchPageNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient(5*time.Second, "https://snapdownloader.com/", nil)
	_, err := client.FetchPage(context.Background(), ts.URL+"/?url=", "https://www.instagram.com/p/X/")
	require.Error(t, err)

	assert.Equal(t, errors.ErrorTypeUpstreamHTTP, errors.TypeOf(err))
	assert.Equal(t, "Failed to load page: 503", errors.Message(err))
}

func TestFetchPageTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	client := NewClient(50*time.Millisecond, "https://snapdownloader.com/", nil)
	_, err := client.FetchPage(context.Background(), ts.URL+"/?url=", "https://www.instagram.com/p/X/")
	require.Error(t, err)

	assert.Equal(t, errors.ErrorTypeUpstreamTimeout, errors.TypeOf(err))
	assert.Equal(t, "Request timeout", errors.Message(err))
}

func TestUserAgentsAreBrowserLike(t *testing.T) {
	require.NotEmpty(t, userAgents)
	for _, ua := range userAgents {
		assert.Contains(t, ua, "Mozilla/5.0")
	}
}
