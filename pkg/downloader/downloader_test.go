package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igdlapi/pkg/config"
	"igdlapi/pkg/errors"
	"igdlapi/pkg/extractor"
	"igdlapi/pkg/models"
	"igdlapi/pkg/snapdl"
)

const videoPage = `<html><head><title>Download</title></head><body>
	<a class="btn-download" href="https://cdn/v.mp4">Download Video HD</a>
</body></html>`

const emptyPage = `<html><body><p>nothing to see</p></body></html>`

// stubUpstream serves canned pages per endpoint path and counts hits.
type stubUpstream struct {
	mu    sync.Mutex
	pages map[string]string
	hits  map[string]int
}

func newStubUpstream(pages map[string]string) (*stubUpstream, *httptest.Server) {
	stub := &stubUpstream{pages: pages, hits: make(map[string]int)}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.hits[r.URL.Path]++
		page, ok := stub.pages[r.URL.Path]
		stub.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(page))
	}))
	return stub, ts
}

func (s *stubUpstream) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func newTestService(upstreamURL string) *Service {
	cfg := &config.UpstreamConfig{
		ReelEndpoint:  upstreamURL + "/reel?url=",
		StoryEndpoint: upstreamURL + "/story?url=",
		PostEndpoint:  upstreamURL + "/post?url=",
		IGTVEndpoint:  upstreamURL + "/igtv?url=",
		Referer:       upstreamURL + "/",
		Timeout:       5 * time.Second,
	}
	client := snapdl.NewClient(cfg.Timeout, cfg.Referer, nil)
	return New(client, extractor.New(), cfg, nil)
}

func TestGetByTypeDispatchesToEndpoint(t *testing.T) {
	stub, ts := newStubUpstream(map[string]string{"/story": videoPage})
	defer ts.Close()

	service := newTestService(ts.URL)
	result, err := service.GetByType(context.Background(), models.MediaTypeStory,
		"https://www.instagram.com/stories/user/123/")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, stub.hitCount("/story"))
	assert.Equal(t, 0, stub.hitCount("/reel"))
}

func TestGetByTypeRejectsUnknownType(t *testing.T) {
	_, ts := newStubUpstream(nil)
	defer ts.Close()

	service := newTestService(ts.URL)
	_, err := service.GetByType(context.Background(), models.MediaTypeUnknown,
		"https://www.instagram.com/p/X/")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeInvalidMediaType, errors.TypeOf(err))
}

func TestGetAutoClassifiedURLSkipsCascade(t *testing.T) {
	stub, ts := newStubUpstream(map[string]string{"/reel": videoPage})
	defer ts.Close()

	service := newTestService(ts.URL)
	result, err := service.GetAuto(context.Background(), "https://www.instagram.com/reel/ABC123/")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, stub.hitCount("/reel"))
	assert.Equal(t, 0, stub.hitCount("/post"))
	assert.Equal(t, 0, stub.hitCount("/igtv"))
}

func TestGetAutoFallbackStopsAtFirstSuccess(t *testing.T) {
	stub, ts := newStubUpstream(map[string]string{
		"/reel": emptyPage,
		"/post": videoPage,
		"/igtv": videoPage,
	})
	defer ts.Close()

	service := newTestService(ts.URL)
	result, err := service.GetAuto(context.Background(), "https://www.instagram.com/someuser/")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, stub.hitCount("/reel"))
	assert.Equal(t, 1, stub.hitCount("/post"))
	assert.Equal(t, 0, stub.hitCount("/igtv"))
}

func TestGetAutoFallbackNeverTriesStory(t *testing.T) {
	stub, ts := newStubUpstream(map[string]string{
		"/reel":  emptyPage,
		"/post":  emptyPage,
		"/igtv":  emptyPage,
		"/story": videoPage,
	})
	defer ts.Close()

	service := newTestService(ts.URL)
	_, err := service.GetAuto(context.Background(), "https://www.instagram.com/someuser/")
	require.Error(t, err)

	assert.Equal(t, "Unable to download media", errors.Message(err))
	assert.Equal(t, 0, stub.hitCount("/story"))
	assert.Equal(t, 1, stub.hitCount("/reel"))
	assert.Equal(t, 1, stub.hitCount("/post"))
	assert.Equal(t, 1, stub.hitCount("/igtv"))
}

func TestGetAutoFallbackSurvivesUpstreamErrors(t *testing.T) {
	// reel 404s, post succeeds: an upstream failure must not stop the cascade
	stub, ts := newStubUpstream(map[string]string{"/post": videoPage})
	defer ts.Close()

	service := newTestService(ts.URL)
	result, err := service.GetAuto(context.Background(), "https://www.instagram.com/someuser/")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, stub.hitCount("/reel"))
	assert.Equal(t, 1, stub.hitCount("/post"))
}
