package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid url", New(ErrorTypeInvalidURL, "Invalid Instagram URL"), http.StatusBadRequest},
		{"invalid media type", New(ErrorTypeInvalidMediaType, "bad type"), http.StatusBadRequest},
		{"proxy extension", New(ErrorTypeProxyExtension, "Invalid media URL"), http.StatusBadRequest},
		{"rate limited", New(ErrorTypeRateLimited, "slow down"), http.StatusTooManyRequests},
		{"upstream http", NewUpstream(503, "Failed to load page: 503"), http.StatusInternalServerError},
		{"timeout", New(ErrorTypeUpstreamTimeout, "Request timeout"), http.StatusInternalServerError},
		{"no media", New(ErrorTypeNoMediaFound, "No media found"), http.StatusInternalServerError},
		{"untyped", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestTypeOfWrappedError(t *testing.T) {
	err := fmt.Errorf("resolving media: %w", New(ErrorTypeNoMediaFound, "No media found"))
	assert.Equal(t, ErrorTypeNoMediaFound, TypeOf(err))
	assert.Equal(t, "No media found", Message(err))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "upstream_http error (code 404): Failed to load page: 404",
		NewUpstream(404, "Failed to load page: 404").Error())
	assert.Equal(t, "invalid_url error: Invalid Instagram URL",
		New(ErrorTypeInvalidURL, "Invalid Instagram URL").Error())
}

func TestMessageUntyped(t *testing.T) {
	assert.Equal(t, "Server error: boom", Message(stderrors.New("boom")))
}
