package server

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"igdlapi/pkg/errors"
	"igdlapi/pkg/instagram"
	"igdlapi/pkg/models"
)

// downloadRequest is the JSON body accepted by the download and info
// endpoints.
type downloadRequest struct {
	URL string `json:"url"`
}

// bindTargetURL reads and sanitizes the target URL from the request body.
// It writes the error response itself and returns false when the input is
// unusable.
func (s *Server) bindTargetURL(c *gin.Context) (string, bool) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, errorBody("Please provide 'url' in JSON body"))
		return "", false
	}

	sanitized, ok := instagram.SanitizeURL(req.URL)
	if !ok {
		c.JSON(http.StatusBadRequest, errorBody("Invalid Instagram URL"))
		return "", false
	}

	return sanitized, true
}

// writeError maps a typed error to its HTTP status and JSON shape.
func (s *Server) writeError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}
	c.JSON(status, errorBody(errors.Message(err)))
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api":     "Instagram Downloader API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"/download":       "Download any Instagram media (auto-detect)",
			"/download/reel":  "Download Instagram Reel",
			"/download/story": "Download Instagram Story",
			"/download/post":  "Download Instagram Post",
			"/download/igtv":  "Download Instagram IGTV",
			"/info":           "Get media info without downloading",
			"/health":         "Health check endpoint",
		},
		"usage": "Send POST request with JSON: {'url': 'instagram_url'}",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "instagram-downloader-api",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleDownload resolves media for a URL with auto-detected type.
func (s *Server) handleDownload(c *gin.Context) {
	targetURL, ok := s.bindTargetURL(c)
	if !ok {
		return
	}

	result, err := s.service.GetAuto(c.Request.Context(), targetURL)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleDownloadByType resolves media for an explicitly requested type.
func (s *Server) handleDownloadByType(c *gin.Context) {
	rawType := strings.ToLower(c.Param("type"))
	mediaType := models.ParseMediaType(rawType)
	if mediaType == models.MediaTypeUnknown {
		c.JSON(http.StatusBadRequest, errorBody("Invalid media type. Use: reel, story, post, or igtv"))
		return
	}

	targetURL, ok := s.bindTargetURL(c)
	if !ok {
		return
	}

	result, err := s.service.GetByType(c.Request.Context(), mediaType, targetURL)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleInfo resolves media and reshapes the result with the classified
// media type.
func (s *Server) handleInfo(c *gin.Context) {
	targetURL, ok := s.bindTargetURL(c)
	if !ok {
		return
	}

	result, err := s.service.GetAuto(c.Request.Context(), targetURL)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MediaInfo{
		Status:     result.Status,
		URL:        targetURL,
		MediaType:  instagram.ClassifyURL(targetURL),
		MediaCount: result.Count,
		MediaItems: result.Media,
		Metadata:   result.Metadata,
	})
}

// handleProxy streams a direct media URL through the service as a file
// download. The body is spooled to a temporary file before responding.
func (s *Server) handleProxy(c *gin.Context) {
	mediaURL := c.Query("url")
	if mediaURL == "" {
		c.JSON(http.StatusBadRequest, errorBody("Please provide 'url' parameter"))
		return
	}

	if !s.allowedMediaURL(mediaURL) {
		s.writeError(c, errors.New(errors.ErrorTypeProxyExtension, "Invalid media URL"))
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, mediaURL, nil)
	if err != nil {
		s.writeError(c, errors.New(errors.ErrorTypeProxyExtension, "Invalid media URL"))
		return
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.proxyClient.Do(req)
	if err != nil {
		s.writeError(c, errors.NewUpstream(0, "Failed to download media"))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.writeError(c, errors.NewUpstream(resp.StatusCode,
			fmt.Sprintf("Failed to download media: %d", resp.StatusCode)))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	spoolPath, _, err := s.spool.Write(resp.Body)
	if err != nil {
		s.writeError(c, errors.Newf(errors.ErrorTypeInternal, "Failed to buffer media: %v", err))
		return
	}
	defer s.spool.Remove(spoolPath)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", proxyFilename(mediaURL)))
	c.Header("Content-Type", contentType)
	c.File(spoolPath)
}

// allowedMediaURL checks the proxy extension allowlist.
func (s *Server) allowedMediaURL(mediaURL string) bool {
	lowered := strings.ToLower(mediaURL)
	for _, ext := range s.cfg.Proxy.AllowedExtensions {
		if strings.Contains(lowered, ext) {
			return true
		}
	}
	return false
}

// proxyFilename derives the attachment name from the media URL's last
// path segment.
func proxyFilename(mediaURL string) string {
	if u, err := url.Parse(mediaURL); err == nil && u.Path != "" {
		if name := path.Base(u.Path); name != "/" && name != "." {
			return name
		}
	}
	parts := strings.Split(mediaURL, "/")
	return parts[len(parts)-1]
}
