package instagram

import (
	"regexp"
	"strings"

	"github.com/tidwall/match"

	"igdlapi/pkg/models"
)

// BaseURL is the base URL for Instagram
const BaseURL = "https://www.instagram.com"

// hostPatterns is the cheap first-pass gate applied before the URL grammar.
var hostPatterns = []string{
	"instagram.com/*",
}

// Accepted URL shapes. Both are prefix-anchored: trailing path segments
// beyond the matched prefix are tolerated, the query string and fragment
// are stripped before matching.
var (
	// A post-like URL: a known segment marker followed by a shortcode.
	mediaPathPattern = regexp.MustCompile(`^https?://(www\.)?instagram\.com/(p|reel|reels|stories|story|tv)/[A-Za-z0-9_-]+/?`)

	// A bare profile URL: a single path segment of word characters,
	// dots and underscores.
	profilePathPattern = regexp.MustCompile(`^https?://(www\.)?instagram\.com/[A-Za-z0-9_.]+/?`)
)

// SanitizeURL strips the query string and fragment from raw and validates
// it against the accepted Instagram URL shapes. It returns the trimmed URL
// and true, or "" and false for anything that does not match.
func SanitizeURL(raw string) (string, bool) {
	url := raw
	if i := strings.Index(url, "?"); i >= 0 {
		url = url[:i]
	}
	if i := strings.Index(url, "#"); i >= 0 {
		url = url[:i]
	}

	if !matchesHost(url) {
		return "", false
	}

	if mediaPathPattern.MatchString(url) || profilePathPattern.MatchString(url) {
		return strings.TrimSpace(url), true
	}

	return "", false
}

// matchesHost reports whether url points at Instagram at all.
func matchesHost(url string) bool {
	stripped := strings.TrimPrefix(url, "https://")
	stripped = strings.TrimPrefix(stripped, "http://")
	stripped = strings.TrimPrefix(stripped, "www.")
	for _, p := range hostPatterns {
		if match.Match(stripped, p) {
			return true
		}
	}
	return false
}

// ClassifyURL determines the media type from the URL path. Checks run in
// fixed priority order; URLs with no recognized segment marker classify
// as unknown.
func ClassifyURL(url string) models.MediaType {
	switch {
	case strings.Contains(url, "/reel/") || strings.Contains(url, "/reels/"):
		return models.MediaTypeReel
	case strings.Contains(url, "/stories/") || strings.Contains(url, "/story/"):
		return models.MediaTypeStory
	case strings.Contains(url, "/tv/"):
		return models.MediaTypeIGTV
	case strings.Contains(url, "/p/"):
		return models.MediaTypePost
	default:
		return models.MediaTypeUnknown
	}
}
