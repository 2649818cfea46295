package extractor

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"igdlapi/pkg/errors"
	"igdlapi/pkg/models"
)

// Extractor turns a downloader page into an extraction result. The
// heuristics are coupled to an undocumented third party's markup, so the
// rule set hides behind this interface and can be swapped without touching
// the orchestration.
type Extractor interface {
	Extract(htmlBody string) (*models.ExtractionResult, error)
}

// Selector heuristics for download links on the downloader page.
const (
	videoLinkSelector = "a.btn-download, a.download-button, a[href*='.mp4']"
	imageLinkSelector = "a.btn-download, a.download-button, a[href*='.jpg'], a[href*='.jpeg'], a[href*='.png']"
	videoTagSelector  = "video source"
)

// qualityTokens is the ordered list of known quality labels. The first
// token found in the link text wins.
var qualityTokens = []string{"hd", "high", "720p", "1080p", "4k", "sd", "low"}

var sizePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(MB|KB|GB)`)

var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// PageExtractor implements Extractor against the downloader site's markup.
type PageExtractor struct{}

// New creates a PageExtractor.
func New() *PageExtractor {
	return &PageExtractor{}
}

// Extract parses the page and collects download links, classifying each as
// video or image and deriving best-effort quality and size labels from the
// surrounding text. Duplicate URLs are dropped, first occurrence wins.
func (e *PageExtractor) Extract(htmlBody string) (*models.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeInternal, "failed to parse page: %v", err)
	}

	metadata := map[string]string{}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		metadata["title"] = title
	}

	var items []models.MediaItem

	// Video links
	doc.Find(videoLinkSelector).Each(func(_ int, s *goquery.Selection) {
		href := html.UnescapeString(s.AttrOr("href", ""))
		text := strings.ToLower(strings.TrimSpace(s.Text()))

		if href != "" && (strings.Contains(href, ".mp4") || strings.Contains(text, "video")) {
			items = append(items, models.MediaItem{
				URL:     href,
				Type:    models.ItemTypeVideo,
				Quality: extractQuality(text),
				Size:    extractSize(text),
			})
		}
	})

	// Image links
	doc.Find(imageLinkSelector).Each(func(_ int, s *goquery.Selection) {
		href := html.UnescapeString(s.AttrOr("href", ""))
		text := strings.ToLower(strings.TrimSpace(s.Text()))

		if href != "" && hasImageExtension(href) {
			items = append(items, models.MediaItem{
				URL:     href,
				Type:    models.ItemTypeImage,
				Quality: extractQuality(text),
				Size:    extractSize(text),
			})
		}
	})

	// Some pages embed the video directly instead of a download button.
	doc.Find(videoTagSelector).Each(func(_ int, s *goquery.Selection) {
		src := html.UnescapeString(s.AttrOr("src", ""))
		if src != "" && strings.Contains(src, ".mp4") {
			items = append(items, models.MediaItem{
				URL:     src,
				Type:    models.ItemTypeVideo,
				Quality: models.QualityUnknown,
				Size:    models.SizeUnknown,
			})
		}
	})

	unique := dedupeByURL(items)
	if len(unique) == 0 {
		return nil, errors.New(errors.ErrorTypeNoMediaFound, "No media found")
	}

	return models.NewExtractionResult(unique, metadata), nil
}

// dedupeByURL removes duplicate items, preserving first-seen order.
func dedupeByURL(items []models.MediaItem) []models.MediaItem {
	seen := make(map[string]bool, len(items))
	unique := make([]models.MediaItem, 0, len(items))
	for _, item := range items {
		if seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		unique = append(unique, item)
	}
	return unique
}

// extractQuality scans lowercased link text for known quality tokens.
func extractQuality(text string) string {
	for _, q := range qualityTokens {
		if strings.Contains(text, q) {
			return q
		}
	}
	return models.QualityStandard
}

// extractSize pulls a "<number> <unit>" size label out of link text.
func extractSize(text string) string {
	m := sizePattern.FindStringSubmatch(text)
	if m == nil {
		return models.SizeUnknown
	}
	return m[1] + " " + strings.ToUpper(m[2])
}

func hasImageExtension(href string) bool {
	for _, ext := range imageExtensions {
		if strings.Contains(href, ext) {
			return true
		}
	}
	return false
}
