package models

// MediaType is the content category inferred from an Instagram URL.
type MediaType string

const (
	MediaTypeReel    MediaType = "reel"
	MediaTypeStory   MediaType = "story"
	MediaTypePost    MediaType = "post"
	MediaTypeIGTV    MediaType = "igtv"
	MediaTypeUnknown MediaType = "unknown"
)

// ParseMediaType converts a raw string into a known MediaType.
// Unrecognized values map to MediaTypeUnknown.
func ParseMediaType(s string) MediaType {
	switch MediaType(s) {
	case MediaTypeReel, MediaTypeStory, MediaTypePost, MediaTypeIGTV:
		return MediaType(s)
	default:
		return MediaTypeUnknown
	}
}

// Item types for discovered media.
const (
	ItemTypeVideo = "video"
	ItemTypeImage = "image"
)

// Default labels used when quality or size cannot be derived from the page.
const (
	QualityStandard = "standard"
	QualityUnknown  = "unknown"
	SizeUnknown     = "unknown"
)

// MediaItem is one discovered downloadable asset. Items are immutable
// once extracted.
type MediaItem struct {
	URL     string `json:"url"`
	Type    string `json:"type"`
	Quality string `json:"quality"`
	Size    string `json:"size"`
}

// ExtractionResult is the outcome of a single upstream fetch attempt.
// Status is always "success" here; failures are reported as typed errors
// and shaped into the error response at the handler boundary.
type ExtractionResult struct {
	Status   string            `json:"status"`
	Media    []MediaItem       `json:"media"`
	Metadata map[string]string `json:"metadata"`
	Count    int               `json:"count"`
}

// NewExtractionResult builds a success result from an ordered, deduplicated
// media list.
func NewExtractionResult(media []MediaItem, metadata map[string]string) *ExtractionResult {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &ExtractionResult{
		Status:   "success",
		Media:    media,
		Metadata: metadata,
		Count:    len(media),
	}
}

// MediaInfo is the reshaped response returned by the info endpoint.
type MediaInfo struct {
	Status     string            `json:"status"`
	URL        string            `json:"url"`
	MediaType  MediaType         `json:"media_type"`
	MediaCount int               `json:"media_count"`
	MediaItems []MediaItem       `json:"media_items"`
	Metadata   map[string]string `json:"metadata"`
}
