package downloader

import (
	"context"

	"igdlapi/pkg/config"
	"igdlapi/pkg/errors"
	"igdlapi/pkg/extractor"
	"igdlapi/pkg/instagram"
	"igdlapi/pkg/logger"
	"igdlapi/pkg/models"
	"igdlapi/pkg/snapdl"
)

// autoFallbackOrder is the sequence of endpoints tried when a URL cannot
// be classified. Story is deliberately absent: stories never have the
// ambiguous URL shapes that reach the fallback path.
var autoFallbackOrder = []models.MediaType{
	models.MediaTypeReel,
	models.MediaTypePost,
	models.MediaTypeIGTV,
}

// Service routes a target URL to the matching downloader endpoint and
// extracts media links from the returned page.
type Service struct {
	client    *snapdl.Client
	extractor extractor.Extractor
	endpoints map[models.MediaType]string
	logger    logger.Logger
}

// New creates a Service wiring the upstream client and extractor to the
// configured endpoints.
func New(client *snapdl.Client, ext extractor.Extractor, cfg *config.UpstreamConfig, log logger.Logger) *Service {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Service{
		client:    client,
		extractor: ext,
		endpoints: map[models.MediaType]string{
			models.MediaTypeReel:  cfg.ReelEndpoint,
			models.MediaTypeStory: cfg.StoryEndpoint,
			models.MediaTypePost:  cfg.PostEndpoint,
			models.MediaTypeIGTV:  cfg.IGTVEndpoint,
		},
		logger: log,
	}
}

// GetReel resolves media for a reel URL.
func (s *Service) GetReel(ctx context.Context, url string) (*models.ExtractionResult, error) {
	return s.resolve(ctx, models.MediaTypeReel, url)
}

// GetStory resolves media for a story URL.
func (s *Service) GetStory(ctx context.Context, url string) (*models.ExtractionResult, error) {
	return s.resolve(ctx, models.MediaTypeStory, url)
}

// GetPost resolves media for a post URL.
func (s *Service) GetPost(ctx context.Context, url string) (*models.ExtractionResult, error) {
	return s.resolve(ctx, models.MediaTypePost, url)
}

// GetIGTV resolves media for an IGTV URL.
func (s *Service) GetIGTV(ctx context.Context, url string) (*models.ExtractionResult, error) {
	return s.resolve(ctx, models.MediaTypeIGTV, url)
}

// GetByType dispatches to the endpoint for an explicitly requested media
// type.
func (s *Service) GetByType(ctx context.Context, mediaType models.MediaType, url string) (*models.ExtractionResult, error) {
	if _, ok := s.endpoints[mediaType]; !ok {
		return nil, errors.New(errors.ErrorTypeInvalidMediaType,
			"Invalid media type. Use: reel, story, post, or igtv")
	}
	return s.resolve(ctx, mediaType, url)
}

// GetAuto classifies the URL and dispatches to the matching endpoint. When
// classification is inconclusive it walks autoFallbackOrder sequentially
// and returns the first successful result.
func (s *Service) GetAuto(ctx context.Context, url string) (*models.ExtractionResult, error) {
	mediaType := instagram.ClassifyURL(url)
	if mediaType != models.MediaTypeUnknown {
		return s.resolve(ctx, mediaType, url)
	}

	s.logger.WithField("url", url).Debug("media type unknown, trying fallback cascade")

	for _, candidate := range autoFallbackOrder {
		result, err := s.resolve(ctx, candidate, url)
		if err == nil {
			return result, nil
		}
		s.logger.WithFields(map[string]interface{}{
			"url":        url,
			"media_type": string(candidate),
			"error":      err.Error(),
		}).Debug("fallback attempt failed")
	}

	return nil, errors.New(errors.ErrorTypeNoMediaFound, "Unable to download media")
}

// resolve performs one fetch+extract attempt against the endpoint for
// mediaType.
func (s *Service) resolve(ctx context.Context, mediaType models.MediaType, url string) (*models.ExtractionResult, error) {
	htmlBody, err := s.client.FetchPage(ctx, s.endpoints[mediaType], url)
	if err != nil {
		return nil, err
	}

	result, err := s.extractor.Extract(htmlBody)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"url":        url,
		"media_type": string(mediaType),
		"count":      result.Count,
	}).Info("media resolved")

	return result, nil
}
