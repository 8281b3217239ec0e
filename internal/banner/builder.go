package banner

import (
	"context"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/imagesearch"
	"server/internal/providers/trends"
)

const (
	metaSource        = "Perplexity AI + Unsplash"
	metaTopicCategory = "Professional Development"

	hotTopicMaxLen = 200
)

// TopicSource produces trend research and banner copy.
type TopicSource interface {
	HotTopics(ctx context.Context) (string, error)
	BannerContent(ctx context.Context, hotTopic string) (*trends.Content, error)
}

// ImageSource resolves and downloads banner imagery.
type ImageSource interface {
	Search(ctx context.Context, term string) (string, error)
	Fetch(ctx context.Context, imageURL string) (*imagesearch.Image, error)
}

// Builder drives the four-stage generation pipeline. Every stage substitutes a
// deterministic fallback on failure, independently of the other stages, so
// Build always returns a complete renderable banner and never an error.
type Builder struct {
	topics TopicSource
	images ImageSource
	logger infra.Logger
	now    func() time.Time
}

func NewBuilder(topics TopicSource, images ImageSource, logger infra.Logger) *Builder {
	return &Builder{topics: topics, images: images, logger: logger, now: time.Now}
}

// Build assembles the banner for the given calendar day. The result is not
// persisted; storage is the cache's concern.
func (b *Builder) Build(ctx context.Context, day time.Time) *domain.Banner {
	day = domain.TruncateToDay(day)

	hotTopics, err := b.topics.HotTopics(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Msg("banner: topic stage degraded")
		hotTopics = FallbackHotTopics()
	}

	content, err := b.topics.BannerContent(ctx, hotTopics)
	if err != nil {
		b.logger.Warn().Err(err).Msg("banner: content stage degraded")
		content = FallbackContent(hotTopics)
	}

	imageURL, err := b.images.Search(ctx, content.ImageSearchTerm)
	if err != nil {
		b.logger.Warn().Err(err).Msg("banner: image search degraded")
		imageURL = PlaceholderImageURL()
	}

	image, err := b.images.Fetch(ctx, imageURL)
	if err != nil {
		b.logger.Warn().Err(err).Msg("banner: image fetch degraded")
		image = FallbackImage()
	}

	return &domain.Banner{
		Date:             day,
		Title:            content.Title,
		Description:      content.Description,
		Content:          content.Body,
		HotTopic:         truncateRunes(hotTopics, hotTopicMaxLen),
		ImageURL:         imageURL,
		ImageBinary:      image.Data,
		ImageContentType: image.ContentType,
		Meta: domain.BannerMeta{
			Source:        metaSource,
			TopicCategory: metaTopicCategory,
			GeneratedAt:   b.now().UTC(),
		},
		Status:    domain.BannerStatusActive,
		ExpiresAt: domain.NextMidnight(day),
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
