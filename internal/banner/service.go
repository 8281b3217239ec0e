package banner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/infra"
)

const historyWindow = 7

// Service is the date-keyed banner cache. All coordination between concurrent
// writers is delegated to the store's uniqueness guarantee on the date column;
// there is no in-process locking, so concurrent misses may each run the full
// pipeline and all but one build is discarded.
type Service struct {
	repo    domain.BannerRepository
	builder *Builder
	logger  infra.Logger
}

func NewService(repo domain.BannerRepository, builder *Builder, logger infra.Logger) *Service {
	return &Service{repo: repo, builder: builder, logger: logger}
}

// GetOrCreate returns the active banner for the given day, generating and
// persisting one on a cache miss. Losing the insert race to a concurrent
// request is recovered by re-reading the winning record.
func (s *Service) GetOrCreate(ctx context.Context, day time.Time) (*domain.Banner, error) {
	day = domain.TruncateToDay(day)

	existing, err := s.repo.FindActiveByDate(ctx, day)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("banner: lookup for %s: %w", day.Format("2006-01-02"), err)
	}

	s.logger.Info().Str("date", day.Format("2006-01-02")).Msg("banner: cache miss, generating")
	built := s.builder.Build(ctx, day)
	return s.persist(ctx, built)
}

// Regenerate unconditionally replaces the banner for the day. Concurrent
// regenerate and read-through calls are not ordered; the last insert wins.
func (s *Service) Regenerate(ctx context.Context, day time.Time) (*domain.Banner, error) {
	day = domain.TruncateToDay(day)

	if err := s.repo.DeleteByDate(ctx, day); err != nil {
		return nil, fmt.Errorf("banner: delete for %s: %w", day.Format("2006-01-02"), err)
	}

	built := s.builder.Build(ctx, day)
	return s.persist(ctx, built)
}

func (s *Service) persist(ctx context.Context, built *domain.Banner) (*domain.Banner, error) {
	built.ID = uuid.NewString()
	err := s.repo.Insert(ctx, built)
	if err == nil {
		return built, nil
	}
	if errors.Is(err, domain.ErrDuplicateBanner) {
		// A concurrent request won the insert race; its record is canonical.
		s.logger.Info().Str("date", built.Date.Format("2006-01-02")).Msg("banner: lost insert race, re-reading")
		winner, readErr := s.repo.FindActiveByDate(ctx, built.Date)
		if readErr != nil {
			return nil, fmt.Errorf("banner: re-read after race: %w", readErr)
		}
		return winner, nil
	}
	return nil, fmt.Errorf("banner: persist: %w", err)
}

// ServeBinary returns the stored image bytes and content type for a banner.
func (s *Service) ServeBinary(ctx context.Context, id string) ([]byte, string, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if len(record.ImageBinary) == 0 {
		return nil, "", domain.ErrNotFound
	}
	return record.ImageBinary, record.ImageContentType, nil
}

// History lists the banners of the trailing week, newest first, without the
// binary payload.
func (s *Service) History(ctx context.Context, now time.Time) ([]domain.BannerSummary, error) {
	since := domain.TruncateToDay(now).AddDate(0, 0, -historyWindow)
	return s.repo.ListSince(ctx, since, historyWindow)
}
