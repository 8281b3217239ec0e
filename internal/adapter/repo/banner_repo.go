package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const pgUniqueViolation = "23505"

// BannerRepositoryPG implements domain.BannerRepository backed by PostgreSQL.
// The unique index on the date column is what serializes concurrent writers;
// the repository only translates its violation into a domain error.
type BannerRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewBannerRepository creates a new banner repository backed by PostgreSQL.
func NewBannerRepository(pool *pgxpool.Pool) *BannerRepositoryPG {
	return &BannerRepositoryPG{pool: pool}
}

// Insert persists a freshly built banner. A duplicate date maps to
// domain.ErrDuplicateBanner so callers can re-read the winning record.
func (r *BannerRepositoryPG) Insert(ctx context.Context, banner *domain.Banner) error {
	meta, err := json.Marshal(banner.Meta)
	if err != nil {
		return err
	}

	query := `
INSERT INTO banners (id, date, title, description, content, hot_topic, image_url, image_binary, image_content_type, meta, status, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	_, err = r.pool.Exec(ctx, query,
		banner.ID,
		banner.Date,
		banner.Title,
		banner.Description,
		banner.Content,
		banner.HotTopic,
		banner.ImageURL,
		banner.ImageBinary,
		banner.ImageContentType,
		meta,
		banner.Status,
		banner.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateBanner
		}
		return err
	}
	return nil
}

// FindActiveByDate fetches the active banner for a calendar day.
func (r *BannerRepositoryPG) FindActiveByDate(ctx context.Context, date time.Time) (*domain.Banner, error) {
	row := r.pool.QueryRow(ctx, selectBanner+` WHERE date = $1 AND status = $2`, date, domain.BannerStatusActive)
	return scanBanner(row)
}

// FindByID fetches a banner by its identifier.
func (r *BannerRepositoryPG) FindByID(ctx context.Context, id string) (*domain.Banner, error) {
	row := r.pool.QueryRow(ctx, selectBanner+` WHERE id = $1`, id)
	return scanBanner(row)
}

// DeleteByDate removes any banner stored for the day. Deleting a missing day
// is not an error.
func (r *BannerRepositoryPG) DeleteByDate(ctx context.Context, date time.Time) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM banners WHERE date = $1`, date)
	return err
}

// ListSince returns banner projections, newest first, without binary payloads.
func (r *BannerRepositoryPG) ListSince(ctx context.Context, since time.Time, limit int) ([]domain.BannerSummary, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, date, title, description, hot_topic, meta, created_at
FROM banners
WHERE date >= $1
ORDER BY date DESC
LIMIT $2;
`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.BannerSummary
	for rows.Next() {
		var s domain.BannerSummary
		var meta []byte
		if err := rows.Scan(&s.ID, &s.Date, &s.Title, &s.Description, &s.HotTopic, &meta, &s.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &s.Meta); err != nil {
				return nil, err
			}
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

const selectBanner = `
SELECT id, date, title, description, content, hot_topic, image_url, image_binary, image_content_type, meta, status, expires_at, created_at, updated_at
FROM banners`

func scanBanner(row pgx.Row) (*domain.Banner, error) {
	var b domain.Banner
	var meta []byte
	if err := row.Scan(
		&b.ID,
		&b.Date,
		&b.Title,
		&b.Description,
		&b.Content,
		&b.HotTopic,
		&b.ImageURL,
		&b.ImageBinary,
		&b.ImageContentType,
		&meta,
		&b.Status,
		&b.ExpiresAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &b.Meta); err != nil {
			return nil, err
		}
	}
	return &b, nil
}
