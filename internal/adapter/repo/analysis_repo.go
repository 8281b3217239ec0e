package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// AnalysisRepositoryPG implements domain.AnalysisRepository backed by
// PostgreSQL. Terminal transitions are guarded in SQL with a status predicate,
// so a completed or failed job can never be written again.
type AnalysisRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis job repository.
func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepositoryPG {
	return &AnalysisRepositoryPG{pool: pool}
}

// Create inserts a new pending job record.
func (r *AnalysisRepositoryPG) Create(ctx context.Context, job *domain.AnalysisJob) error {
	buckets, err := json.Marshal(job.Recommendations)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(job.Meta)
	if err != nil {
		return err
	}

	query := `
INSERT INTO recommendations (id, user_id, source_user_id, kind, status, recommendations, analysis_text, ai_provider, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err = r.pool.Exec(ctx, query,
		job.ID,
		job.UserID,
		nullableText(job.SourceUserID),
		job.Kind,
		job.Status,
		buckets,
		job.AnalysisText,
		job.AIProvider,
		meta,
	)
	return err
}

// MarkCompleted transitions a pending job to completed with its normalized
// result. Attempting to complete a terminal job returns ErrTerminalJob.
func (r *AnalysisRepositoryPG) MarkCompleted(ctx context.Context, id string, buckets domain.RecommendationBuckets, analysisText string, meta domain.AnalysisMeta) error {
	bucketsJSON, err := json.Marshal(buckets)
	if err != nil {
		return err
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	query := `
UPDATE recommendations
SET status = $2,
    recommendations = $3,
    analysis_text = $4,
    metadata = $5,
    updated_at = NOW()
WHERE id = $1 AND status = $6;
`
	tag, err := r.pool.Exec(ctx, query, id, domain.AnalysisStatusCompleted, bucketsJSON, analysisText, metaJSON, domain.AnalysisStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTerminalJob
	}
	return nil
}

// MarkFailed transitions a pending job to failed with a human-readable reason.
func (r *AnalysisRepositoryPG) MarkFailed(ctx context.Context, id string, reason string) error {
	query := `
UPDATE recommendations
SET status = $2,
    analysis_text = $3,
    updated_at = NOW()
WHERE id = $1 AND status = $4;
`
	tag, err := r.pool.Exec(ctx, query, id, domain.AnalysisStatusFailed, reason, domain.AnalysisStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTerminalJob
	}
	return nil
}

// GetForUser fetches a job by id scoped to the submitting caller.
func (r *AnalysisRepositoryPG) GetForUser(ctx context.Context, id, userID string) (*domain.AnalysisJob, error) {
	query := `
SELECT id, user_id, COALESCE(source_user_id::text, ''), kind, status, recommendations, analysis_text, ai_provider, metadata, created_at, updated_at
FROM recommendations
WHERE id = $1 AND user_id = $2;
`
	row := r.pool.QueryRow(ctx, query, id, userID)

	var job domain.AnalysisJob
	var buckets, meta []byte
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.SourceUserID,
		&job.Kind,
		&job.Status,
		&buckets,
		&job.AnalysisText,
		&job.AIProvider,
		&meta,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(buckets) > 0 {
		if err := json.Unmarshal(buckets, &job.Recommendations); err != nil {
			return nil, err
		}
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &job.Meta); err != nil {
			return nil, err
		}
	}
	return &job, nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
