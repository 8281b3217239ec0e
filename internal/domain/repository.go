package domain

import (
	"context"
	"time"
)

// BannerRepository defines persistence for daily banners. Insert must fail
// with ErrDuplicateBanner when a record for the same date already exists.
type BannerRepository interface {
	Insert(ctx context.Context, banner *Banner) error
	FindActiveByDate(ctx context.Context, date time.Time) (*Banner, error)
	FindByID(ctx context.Context, id string) (*Banner, error)
	DeleteByDate(ctx context.Context, date time.Time) error
	ListSince(ctx context.Context, since time.Time, limit int) ([]BannerSummary, error)
}

// AnalysisRepository defines persistence for analysis jobs. The terminal
// transition methods only apply to pending records and return ErrTerminalJob
// otherwise.
type AnalysisRepository interface {
	Create(ctx context.Context, job *AnalysisJob) error
	MarkCompleted(ctx context.Context, id string, buckets RecommendationBuckets, analysisText string, meta AnalysisMeta) error
	MarkFailed(ctx context.Context, id string, reason string) error
	GetForUser(ctx context.Context, id, userID string) (*AnalysisJob, error)
}

// UserRepository exposes the read-only profile lookup the analysis tracker
// needs. Profile CRUD itself is handled elsewhere.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*UserProfile, error)
}
