package domain

import (
	"fmt"
	"time"
)

// BannerStatus enumerates banner lifecycle states.
type BannerStatus string

const (
	BannerStatusActive  BannerStatus = "active"
	BannerStatusExpired BannerStatus = "expired"
	BannerStatusDraft   BannerStatus = "draft"
)

// BannerMeta carries provenance for a generated banner.
type BannerMeta struct {
	Source        string    `json:"source"`
	TopicCategory string    `json:"topic_category"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// Banner is the daily generated artifact, keyed by calendar date.
// At most one active banner may exist per date; the unique index on the
// date column is the only coordination mechanism between concurrent writers.
type Banner struct {
	ID               string
	Date             time.Time
	Title            string
	Description      string
	Content          string
	HotTopic         string
	ImageURL         string
	ImageBinary      []byte
	ImageContentType string
	Meta             BannerMeta
	Status           BannerStatus
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BannerSummary is the projection served by history listings. It deliberately
// excludes the binary payload.
type BannerSummary struct {
	ID          string
	Date        time.Time
	Title       string
	Description string
	HotTopic    string
	Meta        BannerMeta
	CreatedAt   time.Time
}

// ImageServeURL returns the public path serving the banner's binary payload.
func (b *Banner) ImageServeURL() string {
	return fmt.Sprintf("/api/banners/%s/image", b.ID)
}

// ImageServeURL returns the public path serving the banner's binary payload.
func (s *BannerSummary) ImageServeURL() string {
	return fmt.Sprintf("/api/banners/%s/image", s.ID)
}

// TruncateToDay normalizes a timestamp to the start of its UTC calendar day,
// matching the storage key granularity.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextMidnight returns the start of the calendar day following t, the default
// banner expiry.
func NextMidnight(t time.Time) time.Time {
	return TruncateToDay(t).Add(24 * time.Hour)
}
