package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

const imageCacheControl = "public, max-age=86400"

// BannersToday serves the active banner for today, generating one on a cache
// miss. Generation never fails outright: every pipeline stage has a static
// fallback, so an error here is a storage error.
func (a *App) BannersToday(w http.ResponseWriter, r *http.Request) {
	record, err := a.Banners.GetOrCreate(r.Context(), time.Now())
	if err != nil {
		a.Logger.Error().Err(err).Msg("banners: today lookup failed")
		a.fail(w, http.StatusInternalServerError, "failed to load today's banner")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "banner": bannerPayload(record)})
}

// BannersGenerate discards today's banner and rebuilds it from live providers.
func (a *App) BannersGenerate(w http.ResponseWriter, r *http.Request) {
	record, err := a.Banners.Regenerate(r.Context(), time.Now())
	if err != nil {
		a.Logger.Error().Err(err).Msg("banners: regenerate failed")
		a.fail(w, http.StatusInternalServerError, "failed to regenerate banner")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"success": true, "banner": bannerPayload(record)})
}

// BannersImage streams the stored image bytes for a banner with a one-day
// public cache policy, matching the banner's own lifetime.
func (a *App) BannersImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, contentType, err := a.Banners.ServeBinary(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.fail(w, http.StatusNotFound, "banner image not found")
			return
		}
		a.Logger.Error().Err(err).Str("banner_id", id).Msg("banners: image load failed")
		a.fail(w, http.StatusInternalServerError, "failed to load banner image")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Header().Set("Cache-Control", imageCacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// BannersHistory lists the trailing week of banners, newest first, without
// binary payloads.
func (a *App) BannersHistory(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.Banners.History(r.Context(), time.Now())
	if err != nil {
		a.Logger.Error().Err(err).Msg("banners: history load failed")
		a.fail(w, http.StatusInternalServerError, "failed to load banner history")
		return
	}
	items := make([]map[string]any, 0, len(summaries))
	for i := range summaries {
		s := &summaries[i]
		items = append(items, map[string]any{
			"id":              s.ID,
			"date":            s.Date.Format("2006-01-02"),
			"title":           s.Title,
			"description":     s.Description,
			"hot_topic":       s.HotTopic,
			"image_serve_url": s.ImageServeURL(),
			"meta":            s.Meta,
			"created_at":      s.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "banners": items})
}

// bannerPayload renders a banner for the JSON surface. The binary payload is
// never embedded; clients fetch it from image_serve_url.
func bannerPayload(b *domain.Banner) map[string]any {
	return map[string]any{
		"id":              b.ID,
		"date":            b.Date.Format("2006-01-02"),
		"title":           b.Title,
		"description":     b.Description,
		"content":         b.Content,
		"hot_topic":       b.HotTopic,
		"image_url":       b.ImageURL,
		"image_serve_url": b.ImageServeURL(),
		"meta":            b.Meta,
		"status":          b.Status,
		"expires_at":      b.ExpiresAt,
		"created_at":      b.CreatedAt,
	}
}
