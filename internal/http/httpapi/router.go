package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra/geoip"
	mw "server/internal/middleware"
)

// NewRouter assembles the HTTP surface. Everything except the banner image and
// the liveness probe requires a bearer credential.
func NewRouter(app *handlers.App, resolver geoip.CountryResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		mw.Logger(app.Logger),
		mw.CORS(app.Cfg.AllowedOrigins),
		mw.Geo(resolver),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/api/banners", func(r chi.Router) {
		// The image endpoint stays public so cached <img> tags keep working
		// without a credential.
		r.Get("/{id}/image", app.BannersImage)

		r.Group(func(r chi.Router) {
			r.Use(mw.AuthJWT(app.Cfg.JWTSecret))
			r.Get("/today", app.BannersToday)
			r.Post("/generate", app.BannersGenerate)
			r.Get("/history", app.BannersHistory)
		})
	})

	r.Route("/api/analysis", func(r chi.Router) {
		r.Use(mw.AuthJWT(app.Cfg.JWTSecret))
		r.Use(mw.RateLimit(10, time.Minute))
		r.Post("/linkedin", app.AnalysisLinkedIn)
		r.Get("/linkedin/{id}", app.AnalysisGet)
		r.Post("/inspiration/{peerId}", app.AnalysisInspiration)
	})

	return r
}
