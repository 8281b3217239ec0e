package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/analysis"
	"server/internal/banner"
	"server/internal/infra"
)

type App struct {
	Cfg      *infra.Config
	Logger   infra.Logger
	Banners  *banner.Service
	Analysis *analysis.Service
}

func NewApp(cfg *infra.Config, logger infra.Logger, banners *banner.Service, jobs *analysis.Service) *App {
	return &App{Cfg: cfg, Logger: logger, Banners: banners, Analysis: jobs}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) fail(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]any{"success": false, "error": message})
}
