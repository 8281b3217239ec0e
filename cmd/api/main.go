package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/analysis"
	"server/internal/banner"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/providers/crewai"
	"server/internal/providers/imagesearch"
	"server/internal/providers/trends"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		resolver = nil
	}

	trendsClient := trends.NewClient(trends.Options{
		APIKey:  cfg.PerplexityAPIKey,
		Model:   cfg.PerplexityModel,
		BaseURL: cfg.PerplexityBaseURL,
		Timeout: cfg.TrendsTimeout,
	})
	imageClient := imagesearch.NewClient(imagesearch.Options{
		AccessKey: cfg.UnsplashAccessKey,
		BaseURL:   cfg.UnsplashBaseURL,
		Timeout:   cfg.ImageTimeout,
	})
	analysisClient := crewai.NewClient(crewai.Options{
		BaseURL:            cfg.AnalysisServiceURL,
		AnalysisTimeout:    cfg.AnalysisTimeout,
		InspirationTimeout: cfg.InspirationTimeout,
	})

	bannerRepo := repo.NewBannerRepository(dbpool)
	jobRepo := repo.NewAnalysisRepository(dbpool)
	userRepo := repo.NewUserRepository(dbpool)

	builder := banner.NewBuilder(trendsClient, imageClient, logger)
	bannerSvc := banner.NewService(bannerRepo, builder, logger)
	analysisSvc := analysis.NewService(jobRepo, userRepo, analysisClient, logger)

	app := handlers.NewApp(cfg, logger, bannerSvc, analysisSvc)
	router := httpapi.NewRouter(app, resolver)

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
