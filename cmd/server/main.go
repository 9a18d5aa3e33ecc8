// Package main is the entry point for the finSight backend: a personal
// finance analytics service that tracks assets, computes risk and return
// metrics, and serves portfolio, macro and news insight over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/ai"
	"github.com/finsight/finsight/internal/clientdata"
	"github.com/finsight/finsight/internal/clients/fred"
	"github.com/finsight/finsight/internal/clients/yahoo"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/database"
	"github.com/finsight/finsight/internal/modules/analysis"
	analysishandlers "github.com/finsight/finsight/internal/modules/analysis/handlers"
	"github.com/finsight/finsight/internal/modules/assets"
	assetshandlers "github.com/finsight/finsight/internal/modules/assets/handlers"
	"github.com/finsight/finsight/internal/modules/auth"
	authhandlers "github.com/finsight/finsight/internal/modules/auth/handlers"
	"github.com/finsight/finsight/internal/modules/charts"
	chartshandlers "github.com/finsight/finsight/internal/modules/charts/handlers"
	"github.com/finsight/finsight/internal/modules/macro"
	macrohandlers "github.com/finsight/finsight/internal/modules/macro/handlers"
	"github.com/finsight/finsight/internal/modules/metrics"
	"github.com/finsight/finsight/internal/modules/news"
	newshandlers "github.com/finsight/finsight/internal/modules/news/handlers"
	"github.com/finsight/finsight/internal/modules/notebook"
	notebookhandlers "github.com/finsight/finsight/internal/modules/notebook/handlers"
	"github.com/finsight/finsight/internal/modules/portfolio"
	portfoliohandlers "github.com/finsight/finsight/internal/modules/portfolio/handlers"
	"github.com/finsight/finsight/internal/modules/summary"
	summaryhandlers "github.com/finsight/finsight/internal/modules/summary/handlers"
	"github.com/finsight/finsight/internal/modules/userconfig"
	userconfighandlers "github.com/finsight/finsight/internal/modules/userconfig/handlers"
	"github.com/finsight/finsight/internal/reliability"
	"github.com/finsight/finsight/internal/scheduler"
	"github.com/finsight/finsight/internal/server"
	"github.com/finsight/finsight/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Int("port", cfg.Port).Msg("Starting finSight")

	// Databases
	finsightDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "finsight.db"),
		Profile: database.ProfileStandard,
		Name:    "finsight",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open finsight database")
	}
	defer finsightDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	for _, db := range []*database.DB{finsightDB, cacheDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to run migrations")
		}
	}

	// Provider clients, all reads go through the msgpack cache
	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	yahooClient := yahoo.NewClient(cacheRepo, log)
	fredClient := fred.NewClient(cfg.FredAPIKey, cacheRepo, log)
	analyzer := ai.NewAnalyzer(cfg.OpenAIAPIKey, log)
	calc := metrics.New(cfg.RiskFreeRate, cfg.TradingDaysPerYear)

	// Narrative generation is optional, services get a nil narrator when
	// no API key is configured
	var (
		summaryNarrator   summary.Narrator
		macroNarrator     macro.Narrator
		portfolioNarrator portfolio.Narrator
	)
	if analyzer.Enabled() {
		summaryNarrator = analyzer
		macroNarrator = analyzer
		portfolioNarrator = analyzer
	}

	// Repositories and services
	db := finsightDB.Conn()

	assetSvc := assets.NewService(assets.NewRepository(db, log), yahooClient, log)
	analysisSvc := analysis.NewService(analysis.NewRepository(db, log), assetSvc, calc, analyzer, log)
	authSvc := auth.NewService(auth.NewRepository(db, log), cfg.JWTSecret, cfg.JWTExpiration, log)
	portfolioSvc := portfolio.NewService(portfolio.NewRepository(db, log), assetSvc, portfolioNarrator, log)
	macroSvc := macro.NewService(macro.NewRepository(db, log), fredClient, macroNarrator, log)
	newsSvc := news.NewService(news.NewRepository(db, log), assetSvc, log)
	userconfigSvc := userconfig.NewService(
		userconfig.NewWatchlistRepository(db, log),
		userconfig.NewAlertRepository(db, log),
		assetSvc, log)
	notebookSvc := notebook.NewService(notebook.NewRepository(db, log), log)
	summarySvc := summary.NewService(summary.NewRepository(db, log), assetSvc, summaryNarrator, log)
	chartsSvc := charts.NewService(assetSvc, calc, log)

	// Background jobs
	sched := scheduler.New(log)
	registerJob := func(schedule string, job scheduler.Job) {
		if err := sched.AddJob(schedule, job); err != nil {
			log.Fatal().Err(err).Str("job", job.Name()).Msg("Failed to register job")
		}
	}

	registerJob("30 21 * * MON-FRI", scheduler.NewPriceSyncJob(assetSvc, 365, log))
	registerJob("0 22 * * MON-FRI", scheduler.NewMetricsSnapshotJob(assetSvc, analysisSvc, 365, log))
	registerJob("*/15 * * * *", scheduler.NewAlertCheckJob(userconfigSvc, log))
	registerJob("0 6 * * *", scheduler.NewMacroSyncJob(macroSvc, log))
	registerJob("30 22 * * MON-FRI", scheduler.NewDailySummaryJob(summarySvc, "US", log))
	registerJob("0 3 * * *", scheduler.NewNewsPruneJob(newsSvc, 90*24*time.Hour, log))
	registerJob("@hourly", clientdata.NewCleanupJob(cacheRepo, log))
	registerJob("0 2 * * *", reliability.NewMaintenanceJob(map[string]*database.DB{
		"finsight": finsightDB,
		"cache":    cacheDB,
	}, cfg.DataDir, log))

	if cfg.Backup.Enabled {
		s3Client, err := reliability.NewS3Client(context.Background(), cfg.Backup, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 client")
		}
		backupSvc := reliability.NewBackupService(map[string]*database.DB{
			"finsight": finsightDB,
		}, s3Client, cfg.DataDir, cfg.Backup.Prefix, log)
		registerJob("15 2 * * *", scheduler.NewBackupJob(backupSvc, log))
	}

	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Log:        log,
		Config:     cfg,
		FinsightDB: finsightDB,
		CacheDB:    cacheDB,
		Auth:       authSvc,
		Handlers: server.Handlers{
			Auth:       authhandlers.NewHandler(authSvc, log),
			Assets:     assetshandlers.NewHandler(assetSvc, log),
			Analysis:   analysishandlers.NewHandler(analysisSvc, log),
			Portfolio:  portfoliohandlers.NewHandler(portfolioSvc, log),
			Macro:      macrohandlers.NewHandler(macroSvc, log),
			News:       newshandlers.NewHandler(newsSvc, log),
			UserConfig: userconfighandlers.NewHandler(userconfigSvc, log),
			Notebook:   notebookhandlers.NewHandler(notebookSvc, log),
			Summary:    summaryhandlers.NewHandler(summarySvc, log),
			Charts:     chartshandlers.NewHandler(chartsSvc, log),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
