package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/domain"
	"github.com/finsight/finsight/internal/modules/analysis"
	"github.com/finsight/finsight/internal/modules/assets"
	"github.com/finsight/finsight/internal/modules/summary"
)

// jobTimeout bounds a single job run.
const jobTimeout = 10 * time.Minute

// AssetCatalog lists the tracked assets and refreshes their history.
type AssetCatalog interface {
	List(assetType string) ([]assets.Asset, error)
	History(ctx context.Context, symbol string, days int) ([]domain.Bar, error)
}

// PriceSyncJob refreshes the cached price history of every tracked asset.
type PriceSyncJob struct {
	catalog AssetCatalog
	days    int
	log     zerolog.Logger
}

func NewPriceSyncJob(catalog AssetCatalog, days int, log zerolog.Logger) *PriceSyncJob {
	if days <= 0 {
		days = 365
	}
	return &PriceSyncJob{
		catalog: catalog,
		days:    days,
		log:     log.With().Str("job", "price_sync").Logger(),
	}
}

func (j *PriceSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	tracked, err := j.catalog.List("")
	if err != nil {
		return err
	}

	synced := 0
	for _, asset := range tracked {
		if _, err := j.catalog.History(ctx, asset.Symbol, j.days); err != nil {
			j.log.Warn().Err(err).Str("symbol", asset.Symbol).Msg("Price sync failed for asset")
			continue
		}
		synced++
	}
	j.log.Info().Int("synced", synced).Int("total", len(tracked)).Msg("Price sync finished")
	return nil
}

func (j *PriceSyncJob) Name() string { return "price_sync" }

// Analyzer computes and persists the metrics snapshot for one asset.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string, days int, benchmark string, withNarrative bool) (*analysis.Result, error)
}

// MetricsSnapshotJob recomputes and stores metrics for every tracked asset.
type MetricsSnapshotJob struct {
	catalog  AssetCatalog
	analyzer Analyzer
	days     int
	log      zerolog.Logger
}

func NewMetricsSnapshotJob(catalog AssetCatalog, analyzer Analyzer, days int, log zerolog.Logger) *MetricsSnapshotJob {
	if days <= 0 {
		days = 365
	}
	return &MetricsSnapshotJob{
		catalog:  catalog,
		analyzer: analyzer,
		days:     days,
		log:      log.With().Str("job", "metrics_snapshot").Logger(),
	}
}

func (j *MetricsSnapshotJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	tracked, err := j.catalog.List("")
	if err != nil {
		return err
	}

	snapshotted := 0
	for _, asset := range tracked {
		// Narratives are skipped on the nightly run, they are generated on demand
		if _, err := j.analyzer.Analyze(ctx, asset.Symbol, j.days, "", false); err != nil {
			j.log.Warn().Err(err).Str("symbol", asset.Symbol).Msg("Metrics snapshot failed for asset")
			continue
		}
		snapshotted++
	}
	j.log.Info().Int("snapshotted", snapshotted).Int("total", len(tracked)).Msg("Metrics snapshot finished")
	return nil
}

func (j *MetricsSnapshotJob) Name() string { return "metrics_snapshot" }

// AlertChecker evaluates all active price alerts.
type AlertChecker interface {
	CheckAlerts(ctx context.Context) (int, error)
}

// AlertCheckJob evaluates active price alerts against live quotes.
type AlertCheckJob struct {
	alerts AlertChecker
	log    zerolog.Logger
}

func NewAlertCheckJob(alerts AlertChecker, log zerolog.Logger) *AlertCheckJob {
	return &AlertCheckJob{
		alerts: alerts,
		log:    log.With().Str("job", "alert_check").Logger(),
	}
}

func (j *AlertCheckJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	triggered, err := j.alerts.CheckAlerts(ctx)
	if err != nil {
		return err
	}
	if triggered > 0 {
		j.log.Info().Int("triggered", triggered).Msg("Price alerts triggered")
	}
	return nil
}

func (j *AlertCheckJob) Name() string { return "alert_check" }

// MacroSyncer pulls macro indicator series from the upstream provider.
type MacroSyncer interface {
	Sync(ctx context.Context, lookbackYears int) (int, error)
}

// MacroSyncJob refreshes the stored macro indicator observations.
type MacroSyncJob struct {
	macro MacroSyncer
	log   zerolog.Logger
}

func NewMacroSyncJob(macro MacroSyncer, log zerolog.Logger) *MacroSyncJob {
	return &MacroSyncJob{
		macro: macro,
		log:   log.With().Str("job", "macro_sync").Logger(),
	}
}

func (j *MacroSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	synced, err := j.macro.Sync(ctx, 0)
	if err != nil {
		return err
	}
	j.log.Info().Int("series", synced).Msg("Macro sync finished")
	return nil
}

func (j *MacroSyncJob) Name() string { return "macro_sync" }

// SummaryGenerator builds and stores the daily market summary.
type SummaryGenerator interface {
	Generate(ctx context.Context, date time.Time, market string) (*summary.DailySummary, error)
}

// DailySummaryJob generates the end-of-day market summary.
type DailySummaryJob struct {
	summaries SummaryGenerator
	market    string
	log       zerolog.Logger
}

func NewDailySummaryJob(summaries SummaryGenerator, market string, log zerolog.Logger) *DailySummaryJob {
	if market == "" {
		market = "US"
	}
	return &DailySummaryJob{
		summaries: summaries,
		market:    market,
		log:       log.With().Str("job", "daily_summary").Logger(),
	}
}

func (j *DailySummaryJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	record, err := j.summaries.Generate(ctx, time.Now().UTC(), j.market)
	if err != nil {
		return err
	}
	j.log.Info().Str("sentiment", record.Sentiment).Msg("Daily summary generated")
	return nil
}

func (j *DailySummaryJob) Name() string { return "daily_summary" }

// NewsPruner removes news articles past the retention window.
type NewsPruner interface {
	Prune(retention time.Duration) (int64, error)
}

// NewsPruneJob removes stale news articles.
type NewsPruneJob struct {
	news      NewsPruner
	retention time.Duration
	log       zerolog.Logger
}

func NewNewsPruneJob(news NewsPruner, retention time.Duration, log zerolog.Logger) *NewsPruneJob {
	return &NewsPruneJob{
		news:      news,
		retention: retention,
		log:       log.With().Str("job", "news_prune").Logger(),
	}
}

func (j *NewsPruneJob) Run() error {
	removed, err := j.news.Prune(j.retention)
	if err != nil {
		return err
	}
	if removed > 0 {
		j.log.Info().Int64("removed", removed).Msg("Stale news articles pruned")
	}
	return nil
}

func (j *NewsPruneJob) Name() string { return "news_prune" }

// BackupRunner uploads database snapshots to remote storage.
type BackupRunner interface {
	Backup(ctx context.Context) error
}

// BackupJob uploads the sqlite databases to remote storage.
type BackupJob struct {
	backups BackupRunner
	log     zerolog.Logger
}

func NewBackupJob(backups BackupRunner, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backups: backups,
		log:     log.With().Str("job", "backup").Logger(),
	}
}

func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := j.backups.Backup(ctx); err != nil {
		return err
	}
	j.log.Info().Msg("Database backup finished")
	return nil
}

func (j *BackupJob) Name() string { return "backup" }
