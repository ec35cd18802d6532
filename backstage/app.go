package backstage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/velvetradio/backstage/backstage/audio"
	"github.com/velvetradio/backstage/backstage/billing"
	"github.com/velvetradio/backstage/backstage/career"
	"github.com/velvetradio/backstage/backstage/charts"
	"github.com/velvetradio/backstage/backstage/database"
	"github.com/velvetradio/backstage/backstage/database/repositories"
	"github.com/velvetradio/backstage/backstage/economy/ledger"
	"github.com/velvetradio/backstage/backstage/events"
	"github.com/velvetradio/backstage/backstage/feed"
	"github.com/velvetradio/backstage/backstage/growth"
	"github.com/velvetradio/backstage/backstage/logger"
	"github.com/velvetradio/backstage/backstage/notifier"
	"github.com/velvetradio/backstage/backstage/progression"
	"github.com/velvetradio/backstage/backstage/services"
)

func New(cfg Config, version string, commit string) *App {
	return &App{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

// App owns the engine wiring: storage, repositories, pure engines,
// orchestration services and the background schedulers.
type App struct {
	Cfg     Config
	Version string
	Commit  string

	DB       *database.DB
	Redis    *redis.Client
	Feed     *feed.Store
	Notifier *notifier.Discord
	Sink     events.Sink

	Progressions repositories.ProgressionRepository
	Artists      repositories.ArtistRepository
	Releases     repositories.ReleaseRepository
	Evolutions   repositories.EvolutionRepository

	Ledger  *ledger.Ledger
	Billing *billing.Catalog

	ProgressionService *services.ProgressionService
	ReleaseService     *services.ReleaseService
	GrowthService      *services.GrowthService

	ChartScheduler *charts.Scheduler
	SnapshotStore  *charts.SnapshotStore
}

// Setup connects storage and wires every component. The analyzer is
// the upstream audio collaborator supplied by the caller.
func (a *App) Setup(ctx context.Context, analyzer audio.Analyzer) error {
	db, err := database.New(ctx, a.Cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.DB = db

	if err := db.InitializeSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	a.Redis = redis.NewClient(&redis.Options{
		Addr:     a.Cfg.Redis.Addr,
		Password: a.Cfg.Redis.Password,
		DB:       a.Cfg.Redis.DB,
	})
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	feedStore, err := feed.NewStore(ctx, a.Cfg.Feed)
	if err != nil {
		return fmt.Errorf("failed to connect feed store: %w", err)
	}
	a.Feed = feedStore

	sinks := events.MultiSink{feedStore}
	if a.Cfg.Notifier.Enabled {
		discordNotifier, err := notifier.NewDiscord(a.Cfg.Notifier)
		if err != nil {
			return fmt.Errorf("failed to create notifier: %w", err)
		}
		a.Notifier = discordNotifier
		sinks = append(sinks, discordNotifier)
	}
	a.Sink = sinks

	a.Progressions = repositories.NewProgressionRepository(db.BunDB())
	a.Artists = repositories.NewArtistRepository(db.BunDB())
	a.Releases = repositories.NewReleaseRepository(db.BunDB())
	a.Evolutions = repositories.NewEvolutionRepository(db.BunDB())

	a.Ledger = ledger.New(ledger.NewDefaultConfig())
	a.Billing = billing.NewCatalog(a.Ledger)
	tracker := progression.NewTracker()
	careerCfg := career.NewDefaultConfig()
	scorer := career.NewScorer(careerCfg)
	aggregator := career.NewAggregator(careerCfg)
	growthEngine := growth.NewEngine(growth.NewDefaultConfig())

	a.ProgressionService = services.NewProgressionService(a.Progressions, tracker, a.Ledger, a.Sink)
	a.ReleaseService = services.NewReleaseService(
		a.Artists, a.Releases, a.Evolutions,
		a.ProgressionService, analyzer, scorer, aggregator, a.Sink)
	a.GrowthService = services.NewGrowthService(a.Artists, growthEngine, a.Sink)

	snapshotStore, err := charts.NewSnapshotStore(a.Redis, a.Cfg.Charts.CacheSize)
	if err != nil {
		return fmt.Errorf("failed to create chart snapshot store: %w", err)
	}
	a.SnapshotStore = snapshotStore
	a.ChartScheduler = charts.NewScheduler(
		charts.NewRanker(charts.NewDefaultConfig()),
		a.Artists, a.Releases, snapshotStore, a.Sink,
		a.Cfg.Charts.RecomputeInterval)

	return nil
}

// Start launches the background loops.
func (a *App) Start(ctx context.Context) {
	a.ChartScheduler.Start(ctx)
	a.GrowthService.Start(ctx, a.Cfg.Growth.SweepInterval)

	logger.LogSystem("Backstage engine started",
		slog.String("version", a.Version),
		slog.String("commit", a.Commit))
}

func (a *App) Close(ctx context.Context) {
	if a.Feed != nil {
		if err := a.Feed.Close(ctx); err != nil {
			logger.LogError("Failed to close feed store", err)
		}
	}
	if a.Notifier != nil {
		a.Notifier.Close(ctx)
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.LogError("Failed to close redis client", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
