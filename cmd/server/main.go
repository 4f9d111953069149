// Command server runs the adaptive security threshold service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/promoflow/threshold-service/internal/application/service"
	"github.com/promoflow/threshold-service/internal/config"
	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	domainservice "github.com/promoflow/threshold-service/internal/domain/service"
	auditstream "github.com/promoflow/threshold-service/internal/infrastructure/audit"
	"github.com/promoflow/threshold-service/internal/infrastructure/cache"
	"github.com/promoflow/threshold-service/internal/infrastructure/monitoring"
	gormpersistence "github.com/promoflow/threshold-service/internal/infrastructure/persistence/gorm"
	"github.com/promoflow/threshold-service/internal/infrastructure/persistence/memory"
	"github.com/promoflow/threshold-service/internal/interfaces/http/handlers"
	"github.com/promoflow/threshold-service/internal/interfaces/http/router"
	"github.com/promoflow/threshold-service/pkg/logger"
)

var version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "threshold-service: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := monitoring.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer monitoring.Sync(log)

	ctx := context.Background()

	shutdownTracing, err := monitoring.InitTracing(&cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Warn(ctx, "Tracing shutdown failed", logger.Err(err))
		}
	}()

	atomic, repos, pinger, closeDB, err := buildPersistence(cfg, log)
	if err != nil {
		return fmt.Errorf("init persistence: %w", err)
	}
	defer closeDB()

	if err := domainservice.SeedCatalog(ctx, repos, log); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	metrics := monitoring.NewPrometheusMetrics()
	barrier := domainservice.NewStateBarrier()
	store := domainservice.NewThresholdStore(atomic, repos, barrier, log)

	var activeReader handlers.ActiveThresholdReader = storeActiveReader{store: store}
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		activeReader = cache.NewActiveThresholdCache(client, store, log)
	}

	if cfg.Kafka.Enabled {
		publisher := auditstream.NewKafkaPublisher(&cfg.Kafka, log)
		defer publisher.Close()
		store.AddCommitHook(func(entry *models.AuditEntry, _ *models.Threshold) {
			publisher.Publish(context.Background(), entry)
		})
	}

	thresholdSvc := service.NewThresholdAppService(store, repos.Audit, metrics, log)
	configurationSvc := service.NewConfigurationAppService(atomic, repos, barrier, log)
	statisticsSvc := service.NewStatisticsAppService(repos.Audit, log)
	suggestionSvc := service.NewSuggestionAppService(store, repos.Audit, metrics, log)
	transferSvc := service.NewTransferAppService(store, repos, barrier, metrics, log)
	dashboardSvc := service.NewDashboardAppService(thresholdSvc, suggestionSvc, statisticsSvc, log)

	r := router.New(&cfg.Server, router.Handlers{
		Threshold:     handlers.NewThresholdHandler(thresholdSvc, log),
		Configuration: handlers.NewConfigurationHandler(configurationSvc, log),
		Statistics:    handlers.NewStatisticsHandler(statisticsSvc, log),
		Suggestion:    handlers.NewSuggestionHandler(suggestionSvc, log),
		Transfer:      handlers.NewTransferHandler(transferSvc, log),
		Dashboard:     handlers.NewDashboardHandler(dashboardSvc, log),
		Enforcement:   handlers.NewEnforcementHandler(activeReader, log),
		Health:        handlers.NewHealthHandler(pinger, version),
	}, metrics, log)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(sigCtx)
	g.Go(r.Start)
	g.Go(func() error {
		<-gCtx.Done()
		log.Info(ctx, "Shutting down")
		return r.Shutdown(context.Background())
	})
	return g.Wait()
}

// buildPersistence selects the storage backend from configuration.
func buildPersistence(cfg *config.Config, log logger.Logger) (repository.Atomic, repository.Repositories, handlers.Pinger, func(), error) {
	if cfg.Database.Driver == "memory" {
		store := memory.New()
		return store, store.Repositories(), nil, func() {}, nil
	}

	db, err := gormpersistence.NewDB(&cfg.Database, log)
	if err != nil {
		return nil, repository.Repositories{}, nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warn(context.Background(), "Database close failed", logger.Err(err))
		}
	}
	return db, db.Repositories(), db, closeDB, nil
}

// storeActiveReader serves the active threshold list without a cache.
type storeActiveReader struct {
	store *domainservice.ThresholdStore
}

func (r storeActiveReader) GetActive(ctx context.Context) ([]*models.Threshold, error) {
	all, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]*models.Threshold, 0, len(all))
	for _, t := range all {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active, nil
}
