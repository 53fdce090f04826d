package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/thependalorian/buffrhost-sub014/common/database"
	"github.com/thependalorian/buffrhost-sub014/common/logger"
	mqttclient "github.com/thependalorian/buffrhost-sub014/common/mqtt"
	rediscommon "github.com/thependalorian/buffrhost-sub014/common/redis"
	"github.com/thependalorian/buffrhost-sub014/internal/config"
	"github.com/thependalorian/buffrhost-sub014/internal/domain"
	httpapi "github.com/thependalorian/buffrhost-sub014/internal/http"
	"github.com/thependalorian/buffrhost-sub014/internal/migrations"
	"github.com/thependalorian/buffrhost-sub014/internal/notify"
	"github.com/thependalorian/buffrhost-sub014/internal/repository"
	"github.com/thependalorian/buffrhost-sub014/internal/service"
	"github.com/thependalorian/buffrhost-sub014/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "buffr-crossproject")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	health := map[string]httpapi.HealthCheck{}

	// Redis backs the model cache and the stream notifier; without it the
	// cache stays in process.
	var redisClient *rediscommon.Client
	var kv store.KV = store.NewMemoryKV()
	if cfg.RedisEnabled {
		redisClient = rediscommon.NewRedisClient(&cfg.Redis)
		if err := rediscommon.Ping(ctx, redisClient); err != nil {
			log.Warn("Redis enabled but ping failed, using in-process cache", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		} else {
			kv = store.NewRedisKV(redisClient)
			health["redis"] = func(ctx context.Context) error { return rediscommon.Ping(ctx, redisClient) }
		}
	}

	// Platform database: permissions, property listing, ML models.
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for buffr-crossproject")
			if cfg.DBMigrate {
				if err := migrations.Up(ctx, db, migrations.PlatformDir); err != nil {
					log.Fatal("Platform migrations failed", zap.Error(err))
				}
			}
			health["db"] = db.PingContext
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory", zap.Error(err))
		}
	}

	var (
		permRepo     repository.PermissionsRepository
		listingsRepo repository.ListingsRepository
		modelsRepo   repository.ModelsRepository
	)
	if db != nil {
		permRepo = repository.NewPostgresPermissionsRepository(db)
		listingsRepo = repository.NewPostgresListingsRepository(db)
		modelsRepo = repository.NewPostgresModelsRepository(db)
	} else {
		permRepo = repository.NewMemoryPermissionsRepository()
		listingsRepo = repository.NewMemoryListingsRepository()
		modelsRepo = repository.NewMemoryModelsRepository(defaultModels()...)
	}

	stores, projectDBs, err := openProjectStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open project stores", zap.Error(err))
	}
	registry, err := repository.NewProjectRegistry(stores...)
	if err != nil {
		log.Fatal("Invalid project configuration", zap.Error(err))
	}
	log.Info("Projects registered", zap.Strings("projects", registry.Names()))

	notifier, mqttConn := openNotifier(cfg, redisClient, log)

	crossSvc := service.NewCrossProjectService(registry, notifier, cfg.DefaultCountry, log)
	permSvc := service.NewPermissionService(permRepo, log)
	propSvc := service.NewPropertyService(listingsRepo)
	modelSvc := service.NewModelService(modelsRepo, kv, cfg.ModelCacheTTL, log)
	if err := modelSvc.Init(ctx); err != nil {
		log.Warn("Model cache warm-up failed", zap.Error(err))
	}

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes(health)
	router.RegisterCrossProjectRoutes(httpapi.NewCrossProjectHandler(crossSvc, log))
	router.RegisterRBACRoutes(httpapi.NewRBACHandler(permSvc, []byte(cfg.JWTSecret), log))
	router.RegisterPropertyRoutes(httpapi.NewPropertiesHandler(propSvc, log))
	router.RegisterModelRoutes(httpapi.NewModelsHandler(modelSvc, log))
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, RBAC writes are unauthenticated")
	}

	srv := service.NewServer(cfg.HTTP.Addr, httpapi.WithMiddleware(router, log), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)

	if err := modelSvc.Close(); err != nil {
		log.Warn("Model service close failed", zap.Error(err))
	}
	if mqttConn != nil {
		mqttConn.Disconnect()
	}
	if redisClient != nil {
		_ = rediscommon.Close(redisClient)
	}
	for _, d := range projectDBs {
		_ = database.Close(d)
	}
	_ = database.Close(db)
}

// openProjectStores builds one store per configured project: Postgres when a
// DSN is set, the project's REST API when a URL is set, memory otherwise.
func openProjectStores(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]repository.ProjectStore, []*sql.DB, error) {
	var (
		stores []repository.ProjectStore
		dbs    []*sql.DB
	)
	for _, p := range cfg.Projects {
		switch {
		case p.DSN != "":
			d, err := database.Open(p.DSN, cfg.Database.MaxConns, cfg.Database.MaxIdle)
			if err != nil {
				for _, opened := range dbs {
					_ = opened.Close()
				}
				return nil, nil, fmt.Errorf("project %s: %w", p.Name, err)
			}
			if p.Migrate {
				if err := migrations.Up(ctx, d, migrations.ProjectDir); err != nil {
					_ = d.Close()
					return nil, nil, fmt.Errorf("project %s: %w", p.Name, err)
				}
			}
			dbs = append(dbs, d)
			stores = append(stores, repository.NewPostgresProjectStore(p.Name, d))
			log.Info("Project store", zap.String("project", p.Name), zap.String("backend", "postgres"))
		case p.URL != "":
			stores = append(stores, repository.NewHTTPProjectStore(p.Name, repository.HTTPProjectStoreOptions{
				BaseURL: p.URL,
				APIKey:  p.APIKey,
				Timeout: p.Timeout,
			}, log))
			log.Info("Project store", zap.String("project", p.Name), zap.String("backend", "http"), zap.String("url", p.URL))
		default:
			stores = append(stores, repository.NewMemoryProjectStore(p.Name))
			log.Warn("Project store has no DSN or URL, using memory", zap.String("project", p.Name))
		}
	}
	return stores, dbs, nil
}

func openNotifier(cfg *config.Config, redisClient *rediscommon.Client, log *zap.Logger) (notify.Notifier, *mqttclient.Client) {
	switch cfg.Notifier.Backend {
	case config.NotifierRedis:
		if redisClient == nil {
			log.Warn("NOTIFIER=redis but Redis is unavailable, events are dropped")
			return notify.NopNotifier{}, nil
		}
		return notify.NewRedisStreamNotifier(redisClient, cfg.Notifier.Stream, cfg.Notifier.StreamMaxLen), nil
	case config.NotifierMQTT:
		c, err := mqttclient.NewClient(&cfg.MQTT)
		if err != nil {
			log.Warn("MQTT connect failed, events are dropped", zap.Error(err))
			return notify.NopNotifier{}, nil
		}
		return notify.NewMQTTNotifier(c, cfg.Notifier.Topic, cfg.MQTT.QoS), c
	default:
		return notify.NopNotifier{}, nil
	}
}

func defaultModels() []domain.MLModel {
	now := time.Now().UTC()
	return []domain.MLModel{
		{Name: "demand-forecast", Version: "1.0.0", Status: domain.ModelStatusReady, UpdatedAt: now},
		{Name: "dynamic-pricing", Version: "1.0.0", Status: domain.ModelStatusReady, UpdatedAt: now},
		{Name: "guest-churn", Version: "0.1.0", Status: domain.ModelStatusTraining, UpdatedAt: now},
	}
}
