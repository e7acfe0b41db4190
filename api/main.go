package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/catalog-sync/internal/app"
	"github.com/rogerio-castellano/catalog-sync/internal/auth"
	"github.com/rogerio-castellano/catalog-sync/internal/catalog"
	"github.com/rogerio-castellano/catalog-sync/internal/config"
	"github.com/rogerio-castellano/catalog-sync/internal/connectivity"
	"github.com/rogerio-castellano/catalog-sync/internal/db"
	api "github.com/rogerio-castellano/catalog-sync/internal/http"
	"github.com/rogerio-castellano/catalog-sync/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-sync/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-sync/internal/logger"
	"github.com/rogerio-castellano/catalog-sync/internal/redissvc"
	"github.com/rogerio-castellano/catalog-sync/internal/remote"
	"github.com/rogerio-castellano/catalog-sync/internal/repo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// @title Catalog Sync API
// @version 1.0
// @description Local API of the offline-first product catalog agent.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	flags := config.NewFlagSet("catalog-sync")
	printToken := flags.String("print-token", "", "print a bearer token for this subject and exit")
	tokenTTL := flags.Duration("token-ttl", 24*time.Hour, "lifetime of the token printed by --print-token")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatal("❌ Could not load config: ", err)
	}

	zl, err := logger.Init(cfg.Logging)
	if err != nil {
		log.Fatal("❌ Could not init logger: ", err)
	}
	defer zl.Sync()

	if *printToken != "" {
		if cfg.Server.JWTSecret == "" {
			zap.L().Fatal("server.jwt_secret is not set")
		}
		token, err := auth.GenerateToken(*printToken, []byte(cfg.Server.JWTSecret), *tokenTTL)
		if err != nil {
			zap.L().Fatal("could not sign token", zap.Error(err))
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		zap.L().Fatal("catalog-sync stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	live, err := repo.NewLiveProductRepository(ctx, store)
	if err != nil {
		return err
	}
	defer live.Close()

	history, closeHistory, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeHistory()

	checker, err := newChecker(cfg)
	if err != nil {
		return err
	}

	svc := catalog.NewService(live, remote.NewClient(cfg.Remote), checker,
		catalog.WithHistory(history),
		catalog.WithKeepUnsynced(cfg.Sync.KeepUnsyncedOnRefresh))

	watcher := connectivity.NewWatcher(checker, cfg.Connectivity.Interval)
	ctrl := app.NewController(svc, watcher)
	// the reconnect trigger is registered here, before the first poll
	ctrl.Start(ctx)
	go watcher.Run(ctx)

	sched, err := app.NewScheduler(cfg.Scheduler, ctrl, func() {
		if n := rl.CleanupStaleVisitors(5 * time.Minute); n > 0 {
			zap.L().Debug("forgot idle API clients", zap.Int("count", n))
		}
	})
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	handlers.SetController(ctrl)
	handlers.SetService(svc)
	handlers.SetMetricsRepo(metricsFor(store))
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("✅ Server running", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("http shutdown", zap.Error(err))
	}
	ctrl.Wait()
	return nil
}

func openStore(ctx context.Context, cfg config.StoreConfig) (repo.ProductRepository, func(), error) {
	switch cfg.Driver {
	case "memory":
		return repo.NewInMemoryProductRepository(), func() {}, nil
	case db.DriverSQLite, db.DriverPostgres:
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { conn.Close() }
		if cfg.Driver == db.DriverPostgres {
			return repo.NewPostgresProductRepository(conn), closeFn, nil
		}
		return repo.NewSQLiteProductRepository(conn), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

func openHistory(ctx context.Context, cfg *config.Config) (repo.HistoryRepository, func(), error) {
	if cfg.Redis.Addr == "" {
		return repo.NewInMemoryHistoryRepository(cfg.Sync.HistoryLimit), func() {}, nil
	}
	rs, err := redissvc.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return repo.NewRedisHistoryRepository(rs.Rdb(), cfg.Redis.Key, cfg.Sync.HistoryLimit), func() { rs.Close() }, nil
}

func newChecker(cfg *config.Config) (connectivity.Checker, error) {
	switch cfg.Connectivity.Mode {
	case "online":
		return connectivity.NewStatic(true), nil
	case "offline":
		return connectivity.NewStatic(false), nil
	default:
		return connectivity.NewProbe(cfg.Connectivity, cfg.Remote.BaseURL)
	}
}

// metricsFor prefers the store's own aggregate queries over a full scan.
func metricsFor(store repo.ProductRepository) repo.MetricsRepository {
	if m, ok := store.(repo.MetricsRepository); ok {
		return m
	}
	return repo.NewInMemoryMetricsRepository(store)
}
