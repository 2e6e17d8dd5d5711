package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadchandra19/exchange/services/matching-core/internal/app/engine"
	snapshotv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/snapshot/v1"
	matchpublisherkafka "github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/matchpublisher/kafka"
	ordersourcekafka "github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/ordersource/kafka"
	snapshotmemory "github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/snapshot/memory"
	snapshotredis "github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/snapshot/redis"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/config"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/redis"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cfg *config.Config
	log *logger.Logger
)

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}
	if err := cfg.Engine.Validate(); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	snapshotStore, closeSnapshotStore := buildSnapshotStore(ctx)
	defer closeSnapshotStore()

	opts := engine.DefaultOptions()
	if len(cfg.Kafka.Brokers) > 0 {
		opts.OrderSource = ordersourcekafka.New(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, cfg.Kafka.GroupID, log)
		opts.MatchPublisher = matchpublisherkafka.New(cfg.Kafka.Brokers, cfg.Kafka.TradeTopic, log)
	}

	eng := engine.New(cfg.Engine, snapshotStore, log, opts)
	if err := eng.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_engine"})
		return
	}

	metricsSrv := startMetricsServer(eng, cfg.Engine.MetricsAddr)

	log.Info("matching-core started", logger.Field{Key: "symbol", Value: cfg.Engine.Symbol})

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_metrics_server"})
	}

	if err := eng.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_engine"})
	}

	log.Info("matching-core shutdown complete")
}

// startMetricsServer mounts the engine's private Prometheus registry behind
// /metrics and serves it in the background. Listen errors after startup are
// logged, not fatal: scraping is ancillary to order processing.
func startMetricsServer(eng *engine.Engine, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(eng.MetricsRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, logger.Field{Key: "action", Value: "serve_metrics"})
		}
	}()
	return srv
}

// buildSnapshotStore wires the Redis-backed store when REDIS_ADDRS is
// configured, falling back to the in-process default otherwise. The
// returned closer disconnects Redis, if it was connected; it is a no-op
// for the in-memory store.
func buildSnapshotStore(ctx context.Context) (snapshotv1.Store, func()) {
	if len(cfg.Redis.Addrs) == 0 {
		return snapshotmemory.New(), func() {}
	}

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = cfg.Redis.Addrs
	redisConfig.Password = cfg.Redis.Password
	redisConfig.Username = cfg.Redis.Username
	redisConfig.DB = cfg.Redis.DB

	client := redis.NewClient(log, redisConfig)
	if err := client.Connect(ctx); err != nil {
		log.Fatal("connect redis", logger.Field{Key: "error", Value: err})
	}

	store := snapshotredis.New(client, cfg.Engine.Symbol, log)
	closer := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
		}
	}
	return store, closer
}
