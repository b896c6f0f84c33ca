package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/cache"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/checker"
	phttp "github.com/radieske/race-payout-reconciler/internal/payout-service/http"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/keiba"
	pmetrics "github.com/radieske/race-payout-reconciler/internal/payout-service/metrics"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/netkeiba"
	kpub "github.com/radieske/race-payout-reconciler/internal/payout-service/producer"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/repo"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/ws"
	sharedcache "github.com/radieske/race-payout-reconciler/internal/shared/cache"
	"github.com/radieske/race-payout-reconciler/internal/shared/config"
	"github.com/radieske/race-payout-reconciler/internal/shared/db"
	"github.com/radieske/race-payout-reconciler/internal/shared/kafka"
	"github.com/radieske/race-payout-reconciler/internal/shared/logger"
	"github.com/radieske/race-payout-reconciler/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "payout-service"
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres: histórico de apostas
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()
	if err := db.Migrate(ctx, pg); err != nil {
		log.Fatal("postgres migrate", zap.Error(err))
	}

	// Redis: cache de lucro diário e pub/sub do WS
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic payout_checked)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPayoutChecked)
	defer writer.Close()

	m := pmetrics.New()
	m.MustRegister(prometheus.DefaultRegisterer)

	// deps
	bets := repo.NewPostgres(pg)
	profitCache := cache.New(rdb, 30*time.Second)
	extractor := keiba.NewExtractor(
		netkeiba.New(cfg.NetkeibaBaseURL, cfg.FetchTimeout),
		netkeiba.Parse,
		log,
	)
	svc := checker.New(log, extractor, bets,
		checker.WithPublisher(kpub.NewKafkaPublisher(writer, cfg.TopicPayoutChecked)),
		checker.WithCache(profitCache),
		checker.WithMetrics(m),
	)

	hub := ws.NewHub(log, func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(cfg.AllowedOrigins, origin)
	})
	ws.StartRedisSubscriber(ctx, rdb, cfg.RedisPubSubChannel, hub, log)

	// HTTP público
	api := phttp.NewServer(log, svc, bets, profitCache, hub, cfg.AllowedOrigins)
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// metrics/health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		return rdb.Ping(ctx).Err()
	})
	log.Info("metrics/health", zap.String("addr", metricsSrv.Addr))

	go func() {
		log.Info("payout-service listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
