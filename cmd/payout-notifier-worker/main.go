package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	pmetrics "github.com/radieske/race-payout-reconciler/internal/payout-service/metrics"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/notifier"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/pubsub"
	sharedcache "github.com/radieske/race-payout-reconciler/internal/shared/cache"
	"github.com/radieske/race-payout-reconciler/internal/shared/config"
	"github.com/radieske/race-payout-reconciler/internal/shared/kafka"
	"github.com/radieske/race-payout-reconciler/internal/shared/logger"
	"github.com/radieske/race-payout-reconciler/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "payout-notifier-worker"
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka consumer: consome payout_checked e repassa ao WS via Redis Pub/Sub
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicPayoutChecked, "payout-notifier")
	defer reader.Close()

	m := pmetrics.New()
	m.MustRegister(prometheus.DefaultRegisterer)
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	defer metricsSrv.Close()

	p := &notifier.Processor{
		Log:         log,
		Reader:      reader,
		Broadcaster: pubsub.NewRedisBroadcaster(rdb, cfg.RedisPubSubChannel),
		OnEvent:     func(stage string) { m.NotifierEvents.WithLabelValues(stage).Inc() },
	}
	if cfg.TopicPayoutCheckedDLQ != "" {
		dlq := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPayoutCheckedDLQ)
		defer dlq.Close()
		p.DLQ = dlq
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("payout-notifier-worker started",
		zap.String("consume", cfg.TopicPayoutChecked),
		zap.String("publish", cfg.RedisPubSubChannel),
	)
	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("processor stopped", zap.Error(err))
	}
	log.Info("payout-notifier-worker stopped")
}
