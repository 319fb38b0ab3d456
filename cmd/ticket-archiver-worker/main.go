package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	sharedcache "github.com/radieske/lotto-2d-generator/internal/shared/cache"
	"github.com/radieske/lotto-2d-generator/internal/shared/config"
	"github.com/radieske/lotto-2d-generator/internal/shared/db"
	"github.com/radieske/lotto-2d-generator/internal/shared/kafka"
	"github.com/radieske/lotto-2d-generator/internal/shared/logger"
	"github.com/radieske/lotto-2d-generator/internal/shared/metrics"
	"github.com/radieske/lotto-2d-generator/internal/ticket-archiver/cache"
	"github.com/radieske/lotto-2d-generator/internal/ticket-archiver/consumer"
	"github.com/radieske/lotto-2d-generator/internal/ticket-archiver/pubsub"
	"github.com/radieske/lotto-2d-generator/internal/ticket-archiver/repository"
	"github.com/radieske/lotto-2d-generator/pkg/contracts/events"
)

const groupID = "ticket-archiver"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config: %w", err))
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "ticket-archiver-worker"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer bootCancel()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(bootCtx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	repo := repository.NewPostgresRepo(pg)
	if err := repo.Migrate(bootCtx); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	redisClient, err := sharedcache.ConnectRedis(bootCtx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Consumer Kafka (consumer group ticket-archiver) e writer da DLQ
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicTicketGenerated, groupID)
	defer reader.Close()
	dlq := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTicketGeneratedDLQ)
	defer dlq.Close()

	// Métricas Prometheus para monitoramento do arquivamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "lotto_archiver_messages_consumed_total", Help: "mensagens consumidas"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "lotto_archiver_db_writes_total", Help: "bilhetes arquivados"})
	dups := prometheus.NewCounter(prometheus.CounterOpts{Name: "lotto_archiver_duplicates_total", Help: "reentregas ignoradas"})
	dead := prometheus.NewCounter(prometheus.CounterOpts{Name: "lotto_archiver_dlq_total", Help: "mensagens enviadas à DLQ"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "lotto_archiver_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persist, dups, dead, errorsBy)

	// Broadcaster para avisar o WebSocket do gerador via Redis Pub/Sub
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	proc := &consumer.Processor{
		Log:         log,
		Read:        reader,
		Repo:        repo,
		Cache:       cache.NewRedisCache(redisClient, cfg.TicketCacheTTL),
		DLQ:         dlq,
		OnConsumed:  func() { consumed.Inc() },
		OnPersist:   func() { persist.Inc() },
		OnDuplicate: func() { dups.Inc() },
		OnDLQ:       func() { dead.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		OnArchived: func(ev events.TicketGenerated) {
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := broadcaster.PublishArchived(ctx, ev); err != nil {
				log.Warn("archived broadcast failed", zap.String("ticket_id", ev.TicketID), zap.Error(err))
				errorsBy.WithLabelValues("broadcast").Inc()
			}
		},
	}

	// Servidor HTTP para métricas e health check
	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort, metrics.Checks(map[string]metrics.HealthFunc{
		"postgres": pg.PingContext,
		"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("ticket-archiver started", zap.String("topic", cfg.TopicTicketGenerated), zap.String("group", groupID))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = msrv.Shutdown(shutCtx)
	log.Info("ticket-archiver stopped")
}
