package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/lotto-2d-generator/internal/generator/cache"
	"github.com/radieske/lotto-2d-generator/internal/generator/combo"
	ghttp "github.com/radieske/lotto-2d-generator/internal/generator/http"
	"github.com/radieske/lotto-2d-generator/internal/generator/producer"
	"github.com/radieske/lotto-2d-generator/internal/generator/repo"
	"github.com/radieske/lotto-2d-generator/internal/generator/ws"
	sharedcache "github.com/radieske/lotto-2d-generator/internal/shared/cache"
	"github.com/radieske/lotto-2d-generator/internal/shared/config"
	"github.com/radieske/lotto-2d-generator/internal/shared/db"
	"github.com/radieske/lotto-2d-generator/internal/shared/kafka"
	"github.com/radieske/lotto-2d-generator/internal/shared/logger"
	"github.com/radieske/lotto-2d-generator/internal/shared/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config: %w", err))
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "generator-service"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service",
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Env),
		zap.String("app_version", cfg.AppVersion),
	)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer bootCancel()

	// Postgres
	pg, err := db.ConnectPostgres(bootCtx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	store := repo.NewPostgres(pg)
	if err := store.Migrate(bootCtx); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	// Redis
	rdb, err := sharedcache.ConnectRedis(bootCtx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic ticket_generated)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTicketGenerated)
	defer writer.Close()
	log.Info("kafka writer ready", zap.String("topic", cfg.TopicTicketGenerated))

	// Métricas Prometheus do gerador
	tickets := prometheus.NewCounter(prometheus.CounterOpts{Name: "lotto_tickets_generated_total", Help: "relatórios gerados"})
	lines := prometheus.NewCounter(prometheus.CounterOpts{Name: "lotto_ticket_lines_total", Help: "linhas de bilhete geradas"})
	cost := prometheus.NewCounter(prometheus.CounterOpts{Name: "lotto_ticket_cost_pesos_total", Help: "custo total em pesos"})
	previews := prometheus.NewCounter(prometheus.CounterOpts{Name: "lotto_ws_previews_total", Help: "previews via websocket"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "lotto_generator_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(tickets, lines, cost, previews, errorsBy)

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// WebSocket do monitor de custo; a página estática pode vir de qualquer origem
	hub := ws.NewHub(log, func(*http.Request) bool { return true })
	hub.OnPreview = func() { previews.Inc() }
	defer hub.Close()

	// avisos de bilhete arquivado publicados pelo ticket-archiver
	ws.StartRedisSubscriber(ctx, rdb, hub)

	api := ghttp.NewServer(log,
		store,
		cache.New(rdb, cfg.TicketCacheTTL),
		producer.NewKafkaPublisher(writer, cfg.ServiceName),
		hub.HandleWS,
		cfg.AppVersion,
		cfg.AppURL,
	)
	api.OnGenerated = func(t combo.Totals) {
		tickets.Inc()
		lines.Add(float64(t.TotalCombinations))
		cost.Add(float64(t.TotalCost))
	}
	api.OnError = func(stage string) { errorsBy.WithLabelValues(stage).Inc() }

	// metrics/health
	msrv := metrics.StartMetricsServer(log, cfg.MetricsPort, metrics.Checks(map[string]metrics.HealthFunc{
		"postgres": pg.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}))

	// HTTP público
	apiSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("generator-service listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = apiSrv.Shutdown(shutCtx)
	_ = msrv.Shutdown(shutCtx)
	log.Info("generator-service stopped")
}
