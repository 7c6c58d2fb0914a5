// Command server runs the dataspace transfer orchestrator: policy-gated
// transfer initiation, lifecycle orchestration against a connector, and the
// audit/compliance surface.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"dataspace/internal/audit"
	"dataspace/internal/connector"
	"dataspace/internal/platform/config"
	"dataspace/internal/platform/httpserver"
	"dataspace/internal/platform/logger"
	platformredis "dataspace/internal/platform/redis"
	"dataspace/internal/policy"
	"dataspace/internal/ratelimit"
	"dataspace/internal/transfer"
	transfermetrics "dataspace/internal/transfer/metrics"
	httptransport "dataspace/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	// Stores: postgres when a database is configured, in-memory otherwise.
	var (
		transferStore transfer.Store
		auditStore    audit.Store
		db            *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(context.Background()); err != nil {
			log.Error("ping database", "error", err)
			os.Exit(1)
		}
		transferStore = transfer.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
	} else {
		transferStore = transfer.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
		log.Warn("no DATABASE_URL configured, using in-memory stores")
	}

	// Optional Kafka fan-out for compliance consumers.
	var recorderOpts []audit.Option
	kafkaSink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		log.Error("kafka sink", "error", err)
		os.Exit(1)
	}
	if kafkaSink != nil {
		defer kafkaSink.Close()
		recorderOpts = append(recorderOpts, audit.WithSink(kafkaSink))
	}
	recorder := audit.NewRecorder(auditStore, log, recorderOpts...)

	// Request-rate counter: Redis when configured, in-process otherwise.
	var counter ratelimit.Counter = ratelimit.NewInMemoryCounter()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis client", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		counter = ratelimit.NewRedisCounter(redisClient.Client)
	}

	// Connector: HTTP against a real management API, mock otherwise.
	var connectorClient connector.Client = &connector.MockClient{}
	if cfg.Connector.BaseURL != "" {
		connectorClient = connector.NewHTTPClient(cfg.Connector.BaseURL, cfg.Connector.Timeout)
	} else {
		log.Warn("no CONNECTOR_BASE_URL configured, using mock connector")
	}

	// The policy tree is built once and shared read-only by every evaluation.
	tree, err := policy.Default(cfg.Policy)
	if err != nil {
		log.Error("build policy tree", "error", err)
		os.Exit(1)
	}

	zone, err := time.LoadLocation(cfg.Policy.BusinessHoursZone)
	if err != nil {
		log.Error("load policy zone", "error", err)
		os.Exit(1)
	}

	orchestrator := transfer.NewOrchestrator(
		transferStore,
		policy.NewEvaluator(),
		tree,
		recorder,
		connectorClient,
		counter,
		transfer.Defaults{
			Region:         cfg.Policy.DefaultRegion,
			Certifications: cfg.Policy.DefaultCertifications,
			Purpose:        cfg.Policy.DefaultPurpose,
			Zone:           zone,
		},
		log,
		transfermetrics.New(),
	)

	// Health reflects the configured store: a DB ping when postgres backs the
	// service, always healthy on the in-memory stores.
	var health httptransport.HealthCheck
	if db != nil {
		health = db.PingContext
	}

	router := httptransport.NewRouter(
		httptransport.NewTransferHandler(orchestrator, log),
		httptransport.NewComplianceHandler(recorder, log),
		log,
		health,
	)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting transfer orchestrator", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
