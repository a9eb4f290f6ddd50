package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/ligue-cep/internal/config"
	"github.com/xavierca1/ligue-cep/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-cep/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-cep/internal/infra/integration/cep"
	"github.com/xavierca1/ligue-cep/internal/infra/logging"
	"github.com/xavierca1/ligue-cep/internal/infra/queue"
	"github.com/xavierca1/ligue-cep/internal/infra/stats"
	"github.com/xavierca1/ligue-cep/internal/usecase"
)

func main() {
	cfg := config.Load()
	log := logging.NewStd(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Stats (Redis se configurado, senão memória)
	var statsStore stats.Store = stats.NewMemoryStore()
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		client, err := stats.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis indisponível, usando estatísticas em memória")
		} else {
			rdb = client
			defer rdb.Close()
			statsStore = stats.NewRedisStore(rdb)
		}
	}

	// 2. Client dos provedores + UseCase
	opts := usecase.Options{Log: cfg.Log}
	diag := opts.Logger()

	providers := cep.ConfiguredProviders(cep.ProviderURLs{
		ViaCEP:    cfg.ViaCepURL,
		ApiCEP:    cfg.ApiCepURL,
		OpenCEP:   cfg.OpenCepURL,
		BrasilAPI: cfg.BrasilApiURL,
	})
	cepClient := cep.NewClient(cep.NewHTTPGetter(cfg.HTTPTimeout), diag, providers)
	searchUC := usecase.NewSearchAddressUseCase(cepClient, statsStore, diag)

	// 3. Handlers
	addressHandler := handlers.NewAddressHandler(searchUC)
	statsHandler := handlers.NewStatsHandler(statsStore, cepClient)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/cep/{cep}", addressHandler.GetAddress)
	r.Get("/cep/{cep}/validate", addressHandler.Validate)
	r.Get("/providers", statsHandler.ListProviders)
	r.Get("/stats", statsHandler.GetStats)
	r.Handle("/metrics", promhttp.Handler())

	// 4. Fila (opcional): worker + endpoint de enfileiramento
	var rabbit *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		mq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ indisponível, fila de consultas desligada")
		} else {
			rabbit = mq
			defer rabbit.Close()

			producer := queue.NewProducer(rabbit.Ch)
			worker := queue.NewWorker(rabbit.Ch, searchUC, producer, log)
			go func() {
				if err := worker.Start(ctx, queue.LookupQueue); err != nil {
					log.WithError(err).Error("worker parou")
				}
			}()

			r.Post("/lookups", handlers.NewLookupHandler(producer).Enqueue)
		}
	}

	var healthHandler *handlers.HealthHandler
	if rabbit != nil {
		healthHandler = handlers.NewHealthHandler(rdb, rabbit.Conn, cepClient)
	} else {
		healthHandler = handlers.NewHealthHandler(rdb, nil, cepClient)
	}
	r.Get("/health", healthHandler.Handle)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.WithField("port", cfg.Port).Info("🔥 Servidor de CEP rodando")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("falha no servidor")
	}
}
