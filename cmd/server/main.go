package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/lightspeed/internal/api"
	"github.com/RMahshie/lightspeed/internal/api/handlers"
	"github.com/RMahshie/lightspeed/internal/config"
	"github.com/RMahshie/lightspeed/internal/dataset"
	"github.com/RMahshie/lightspeed/internal/hover"
	"github.com/RMahshie/lightspeed/internal/observability"
	"github.com/RMahshie/lightspeed/internal/processing"
	"github.com/RMahshie/lightspeed/internal/render"
	"github.com/RMahshie/lightspeed/internal/repository/memory"
	"github.com/RMahshie/lightspeed/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.SetupLogger(cfg.Server.Env, cfg.Logging.Level)

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	// Dataset
	if loaded := dataset.Loaded(); !loaded.OK() {
		log.Warn().Err(loaded.Err).Msg("Embedded dataset failed to decode, using placeholder row")
		metrics.DatasetFallback.Set(1)
	}
	records := dataset.All()
	metrics.DatasetRecords.Set(float64(len(records)))
	log.Info().Int("records", len(records)).Msg("Dataset loaded")

	repo := memory.NewMeasurementRepository(records)

	// Hover state
	store := hover.NewStore(func(e hover.Event, s hover.State) {
		metrics.HoverEvents.WithLabelValues(e.Name()).Inc()
		if s.Hovered != nil {
			log.Debug().Str("event", e.Name()).Int("sequence", s.Hovered.Sequence).Msg("Hover state changed")
		} else {
			log.Debug().Str("event", e.Name()).Msg("Hover state changed")
		}
	})

	// Renderer
	opts := render.DefaultOptions()
	opts.Width = cfg.Chart.Width
	opts.Height = cfg.Chart.Height
	opts.Title = cfg.Chart.Title
	opts.YMin = cfg.Chart.YMin
	opts.YMax = cfg.Chart.YMax
	renderer := render.New(records, opts)

	// Snapshots are optional
	var snapshots processing.SnapshotService
	if cfg.AWS.SnapshotsEnabled() {
		s3Store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket:    cfg.AWS.S3Bucket,
			Endpoint:  cfg.AWS.S3Endpoint,
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize snapshot storage")
		}
		snapshots = processing.NewSnapshotService(s3Store, renderer, clockwork.NewRealClock())
		log.Info().Str("bucket", cfg.AWS.S3Bucket).Msg("Snapshot storage enabled")
	}

	chartHandler := handlers.NewChartHandler(repo, store, renderer, snapshots, metrics, clockwork.NewRealClock())

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Lightspeed API", handlers.Version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	api.RegisterRoutes(router, humaAPI, chartHandler, api.PageOptions{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
	})
	router.Handle("/metrics", promhttp.Handler())

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Server.Env).Msg("Starting Lightspeed server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
