package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audio-downloader/internal/catalog"
	"audio-downloader/internal/handlers"
	"audio-downloader/internal/logging"
	"audio-downloader/internal/middleware"
	"audio-downloader/internal/pipeline"
	"audio-downloader/internal/registry"
	"audio-downloader/internal/startup"
	"audio-downloader/internal/store"
	"audio-downloader/internal/transcode"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize the staging directory store
	st, err := store.New(config.DownloadsDir)
	if err != nil {
		startup.LogFatal("Failed to initialize download store: %v", err)
	}

	// Initialize transcoder
	startup.LogTranscoderInit(config.FFmpegPath)
	trans := transcode.New(config.FFmpegPath)

	// Job registry and pipeline
	reg := registry.New()
	provider := catalog.NewYouTubeProvider()
	orch := pipeline.New(reg, st, provider, trans, pipeline.Config{
		Concurrency: config.MaxConcurrentJobs,
		Format:      "mp3",
	})

	// Janitor reaps artifacts past the retention window. Completed jobs
	// whose output it removes flip to Expired in the registry.
	startup.LogJanitorInit(config.CleanupInterval, config.RetentionWindow)
	janitor := store.NewJanitor(st, config.CleanupInterval, config.RetentionWindow, func(jobID string) {
		if err := reg.Transition(jobID, registry.StateExpired); err != nil {
			logging.Debug("janitor: job %s: %v", jobID, err)
		}
	})
	janitor.Start()

	// Initialize handlers
	h := handlers.New(reg, st, orch, provider, config)

	// Setup router
	router := setupRouter(h, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	// Apply middleware, innermost first
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)

	rateLimitConfig := middleware.DefaultRateLimitConfig()
	rateLimitConfig.RequestsPerSecond = config.RateLimitRPS
	rateLimitConfig.Burst = config.RateLimitBurst
	handler = middleware.RateLimit(rateLimitConfig)(handler)

	handler = middleware.CORS(middleware.CORSConfig{AllowedOrigins: config.CORSOrigins})(handler)

	// Create server. WriteTimeout stays 0 because long transcoded
	// streams are guarded by the streaming package's own timeouts.
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, janitor, orch, trans)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health and meta endpoints
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/download", h.StartDownload).Methods("POST")
	api.HandleFunc("/download-status/{downloadId}", h.DownloadStatus).Methods("GET")
	api.HandleFunc("/stream/{videoId}", h.StreamAudio).Methods("GET")
	api.HandleFunc("/video-info", h.VideoInfo).Methods("POST")
	api.HandleFunc("/check-video", h.CheckVideo).Methods("POST")

	// Published artifacts
	r.HandleFunc("/downloads/{filename}", h.DownloadFile).Methods("GET")

	return r
}

func handleShutdown(srv *http.Server, janitor *store.Janitor, orch *pipeline.Orchestrator, trans *transcode.Transcoder) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping janitor")
	janitor.Stop()
	startup.LogShutdownStepComplete("Janitor stopped")

	startup.LogShutdownStep("Canceling pipeline runs")
	orch.Close()
	startup.LogShutdownStepComplete("Pipeline canceled")

	startup.LogShutdownStep("Cleaning up transcoder")
	trans.Cleanup()
	startup.LogShutdownStepComplete("Transcoder cleanup complete")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
