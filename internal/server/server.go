// Package server wires the operator API: routing, request logging, API-key
// auth and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"autopress/publisher/internal/server/api"
)

// apiKeyMiddleware checks the X-API-Key header against the configured key.
// An empty key disables the check.
func apiKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			reqApiKey := r.Header.Get("X-API-Key")
			if reqApiKey == "" {
				http.Error(w, "API key required", http.StatusUnauthorized)
				return
			}

			if reqApiKey != apiKey {
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Routes builds the full route table over the handler.
func Routes(h *api.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/run", h.TriggerRun)

	mux.HandleFunc("GET /v1/articles", h.ListArticles)
	mux.HandleFunc("GET /v1/articles/{id}", h.GetArticle)
	mux.HandleFunc("GET /v1/history", h.ListHistory)

	mux.HandleFunc("GET /v1/wordpress-configs", h.ListWordPressConfigs)
	mux.HandleFunc("POST /v1/wordpress-configs", h.CreateWordPressConfig)
	mux.HandleFunc("GET /v1/wordpress-configs/{id}", h.GetWordPressConfig)
	mux.HandleFunc("PUT /v1/wordpress-configs/{id}", h.UpdateWordPressConfig)
	mux.HandleFunc("DELETE /v1/wordpress-configs/{id}", h.DeleteWordPressConfig)
	mux.HandleFunc("GET /v1/wordpress-configs/{id}/posts", h.ListSitePosts)
	mux.HandleFunc("DELETE /v1/wordpress-configs/{id}/posts/{postID}", h.DeleteSitePost)

	mux.HandleFunc("GET /v1/schedules", h.ListSchedules)
	mux.HandleFunc("POST /v1/schedules", h.CreateSchedule)
	mux.HandleFunc("GET /v1/schedules/{id}", h.GetSchedule)
	mux.HandleFunc("PUT /v1/schedules/{id}", h.UpdateSchedule)
	mux.HandleFunc("DELETE /v1/schedules/{id}", h.DeleteSchedule)

	mux.HandleFunc("GET /v1/ai-configs", h.ListAIConfigs)
	mux.HandleFunc("POST /v1/ai-configs", h.CreateAIConfig)

	mux.HandleFunc("POST /v1/gemini-relay", h.GeminiRelay)
	mux.HandleFunc("GET /v1/keyword-trends", h.KeywordTrends)

	mux.HandleFunc("GET /health", healthCheckHandler)

	return mux
}

// RunServer starts the HTTP server and blocks until SIGINT/SIGTERM, then
// shuts down gracefully.
func RunServer(handler *api.Handler, listenAddr string, logger zerolog.Logger, apiKey string) error {
	logger = logger.With().Str("service", "publisher-api").Logger()

	mux := Routes(handler)

	// Middleware chain for logging and request tracking
	h := hlog.NewHandler(logger)(mux)
	h = hlog.MethodHandler("method")(h)
	h = hlog.URLHandler("url")(h)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	h = hlog.UserAgentHandler("user_agent")(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		idReq, _ := hlog.IDFromRequest(r)

		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("req_id", idReq.String()).
			Msg("HTTP Request")
	})(h)

	if apiKey != "" {
		h = apiKeyMiddleware(apiKey)(h)
		logger.Info().Msg("API key authentication enabled")
	} else {
		logger.Info().Msg("API key authentication disabled")
	}

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second, // a forced run waits on provider + WordPress calls
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", listenAddr).Msg("API Server starting")
		err := httpServer.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatal().Err(err).Msg("Server failed to start")

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown error")
			if err := httpServer.Close(); err != nil {
				logger.Error().Err(err).Msg("HTTP server force close error")
			}
		} else {
			logger.Info().Msg("HTTP server shutdown complete.")
		}
		if err := <-serverErr; err != nil {
			logger.Error().Err(err).Msg("ListenAndServe error during shutdown")
		}
	}

	logger.Info().Msg("Server exiting.")
	return nil
}

// healthCheckHandler responds to health checks with a plain 200 OK.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	log.Debug().Msg("Health check request received")

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("Error writing health check response")
	}
}
