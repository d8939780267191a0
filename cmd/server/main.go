package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edgebook/guestbook-server-go/internal/auth"
	"github.com/edgebook/guestbook-server-go/internal/config"
	"github.com/edgebook/guestbook-server-go/internal/database"
	"github.com/edgebook/guestbook-server-go/internal/handler"
	"github.com/edgebook/guestbook-server-go/internal/middleware"
	"github.com/edgebook/guestbook-server-go/internal/onboarding"
	"github.com/edgebook/guestbook-server-go/internal/redis"
	"github.com/edgebook/guestbook-server-go/internal/repository"
	"github.com/edgebook/guestbook-server-go/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	userRepo := repository.NewUserRepository(db.DB)
	guestbookRepo := repository.NewGuestbookRepository(db.DB)

	authProvider := auth.NewClient(cfg.AuthBaseURL)

	sessionStorage := session.NewRedisStorage(redisClient)
	sessionNamespace := session.NewNamespace(sessionStorage)
	sessionStore, err := session.NewStore(authProvider, sessionNamespace, userRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct session store")
	}

	gate := onboarding.NewGate(userRepo)

	sessionMiddleware := middleware.NewSessionMiddleware(sessionStore, authProvider, gate)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(config.MaxBodyBytes)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	sessionHandler := handler.NewSessionHandler(sessionStore)
	profileHandler := handler.NewProfileHandler(userRepo, sessionStore)
	guestbookHandler := handler.NewGuestbookHandler(guestbookRepo)
	onboardingHandler := handler.NewOnboardingHandler()

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(securityHeadersMiddleware.Handler)
	r.Use(bodyLimitMiddleware.Handler)

	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware.Handler)

		// Outside /api/ so the onboarding gate evaluates it.
		r.Get("/onboarding/status", onboardingHandler.Status)

		r.Route("/api/session", func(r chi.Router) {
			r.Mount("/", sessionHandler.Routes())
		})
		r.Route("/api/profile", func(r chi.Router) {
			r.Mount("/", profileHandler.Routes())
		})
		r.Route("/api/guestbook", func(r chi.Router) {
			r.Mount("/", guestbookHandler.Routes())
		})
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
