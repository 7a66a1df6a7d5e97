// Package main is the entrypoint for the CRM API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/siddkalani/CRM-sub000/internal/cache"
	"github.com/siddkalani/CRM-sub000/internal/config"
	"github.com/siddkalani/CRM-sub000/internal/handler"
	"github.com/siddkalani/CRM-sub000/internal/metrics"
	"github.com/siddkalani/CRM-sub000/internal/middleware"
	"github.com/siddkalani/CRM-sub000/internal/repository"
	"github.com/siddkalani/CRM-sub000/internal/server"
	"github.com/siddkalani/CRM-sub000/internal/service"
	"github.com/siddkalani/CRM-sub000/internal/speech"
	"github.com/siddkalani/CRM-sub000/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if cfg.MigrateOnStart {
		if err := repository.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			logger.Error(
				"failed to run migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	store, err := storage.New(ctx, storage.Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
		UsePathStyle:  cfg.S3UsePathStyle,
	})
	if err != nil {
		logger.Error("failed to configure object storage", "error", err, "bucket", cfg.S3Bucket)
		os.Exit(1)
	}
	logger.Info("object storage configured", "bucket", cfg.S3Bucket)

	speechClient := speech.NewClient(cfg.SpeechAPIURL, cfg.SpeechAPIKey)
	if !speechClient.Configured() {
		logger.Warn("speech recognition is not configured; transcription requests will be rejected")
	}

	recorder := metrics.NewInMemory()

	userService := service.NewUserService(repo, cacheClient, []byte(cfg.JWTSecret), cfg.TokenTTL, recorder)
	leadService := service.NewLeadService(repo, recorder)
	contactService := service.NewContactService(repo, recorder)
	uploadService := service.NewUploadService(store, repo, cfg.MaxUploadSize, recorder)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthChecker{
		"database": repo,
		"cache":    cacheClient,
		"storage":  store,
	}, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)
	userHandler := handler.NewUserHandler(userService, logger)
	leadHandler := handler.NewLeadHandler(leadService, logger)
	contactHandler := handler.NewContactHandler(contactService, uploadService, cfg.MaxNoteFiles, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	speechHandler := handler.NewSpeechHandler(speechClient, cfg.MaxUploadSize, recorder, logger)

	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		metrics:  metricsHandler,
		users:    userHandler,
		leads:    leadHandler,
		contacts: contactHandler,
		uploads:  uploadHandler,
		speech:   speechHandler,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("cache", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	metrics  *handler.MetricsHandler
	users    *handler.UserHandler
	leads    *handler.LeadHandler
	contacts *handler.ContactHandler
	uploads  *handler.UploadHandler
	speech   *handler.SpeechHandler
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: d.cfg.IsDevelopment(),
	}))

	if origins := d.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	r.Get("/", d.base.Hello)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)

	loginRateLimit := middleware.RateLimitLogin(middleware.RateLimitConfig{
		Logger:  d.logger,
		Limiter: d.cache,
		Enabled: d.cfg.RateLimitLoginEnabled,
		RPM:     d.cfg.RateLimitLoginRPM,
		Burst:   d.cfg.RateLimitLoginBurst,
	})

	bodyLimit := middleware.MaxBodySize(d.cfg.MaxRequestBodySize)

	// Multipart routes get their own caps sized from the upload limits;
	// multipartOverhead covers part headers and the text field.
	const multipartOverhead = 64 << 10
	uploadLimit := middleware.MaxBodySize(d.cfg.MaxUploadSize + multipartOverhead)
	noteFilesLimit := middleware.MaxBodySize(int64(d.cfg.MaxNoteFiles)*d.cfg.MaxUploadSize + multipartOverhead)

	r.With(bodyLimit).Post("/users/register", d.users.Register)
	r.With(bodyLimit, loginRateLimit).Post("/users/login", d.users.Login)

	authCfg := middleware.AuthConfig{
		Logger:   d.logger,
		Secret:   []byte(d.cfg.JWTSecret),
		Sessions: d.cache,
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Get("/users/current", d.users.Current)
		r.With(bodyLimit).Put("/users/update", d.users.Update)
		r.Post("/users/logout", d.users.Logout)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/user/{userID}", d.leads.List)
			r.With(bodyLimit).Post("/user/{userID}", d.leads.Create)
			r.Get("/one/{leadID}", d.leads.Get)
			r.With(bodyLimit).Put("/one/{leadID}", d.leads.Update)
			r.Delete("/{leadID}", d.leads.Delete)
			r.With(bodyLimit).Post("/one/{leadID}/notes", d.leads.AddNote)
			r.With(bodyLimit).Put("/one/{leadID}/notes/{noteID}", d.leads.UpdateNote)
			r.Delete("/one/{leadID}/notes/{noteID}", d.leads.DeleteNote)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/user/{userID}", d.contacts.List)
			r.With(bodyLimit).Post("/user/{userID}", d.contacts.Create)
			r.Get("/one/{contactID}", d.contacts.Get)
			r.With(bodyLimit).Put("/one/{contactID}", d.contacts.Update)
			r.Delete("/{contactID}", d.contacts.Delete)
			r.With(noteFilesLimit).Post("/one/{contactID}/notes", d.contacts.AddNote)
			r.With(bodyLimit).Put("/one/{contactID}/notes/{noteID}", d.contacts.UpdateNote)
			r.Delete("/one/{contactID}/notes/{noteID}", d.contacts.DeleteNote)
		})

		r.With(uploadLimit).Post("/uploads", d.uploads.Upload)
		r.With(uploadLimit).Post("/speech-to-text", d.speech.Transcribe)
	})

	r.NotFound(d.base.NotFound)
	r.MethodNotAllowed(d.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
