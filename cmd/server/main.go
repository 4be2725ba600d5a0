package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aydenq/members-only/internal/auth"
	"github.com/aydenq/members-only/internal/config"
	"github.com/aydenq/members-only/internal/images"
	"github.com/aydenq/members-only/internal/session"
	"github.com/aydenq/members-only/internal/store"
	"github.com/aydenq/members-only/internal/validate"
	"github.com/aydenq/members-only/internal/web"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Load()
	ctx := context.Background()

	if cfg.SessionSecret == "" || cfg.CookieSecret == "" {
		logger.Error("SESSION_SECRET and COOKIE_SECRET must be set")
		os.Exit(1)
	}

	// ── MongoDB ──────────────────────────────────────────────
	// The document database backs both user records and sessions unless
	// an alternative backend is selected.
	var mongoDB *mongo.Database
	if cfg.UserStore == "mongo" || cfg.SessionStore == "mongo" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoConnString()))
		if err != nil {
			logger.Error("mongo connect", "error", err)
			os.Exit(1)
		}
		defer client.Disconnect(ctx)
		mongoDB = client.Database(cfg.MongoDatabase)
	}

	// ── Credential store ─────────────────────────────────────
	var users auth.UserStore
	switch cfg.UserStore {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Error("postgres connect", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pgStore := store.NewPostgresStore(pool)
		if err := pgStore.Migrate(ctx); err != nil {
			logger.Error("postgres migrate", "error", err)
			os.Exit(1)
		}
		users = pgStore
	case "mongo":
		users = store.NewMongoStore(mongoDB)
	default:
		logger.Error("unknown USER_STORE", "value", cfg.UserStore)
		os.Exit(1)
	}

	// ── Session store ────────────────────────────────────────
	var sessionStore session.Store
	switch cfg.SessionStore {
	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("redis connect", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sessionStore = session.NewRedisStore(rdb)
	case "mongo":
		ms, err := session.NewMongoStore(ctx, mongoDB)
		if err != nil {
			logger.Error("session store init", "error", err)
			os.Exit(1)
		}
		sessionStore = ms
	default:
		logger.Error("unknown SESSION_STORE", "value", cfg.SessionStore)
		os.Exit(1)
	}
	sessions := session.NewManager(sessionStore, cfg.CookieSecret, cfg.SessionSecret)

	// ── Image source ─────────────────────────────────────────
	var imgSource images.Source
	switch cfg.ImageSource {
	case "minio":
		src, err := images.NewMinioSource(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			logger.Error("minio connect", "error", err)
			os.Exit(1)
		}
		imgSource = src
	case "local":
		imgSource = images.NewLocalSource(cfg.PublicDir, "/public")
	default:
		logger.Error("unknown IMAGE_SOURCE", "value", cfg.ImageSource)
		os.Exit(1)
	}

	// ── Views and handlers ───────────────────────────────────
	renderer, err := web.NewRenderer(cfg.TemplateDir, logger)
	if err != nil {
		logger.Error("load templates", "error", err)
		os.Exit(1)
	}
	validator := validate.New()
	authHandler := auth.NewHandler(users, sessions, validator, renderer, logger)
	webHandler := web.NewHandler(sessions, imgSource, renderer, logger)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(web.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/", webHandler.Home)
	r.Get("/signup", authHandler.SignupPage)
	r.Post("/signupSubmit", authHandler.SignupSubmit)
	r.Get("/login", authHandler.LoginPage)
	r.Post("/loggingIn", authHandler.LoggingIn)
	r.Get("/logout", authHandler.Logout)
	r.Get("/members", webHandler.Members)

	// Static assets, with CORS so the images can be embedded elsewhere.
	r.Route("/public", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "HEAD"},
			MaxAge:         300,
		}))
		fs := http.StripPrefix("/public", http.FileServer(http.Dir(cfg.PublicDir)))
		r.Get("/*", fs.ServeHTTP)
	})

	r.NotFound(webHandler.NotFound)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	go func() {
		logger.Info("listening", "url", fmt.Sprintf("http://localhost:%s", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
