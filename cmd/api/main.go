// @title                       Blog API
// @version                     1.0
// @description                 REST API for a blog platform: accounts, posts, categories and likes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/api"
	"github.com/quillpress/blog-api/internal/api/handler"
	"github.com/quillpress/blog-api/internal/core/service"
	"github.com/quillpress/blog-api/internal/infrastructure/db/mongo"
	"github.com/quillpress/blog-api/internal/infrastructure/db/redis"
	"github.com/quillpress/blog-api/internal/infrastructure/queue"
	"github.com/quillpress/blog-api/internal/pkg/config"
	"github.com/quillpress/blog-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// No logger yet: fall back to a plain one so the failure is visible.
		l := logger.New(logger.Options{})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "blog-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	userRepo := mongo.NewUserRepository(db)
	postRepo := mongo.NewPostRepository(db)
	categoryRepo := mongo.NewCategoryRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, postRepo, categoryRepo); err != nil {
		return err
	}

	// --- Services ---
	tokens, err := service.NewTokenService(userRepo, service.TokenConfig{
		Secret:     cfg.Auth.JWTSecret,
		TTL:        cfg.Auth.JWTExpire,
		Issuer:     cfg.Auth.JWTIssuer,
		Audience:   cfg.Auth.JWTAud,
		BcryptCost: cfg.Auth.BcryptCost,
	}, log)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(userRepo, tokens, log)
	userService := service.NewUserService(userRepo, log)
	postService := service.NewPostService(postRepo, categoryRepo, log)
	categoryService := service.NewCategoryService(categoryRepo, postRepo, log)

	// --- View counting ---
	viewService := service.NewViewService(postRepo, redis.NewViewDedup(rdb, cfg.Views.DedupTTL), log)
	dispatcher := queue.NewDispatcher(cfg.Views.Workers, viewService, log)
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Dependencies{
		Log:        log,
		Production: cfg.IsProduction(),
		Origins:    cfg.Origins(),
		Identity:   tokens,
		Auth:       authService,
		Users:      userService,
		Posts:      postService,
		Categories: categoryService,
		Views:      dispatcher,
		RateLimiter: redis.NewRateLimitStore(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window,
			log.With().Str("component", "ratelimit").Logger()),
		ReadinessChecks: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Metrics: true,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			cancelWorkers()
			dispatcher.Wait()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	cancelWorkers()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
	return nil
}
