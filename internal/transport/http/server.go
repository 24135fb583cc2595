package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/cache"
	"github.com/andy11223386/akashicConnect/internal/config"
	"github.com/andy11223386/akashicConnect/internal/database"
	"github.com/andy11223386/akashicConnect/internal/feed"
	"github.com/andy11223386/akashicConnect/internal/handler"
	"github.com/andy11223386/akashicConnect/internal/model"
	"github.com/andy11223386/akashicConnect/internal/queue"
	"github.com/andy11223386/akashicConnect/internal/redis"
	"github.com/andy11223386/akashicConnect/internal/repository"
	"github.com/andy11223386/akashicConnect/internal/service"
	"github.com/andy11223386/akashicConnect/internal/worker"
)

const (
	shutdownTimeout = 15 * time.Second
	pruneInterval   = time.Hour
	pruneRetention  = 7 * 24 * time.Hour
)

// Run wires every dependency, serves HTTP and shuts down gracefully on
// SIGINT or SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	configureLogger(cfg.LogLevel, cfg.LogFormat)

	// 2. Connect to stores
	mongoClient, mongoDB, err := database.ConnectMongo(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	if err := database.EnsureIndexes(ctx, mongoDB); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	pg, err := database.ConnectPostgres(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	defer pg.Close()
	if err := database.MigratePostgres(ctx, pg); err != nil {
		return fmt.Errorf("failed to migrate Postgres: %w", err)
	}

	rdb, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer rdb.Close()

	// 3. Repositories, cache and queue
	userRepo := repository.NewUserRepository(mongoDB)
	tweetRepo := repository.NewTweetRepository(mongoDB)
	commentRepo := repository.NewCommentRepository(mongoDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(pg)

	authors := cache.NewAuthorCache(rdb.Client, userRepo, cfg.AuthorCacheTTL)
	publisher := queue.NewPublisher(rdb.Client)
	assembler := feed.NewAssembler(tweetRepo, commentRepo, authors, feed.Options{Concurrency: cfg.AssemblyConcurrency})

	// 4. Services
	userService := service.NewUserService(userRepo, authors, cfg.DefaultAvatarURL)
	authService := service.NewAuthService(refreshTokenRepo, userRepo, cfg)
	tweetService := service.NewTweetService(tweetRepo, authors, assembler, publisher)
	commentService := service.NewCommentService(commentRepo, tweetRepo, publisher)

	var media handler.MediaService
	mediaService, err := service.NewMediaService(ctx, cfg)
	switch {
	case err == nil:
		media = mediaService
	case errors.Is(err, model.ErrMediaDisabled):
		log.Warn().Str("component", "Server").Msg("R2 not configured, media uploads disabled")
	default:
		return fmt.Errorf("failed to init media service: %w", err)
	}

	// 5. Background workers
	manager := worker.NewManager(queue.NewConsumer(rdb.Client), worker.NewHandler(tweetRepo, commentRepo), worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer manager.Stop()

	go pruneRefreshTokens(ctx, authService)

	// 6. HTTP server
	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService),
		UserHandler:    handler.NewUserHandler(userService, media),
		TweetHandler:   handler.NewTweetHandler(tweetService),
		CommentHandler: handler.NewCommentHandler(commentService),
		MediaHandler:   handler.NewMediaHandler(media),
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "Server").Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Str("component", "Server").Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func pruneRefreshTokens(ctx context.Context, auth *service.AuthService) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := auth.PruneExpired(ctx, pruneRetention); err != nil {
				log.Warn().Str("component", "Server").Err(err).Msg("refresh token prune failed")
			}
		}
	}
}
