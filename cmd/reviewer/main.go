package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/auth"
	"github.com/aliskhannn/nqesh-reviewer/internal/config"
	"github.com/aliskhannn/nqesh-reviewer/internal/delivery/rest"
	"github.com/aliskhannn/nqesh-reviewer/internal/delivery/telegram"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/amqp"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres/repository"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/redis"
	"github.com/aliskhannn/nqesh-reviewer/internal/logger"
	"github.com/aliskhannn/nqesh-reviewer/internal/service"
	"github.com/aliskhannn/nqesh-reviewer/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("reviewer stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	rdb, err := redis.NewClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.AMQP.URL != "" {
		p, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, lg)
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()
		publisher = p
	} else {
		lg.Info("AMQP not configured, quiz events will not be published")
	}

	// Repositories and caches.
	categoryRepo := repository.NewCategoryRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	bookmarkRepo := repository.NewBookmarkRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)

	dashboardCache := redis.NewDashboardCache(rdb, cfg.Redis.DashboardTTL)
	snapshots := redis.NewSnapshotStore(rdb, cfg.Redis.SnapshotTTL)
	stash := redis.NewResultStash(rdb, lg)
	bookmarkCache := redis.NewBookmarkCache(rdb, cfg.Redis.BookmarkTTL)

	// Services.
	sessions := storage.NewSessionStorage()
	quizService := service.NewQuizService(
		categoryRepo,
		resultRepo,
		snapshots,
		stash,
		dashboardCache,
		publisher,
		sessions,
		lg,
		service.QuizConfig{
			QuestionSeconds: cfg.Quiz.QuestionSeconds,
			SaveRetryDelay:  cfg.Quiz.SaveRetryDelay,
		},
	)
	dashboardService := service.NewDashboardService(resultRepo, dashboardCache, lg, service.DashboardConfig{
		HistoryLimit: cfg.Quiz.HistoryLimit,
	})
	bookmarkService := service.NewBookmarkService(bookmarkRepo, bookmarkCache, categoryRepo, lg, cfg.Quiz.SaveRetryDelay)
	noteService := service.NewNoteService(noteRepo)
	catalogService := service.NewCatalogService(categoryRepo, referenceRepo)
	resetService := service.NewResetService(postgres.NewTransactor(pool), dashboardCache, lg)

	janitor := service.NewJanitor(quizService, cfg.Quiz.JanitorSchedule, cfg.Quiz.IdleTimeout, lg)

	// HTTP API.
	handler := rest.NewHandler(lg, quizService, dashboardService, bookmarkService, noteService, catalogService, resetService)
	router := rest.NewRouter(handler, auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer), lg, rest.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg conc.WaitGroup
	defer wg.Wait()

	// A failed listener must also stop the background workers.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Go(func() { janitor.Start(ctx) })

	if cfg.TelegramAPIToken != "" {
		bot, err := newBot(cfg.TelegramAPIToken, lg)
		if err != nil {
			return err
		}

		tg := telegram.NewHandler(bot, lg, quizService, dashboardService, storage.NewMessageStorage())
		wg.Go(func() {
			if err := tg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("telegram handler stopped", zap.Error(err))
			}
		})
	} else {
		lg.Info("TELEGRAM_API_TOKEN not set, telegram delivery disabled")
	}

	wg.Go(func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		lg.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("server forced to shutdown", zap.Error(err))
		}

		// Keep what the janitor has not flushed yet.
		flushed, err := quizService.FlushStash(shutdownCtx, 1000)
		if err != nil {
			lg.Warn("flush stashed results on shutdown", zap.Int("flushed", flushed), zap.Error(err))
		}
	})

	lg.Info("starting server", zap.String("address", cfg.HTTP.Address))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

func newBot(token string, lg *zap.Logger) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the reviewer"},
		{Command: "categories", Description: "Pick a category and start a quiz"},
		{Command: "stats", Description: "Show your performance"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized on telegram", zap.String("username", bot.Self.UserName))
	return bot, nil
}
