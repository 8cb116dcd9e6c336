package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/headsup_bot/internal/app"
	"github.com/Freeeeeet/headsup_bot/internal/config"
	"github.com/Freeeeeet/headsup_bot/internal/controller"
	"github.com/Freeeeeet/headsup_bot/internal/controller/state"
	"github.com/Freeeeeet/headsup_bot/internal/fuzzy"
	"github.com/Freeeeeet/headsup_bot/internal/grouping"
	"github.com/Freeeeeet/headsup_bot/internal/headsup"
	"github.com/Freeeeeet/headsup_bot/internal/llm"
	"github.com/Freeeeeet/headsup_bot/internal/metrics"
	"github.com/Freeeeeet/headsup_bot/internal/migrations"
	"github.com/Freeeeeet/headsup_bot/internal/repository"
	"github.com/Freeeeeet/headsup_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// sweepInterval период очистки истёкших состояний в памяти
const sweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting heads-up bot",
		"environment", cfg.Environment,
		"schools", len(cfg.Schools),
		"topics", len(cfg.Topics),
		"state_backend", cfg.State.Backend,
		"llm_provider", cfg.LLM.Provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// База данных
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		_ = migrator.Close()
		return err
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Redis нужен только для хранения состояний диалогов
	var rdb *redis.Client
	if cfg.State.Backend == "redis" {
		rdb, err = app.NewRedis(ctx, cfg.State.RedisAddr, cfg.State.RedisPassword, cfg.State.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	m := metrics.New()

	// Без ключа heads-up проверяются только правилами
	var completer llm.Completer
	var primary headsup.Strategy
	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(llm.Config{
			Provider: llm.Provider(cfg.LLM.Provider),
			APIKey:   cfg.LLM.APIKey,
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
			Timeout:  cfg.LLM.Timeout,
		}, m, logger.Named("llm"))
		if err != nil {
			return err
		}
		completer = client
		primary = headsup.NewLLMValidator(client, cfg.Groups())
	} else {
		logger.Warn("LLM_API_KEY is not set, using rule-based validation only")
	}

	// Репозитории
	students := repository.NewStudentRepository(pool)
	submissions := repository.NewSubmissionRepository(pool)
	sessions := repository.NewSessionRepository(pool)

	// Проверка heads-up
	matcher := fuzzy.NewMatcher(fuzzy.DefaultThreshold)
	logger.Info("Heads-up matching configured",
		zap.Int("name_threshold", matcher.Threshold()),
		zap.Ints("heads_up_threads", cfg.HeadsUpThreadIDs()))
	validator := headsup.NewValidator(
		primary,
		headsup.NewRuleValidator(),
		m,
		logger.Named("validator"),
	)
	extractor := headsup.NewExtractor(completer, logger.Named("extractor"))
	reconciler := headsup.NewReconciler(students, submissions, matcher, cfg.HeadsUpWindow, m, logger.Named("reconciler"))

	partitioner := grouping.NewSeededPartitioner(uint64(time.Now().UnixNano()))

	// Сервисы
	attendance := service.NewAttendanceService(students, submissions, matcher, loc, logger)
	services := controller.Services{
		HeadsUp:      service.NewHeadsUpService(validator, extractor, reconciler, logger),
		Attendance:   attendance,
		Sessions:     service.NewSessionService(attendance, sessions, partitioner, matcher, m, logger),
		Registration: service.NewRegistrationService(students, cfg.Schools, logger),
	}

	// Состояния диалогов
	var stateStore state.Store
	var sweeper app.Sweeper
	if rdb != nil {
		stateStore = state.NewRedisStore(rdb, cfg.State.TTL)
	} else {
		manager := state.NewManager(cfg.State.TTL)
		stateStore = manager
		sweeper = manager
	}

	b, err := bot.New(cfg.TelegramToken,
		bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}),
		bot.WithErrorsHandler(func(err error) {
			logger.Warn("Telegram error", zap.Error(err))
		}),
	)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, services, stateStore, cfg.Topics, m, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	scheduler := app.NewScheduler(sweeper, sweepInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	checks := map[string]app.HealthCheck{
		"postgres": pool.Ping,
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	httpServer := app.NewHTTPServer(cfg.HTTPAddr, m, checks, cfg.IsProduction(), logger)

	// Падение HTTP сервера останавливает и бота
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpErr := make(chan error, 1)
	go func() {
		err := httpServer.Run(ctx)
		if err != nil {
			cancel()
		}
		httpErr <- err
	}()

	if err := botController.Start(ctx); err != nil {
		return err
	}

	if err := <-httpErr; err != nil {
		return err
	}
	return nil
}
