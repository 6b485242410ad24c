package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/app"
	"github.com/Freeeeeet/mentor_scheduler/internal/config"
	"github.com/Freeeeeet/mentor_scheduler/internal/controller"
	"github.com/Freeeeeet/mentor_scheduler/internal/httpapi"
	"github.com/Freeeeeet/mentor_scheduler/internal/repository"
	"github.com/Freeeeeet/mentor_scheduler/internal/repository/migrations"
	"github.com/Freeeeeet/mentor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting mentor scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("bot_enabled", cfg.BotEnabled()),
		zap.String("auto_assign_cron", cfg.AutoAssignCron))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Mentor scheduler stopped with error", zap.Error(err))
	}

	logger.Info("Mentor scheduler stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, ".", logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return err
	}

	// Репозитории
	schedules := repository.NewScheduleRepository(pool)
	leaves := repository.NewLeaveRepository(pool)
	sessions := repository.NewSessionRepository(pool)
	mentors := repository.NewMentorRepository(pool)
	preferences := repository.NewPreferenceRepository(pool)

	// Сервисы
	availability := service.NewAvailabilityService(schedules, leaves, sessions, preferences, service.AvailabilityOptions{
		CapacityMax:      cfg.SlotCapacity,
		FetchConcurrency: cfg.FetchConcurrency,
	}, logger)
	validator := service.NewConflictValidator(sessions, availability.Capacity())
	assigner := service.NewAutoAssigner(sessions, schedules, mentors, availability, validator, cfg.PriorityWaitDays, logger)
	booking := service.NewBookingService(sessions, mentors, availability, validator, logger)

	scheduler, err := app.NewScheduler(sessions, assigner, cfg.AutoAssignCron, logger)
	if err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httpapi.NewHandler(availability, assigner, booking, mentors, cfg.DefaultSessionMinutes, logger)
	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(handler))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP API listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.BotEnabled() {
		b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(func(context.Context, *bot.Bot, *models.Update) {}))
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}

		botController := controller.NewBotController(b, availability, assigner, validator, mentors,
			cfg.AdminTelegramIDs, cfg.DefaultSessionMinutes, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot started without command menu", zap.Error(err))
		}

		g.Go(func() error {
			botController.Start(gctx)
			return nil
		})
	}

	return g.Wait()
}
