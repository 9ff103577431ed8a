package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/app"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/config"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/controller"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/notifier"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/repository"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting reservas service",
		zap.String("environment", cfg.Environment),
		zap.String("http_port", cfg.HTTPPort),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Migraciones
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	// Repositorios
	reservaRepo := repository.NewReservaRepository(pool)
	solicitudRepo := repository.NewSolicitudRepository(pool)
	programacionRepo := repository.NewProgramacionRepository(pool)

	// Notificador: Telegram si hay token, si no uno nulo
	var notif notifier.Notifier = notifier.NoOp{}
	if cfg.TelegramToken != "" {
		tg, err := notifier.NewTelegram(cfg.TelegramToken, cfg.StaffChatID, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		notif = tg
	}

	// Servicios
	solicitudService := service.NewSolicitudService(reservaRepo, solicitudRepo, programacionRepo, notif, logger)
	disponibilidadService := service.NewDisponibilidadService(programacionRepo, logger)

	// Tareas de fondo
	scheduler := app.NewScheduler(solicitudService, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// HTTP
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	ct := controller.NewController(solicitudService, disponibilidadService, logger)
	ct.RegisterRoutes(e)

	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
}
