package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontdesk/internal/api"
	"frontdesk/internal/audit"
	"frontdesk/internal/config"
	"frontdesk/internal/console"
	"frontdesk/internal/events"
	"frontdesk/internal/export"
	"frontdesk/internal/guard"
	"frontdesk/internal/interceptor"
	"frontdesk/internal/logging"
	"frontdesk/internal/metrics"
	"frontdesk/internal/models"
	"frontdesk/internal/notify"
	"frontdesk/internal/session"
	"frontdesk/internal/sheets"
	"frontdesk/internal/store"
	"frontdesk/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	bus := events.NewEventBus()

	auditLog := initAudit(cfg, bus, &logger)
	if auditLog != nil {
		defer auditLog.Close()
	}

	notifier := initNotifier(cfg, &logger)

	sessions, err := initSessions(cfg, redisClient, bus, &logger)
	if err != nil {
		return err
	}

	router := guard.NewRouter(guard.New(sessions, &logger))

	hook := interceptor.New(notifier, sessions, router, &logger)
	client := api.NewClient(cfg.Backend, hook, &logger)
	if redisClient != nil && cfg.Backend.CacheTTL > 0 {
		client.UseRedisCache(redisClient, time.Duration(cfg.Backend.CacheTTL)*time.Second)
	}

	reservations := store.NewReservationStore(client, bus, &logger)
	hotels := store.NewHotelStore(client, &logger)

	exportWorker := initExports(ctx, cfg, reservations, hotels, bus, logger)

	server := console.NewServer(cfg.Console, sessions, router, reservations, hotels, client, exportWorker, logger)

	startMetrics(ctx, cfg, &logger)

	return serve(ctx, server, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "console-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := session.NewRedisClient(cfg.Redis)
	if err := session.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initAudit(cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) *audit.Log {
	if !cfg.Audit.Enabled {
		return nil
	}

	auditLog, err := audit.Open(cfg.Audit.Path, logger)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Audit.Path).Msg("audit log init failed, continuing without audit")
		return nil
	}

	auditLog.Subscribe(bus)
	logger.Info().Str("path", cfg.Audit.Path).Msg("audit log opened")
	return auditLog
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) notify.Notifier {
	notifiers := notify.MultiNotifier{notify.NewLogNotifier(logger)}

	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram init failed, continuing without telegram notifications")
		} else {
			notifiers = append(notifiers, notify.NewTelegramNotifier(bot, cfg.Telegram.ChatID, logger))
			logger.Info().Msg("telegram notifier connected")
		}
	}

	return notifiers
}

func initSessions(cfg *config.Config, redisClient *redis.Client, bus *events.EventBus, logger *zerolog.Logger) (*session.Store, error) {
	verifier := session.NewStaticVerifier(cfg.Credentials)

	var persist session.Persistence
	switch cfg.Session.Backend {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("session backend is redis but redis is not available")
		}
		persist = session.NewRedisPersistence(redisClient, time.Duration(cfg.Session.TTL)*time.Second)
	default:
		filePersist, err := session.NewFilePersistence(cfg.Session.FilePath)
		if err != nil {
			return nil, fmt.Errorf("init session file: %w", err)
		}
		persist = filePersist
	}

	return session.NewStore(verifier, persist, bus, logger), nil
}

// rosterSource joins the two stores into the single snapshot the export
// worker reads.
type rosterSource struct {
	reservations *store.ReservationStore
	hotels       *store.HotelStore
}

func (s *rosterSource) Reservations() []models.Reservation { return s.reservations.Reservations() }
func (s *rosterSource) Hotels() []models.Hotel             { return s.hotels.Hotels() }

func initExports(
	ctx context.Context,
	cfg *config.Config,
	reservations *store.ReservationStore,
	hotels *store.HotelStore,
	bus *events.EventBus,
	logger zerolog.Logger,
) *worker.ExportWorker {
	var roster worker.RosterWriter
	if cfg.Google.CredentialsFile != "" && cfg.Google.ReservationsSpreadsheetID != "" {
		rosterService, err := sheets.NewRosterService(ctx, cfg.Google.CredentialsFile, cfg.Google.ReservationsSpreadsheetID)
		if err != nil {
			logger.Warn().Err(err).Msg("google sheets init failed, continuing without roster sync")
		} else if err := rosterService.TestConnection(ctx); err != nil {
			logger.Warn().Err(err).Msg("google sheets unreachable, continuing without roster sync")
		} else {
			roster = rosterService
			logger.Info().Msg("google sheets connected")
		}
	}

	source := &rosterSource{reservations: reservations, hotels: hotels}
	workbook := &export.WorkbookExporter{Dir: cfg.Exports.Path}

	exportWorker := worker.NewExportWorker(source, workbook, roster, worker.RetryPolicy{}, logger)
	exportWorker.Subscribe(bus)
	go exportWorker.Start(ctx)

	return exportWorker
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func serve(ctx context.Context, server *console.Server, logger *zerolog.Logger) error {
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("console server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("console shutdown error")
	}

	logger.Info().Msg("console stopped")
	return nil
}
