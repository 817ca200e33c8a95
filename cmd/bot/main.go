package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daily_report_bot/internal/app"
	"daily_report_bot/internal/domain/reminder"
	"daily_report_bot/internal/infra/catalog"
	"daily_report_bot/internal/infra/config"
	idb "daily_report_bot/internal/infra/database"
	"daily_report_bot/internal/infra/discordbot"
	"daily_report_bot/internal/infra/httpserver"
	"daily_report_bot/internal/infra/logger"
	"daily_report_bot/internal/infra/memstore"
	"daily_report_bot/internal/infra/scheduler"
	"daily_report_bot/internal/infra/sheets"

	"github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("Daily Report Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Data tables
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not load catalog")
	}
	mainLogger.WithField("sections", len(cat.Sections.All())).WithField("auto_replies", cat.AutoReplies.Len()).Info("Catalog loaded")

	// Spreadsheet
	sheetsService, err := sheets.NewService(ctx, cfg.ServiceAccountJSON)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Sheets client")
	}
	reportRepo := sheets.NewReportRepository(sheetsService, cfg.SheetID, cfg.SheetRange)
	if cfg.SheetEnsureHeader {
		wrote, err := reportRepo.EnsureHeader(ctx)
		if err != nil {
			mainLogger.WithError(err).Warn("Could not check sheet header")
		} else if wrote {
			mainLogger.Info("Sheet header row written")
		}
	}

	// Reminder marker
	var reminderState reminder.StateRepository
	if cfg.DatabaseURL != "" {
		db, driver, err := idb.NewConnection(cfg.DatabaseURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not connect to database")
		}
		defer db.Close()
		if err := idb.Migrate(ctx, db); err != nil {
			mainLogger.WithError(err).Fatal("Could not migrate database")
		}
		reminderState = idb.NewSQLReminderStateRepository(db, driver)
		mainLogger.WithField("driver", driver).Info("Reminder state stored in database")
	} else {
		reminderState = memstore.NewReminderState()
		mainLogger.Warn("DATABASE_URL is not set. Reminder state is kept in memory and lost on restart.")
	}

	// Discord
	client, err := discordbot.NewClient(cfg.DiscordToken)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Discord client")
	}
	chatClient := discordbot.NewDisgoAdapter(client.Rest)

	reportService := app.NewReportService(
		memstore.NewSessionStore(),
		reportRepo,
		chatClient,
		cat.Sections,
		cfg.PostChannelID,
		cfg.SessionTTL,
		logger.Component("report_service"),
	)
	reminderService := app.NewReminderService(
		chatClient,
		reminderState,
		reminder.Schedule{Hour: cfg.ReminderHour, Minute: cfg.ReminderMinute},
		cfg.RemindChannelID,
		logger.Component("reminder_service"),
	)

	handlers := discordbot.NewHandlers(reportService, reminderService, cat.AutoReplies, logger.Component("discord"))
	handlers.Register(client)
	mainLogger.Info("Discord handlers registered")

	// Health endpoints
	healthServer := httpserver.NewServer(cfg.Port, logger.Component("http"))
	healthServer.Start()

	if err := client.OpenGateway(ctx); err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to Discord gateway")
	}
	mainLogger.Info("Connected to Discord gateway")

	var reminderScheduler *scheduler.ReminderScheduler
	if reminderService.Enabled() {
		reminderScheduler = scheduler.NewReminderScheduler(reminderService, logger.Component("scheduler"), cfg.CronSpecReminderCheck)
		if err := reminderScheduler.Start(); err != nil {
			mainLogger.WithError(err).Fatal("Could not start reminder scheduler")
		}
	} else {
		mainLogger.Warn("DISCORD_REMIND_CHANNEL_ID is not set. Reminder disabled.")
	}

	mainLogger.Info("Application setup complete.")

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if reminderScheduler != nil {
		reminderScheduler.Stop()
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Warn("Health server shutdown failed")
	}
	client.Close(shutdownCtx)
	mainLogger.Info("Application shut down gracefully.")
}
