// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// The call-insight-api service ingests call-recording webhooks, stores
// canonical call records, and drives each one through the durable analysis
// workflow.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/handlers"
	"github.com/dialcraft/call-insight-service/internal/infrastructure/email"
	"github.com/dialcraft/call-insight-service/internal/infrastructure/messaging"
	"github.com/dialcraft/call-insight-service/internal/infrastructure/oracle"
	"github.com/dialcraft/call-insight-service/internal/infrastructure/providers"
	"github.com/dialcraft/call-insight-service/internal/infrastructure/store"
	"github.com/dialcraft/call-insight-service/internal/infrastructure/webhook"
	"github.com/dialcraft/call-insight-service/internal/logging"
	"github.com/dialcraft/call-insight-service/internal/service"
)

const gracePeriod = 25 * time.Second

func main() {
	flagSet := flag.NewFlagSet("call-insight-api", flag.ExitOnError)
	var (
		debug = flagSet.Bool("d", false, "enable debug logging")
		port  = flagSet.String("p", "8080", "listen port")
		bind  = flagSet.String("bind", "*", "interface to bind on")
	)
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		log.Fatalf("error parsing flags: %v", err)
	}

	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	if *debug {
		_ = os.Setenv("LOG_LEVEL", "debug")
	}
	logging.InitStructureLogConfig()

	env := parseEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := setupTracing(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up tracing", logging.ErrKey, err)
		os.Exit(1)
	}

	conn, js, err := setupNATS(ctx, env.NatsURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to NATS",
			logging.ErrKey, err, logging.PriorityCritical(), "url", env.NatsURL)
		os.Exit(1)
	}

	stores, err := getKeyValueStores(ctx, js)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up KV stores",
			logging.ErrKey, err, logging.PriorityCritical())
		os.Exit(1)
	}

	callRecordRepository := store.NewNatsCallRecordRepository(stores.callRecords)
	callEvaluationRepository := store.NewNatsCallEvaluationRepository(stores.callEvaluations)
	workflowRunRepository := store.NewNatsWorkflowRunRepository(stores.workflowRuns)
	userRepository := store.NewNatsUserRepository(stores.users)
	orgSettingsRepository := store.NewNatsOrgSettingsRepository(stores.orgSettings)

	messageBuilder := messaging.NewMessageBuilder(conn)

	oracleClient, err := oracle.NewClient(env.OracleURL, env.OracleAPIKey)
	if err != nil {
		slog.ErrorContext(ctx, "failed to configure oracle client", logging.ErrKey, err)
		os.Exit(1)
	}

	var notificationService domain.NotificationService
	if env.SMTPHost != "" {
		notificationService, err = email.NewSMTPService(email.Config{
			Host:     env.SMTPHost,
			Port:     env.SMTPPort,
			From:     env.SMTPFrom,
			Username: env.SMTPUsername,
			Password: env.SMTPPassword,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to configure SMTP", logging.ErrKey, err)
			os.Exit(1)
		}
	} else {
		notificationService = email.NewNoopService()
	}

	var providerValidator domain.WebhookValidator
	if env.ProviderWebhookSecret != "" {
		providerValidator, err = webhook.NewValidator(env.ProviderWebhookSecret)
		if err != nil {
			slog.ErrorContext(ctx, "failed to configure provider webhook validator", logging.ErrKey, err)
			os.Exit(1)
		}
	}

	var billingValidator domain.WebhookValidator
	if env.BillingWebhookSecret != "" {
		billingValidator, err = webhook.NewValidator(env.BillingWebhookSecret)
		if err != nil {
			slog.ErrorContext(ctx, "failed to configure billing webhook validator", logging.ErrKey, err)
			os.Exit(1)
		}
	} else {
		slog.WarnContext(ctx, "billing webhook secret not set, billing endpoint disabled")
	}

	registry := providers.NewRegistry(providers.NewHTTPTranscriptFetcher())

	identityService := service.NewIdentityService(userRepository)
	dedupService := service.NewDedupService(callRecordRepository)
	callRecordService := service.NewCallRecordService(callRecordRepository, callEvaluationRepository)
	evaluationService := service.NewEvaluationService()
	ingestionService := service.NewIngestionService(registry, identityService, dedupService,
		callRecordRepository, workflowRunRepository, orgSettingsRepository, messageBuilder)
	entitlementService := service.NewEntitlementService(userRepository)
	orchestratorService := service.NewOrchestratorService(callRecordService, evaluationService,
		callRecordRepository, workflowRunRepository, userRepository, orgSettingsRepository,
		oracleClient, notificationService)
	reminderService := service.NewReminderService(workflowRunRepository, userRepository, notificationService)
	schedulerService := service.NewSchedulerService(workflowRunRepository, messageBuilder)

	eventHandler := handlers.NewCallEventHandler(orchestratorService, reminderService)
	if err := setupSubscriptions(ctx, conn, eventHandler); err != nil {
		slog.ErrorContext(ctx, "failed to set up NATS subscriptions",
			logging.ErrKey, err, logging.PriorityCritical())
		os.Exit(1)
	}

	go schedulerService.Run(ctx)

	webhookHandler := handlers.NewWebhookHandler(ingestionService, entitlementService,
		providerValidator, billingValidator, env.DefaultOrganizationID)

	ready := func() bool {
		return conn.IsConnected() && eventHandler.HandlerReady() && ingestionService.ServiceReady()
	}

	addr := fmt.Sprintf(":%s", *port)
	if *bind != "*" {
		addr = fmt.Sprintf("%s:%s", *bind, *port)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(webhookHandler, ready),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "starting HTTP server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "HTTP server error", logging.ErrKey, err, logging.PriorityCritical())
			stop()
		}
	}()

	<-ctx.Done()
	slog.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracePeriod)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "HTTP server shutdown error", logging.ErrKey, err)
	}

	if err := conn.Drain(); err != nil {
		slog.ErrorContext(shutdownCtx, "NATS drain error", logging.ErrKey, err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "tracer shutdown error", logging.ErrKey, err)
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}
