package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/codecrypto/cbt-marketplace/internal/app/api"
	checkoutactivities "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/activities/checkout"
	onrampactivities "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/activities/onramp"
	checkoutworkflows "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/workflows/checkout"
	onrampworkflows "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/workflows/onramp"
	platformobservability "github.com/codecrypto/cbt-marketplace/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "cbt-marketplace-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	container, err := api.Build(ctx, cfg, instruments, api.BuildOptions{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to wire marketplace", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer container.Close()

	temporalClient, err := api.DialTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	checkoutActs := checkoutactivities.NewActivities(container.Services.Checkout)
	onrampActs := onrampactivities.NewActivities(container.Services.Onramp)

	w := worker.New(temporalClient, checkoutworkflows.TaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.CheckoutWorkflowName})
	w.RegisterWorkflowWithOptions(onrampworkflows.MintWorkflow, workflow.RegisterOptions{Name: onrampworkflows.MintWorkflowName})
	w.RegisterActivityWithOptions(checkoutActs.Approve, activity.RegisterOptions{Name: checkoutactivities.ApproveActivityName})
	w.RegisterActivityWithOptions(checkoutActs.AddLine, activity.RegisterOptions{Name: checkoutactivities.AddLineActivityName})
	w.RegisterActivityWithOptions(checkoutActs.Submit, activity.RegisterOptions{Name: checkoutactivities.SubmitActivityName})
	w.RegisterActivityWithOptions(checkoutActs.Fail, activity.RegisterOptions{Name: checkoutactivities.FailActivityName})
	w.RegisterActivityWithOptions(onrampActs.Mint, activity.RegisterOptions{Name: onrampactivities.MintActivityName})

	sched := cron.New()
	schedule := "@every " + cfg.PurgeInterval.String()
	if _, err := sched.AddFunc(schedule, func() {
		purgeCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sessions, carts, err := container.Purge(purgeCtx)
		if err != nil {
			logger.Warn("scheduled purge failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("scheduled purge completed", slog.Int64("sessions", sessions), slog.Int64("carts", carts))
	}); err != nil {
		logger.Error("failed to schedule purge", slog.String("schedule", schedule), slog.String("error", err.Error()))
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.TaskQueue), slog.String("namespace", cfg.TemporalNamespace), slog.String("purge", schedule))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
