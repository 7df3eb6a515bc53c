package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-sbp-checkout/config"
)

var (
	workerMode bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Refresh stale non-terminal payments from YooKassa",
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, paymentService, cleanup := mustCreatePaymentService()
		defer cleanup()

		job := batchJob{name: "reconcile", run: paymentService.RunReconcileBatch}
		if cfg.Store.Driver == config.StoreDriverMemory {
			job.logger().Warn("In-memory store is empty in a fresh process; set STORE_DRIVER=mysql to reconcile served payments")
		}

		// SIGINT and SIGTERM cancel the batch in flight, not just the schedule.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if !workerMode {
			job.once(ctx)
			return
		}

		interval := cfg.Jobs.ReconcileInterval
		if interval <= 0 {
			job.logger().WithField("interval", interval.String()).Fatal("invalid worker interval")
		}
		job.every(ctx, interval)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
}

// batchJob is a named unit of background work run once or on a ticker.
type batchJob struct {
	name string
	run  func(ctx context.Context) error
}

func (j batchJob) logger() logrus.FieldLogger {
	return logrus.WithField("job", j.name)
}

func (j batchJob) once(ctx context.Context) {
	start := time.Now()
	err := j.run(ctx)

	entry := j.logger().WithField("latency", time.Since(start).String())
	if err != nil {
		entry.WithError(err).Error("job_failed")
		return
	}
	entry.Info("job_completed")
}

// every runs the job immediately and then on each tick until ctx is done.
func (j batchJob) every(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.once(ctx)
	for {
		select {
		case <-ctx.Done():
			j.logger().Info("Worker shutdown requested")
			return
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			continue
		}
		j.once(ctx)
	}
}
