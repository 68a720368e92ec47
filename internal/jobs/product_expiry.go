// File: internal/jobs/product_expiry.go
package jobs

import (
	"context"
	"time"

	"charity_marketplace_backend/internal/config"
	"charity_marketplace_backend/internal/platform/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const runTimeout = 5 * time.Minute

// ProductExpirer is the part of the product service the job drives.
type ProductExpirer interface {
	ExpireProducts(ctx context.Context) (int, error)
}

// ProductExpiryJob periodically moves products past their lifespan to expired.
type ProductExpiryJob struct {
	expirer       ProductExpirer
	metrics       *metrics.Metrics
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewProductExpiryJob creates a new ProductExpiryJob.
func NewProductExpiryJob(
	expirer ProductExpirer,
	m *metrics.Metrics,
	logger *zap.Logger,
	cfg *config.Config,
) *ProductExpiryJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	return &ProductExpiryJob{
		expirer:       expirer,
		metrics:       m,
		logger:        logger.Named("ProductExpiryJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job. An empty schedule disables it.
func (j *ProductExpiryJob) SetupAndStart() error {
	jobSpec := j.cfg.ProductExpiryJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Product expiry job schedule not defined (PRODUCT_EXPIRY_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule product expiry job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Product expiry job scheduled", zap.String("spec", jobSpec), zap.Int("jobID", int(jobID)))
	j.cronScheduler.Start()
	return nil
}

// RunOnce performs a single expiry pass and returns the number of products expired.
func (j *ProductExpiryJob) RunOnce(ctx context.Context) (int, error) {
	expiredCount, err := j.expirer.ExpireProducts(ctx)
	if err != nil {
		return 0, err
	}
	j.metrics.ProductsExpired(expiredCount)
	return expiredCount, nil
}

func (j *ProductExpiryJob) runJob() {
	j.logger.Info("Starting product expiry job run...")
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	expiredCount, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error("Product expiry job run failed", zap.Error(err))
		return
	}
	j.logger.Info("Product expiry job run completed", zap.Int("productsExpired", expiredCount))
}

// Stop stops the scheduler and waits up to timeout for a running pass to finish.
func (j *ProductExpiryJob) Stop(timeout time.Duration) {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping product expiry job scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Product expiry job scheduler stopped gracefully.")
	case <-time.After(timeout):
		j.logger.Warn("Product expiry job scheduler stop timed out.")
	}
}
