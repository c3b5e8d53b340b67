// Package scheduler drives the periodic collection passes: the daily
// pending->overdue sweep followed by the collection batch.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/vallegroup/valle360/internal/clock"
	collectiondomain "github.com/vallegroup/valle360/internal/collection/domain"
	"github.com/vallegroup/valle360/internal/config"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
	obsmetrics "github.com/vallegroup/valle360/internal/observability/metrics"
	"github.com/vallegroup/valle360/internal/runlock"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

const (
	jobOverdueSweep = "overdue_sweep"
	jobCollection   = "collection"

	jobTimeout = 5 * time.Minute
	lockTTL    = 10 * time.Minute
)

type Params struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	Config        config.Config
	InvoiceSvc    invoicedomain.Service
	CollectionSvc collectiondomain.Service
	Locker        *runlock.Locker `optional:"true"`
}

type Scheduler struct {
	log           *zap.Logger
	clock         clock.Clock
	cfg           config.SchedulerConfig
	invoiceSvc    invoicedomain.Service
	collectionSvc collectiondomain.Service
	locker        *runlock.Locker
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.InvoiceSvc == nil || p.CollectionSvc == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config.Scheduler
	if cfg.RunInterval <= 0 {
		cfg.RunInterval = time.Hour
	}
	return &Scheduler{
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		clock:         p.Clock,
		cfg:           cfg,
		invoiceSvc:    p.InvoiceSvc,
		collectionSvc: p.CollectionSvc,
		locker:        p.Locker,
	}, nil
}

// runJob wraps one job with a deadline, metrics and the cross-replica
// run lock. A lost lock means another replica holds the pass; that is
// a skip, not a failure.
func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	if s.locker != nil {
		key := "valle360:job:" + name
		token, ok, err := s.locker.TryLock(ctx, key, lockTTL)
		if err != nil {
			log.Warn("run lock unavailable, proceeding without it", zap.Error(err))
		} else if !ok {
			log.Info("job already running elsewhere, skipping")
			return nil
		} else {
			defer func() {
				if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
					log.Warn("failed to release run lock", zap.Error(err))
				}
			}()
		}
	}

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		schedMetrics.IncJobTimeout(name)
	}
	schedMetrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out",
			zap.Duration("timeout", jobTimeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes one full pass: sweep first so freshly overdue
// invoices are picked up by the collection batch of the same tick.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	err = errors.Join(err, s.runJob(parent, jobOverdueSweep, func(ctx context.Context) error {
		swept, sweepErr := s.invoiceSvc.SweepOverdue(ctx)
		if sweepErr != nil {
			return sweepErr
		}
		obsmetrics.Scheduler().AddOverdueSwept(swept)
		if swept > 0 {
			s.log.Info("invoices moved to overdue", zap.Int64("count", swept))
		}
		return nil
	}))

	err = errors.Join(err, s.runJob(parent, jobCollection, func(ctx context.Context) error {
		_, runErr := s.collectionSvc.ProcessOverdueInvoices(ctx)
		return runErr
	}))

	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
