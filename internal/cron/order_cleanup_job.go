package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

// Archived orders stay queryable for this long before the sweeper drops them.
const archivedOrderRetentionDays = 90

// OrderCleanupJobParams configure the archived order sweeper.
type OrderCleanupJobParams struct {
	Logger *logger.Logger
	Orders archivedOrderDeleter
}

type archivedOrderDeleter interface {
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewOrderCleanupJob builds the job that hard-deletes long-archived orders.
func NewOrderCleanupJob(params OrderCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &orderCleanupJob{
		logg:   params.Logger,
		orders: params.Orders,
		now:    time.Now,
	}, nil
}

type orderCleanupJob struct {
	logg   *logger.Logger
	orders archivedOrderDeleter
	now    func() time.Time
}

func (j *orderCleanupJob) Name() string { return "order-cleanup" }

func (j *orderCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-archivedOrderRetentionDays * 24 * time.Hour)
	deleted, err := j.orders.DeleteArchivedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete archived orders: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"count": deleted})
	j.logg.Info(logCtx, "archived order cleanup complete")
	return nil
}
