package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

// TrialExpiryJobParams configure the trial expiry sweeper.
type TrialExpiryJobParams struct {
	Logger *logger.Logger
	Stores trialStoreRepo
}

type trialStoreRepo interface {
	ListTrialExpiredBefore(ctx context.Context, cutoff time.Time) ([]models.Store, error)
	MarkTrialExpired(ctx context.Context, storeID uuid.UUID) error
}

// NewTrialExpiryJob builds the job that flags stores whose trial lapsed.
// Expired stores keep their data; the API rejects owner writes until a
// payment or coupon reactivates them.
func NewTrialExpiryJob(params TrialExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &trialExpiryJob{
		logg:   params.Logger,
		stores: params.Stores,
		now:    time.Now,
	}, nil
}

type trialExpiryJob struct {
	logg   *logger.Logger
	stores trialStoreRepo
	now    func() time.Time
}

func (j *trialExpiryJob) Name() string { return "trial-expiry" }

func (j *trialExpiryJob) Run(ctx context.Context) error {
	lapsed, err := j.stores.ListTrialExpiredBefore(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("query lapsed trials: %w", err)
	}

	var errs []error
	count := 0
	for _, store := range lapsed {
		if err := j.stores.MarkTrialExpired(ctx, store.ID); err != nil {
			errs = append(errs, fmt.Errorf("expire store %s: %w", store.ID, err))
			continue
		}
		count++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "trial expiry sweep complete")
	return multierr.Combine(errs...)
}
