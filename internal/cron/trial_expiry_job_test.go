package cron

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

type fakeTrialStores struct {
	lapsed  []models.Store
	marked  []uuid.UUID
	markErr map[uuid.UUID]error
}

func (f *fakeTrialStores) ListTrialExpiredBefore(ctx context.Context, cutoff time.Time) ([]models.Store, error) {
	return f.lapsed, nil
}

func (f *fakeTrialStores) MarkTrialExpired(ctx context.Context, storeID uuid.UUID) error {
	if err := f.markErr[storeID]; err != nil {
		return err
	}
	f.marked = append(f.marked, storeID)
	return nil
}

func cronTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestTrialExpiryJob_marksLapsedStores(t *testing.T) {
	stores := &fakeTrialStores{lapsed: []models.Store{
		{ID: uuid.New()},
		{ID: uuid.New()},
	}}
	job, err := NewTrialExpiryJob(TrialExpiryJobParams{Logger: cronTestLogger(), Stores: stores})
	if err != nil {
		t.Fatalf("NewTrialExpiryJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(stores.marked) != 2 {
		t.Fatalf("expected 2 stores expired, got %d", len(stores.marked))
	}
}

func TestTrialExpiryJob_continuesPastFailures(t *testing.T) {
	broken := uuid.New()
	healthy := uuid.New()
	stores := &fakeTrialStores{
		lapsed:  []models.Store{{ID: broken}, {ID: healthy}},
		markErr: map[uuid.UUID]error{broken: fmt.Errorf("db down")},
	}
	job, _ := NewTrialExpiryJob(TrialExpiryJobParams{Logger: cronTestLogger(), Stores: stores})

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected combined error")
	}
	if len(stores.marked) != 1 || stores.marked[0] != healthy {
		t.Fatalf("healthy store must still be expired, got %v", stores.marked)
	}
}

type fakeArchivedOrders struct {
	cutoff  time.Time
	deleted int64
}

func (f *fakeArchivedOrders) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, nil
}

func TestOrderCleanupJob_usesRetentionCutoff(t *testing.T) {
	orders := &fakeArchivedOrders{deleted: 3}
	job, err := NewOrderCleanupJob(OrderCleanupJobParams{Logger: cronTestLogger(), Orders: orders})
	if err != nil {
		t.Fatalf("NewOrderCleanupJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantFloor := time.Now().UTC().Add(-(archivedOrderRetentionDays + 1) * 24 * time.Hour)
	wantCeil := time.Now().UTC().Add(-(archivedOrderRetentionDays - 1) * 24 * time.Hour)
	if orders.cutoff.Before(wantFloor) || orders.cutoff.After(wantCeil) {
		t.Fatalf("cutoff %s outside retention window", orders.cutoff)
	}
}
