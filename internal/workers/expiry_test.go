package workers

import (
	"errors"
	"testing"
	"time"

	"replate-backend/internal/models"
	"replate-backend/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var now = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

func TestSweep(t *testing.T) {
	fs := testutil.NewFakeStore()
	stale := uuid.New()
	fs.FoodItems = []models.FoodItem{
		{ID: stale, Status: models.FoodFlashSale, ExpiryTime: now.Add(-time.Minute)},
		{ID: uuid.New(), Status: models.FoodAvailable, ExpiryTime: now},
		{ID: uuid.New(), Status: models.FoodAvailable, ExpiryTime: now.Add(time.Hour)},
		{ID: uuid.New(), Status: models.FoodDonated, ExpiryTime: now.Add(-time.Hour)},
	}
	fs.FlashSales = []models.FlashSale{{ID: uuid.New(), FoodItemID: stale, IsActive: true, EndTime: now.Add(time.Hour)}}

	core, logs := observer.New(zapcore.InfoLevel)
	w := NewExpirySweeper(fs, zap.New(core), time.Minute)
	w.now = func() time.Time { return now }

	if n := w.Sweep(); n != 2 {
		t.Fatalf("expired %d, want 2", n)
	}
	want := []models.FoodStatus{models.FoodExpired, models.FoodExpired, models.FoodAvailable, models.FoodDonated}
	for i, s := range want {
		if fs.FoodItems[i].Status != s {
			t.Errorf("item %d status = %s, want %s", i, fs.FoodItems[i].Status, s)
		}
	}
	if fs.FlashSales[0].IsActive {
		t.Error("flash sale on expired item still active")
	}
	if logs.FilterMessage("expired food items").Len() != 1 {
		t.Error("expected one count log line")
	}

	if n := w.Sweep(); n != 0 {
		t.Errorf("second sweep expired %d, want 0", n)
	}
}

func TestSweepLogsStoreError(t *testing.T) {
	fs := testutil.NewFakeStore()
	fs.Errs["ExpireFoodItems"] = errors.New("deadlock detected")

	core, logs := observer.New(zapcore.ErrorLevel)
	w := NewExpirySweeper(fs, zap.New(core), time.Minute)

	if n := w.Sweep(); n != 0 {
		t.Errorf("Sweep = %d, want 0", n)
	}
	if logs.Len() != 1 {
		t.Errorf("error logs = %d, want 1", logs.Len())
	}
}

func TestStartSweepsImmediatelyAndStops(t *testing.T) {
	fs := testutil.NewFakeStore()
	w := NewExpirySweeper(fs, zap.NewNop(), time.Hour)

	w.Start()
	deadline := time.Now().Add(2 * time.Second)
	for fs.CallCount("ExpireFoodItems") == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	if fs.CallCount("ExpireFoodItems") != 1 {
		t.Errorf("ExpireFoodItems called %d times, want 1", fs.CallCount("ExpireFoodItems"))
	}
}
