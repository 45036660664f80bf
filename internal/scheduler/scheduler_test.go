package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
)

type blockingSweeper struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
	at      time.Time
}

func (b *blockingSweeper) Sweep(_ context.Context, now time.Time) (*dto.ProcessScheduledContentResponse, error) {
	b.calls.Add(1)
	b.at = now
	if b.release != nil {
		<-b.release
	}
	if b.err != nil {
		return nil, b.err
	}
	return &dto.ProcessScheduledContentResponse{Success: true}, nil
}

type stubCoupons struct {
	service.CouponService
	olderThan time.Duration
}

func (s *stubCoupons) ReconcileProvisional(_ context.Context, olderThan time.Duration) (*dto.ReconcileCouponsResponse, error) {
	s.olderThan = olderThan
	return &dto.ReconcileCouponsResponse{Success: true, Removed: 1}, nil
}

func TestRunSweepUsesClock(t *testing.T) {
	sweeper := &blockingSweeper{}
	s := New(config.GetDefaultConfig(), logger.NewNopLogger(), sweeper, &stubCoupons{})
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.RunSweep()

	assert.Equal(t, int32(1), sweeper.calls.Load())
	assert.True(t, fixed.Equal(sweeper.at))

	sweeper.err = errors.New("boom")
	s.RunSweep()
	assert.Equal(t, int32(2), sweeper.calls.Load())
}

func TestRunReconcileUsesConfiguredAge(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Scheduler.ProvisionalMaxAge = 42 * time.Minute
	coupons := &stubCoupons{}

	New(cfg, logger.NewNopLogger(), &blockingSweeper{}, coupons).RunReconcile()

	assert.Equal(t, 42*time.Minute, coupons.olderThan)
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Scheduler.SweepSchedule = "every now and then"

	err := New(cfg, logger.NewNopLogger(), &blockingSweeper{}, &stubCoupons{}).Register()
	assert.Error(t, err)
}

func TestOverlappingRunsAreSkipped(t *testing.T) {
	sweeper := &blockingSweeper{release: make(chan struct{})}
	s := New(config.GetDefaultConfig(), logger.NewNopLogger(), sweeper, &stubCoupons{})
	require.NoError(t, s.Register())

	entries := s.cron.Entries()
	require.Len(t, entries, 2)
	// entries keep insertion order until the cron is started; the sweep goes first
	job := entries[0].WrappedJob

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		job.Run()
	}()

	require.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	job.Run()
	close(sweeper.release)
	wg.Wait()

	assert.Equal(t, int32(1), sweeper.calls.Load())
}
