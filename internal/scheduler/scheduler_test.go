package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/usecase/reset_slots"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type countingReset struct {
	calls int32
}

func (r *countingReset) Execute(context.Context, *reset_slots.Request) (*reset_slots.Report, error) {
	atomic.AddInt32(&r.calls, 1)
	return &reset_slots.Report{}, nil
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("every midnight", time.UTC, &countingReset{}, 0, nopLogger{})
	assert.Error(t, err)
}

func TestScheduler_NextRunAtMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	s, err := New("0 0 * * *", loc, &countingReset{}, 0, nopLogger{})
	require.NoError(t, err)

	s.Start()
	defer func() { _ = s.Stop(context.Background()) }()

	next := s.Next().In(loc)
	assert.Zero(t, next.Hour())
	assert.Zero(t, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestScheduler_RunsReset(t *testing.T) {
	reset := &countingReset{}
	s, err := New("@every 1s", time.UTC, reset, time.Second, nopLogger{})
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&reset.calls) > 0
	}, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
