package optimistic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	stationRepo "github.com/m04kA/SMC-ChargingService/internal/infra/storage/station"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type countingMetrics struct {
	conflicts int
}

func (m *countingMetrics) VersionConflict(string) { m.conflicts++ }

// flakyRepo отдает конфликт версий первые conflicts сохранений
type flakyRepo struct {
	*stationRepo.MemoryRepository
	conflicts int
	saves     int
	saveDelay time.Duration
}

func (r *flakyRepo) Save(ctx context.Context, st *domain.Station) error {
	r.saves++
	if r.saveDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.saveDelay):
		}
	}
	if r.conflicts > 0 {
		r.conflicts--
		return stationRepo.ErrVersionConflict
	}
	return r.MemoryRepository.Save(ctx, st)
}

func newRepo(t *testing.T) *flakyRepo {
	t.Helper()
	mem := stationRepo.NewMemoryRepository()
	require.NoError(t, mem.Create(context.Background(), &domain.Station{
		ID:             "st-1",
		Name:           "Central",
		Address:        "Main st. 1",
		ChargingPoints: []domain.ChargingPoint{{PointNumber: 1, ConnectorType: domain.ConnectorType2}},
	}))
	return &flakyRepo{MemoryRepository: mem}
}

func rename(name string) func(st *domain.Station) error {
	return func(st *domain.Station) error {
		st.Name = name
		return nil
	}
}

func TestRunner_RetriesVersionConflict(t *testing.T) {
	repo := newRepo(t)
	repo.conflicts = 2
	m := &countingMetrics{}
	r := NewRunner(repo, Config{MaxAttempts: 3}, m, nopLogger{})

	st, err := r.Mutate(context.Background(), "book", "st-1", rename("North"))
	require.NoError(t, err)
	assert.Equal(t, "North", st.Name)
	assert.Equal(t, int64(2), st.Version)
	assert.Equal(t, 3, repo.saves)
	assert.Equal(t, 2, m.conflicts)
}

func TestRunner_BusyAfterMaxAttempts(t *testing.T) {
	repo := newRepo(t)
	repo.conflicts = 10
	m := &countingMetrics{}
	r := NewRunner(repo, Config{MaxAttempts: 3}, m, nopLogger{})

	_, err := r.Mutate(context.Background(), "book", "st-1", rename("North"))
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 3, repo.saves)
	assert.Equal(t, 3, m.conflicts)

	stored, err := repo.GetByID(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, "Central", stored.Name)
}

func TestRunner_MutationErrorIsNotRetried(t *testing.T) {
	repo := newRepo(t)
	r := NewRunner(repo, Config{}, &countingMetrics{}, nopLogger{})
	boom := errors.New("boom")

	_, err := r.Mutate(context.Background(), "book", "st-1", func(*domain.Station) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, repo.saves)
}

func TestRunner_StationNotFound(t *testing.T) {
	r := NewRunner(newRepo(t), Config{}, &countingMetrics{}, nopLogger{})

	_, err := r.Mutate(context.Background(), "book", "missing", rename("x"))
	assert.ErrorIs(t, err, ErrStationNotFound)

	_, err = r.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestRunner_StorageTimeout(t *testing.T) {
	repo := newRepo(t)
	repo.saveDelay = time.Second
	r := NewRunner(repo, Config{StorageTimeout: 20 * time.Millisecond}, &countingMetrics{}, nopLogger{})

	_, err := r.Mutate(context.Background(), "book", "st-1", rename("North"))
	assert.ErrorIs(t, err, ErrStorageTimeout)

	stored, err := repo.GetByID(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
}
