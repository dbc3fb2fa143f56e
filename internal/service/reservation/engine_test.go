package reservation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

type seqIDs struct {
	n int
}

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("slot-%d", g.n)
}

func (g *seqIDs) GridSlotID(stationID string, pointNumber int, start time.Time) string {
	return UUIDGenerator{}.GridSlotID(stationID, pointNumber, start)
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 16, hour, minute, 0, 0, time.UTC)
}

func rng(h1, m1, h2, m2 int) domain.TimeRange {
	return domain.TimeRange{Start: at(h1, m1), End: at(h2, m2)}
}

func newStation() *domain.Station {
	return &domain.Station{
		ID:      "st-1",
		Name:    "Central",
		Address: "Main st. 1",
		ChargingPoints: []domain.ChargingPoint{
			{PointNumber: 1, ConnectorType: domain.ConnectorType2},
			{PointNumber: 2, ConnectorType: domain.ConnectorType1},
		},
	}
}

func freeFormEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Config{Mode: domain.SlotModeFreeForm, Location: time.UTC}, &seqIDs{})
	require.NoError(t, err)
	return e
}

func gridEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Config{
		Mode: domain.SlotModeFixedGrid,
		Grid: domain.GridTemplate{
			OpenTime:            "09:00",
			CloseTime:           "12:00",
			SlotDurationMinutes: 30,
		},
		Location: time.UTC,
	}, &seqIDs{})
	require.NoError(t, err)
	return e
}

func TestNewEngine_RejectsBadConfig(t *testing.T) {
	_, err := NewEngine(Config{Mode: "weekly"}, nil)
	assert.Error(t, err)

	_, err = NewEngine(Config{
		Mode: domain.SlotModeFixedGrid,
		Grid: domain.GridTemplate{OpenTime: "12:00", CloseTime: "09:00", SlotDurationMinutes: 30},
	}, nil)
	assert.Error(t, err)
}

// Сценарий: бронь, пересечение, стык, повторное освобождение
func TestEngine_FreeFormScenario(t *testing.T) {
	e := freeFormEngine(t)
	st := newStation()
	now := at(8, 0)

	a, err := e.Book(st, 1, rng(10, 0, 10, 30), "userA", now)
	require.NoError(t, err)
	assert.True(t, a.IsBookedBy("userA"))

	_, err = e.Book(st, 1, rng(10, 15, 10, 45), "userB", now)
	assert.ErrorIs(t, err, ErrSlotConflict)

	b, err := e.Book(st, 1, rng(10, 30, 11, 0), "userB", now)
	require.NoError(t, err)
	assert.True(t, b.IsBookedBy("userB"))

	rel, err := e.Release(st, 1, SlotSelector{SlotID: a.ID}, "userA", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ReleasePolicyDelete, rel.Policy)
	require.NotNil(t, rel.BookedBy)
	assert.Equal(t, "userA", *rel.BookedBy)

	_, err = e.Release(st, 1, SlotSelector{SlotID: a.ID}, "userA", now)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	// после освобождения интервал снова доступен
	_, err = e.Book(st, 1, rng(10, 15, 10, 30), "userC", now)
	require.NoError(t, err)

	slots, err := e.ListAvailability(st, 1, now)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Range.Start.Before(slots[1].Range.Start))
}

func TestEngine_BookValidation(t *testing.T) {
	e := freeFormEngine(t)
	now := at(10, 0)

	tests := []struct {
		name    string
		point   int
		r       domain.TimeRange
		user    string
		wantErr error
	}{
		{name: "empty range", point: 1, r: rng(11, 0, 11, 0), user: "u", wantErr: ErrInvalidRange},
		{name: "reversed range", point: 1, r: rng(12, 0, 11, 0), user: "u", wantErr: ErrInvalidRange},
		{name: "start in the past", point: 1, r: rng(9, 30, 10, 30), user: "u", wantErr: ErrInvalidRange},
		{name: "blank user", point: 1, r: rng(11, 0, 11, 30), user: "  ", wantErr: ErrInvalidInput},
		{name: "unknown point", point: 7, r: rng(11, 0, 11, 30), user: "u", wantErr: ErrPointNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newStation()
			_, err := e.Book(st, tt.point, tt.r, tt.user, now)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, st.SlotCount())
		})
	}
}

func TestEngine_BookStartingNowIsAllowed(t *testing.T) {
	e := freeFormEngine(t)
	st := newStation()

	_, err := e.Book(st, 1, rng(10, 0, 10, 30), "u", at(10, 0))
	assert.NoError(t, err)
}

func TestEngine_PointsAreIndependent(t *testing.T) {
	e := freeFormEngine(t)
	st := newStation()
	now := at(8, 0)

	_, err := e.Book(st, 1, rng(10, 0, 11, 0), "u1", now)
	require.NoError(t, err)
	_, err = e.Book(st, 2, rng(10, 0, 11, 0), "u2", now)
	assert.NoError(t, err)
}

func TestEngine_ReleaseByRange(t *testing.T) {
	e := freeFormEngine(t)
	st := newStation()
	now := at(8, 0)

	_, err := e.Book(st, 1, rng(10, 0, 10, 30), "u", now)
	require.NoError(t, err)

	wrong := rng(10, 0, 10, 45)
	_, err = e.Release(st, 1, SlotSelector{Range: &wrong}, "u", now)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	exact := rng(10, 0, 10, 30)
	_, err = e.Release(st, 1, SlotSelector{Range: &exact}, "admin", now)
	require.NoError(t, err)
	assert.Zero(t, st.SlotCount())
}

func TestEngine_ReleaseValidation(t *testing.T) {
	e := freeFormEngine(t)
	st := newStation()

	_, err := e.Release(st, 1, SlotSelector{}, "u", at(8, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.Release(st, 1, SlotSelector{SlotID: "x"}, "", at(8, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.Release(st, 9, SlotSelector{SlotID: "x"}, "u", at(8, 0))
	assert.ErrorIs(t, err, ErrPointNotFound)
}

func TestEngine_ListAvailabilitySkipsElapsed(t *testing.T) {
	e := freeFormEngine(t)
	st := newStation()

	_, err := e.Book(st, 1, rng(11, 0, 11, 30), "u", at(8, 0))
	require.NoError(t, err)
	_, err = e.Book(st, 1, rng(9, 0, 9, 30), "u", at(8, 0))
	require.NoError(t, err)

	slots, err := e.ListAvailability(st, 1, at(9, 30))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(11, 0), slots[0].Range.Start)

	_, err = e.ListAvailability(st, 3, at(9, 30))
	assert.ErrorIs(t, err, ErrPointNotFound)
}

func TestEngine_FixedGridBooking(t *testing.T) {
	e := gridEngine(t)
	st := newStation()
	require.NoError(t, e.InitializePoints(st, at(0, 0)))
	require.Len(t, st.ChargingPoints[0].Slots, 6)

	now := at(8, 0)

	slot, err := e.Book(st, 1, rng(9, 30, 10, 0), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, e.ids.GridSlotID(st.ID, 1, at(9, 30)), slot.ID)

	_, err = e.Book(st, 1, rng(9, 30, 10, 0), "u2", now)
	assert.ErrorIs(t, err, ErrSlotConflict)

	_, err = e.Book(st, 1, rng(10, 10, 10, 40), "u2", now)
	assert.ErrorIs(t, err, ErrInvalidRange)

	rel, err := e.Release(st, 1, SlotSelector{SlotID: slot.ID}, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ReleasePolicyMarkFree, rel.Policy)

	// слот остается в сетке свободным, с аудитом освобождения
	retained, _ := st.ChargingPoints[0].SlotByID(slot.ID)
	require.NotNil(t, retained)
	assert.False(t, retained.Booked)
	assert.Nil(t, retained.BookedBy)
	require.NotNil(t, retained.ReleasedBy)
	assert.Equal(t, "u1", *retained.ReleasedBy)
	assert.Len(t, st.ChargingPoints[0].Slots, 6)

	_, err = e.Release(st, 1, SlotSelector{SlotID: slot.ID}, "u1", now)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

// Интервал вне сетки - ошибка диапазона, даже если он задевает занятый слот
func TestEngine_FixedGridOffGridOverlapIsInvalidRange(t *testing.T) {
	e := gridEngine(t)
	st := newStation()
	require.NoError(t, e.InitializePoints(st, at(0, 0)))
	now := at(8, 0)

	_, err := e.Book(st, 1, rng(9, 0, 9, 30), "u1", now)
	require.NoError(t, err)

	_, err = e.Book(st, 1, rng(9, 10, 9, 40), "u2", now)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.NotErrorIs(t, err, ErrSlotConflict)

	_, err = e.Book(st, 1, rng(9, 0, 10, 0), "u2", now)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = e.Book(st, 1, rng(9, 0, 9, 30), "u2", now)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestEngine_LabelRange(t *testing.T) {
	e := gridEngine(t)

	r, err := e.LabelRange("9:00 AM - 9:30 AM", at(15, 0))
	require.NoError(t, err)
	assert.True(t, r.Equal(rng(9, 0, 9, 30)))

	_, err = e.LabelRange("nine to ten", at(15, 0))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestEngine_ResetIsIdempotent(t *testing.T) {
	e := gridEngine(t)
	st := newStation()
	day := at(0, 0)
	require.NoError(t, e.InitializePoints(st, day))

	_, err := e.Book(st, 1, rng(10, 0, 10, 30), "u", at(8, 0))
	require.NoError(t, err)

	res, err := e.Reset(st, day)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DroppedBookings)
	assert.Equal(t, 12, res.Slots)
	first := st.Clone()

	_, err = e.Reset(st, day)
	require.NoError(t, err)
	assert.Equal(t, first, st)

	for _, p := range st.ChargingPoints {
		for _, s := range p.Slots {
			assert.False(t, s.Booked)
		}
	}
}

func TestEngine_ResetFreeFormClearsPoints(t *testing.T) {
	e := freeFormEngine(t)
	st := newStation()

	_, err := e.Book(st, 2, rng(10, 0, 10, 30), "u", at(8, 0))
	require.NoError(t, err)

	res, err := e.Reset(st, at(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, res.DroppedBookings)
	assert.Zero(t, st.SlotCount())
}

func TestEngine_DayOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	e, err := NewEngine(Config{Mode: domain.SlotModeFreeForm, Location: loc}, nil)
	require.NoError(t, err)

	day := e.DayOf(time.Date(2026, 10, 16, 22, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, loc), day)
}
