package reservation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Config параметры движка бронирования
type Config struct {
	Mode     domain.SlotMode
	Grid     domain.GridTemplate // используется только в режиме fixed_grid
	Location *time.Location      // часовой пояс сетки и границы суток
}

// SlotSelector способ указать освобождаемый слот: по ID или по точному интервалу
type SlotSelector struct {
	SlotID string
	Range  *domain.TimeRange
}

// Engine правила бронирования слотов.
// Не хранит состояния: работает с одной загруженной станцией, мутирует её в памяти,
// сохранение - ответственность вызывающего.
type Engine struct {
	mode domain.SlotMode
	grid domain.GridTemplate
	loc  *time.Location
	ids  IDGenerator
}

// NewEngine создает движок и проверяет конфигурацию
func NewEngine(cfg Config, ids IDGenerator) (*Engine, error) {
	if _, err := domain.ParseSlotMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.Mode == domain.SlotModeFixedGrid {
		if err := cfg.Grid.Validate(); err != nil {
			return nil, err
		}
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}

	return &Engine{mode: cfg.Mode, grid: cfg.Grid, loc: loc, ids: ids}, nil
}

func (e *Engine) Mode() domain.SlotMode {
	return e.mode
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// DayOf начало суток, в которые попадает t, в часовом поясе движка
func (e *Engine) DayOf(t time.Time) time.Time {
	y, m, d := t.In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.loc)
}

// LabelRange переводит метку "HH:MM-HH:MM" в интервал на дату day
func (e *Engine) LabelRange(label string, day time.Time) (domain.TimeRange, error) {
	r, err := domain.ParseLabel(label, e.DayOf(day))
	if err != nil {
		return domain.TimeRange{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return r, nil
}

// Book бронирует интервал r на точке pointNumber для userID.
// Конфликтом считается любое пересечение с занятым слотом, стык концов допустим.
func (e *Engine) Book(station *domain.Station, pointNumber int, r domain.TimeRange, userID string, now time.Time) (domain.Slot, error) {
	if err := r.Validate(); err != nil {
		return domain.Slot{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	if r.Start.Before(now) {
		return domain.Slot{}, fmt.Errorf("%w: start %s is in the past", ErrInvalidRange, r.Start.Format(time.RFC3339))
	}
	if strings.TrimSpace(userID) == "" {
		return domain.Slot{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	point := station.Point(pointNumber)
	if point == nil {
		return domain.Slot{}, fmt.Errorf("%w: station=%s point=%d", ErrPointNotFound, station.ID, pointNumber)
	}

	// в сетке интервал сначала проверяется на совпадение со слотом, потом на занятость
	if e.mode == domain.SlotModeFixedGrid {
		slot, _ := point.SlotByRange(r)
		if slot == nil {
			return domain.Slot{}, fmt.Errorf("%w: %s is not a slot of the daily grid", ErrInvalidRange, r)
		}
		if slot.Booked {
			return domain.Slot{}, fmt.Errorf("%w: %s is already booked as slot %s", ErrSlotConflict, r, slot.ID)
		}
		slot.Book(userID)
		return slot.Clone(), nil
	}

	if taken := point.FirstBookedOverlap(r); taken != nil {
		return domain.Slot{}, fmt.Errorf("%w: %s overlaps booked slot %s %s",
			ErrSlotConflict, r, taken.ID, taken.Range)
	}

	slot := domain.Slot{
		ID:        e.ids.NewID(),
		Range:     r,
		CreatedAt: now,
	}
	slot.Book(userID)
	point.InsertSlot(slot)

	return slot.Clone(), nil
}

// Release освобождает занятый слот. Права не проверяются, releasedBy пишется в аудит.
// В режиме fixed_grid слот остается свободным в сетке, в режиме free_form удаляется.
func (e *Engine) Release(station *domain.Station, pointNumber int, sel SlotSelector, releasedBy string, now time.Time) (*domain.Release, error) {
	if strings.TrimSpace(releasedBy) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if sel.SlotID == "" && sel.Range == nil {
		return nil, fmt.Errorf("%w: slot id or time range is required", ErrInvalidInput)
	}

	point := station.Point(pointNumber)
	if point == nil {
		return nil, fmt.Errorf("%w: station=%s point=%d", ErrPointNotFound, station.ID, pointNumber)
	}

	idx := -1
	if sel.SlotID != "" {
		_, idx = point.SlotByID(sel.SlotID)
	} else {
		for i := range point.Slots {
			if point.Slots[i].Booked && point.Slots[i].Range.Equal(*sel.Range) {
				idx = i
				break
			}
		}
	}
	if idx < 0 || !point.Slots[idx].Booked {
		return nil, fmt.Errorf("%w: station=%s point=%d", ErrSlotNotFound, station.ID, pointNumber)
	}

	slot := point.Slots[idx].Clone()
	release := &domain.Release{
		StationID:   station.ID,
		PointNumber: pointNumber,
		SlotID:      slot.ID,
		Range:       slot.Range,
		BookedBy:    slot.BookedBy,
		ReleasedBy:  releasedBy,
		ReleasedAt:  now,
		Policy:      e.mode.ReleasePolicy(),
	}

	switch release.Policy {
	case domain.ReleasePolicyMarkFree:
		point.Slots[idx].Free(releasedBy, now)
	case domain.ReleasePolicyDelete:
		point.RemoveSlot(idx)
	}

	return release, nil
}

// ListAvailability слоты точки, которые еще не закончились к asOf, по возрастанию начала
func (e *Engine) ListAvailability(station *domain.Station, pointNumber int, asOf time.Time) ([]domain.Slot, error) {
	point := station.Point(pointNumber)
	if point == nil {
		return nil, fmt.Errorf("%w: station=%s point=%d", ErrPointNotFound, station.ID, pointNumber)
	}

	result := make([]domain.Slot, 0, len(point.Slots))
	for _, s := range point.Slots {
		if s.Range.EndsAfter(asOf) {
			result = append(result, s.Clone())
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Range.Start.Before(result[j].Range.Start)
	})

	return result, nil
}

// ResetResult итог сброса одной станции
type ResetResult struct {
	DroppedBookings int
	Slots           int
}

// Reset приводит слоты станции к начальному состоянию суток day:
// fixed_grid - свежая сетка без броней, free_form - пустой список.
// Повторный вызов на тот же день дает то же состояние.
func (e *Engine) Reset(station *domain.Station, day time.Time) (ResetResult, error) {
	var result ResetResult
	dayStart := e.DayOf(day)

	for i := range station.ChargingPoints {
		point := &station.ChargingPoints[i]
		for _, s := range point.Slots {
			if s.Booked {
				result.DroppedBookings++
			}
		}

		slots, err := e.initialSlots(station.ID, point.PointNumber, dayStart)
		if err != nil {
			return ResetResult{}, err
		}
		point.Slots = slots
		result.Slots += len(slots)
	}

	return result, nil
}

// InitializePoints заполняет слоты новой станции согласно режиму
func (e *Engine) InitializePoints(station *domain.Station, day time.Time) error {
	dayStart := e.DayOf(day)
	for i := range station.ChargingPoints {
		slots, err := e.initialSlots(station.ID, station.ChargingPoints[i].PointNumber, dayStart)
		if err != nil {
			return err
		}
		station.ChargingPoints[i].Slots = slots
	}
	return nil
}

func (e *Engine) initialSlots(stationID string, pointNumber int, dayStart time.Time) ([]domain.Slot, error) {
	if e.mode != domain.SlotModeFixedGrid {
		return []domain.Slot{}, nil
	}

	ranges, err := e.grid.Ranges(dayStart)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.Slot, len(ranges))
	for i, r := range ranges {
		slots[i] = domain.Slot{
			ID:        e.ids.GridSlotID(stationID, pointNumber, r.Start),
			Range:     r,
			CreatedAt: dayStart,
		}
	}
	return slots, nil
}
