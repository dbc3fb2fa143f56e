package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ChargingService/pkg/types"
)

// ErrInvalidLabel возвращается при некорректной метке слота ("09:00-09:30")
var ErrInvalidLabel = errors.New("domain: invalid slot label")

// GridTemplate фиксированная дневная сетка слотов одинаковой длительности
type GridTemplate struct {
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int
}

// Validate проверяет параметры сетки
func (g GridTemplate) Validate() error {
	if err := g.OpenTime.Validate(); err != nil {
		return fmt.Errorf("grid open time: %w", err)
	}
	if err := g.CloseTime.Validate(); err != nil {
		return fmt.Errorf("grid close time: %w", err)
	}
	if !g.OpenTime.IsBefore(g.CloseTime) {
		return fmt.Errorf("grid open time %s must be before close time %s", g.OpenTime, g.CloseTime)
	}
	if g.SlotDurationMinutes < MinSlotDurationMinutes || g.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("grid slot duration must be in [%d, %d] minutes, got %d",
			MinSlotDurationMinutes, MaxSlotDurationMinutes, g.SlotDurationMinutes)
	}
	return nil
}

// Ranges генерирует интервалы сетки на день day (часовой пояс берется из day).
// Слот попадает в сетку, только если целиком помещается до времени закрытия.
func (g GridTemplate) Ranges(day time.Time) ([]TimeRange, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	ranges := make([]TimeRange, 0)
	current := g.OpenTime

	for current.IsBefore(g.CloseTime) {
		next, err := current.AddMinutes(g.SlotDurationMinutes)
		if err != nil {
			// Следующий слот выходит за сутки
			break
		}
		if next.IsAfter(g.CloseTime) {
			break
		}

		start, err := current.On(day)
		if err != nil {
			return nil, err
		}
		end, err := next.On(day)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, TimeRange{Start: start, End: end})
		current = next
	}

	return ranges, nil
}

// Label метка слота сетки в формате "HH:MM-HH:MM" в часовом поясе loc.
// Слот, заканчивающийся в полночь, получает правую границу "24:00".
func Label(r TimeRange, loc *time.Location) string {
	end := types.NewTimeString(r.End.In(loc))
	if end == "00:00" {
		end = types.EndOfDay
	}
	return fmt.Sprintf("%s-%s", types.NewTimeString(r.Start.In(loc)), end)
}

// ParseLabel разбирает метку слота. Поддерживаются "09:00-09:30"
// и 12-часовой формат "9:00 AM - 9:30 AM".
func ParseLabel(label string, day time.Time) (TimeRange, error) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	from, err := types.NewTimeStringFromString(parts[0])
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidLabel, label, err)
	}
	if from == types.EndOfDay {
		return TimeRange{}, fmt.Errorf("%w: %q: slot cannot start at %s", ErrInvalidLabel, label, from)
	}
	to, err := types.NewTimeStringFromString(parts[1])
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidLabel, label, err)
	}

	start, err := from.On(day)
	if err != nil {
		return TimeRange{}, err
	}
	end, err := to.On(day)
	if err != nil {
		return TimeRange{}, err
	}

	r := TimeRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}
