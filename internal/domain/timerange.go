package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeRange возвращается, когда начало интервала не раньше конца
var ErrInvalidTimeRange = errors.New("domain: start must be before end")

// TimeRange полуоткрытый интервал времени [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// TimePrecision точность хранения границ слотов (mongo хранит миллисекунды, postgres микросекунды)
const TimePrecision = time.Millisecond

// NewTimeRange создает интервал с проверкой Start < End.
// Границы усекаются до TimePrecision, чтобы интервал совпадал с сохраненным.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	r := TimeRange{Start: start.Truncate(TimePrecision), End: end.Truncate(TimePrecision)}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// Validate проверяет инвариант Start < End
func (r TimeRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() || !r.Start.Before(r.End) {
		return fmt.Errorf("%w: [%s, %s)", ErrInvalidTimeRange,
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}
	return nil
}

// Overlaps проверяет пересечение полуоткрытых интервалов.
// Интервалы, которые только касаются концами, не пересекаются.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Equal сравнивает интервалы по моментам времени (без учета часового пояса)
func (r TimeRange) Equal(other TimeRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// EndsAfter сообщает, что интервал еще не истек к моменту t
func (r TimeRange) EndsAfter(t time.Time) bool {
	return r.End.After(t)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}
