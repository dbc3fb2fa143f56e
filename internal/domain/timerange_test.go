package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 16, hour, minute, 0, 0, time.UTC)
}

func TestNewTimeRange(t *testing.T) {
	r, err := NewTimeRange(at(10, 0), at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, r.Duration())

	_, err = NewTimeRange(at(10, 30), at(10, 30))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = NewTimeRange(at(11, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = NewTimeRange(time.Time{}, at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestNewTimeRange_TruncatesToStoragePrecision(t *testing.T) {
	r, err := NewTimeRange(at(10, 0).Add(1500*time.Microsecond), at(10, 30).Add(999*time.Nanosecond))
	require.NoError(t, err)
	assert.Equal(t, at(10, 0).Add(time.Millisecond), r.Start)
	assert.Equal(t, at(10, 30), r.End)
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := TimeRange{Start: at(10, 0), End: at(10, 30)}

	tests := []struct {
		name  string
		other TimeRange
		want  bool
	}{
		{name: "identical", other: base, want: true},
		{name: "partial overlap at start", other: TimeRange{Start: at(9, 45), End: at(10, 15)}, want: true},
		{name: "partial overlap at end", other: TimeRange{Start: at(10, 15), End: at(10, 45)}, want: true},
		{name: "contains", other: TimeRange{Start: at(9, 0), End: at(11, 0)}, want: true},
		{name: "inside", other: TimeRange{Start: at(10, 10), End: at(10, 20)}, want: true},
		{name: "one minute overlap", other: TimeRange{Start: at(10, 29), End: at(11, 0)}, want: true},
		{name: "touching after", other: TimeRange{Start: at(10, 30), End: at(11, 0)}, want: false},
		{name: "touching before", other: TimeRange{Start: at(9, 30), End: at(10, 0)}, want: false},
		{name: "disjoint", other: TimeRange{Start: at(12, 0), End: at(13, 0)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestTimeRange_EqualIgnoresLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	a := TimeRange{Start: at(10, 0), End: at(10, 30)}
	b := TimeRange{Start: at(10, 0).In(loc), End: at(10, 30).In(loc)}

	assert.True(t, a.Equal(b))
}

func TestTimeRange_EndsAfter(t *testing.T) {
	r := TimeRange{Start: at(10, 0), End: at(10, 30)}

	assert.True(t, r.EndsAfter(at(10, 29)))
	assert.False(t, r.EndsAfter(at(10, 30)))
}
