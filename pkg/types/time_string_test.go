package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "24h", input: "09:30", want: "09:30"},
		{name: "24h single digit hour", input: "9:05", want: "09:05"},
		{name: "12h morning", input: "9:00 AM", want: "09:00"},
		{name: "12h noon", input: "12:30 PM", want: "12:30"},
		{name: "12h midnight", input: "12:00 AM", want: "00:00"},
		{name: "end of day", input: "24:00", want: EndOfDay},
		{name: "past end of day", input: "24:30", wantErr: true},
		{name: "12h evening lower case", input: "10:15 pm", want: "22:15"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "12h bad hour", input: "13:00 PM", wantErr: true},
		{name: "24h bad minute", input: "10:75", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("09:45").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	got, err = TimeString("23:45").AddMinutes(15)
	require.NoError(t, err)
	assert.Equal(t, EndOfDay, got)

	_, err = TimeString("23:45").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = TimeString("bad").AddMinutes(15)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("10:00").IsAfter("09:59"))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	day := time.Date(2026, 3, 14, 17, 42, 0, 0, loc)

	got, err := TimeString("08:15").On(day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 8, 15, 0, 0, loc), got)
}

func TestTimeString_EndOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	day := time.Date(2026, 3, 14, 17, 42, 0, 0, loc)

	require.NoError(t, EndOfDay.Validate())
	assert.True(t, TimeString("23:30").IsBefore(EndOfDay))

	got, err := EndOfDay.On(day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, loc), got)
}
