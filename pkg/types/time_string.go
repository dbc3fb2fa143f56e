package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	timeStringLayout = "15:04"
	minutesInDay     = 24 * 60
)

// EndOfDay конец суток. Допустим только как правая граница интервала.
const EndOfDay TimeString = "24:00"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда время выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString время суток в формате "HH:MM"
type TimeString string

// NewTimeString создает TimeString из часов и минут time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" (24 часа) или "H:MM AM/PM" (12 часов).
// "24:00" означает конец суток.
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidTimeString
	}
	if TimeString(s) == EndOfDay {
		return EndOfDay, nil
	}

	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		return parseClock12(upper)
	}

	t, err := time.Parse(timeStringLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// parseClock12 разбирает "9:00 AM" / "12:30 PM"
func parseClock12(s string) (TimeString, error) {
	modifier := s[len(s)-2:]
	clock := strings.TrimSpace(s[:len(s)-2])

	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 1 || hours > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 || len(parts[1]) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	if modifier == "PM" && hours != 12 {
		hours += 12
	}
	if modifier == "AM" && hours == 12 {
		hours = 0
	}

	return TimeString(fmt.Sprintf("%02d:%02d", hours, minutes)), nil
}

// Validate проверяет формат "HH:MM"
func (t TimeString) Validate() error {
	if t == EndOfDay {
		return nil
	}
	if _, err := time.Parse(timeStringLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}

// Minutes количество минут с начала суток
func (t TimeString) Minutes() (int, error) {
	if t == EndOfDay {
		return minutesInDay, nil
	}
	parsed, err := time.Parse(timeStringLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes прибавляет минуты. Результат должен остаться в пределах суток
// (не позже 24:00), иначе возвращается ErrTimeOverflow.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	total := current + minutes
	if total < 0 || total > minutesInDay {
		return "", ErrTimeOverflow
	}
	if total == minutesInDay {
		return EndOfDay, nil
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// IsBefore сравнивает два времени суток. Некорректные значения считаются равными нулю.
func (t TimeString) IsBefore(other TimeString) bool {
	a, _ := t.Minutes()
	b, _ := other.Minutes()
	return a < b
}

func (t TimeString) IsAfter(other TimeString) bool {
	a, _ := t.Minutes()
	b, _ := other.Minutes()
	return a > b
}

// On возвращает момент времени t в дату day (в часовом поясе day).
// EndOfDay дает полночь следующих суток.
func (t TimeString) On(day time.Time) (time.Time, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, day.Location()), nil
}
