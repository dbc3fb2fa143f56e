package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// ParsePointNumber номер зарядной точки из пути
func ParsePointNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("point number must be positive, got %d", n)
	}
	return n, nil
}

// ParseOptionalTime RFC3339 время, пустая строка дает nil
func ParseOptionalTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseOptionalDate дата YYYY-MM-DD в часовом поясе loc, пустая строка дает nil
func ParseOptionalDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(domain.DateFormat, s, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
