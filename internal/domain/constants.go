package domain

import "fmt"

// SlotMode режим работы со слотами (выбирается на весь деплой)
type SlotMode string

const (
	// SlotModeFreeForm слоты создаются при бронировании произвольного интервала,
	// освобождение удаляет слот, ежедневный сброс очищает точку
	SlotModeFreeForm SlotMode = "free_form"

	// SlotModeFixedGrid слоты генерируются по дневной сетке,
	// освобождение только снимает бронь, ежедневный сброс пересоздает сетку
	SlotModeFixedGrid SlotMode = "fixed_grid"
)

// ParseSlotMode проверяет значение режима
func ParseSlotMode(s string) (SlotMode, error) {
	switch SlotMode(s) {
	case SlotModeFreeForm, SlotModeFixedGrid:
		return SlotMode(s), nil
	default:
		return "", fmt.Errorf("unknown slot mode %q", s)
	}
}

// ReleasePolicy что происходит со слотом при освобождении
type ReleasePolicy string

const (
	ReleasePolicyMarkFree ReleasePolicy = "mark_free"
	ReleasePolicyDelete   ReleasePolicy = "delete"
)

// ReleasePolicy политика освобождения определяется режимом, смешивать их нельзя
func (m SlotMode) ReleasePolicy() ReleasePolicy {
	if m == SlotModeFixedGrid {
		return ReleasePolicyMarkFree
	}
	return ReleasePolicyDelete
}

// Default configuration values
const (
	DefaultSlotMode            = SlotModeFreeForm
	DefaultSlotDurationMinutes = 30
	DefaultGridOpenTime        = "09:00"
	DefaultGridCloseTime       = "21:00"
	DefaultMaxAttempts         = 3
	DefaultStorageTimeoutSec   = 5
	DefaultResetSchedule       = "0 0 * * *"
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
