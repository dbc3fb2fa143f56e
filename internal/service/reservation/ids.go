package reservation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// gridNamespace пространство имен для детерминированных идентификаторов слотов сетки
var gridNamespace = uuid.MustParse("6f1c2a7e-3b9d-4f5e-8a11-52c0d7e4b9a3")

// UUIDGenerator генератор идентификаторов на основе google/uuid
type UUIDGenerator struct{}

// NewID случайный идентификатор (UUID v4) для слота произвольного интервала
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// GridSlotID детерминированный идентификатор (UUID v5) слота сетки:
// повторная генерация сетки на тот же день дает те же идентификаторы
func (UUIDGenerator) GridSlotID(stationID string, pointNumber int, start time.Time) string {
	name := fmt.Sprintf("%s/%d/%d", stationID, pointNumber, start.Unix())
	return uuid.NewSHA1(gridNamespace, []byte(name)).String()
}
