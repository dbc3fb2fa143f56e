package domain

import (
	"fmt"
	"sort"
)

// ConnectorType тип разъема зарядной точки
type ConnectorType string

const (
	ConnectorType1 ConnectorType = "type1"
	ConnectorType2 ConnectorType = "type2"
	ConnectorType3 ConnectorType = "type3"
	ConnectorType4 ConnectorType = "type4"
)

// ConnectorTypes список поддерживаемых разъемов
var ConnectorTypes = []ConnectorType{
	ConnectorType1,
	ConnectorType2,
	ConnectorType3,
	ConnectorType4,
}

// ParseConnectorType проверяет значение разъема
func ParseConnectorType(s string) (ConnectorType, error) {
	for _, ct := range ConnectorTypes {
		if string(ct) == s {
			return ct, nil
		}
	}
	return "", fmt.Errorf("unknown connector type %q", s)
}

// ChargingPoint зарядная точка станции со списком слотов, упорядоченным по началу
type ChargingPoint struct {
	PointNumber   int
	ConnectorType ConnectorType
	Slots         []Slot
}

// SlotByID ищет слот по идентификатору
func (p *ChargingPoint) SlotByID(id string) (*Slot, int) {
	for i := range p.Slots {
		if p.Slots[i].ID == id {
			return &p.Slots[i], i
		}
	}
	return nil, -1
}

// SlotByRange ищет слот с точно совпадающим интервалом
func (p *ChargingPoint) SlotByRange(r TimeRange) (*Slot, int) {
	for i := range p.Slots {
		if p.Slots[i].Range.Equal(r) {
			return &p.Slots[i], i
		}
	}
	return nil, -1
}

// FirstBookedOverlap возвращает первый занятый слот, пересекающийся с r
func (p *ChargingPoint) FirstBookedOverlap(r TimeRange) *Slot {
	for i := range p.Slots {
		if p.Slots[i].Booked && p.Slots[i].Range.Overlaps(r) {
			return &p.Slots[i]
		}
	}
	return nil
}

// InsertSlot добавляет слот, сохраняя порядок по началу интервала
func (p *ChargingPoint) InsertSlot(s Slot) {
	idx := sort.Search(len(p.Slots), func(i int) bool {
		return p.Slots[i].Range.Start.After(s.Range.Start)
	})
	p.Slots = append(p.Slots, Slot{})
	copy(p.Slots[idx+1:], p.Slots[idx:])
	p.Slots[idx] = s
}

// RemoveSlot удаляет слот по индексу
func (p *ChargingPoint) RemoveSlot(idx int) {
	p.Slots = append(p.Slots[:idx], p.Slots[idx+1:]...)
}

// Clone глубокая копия точки
func (p ChargingPoint) Clone() ChargingPoint {
	c := p
	c.Slots = make([]Slot, len(p.Slots))
	for i, s := range p.Slots {
		c.Slots[i] = s.Clone()
	}
	return c
}
