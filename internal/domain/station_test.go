package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStation() *Station {
	return &Station{
		ID:      "st-1",
		Name:    "Central",
		Address: "1 Main St",
		ChargingPoints: []ChargingPoint{
			{PointNumber: 1, ConnectorType: ConnectorType1},
			{PointNumber: 2, ConnectorType: ConnectorType2},
		},
	}
}

func TestStation_Validate(t *testing.T) {
	require.NoError(t, validStation().Validate())

	tests := []struct {
		name   string
		mutate func(s *Station)
	}{
		{name: "missing name", mutate: func(s *Station) { s.Name = "  " }},
		{name: "missing address", mutate: func(s *Station) { s.Address = "" }},
		{name: "duplicate point", mutate: func(s *Station) { s.ChargingPoints[1].PointNumber = 1 }},
		{name: "non-positive point", mutate: func(s *Station) { s.ChargingPoints[0].PointNumber = 0 }},
		{name: "unknown connector", mutate: func(s *Station) { s.ChargingPoints[0].ConnectorType = "ccs" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStation()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidStation)
		})
	}
}

func TestStation_CloneIsDeep(t *testing.T) {
	s := validStation()
	s.ChargingPoints[0].Slots = []Slot{{ID: "a", Range: TimeRange{Start: at(10, 0), End: at(11, 0)}}}
	s.ChargingPoints[0].Slots[0].Book("u1")

	c := s.Clone()
	c.ChargingPoints[0].Slots[0].Free("u2", at(10, 5))
	c.ChargingPoints[1].PointNumber = 7

	assert.True(t, s.ChargingPoints[0].Slots[0].IsBookedBy("u1"))
	assert.Nil(t, s.ChargingPoints[0].Slots[0].ReleasedBy)
	assert.Equal(t, 2, s.ChargingPoints[1].PointNumber)
}

func TestChargingPoint_InsertSlotKeepsOrder(t *testing.T) {
	p := &ChargingPoint{PointNumber: 1, ConnectorType: ConnectorType1}

	p.InsertSlot(Slot{ID: "c", Range: TimeRange{Start: at(12, 0), End: at(12, 30)}})
	p.InsertSlot(Slot{ID: "a", Range: TimeRange{Start: at(9, 0), End: at(9, 30)}})
	p.InsertSlot(Slot{ID: "b", Range: TimeRange{Start: at(10, 0), End: at(10, 30)}})

	ids := make([]string, 0, len(p.Slots))
	for _, s := range p.Slots {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	_, idx := p.SlotByID("b")
	p.RemoveSlot(idx)
	assert.Len(t, p.Slots, 2)
	assert.Equal(t, "c", p.Slots[1].ID)
}

func TestChargingPoint_FirstBookedOverlapIgnoresFreeSlots(t *testing.T) {
	p := &ChargingPoint{Slots: []Slot{
		{ID: "free", Range: TimeRange{Start: at(10, 0), End: at(10, 30)}},
	}}
	assert.Nil(t, p.FirstBookedOverlap(TimeRange{Start: at(10, 0), End: at(10, 30)}))

	p.Slots[0].Book("u1")
	assert.NotNil(t, p.FirstBookedOverlap(TimeRange{Start: at(10, 15), End: at(10, 45)}))
}
