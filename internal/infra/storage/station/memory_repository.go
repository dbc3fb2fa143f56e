package station

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// MemoryRepository хранилище станций в памяти процесса.
// Отдает и принимает глубокие копии, поэтому вызывающий не может изменить состояние в обход Save.
type MemoryRepository struct {
	mu       sync.RWMutex
	stations map[string]*domain.Station
	order    []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{stations: make(map[string]*domain.Station)}
}

func (r *MemoryRepository) Create(ctx context.Context, station *domain.Station) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stations[station.ID]; ok {
		return fmt.Errorf("%w: id=%s", ErrStationExists, station.ID)
	}

	now := time.Now().UTC()
	station.Version = 1
	station.CreatedAt = now
	station.UpdatedAt = now

	r.stations[station.ID] = station.Clone()
	r.order = append(r.order, station.ID)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.stations[id]
	if !ok {
		return nil, ErrStationNotFound
	}
	return st.Clone(), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*domain.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Station, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.stations[id].Clone())
	}
	return result, nil
}

func (r *MemoryRepository) ListIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids, nil
}

func (r *MemoryRepository) Save(ctx context.Context, station *domain.Station) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.stations[station.ID]
	if !ok {
		return ErrStationNotFound
	}
	if stored.Version != station.Version {
		return ErrVersionConflict
	}

	station.Version++
	station.UpdatedAt = time.Now().UTC()
	r.stations[station.ID] = station.Clone()
	return nil
}
