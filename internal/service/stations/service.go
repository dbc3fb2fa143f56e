package stations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	stationRepo "github.com/m04kA/SMC-ChargingService/internal/infra/storage/station"
	"github.com/m04kA/SMC-ChargingService/internal/service/stations/models"
)

// Service каталог станций: создание, просмотр и брони пользователя
type Service struct {
	repo           StationRepository
	engine         Engine
	ids            IDGenerator
	storageTimeout time.Duration
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса станций
func NewService(
	repo StationRepository,
	engine Engine,
	ids IDGenerator,
	storageTimeout time.Duration,
	logger Logger,
) *Service {
	return &Service{
		repo:           repo,
		engine:         engine,
		ids:            ids,
		storageTimeout: storageTimeout,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Create создает станцию. В режиме fixed_grid точки сразу получают сетку на текущие сутки.
func (s *Service) Create(ctx context.Context, req *models.CreateStationRequest) (*models.StationResponse, error) {
	s.logger.Info("Create: creating station name=%q with %d points", req.Name, len(req.ChargingPoints))

	st := &domain.Station{
		ID:                s.ids.NewID(),
		Name:              strings.TrimSpace(req.Name),
		Address:           strings.TrimSpace(req.Address),
		DiscountAvailable: req.DiscountAvailable,
		ChargingPoints:    make([]domain.ChargingPoint, len(req.ChargingPoints)),
	}
	for i, p := range req.ChargingPoints {
		ct, err := domain.ParseConnectorType(strings.ToLower(strings.TrimSpace(p.Type)))
		if err != nil {
			s.logger.Warn("Create: point %d: %v", p.PointNumber, err)
			return nil, fmt.Errorf("%w: point %d: %v", ErrInvalidInput, p.PointNumber, err)
		}
		st.ChargingPoints[i] = domain.ChargingPoint{PointNumber: p.PointNumber, ConnectorType: ct}
	}

	if err := st.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sort.Slice(st.ChargingPoints, func(i, j int) bool {
		return st.ChargingPoints[i].PointNumber < st.ChargingPoints[j].PointNumber
	})

	if err := s.engine.InitializePoints(st, s.timeProvider.Now()); err != nil {
		s.logger.Error("Create: failed to initialize slots: %v", err)
		return nil, fmt.Errorf("%w: Create - initialize slots: %v", ErrInternal, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	if err := s.repo.Create(callCtx, st); err != nil {
		return nil, s.storageError(callCtx, "Create", err)
	}

	s.logger.Info("Create: created station id=%s", st.ID)
	resp := models.FromDomainStation(st, s.engine.Location())
	return &resp, nil
}

// GetByID получает станцию со всеми точками и слотами
func (s *Service) GetByID(ctx context.Context, id string) (*models.StationResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	st, err := s.repo.GetByID(callCtx, id)
	if err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			s.logger.Warn("GetByID: station id=%s not found", id)
			return nil, ErrStationNotFound
		}
		return nil, s.storageError(callCtx, "GetByID", err)
	}

	resp := models.FromDomainStation(st, s.engine.Location())
	return &resp, nil
}

// List возвращает все станции
func (s *Service) List(ctx context.Context) (*models.StationListResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	stations, err := s.repo.List(callCtx)
	if err != nil {
		return nil, s.storageError(callCtx, "List", err)
	}

	loc := s.engine.Location()
	resp := &models.StationListResponse{
		Stations: make([]models.StationResponse, len(stations)),
		Total:    len(stations),
	}
	for i, st := range stations {
		resp.Stations[i] = models.FromDomainStation(st, loc)
	}
	return resp, nil
}

// GetUserReservations брони пользователя по всем станциям, которые еще не закончились
func (s *Service) GetUserReservations(ctx context.Context, userID string) (*models.UserReservationsResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	stations, err := s.repo.List(callCtx)
	if err != nil {
		return nil, s.storageError(callCtx, "GetUserReservations", err)
	}

	now := s.timeProvider.Now()
	loc := s.engine.Location()

	reservations := make([]models.UserReservation, 0)
	for _, st := range stations {
		for _, p := range st.ChargingPoints {
			for _, slot := range p.Slots {
				if !slot.IsBookedBy(userID) || !slot.Range.EndsAfter(now) {
					continue
				}
				reservations = append(reservations, models.UserReservation{
					StationID:     st.ID,
					StationName:   st.Name,
					Address:       st.Address,
					PointNumber:   p.PointNumber,
					ConnectorType: string(p.ConnectorType),
					SlotID:        slot.ID,
					Start:         slot.Range.Start,
					End:           slot.Range.End,
					Label:         domain.Label(slot.Range, loc),
				})
			}
		}
	}

	sort.SliceStable(reservations, func(i, j int) bool {
		return reservations[i].Start.Before(reservations[j].Start)
	})

	s.logger.Info("GetUserReservations: user=%s has %d active reservations", userID, len(reservations))

	return &models.UserReservationsResponse{
		UserID:       userID,
		Reservations: reservations,
		Total:        len(reservations),
	}, nil
}

func (s *Service) storageError(callCtx context.Context, op string, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		s.logger.Error("%s: storage timeout: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrStorageTimeout, op, err)
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
