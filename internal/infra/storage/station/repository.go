package station

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ChargingService/pkg/psqlbuilder"
)

const (
	stationsTable = "stations"
	pointsTable   = "charging_points"
	slotsTable    = "slots"

	uniqueViolation = "23505"
)

var stationColumns = []string{
	"id",
	"name",
	"address",
	"discount_available",
	"version",
	"created_at",
	"updated_at",
}

var slotColumns = []string{
	"id",
	"station_id",
	"point_number",
	"start_at",
	"end_at",
	"booked",
	"booked_by",
	"released_by",
	"released_at",
	"created_at",
}

// Repository хранилище станций в PostgreSQL.
// Станция лежит в трех таблицах (stations, charging_points, slots),
// Save переписывает слоты станции целиком в одной транзакции.
type Repository struct {
	db        DBExecutor
	txManager TransactionManager
}

// NewRepository создает новый экземпляр репозитория станций
func NewRepository(db DBExecutor, txManager TransactionManager) *Repository {
	return &Repository{db: db, txManager: txManager}
}

// Create сохраняет новую станцию вместе с точками и начальными слотами.
// Версия новой станции равна 1.
func (r *Repository) Create(ctx context.Context, station *domain.Station) error {
	now := time.Now().UTC()

	return r.txManager.Do(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, r.db)

		query, args, err := psqlbuilder.Insert(stationsTable).
			Columns(stationColumns...).
			Values(station.ID, station.Name, station.Address, station.DiscountAvailable, 1, now, now).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Create - build insert station query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return fmt.Errorf("%w: id=%s", ErrStationExists, station.ID)
			}
			return fmt.Errorf("%w: Create - insert station: %v", ErrExecQuery, err)
		}

		if len(station.ChargingPoints) > 0 {
			insertPoints := psqlbuilder.Insert(pointsTable).
				Columns("station_id", "point_number", "connector_type")
			for _, p := range station.ChargingPoints {
				insertPoints = insertPoints.Values(station.ID, p.PointNumber, string(p.ConnectorType))
			}

			query, args, err = insertPoints.ToSql()
			if err != nil {
				return fmt.Errorf("%w: Create - build insert points query: %v", ErrBuildQuery, err)
			}
			if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
				return fmt.Errorf("%w: Create - insert points: %v", ErrExecQuery, err)
			}
		}

		if err := r.insertSlots(txCtx, executor, station); err != nil {
			return err
		}

		station.Version = 1
		station.CreatedAt = now
		station.UpdatedAt = now
		return nil
	})
}

// GetByID получает станцию со всеми точками и слотами.
// Станция и её слоты читаются из одного снимка.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	var st *domain.Station
	err := r.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		st, err = r.getByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *Repository) getByID(ctx context.Context, id string) (*domain.Station, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(stationColumns...).
		From(stationsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var st domain.Station
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&st.ID,
		&st.Name,
		&st.Address,
		&st.DiscountAvailable,
		&st.Version,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan station: %v", ErrScanRow, err)
	}

	stations := []*domain.Station{&st}
	if err := r.attachChildren(ctx, executor, stations); err != nil {
		return nil, err
	}

	return &st, nil
}

// List возвращает все станции в порядке создания
func (r *Repository) List(ctx context.Context) ([]*domain.Station, error) {
	var stations []*domain.Station
	err := r.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		stations, err = r.list(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stations, nil
}

func (r *Repository) list(ctx context.Context) ([]*domain.Station, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(stationColumns...).
		From(stationsTable).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stations := make([]*domain.Station, 0)
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(
			&st.ID,
			&st.Name,
			&st.Address,
			&st.DiscountAvailable,
			&st.Version,
			&st.CreatedAt,
			&st.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: List - scan station: %v", ErrScanRow, err)
		}
		stations = append(stations, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	if err := r.attachChildren(ctx, executor, stations); err != nil {
		return nil, err
	}

	return stations, nil
}

// ListIDs возвращает идентификаторы всех станций
func (r *Repository) ListIDs(ctx context.Context) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From(stationsTable).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListIDs - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListIDs - iterate rows: %v", ErrScanRow, err)
	}

	return ids, nil
}

// Save сохраняет слоты станции, если её версия в БД совпадает с station.Version.
// При успехе версия увеличивается на 1, иначе возвращается ErrVersionConflict
// и в БД ничего не меняется.
func (r *Repository) Save(ctx context.Context, station *domain.Station) error {
	now := time.Now().UTC()

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, r.db)

		query, args, err := psqlbuilder.Update(stationsTable).
			Set("name", station.Name).
			Set("address", station.Address).
			Set("discount_available", station.DiscountAvailable).
			Set("version", squirrel.Expr("version + 1")).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": station.ID, "version": station.Version}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Save - build update query: %v", ErrBuildQuery, err)
		}

		res, err := executor.ExecContext(txCtx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: Save - update station: %v", ErrExecQuery, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: Save - rows affected: %v", ErrExecQuery, err)
		}
		if affected == 0 {
			return r.missingOrConflict(txCtx, executor, station.ID)
		}

		query, args, err = psqlbuilder.Delete(slotsTable).
			Where(squirrel.Eq{"station_id": station.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: Save - build delete slots query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
			return fmt.Errorf("%w: Save - delete slots: %v", ErrExecQuery, err)
		}

		return r.insertSlots(txCtx, executor, station)
	})
	if err != nil {
		return err
	}

	station.Version++
	station.UpdatedAt = now
	return nil
}

func (r *Repository) missingOrConflict(ctx context.Context, executor DBExecutor, id string) error {
	query, args, err := psqlbuilder.Select("1").
		From(stationsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build exists query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrStationNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Save - check station exists: %v", ErrScanRow, err)
	}
	return ErrVersionConflict
}

func (r *Repository) insertSlots(ctx context.Context, executor DBExecutor, station *domain.Station) error {
	if station.SlotCount() == 0 {
		return nil
	}

	insert := psqlbuilder.Insert(slotsTable).Columns(slotColumns...)
	for _, p := range station.ChargingPoints {
		for _, s := range p.Slots {
			insert = insert.Values(
				s.ID,
				station.ID,
				p.PointNumber,
				s.Range.Start.UTC(),
				s.Range.End.UTC(),
				s.Booked,
				s.BookedBy,
				s.ReleasedBy,
				s.ReleasedAt,
				s.CreatedAt.UTC(),
			)
		}
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertSlots - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertSlots - insert slots: %v", ErrExecQuery, err)
	}
	return nil
}

// attachChildren подгружает точки и слоты для списка станций двумя запросами
func (r *Repository) attachChildren(ctx context.Context, executor DBExecutor, stations []*domain.Station) error {
	if len(stations) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Station, len(stations))
	ids := make([]string, 0, len(stations))
	for _, st := range stations {
		byID[st.ID] = st
		ids = append(ids, st.ID)
	}

	query, args, err := psqlbuilder.Select("station_id", "point_number", "connector_type").
		From(pointsTable).
		Where(squirrel.Eq{"station_id": ids}).
		OrderBy("station_id", "point_number").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachChildren - build points query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachChildren - select points: %v", ErrExecQuery, err)
	}
	for rows.Next() {
		var stationID string
		var p domain.ChargingPoint
		var connector string
		if err := rows.Scan(&stationID, &p.PointNumber, &connector); err != nil {
			rows.Close()
			return fmt.Errorf("%w: attachChildren - scan point: %v", ErrScanRow, err)
		}
		p.ConnectorType = domain.ConnectorType(connector)
		p.Slots = []domain.Slot{}
		st := byID[stationID]
		st.ChargingPoints = append(st.ChargingPoints, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachChildren - iterate points: %v", ErrScanRow, err)
	}

	query, args, err = psqlbuilder.Select(slotColumns...).
		From(slotsTable).
		Where(squirrel.Eq{"station_id": ids}).
		OrderBy("station_id", "point_number", "start_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachChildren - build slots query: %v", ErrBuildQuery, err)
	}

	rows, err = executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachChildren - select slots: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s           domain.Slot
			stationID   string
			pointNumber int
			bookedBy    sql.NullString
			releasedBy  sql.NullString
			releasedAt  sql.NullTime
		)
		if err := rows.Scan(
			&s.ID,
			&stationID,
			&pointNumber,
			&s.Range.Start,
			&s.Range.End,
			&s.Booked,
			&bookedBy,
			&releasedBy,
			&releasedAt,
			&s.CreatedAt,
		); err != nil {
			return fmt.Errorf("%w: attachChildren - scan slot: %v", ErrScanRow, err)
		}
		if bookedBy.Valid {
			s.BookedBy = &bookedBy.String
		}
		if releasedBy.Valid {
			s.ReleasedBy = &releasedBy.String
		}
		if releasedAt.Valid {
			s.ReleasedAt = &releasedAt.Time
		}

		if point := byID[stationID].Point(pointNumber); point != nil {
			point.Slots = append(point.Slots, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachChildren - iterate slots: %v", ErrScanRow, err)
	}

	return nil
}
