package station

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// MongoCollection имя коллекции станций по умолчанию
const MongoCollection = "stations"

type slotDocument struct {
	ID         string     `bson:"id"`
	Start      time.Time  `bson:"start"`
	End        time.Time  `bson:"end"`
	Booked     bool       `bson:"booked"`
	BookedBy   *string    `bson:"booked_by,omitempty"`
	ReleasedBy *string    `bson:"released_by,omitempty"`
	ReleasedAt *time.Time `bson:"released_at,omitempty"`
	CreatedAt  time.Time  `bson:"created_at"`
}

type pointDocument struct {
	PointNumber   int            `bson:"point_number"`
	ConnectorType string         `bson:"connector_type"`
	Slots         []slotDocument `bson:"slots"`
}

// stationDocument станция хранится одним документом, поэтому запись всегда атомарна
type stationDocument struct {
	ID                string          `bson:"_id"`
	Name              string          `bson:"name"`
	Address           string          `bson:"address"`
	DiscountAvailable bool            `bson:"discount_available"`
	ChargingPoints    []pointDocument `bson:"charging_points"`
	Version           int64           `bson:"version"`
	CreatedAt         time.Time       `bson:"created_at"`
	UpdatedAt         time.Time       `bson:"updated_at"`
}

// MongoRepository хранилище станций в MongoDB
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository создает репозиторий поверх коллекции станций
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(MongoCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, station *domain.Station) error {
	now := time.Now().UTC().Truncate(time.Millisecond)

	doc := toDocument(station)
	doc.Version = 1
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: id=%s", ErrStationExists, station.ID)
		}
		return fmt.Errorf("%w: Create - insert document: %v", ErrExecQuery, err)
	}

	station.Version = 1
	station.CreatedAt = now
	station.UpdatedAt = now
	return nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	var doc stationDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - decode document: %v", ErrScanRow, err)
	}
	return doc.toDomain(), nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*domain.Station, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: List - find: %v", ErrExecQuery, err)
	}
	defer cursor.Close(ctx)

	stations := make([]*domain.Station, 0)
	for cursor.Next(ctx) {
		var doc stationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: List - decode document: %v", ErrScanRow, err)
		}
		stations = append(stations, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - cursor: %v", ErrScanRow, err)
	}
	return stations, nil
}

func (r *MongoRepository) ListIDs(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: ListIDs - find: %v", ErrExecQuery, err)
	}
	defer cursor.Close(ctx)

	ids := make([]string, 0)
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: ListIDs - decode document: %v", ErrScanRow, err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListIDs - cursor: %v", ErrScanRow, err)
	}
	return ids, nil
}

// Save заменяет документ, только если в коллекции лежит та же версия
func (r *MongoRepository) Save(ctx context.Context, station *domain.Station) error {
	now := time.Now().UTC().Truncate(time.Millisecond)

	doc := toDocument(station)
	doc.Version = station.Version + 1
	doc.UpdatedAt = now

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": station.ID, "version": station.Version}, doc)
	if err != nil {
		return fmt.Errorf("%w: Save - replace document: %v", ErrExecQuery, err)
	}

	if res.MatchedCount == 0 {
		count, err := r.coll.CountDocuments(ctx, bson.M{"_id": station.ID})
		if err != nil {
			return fmt.Errorf("%w: Save - count documents: %v", ErrExecQuery, err)
		}
		if count == 0 {
			return ErrStationNotFound
		}
		return ErrVersionConflict
	}

	station.Version = doc.Version
	station.UpdatedAt = now
	return nil
}

func toDocument(st *domain.Station) stationDocument {
	doc := stationDocument{
		ID:                st.ID,
		Name:              st.Name,
		Address:           st.Address,
		DiscountAvailable: st.DiscountAvailable,
		ChargingPoints:    make([]pointDocument, len(st.ChargingPoints)),
		Version:           st.Version,
		CreatedAt:         st.CreatedAt,
		UpdatedAt:         st.UpdatedAt,
	}
	for i, p := range st.ChargingPoints {
		pd := pointDocument{
			PointNumber:   p.PointNumber,
			ConnectorType: string(p.ConnectorType),
			Slots:         make([]slotDocument, len(p.Slots)),
		}
		for j, s := range p.Slots {
			pd.Slots[j] = slotDocument{
				ID:         s.ID,
				Start:      s.Range.Start.UTC(),
				End:        s.Range.End.UTC(),
				Booked:     s.Booked,
				BookedBy:   s.BookedBy,
				ReleasedBy: s.ReleasedBy,
				ReleasedAt: s.ReleasedAt,
				CreatedAt:  s.CreatedAt.UTC(),
			}
		}
		doc.ChargingPoints[i] = pd
	}
	return doc
}

func (d stationDocument) toDomain() *domain.Station {
	st := &domain.Station{
		ID:                d.ID,
		Name:              d.Name,
		Address:           d.Address,
		DiscountAvailable: d.DiscountAvailable,
		ChargingPoints:    make([]domain.ChargingPoint, len(d.ChargingPoints)),
		Version:           d.Version,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	for i, pd := range d.ChargingPoints {
		p := domain.ChargingPoint{
			PointNumber:   pd.PointNumber,
			ConnectorType: domain.ConnectorType(pd.ConnectorType),
			Slots:         make([]domain.Slot, len(pd.Slots)),
		}
		for j, sd := range pd.Slots {
			p.Slots[j] = domain.Slot{
				ID:         sd.ID,
				Range:      domain.TimeRange{Start: sd.Start, End: sd.End},
				Booked:     sd.Booked,
				BookedBy:   sd.BookedBy,
				ReleasedBy: sd.ReleasedBy,
				ReleasedAt: sd.ReleasedAt,
				CreatedAt:  sd.CreatedAt,
			}
		}
		st.ChargingPoints[i] = p
	}
	return st
}
