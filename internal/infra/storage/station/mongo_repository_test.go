package station

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const mockNamespace = "charging.stations"

func TestMongoRepository_Save(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("increments version", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		st := bookedStation()

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, repo.Save(context.Background(), st))
		assert.Equal(mt, int64(4), st.Version)
	})

	mt.Run("version conflict", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		st := bookedStation()

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, mockNamespace, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		err := repo.Save(context.Background(), st)
		assert.ErrorIs(mt, err, ErrVersionConflict)
		assert.Equal(mt, int64(3), st.Version)
	})

	mt.Run("missing station", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		st := bookedStation()

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, mockNamespace, mtest.FirstBatch),
		)

		err := repo.Save(context.Background(), st)
		assert.ErrorIs(mt, err, ErrStationNotFound)
		assert.Equal(mt, int64(3), st.Version)
	})

	mt.Run("write error", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		st := bookedStation()

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		err := repo.Save(context.Background(), st)
		assert.ErrorIs(mt, err, ErrExecQuery)
		assert.Equal(mt, int64(3), st.Version)
	})
}

func TestMongoRepository_GetByIDNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty cursor", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNamespace, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(mt, err, ErrStationNotFound)
	})
}
