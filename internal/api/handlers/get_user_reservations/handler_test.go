package get_user_reservations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/service/stations"
	"github.com/m04kA/SMC-ChargingService/internal/service/stations/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubService struct {
	gotUser string
	err     error
}

func (s *stubService) GetUserReservations(_ context.Context, userID string) (*models.UserReservationsResponse, error) {
	s.gotUser = userID
	if s.err != nil {
		return nil, s.err
	}
	return &models.UserReservationsResponse{
		UserID:       userID,
		Reservations: []models.UserReservation{{StationID: "st-1", PointNumber: 1, SlotID: "s1", Label: "10:00-10:30"}},
		Total:        1,
	}, nil
}

func get(svc StationService, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/users/{userId}/reservations", NewHandler(svc, nopLogger{}).Handle)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+userID+"/reservations", nil))
	return w
}

func TestHandle_Reservations(t *testing.T) {
	svc := &stubService{}
	w := get(svc, "userA")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "userA", svc.gotUser)

	var resp models.UserReservationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "10:00-10:30", resp.Reservations[0].Label)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, get(&stubService{err: fmt.Errorf("%w: blank", stations.ErrInvalidInput)}, "u").Code)
	assert.Equal(t, http.StatusGatewayTimeout, get(&stubService{err: stations.ErrStorageTimeout}, "u").Code)
	assert.Equal(t, http.StatusInternalServerError, get(&stubService{err: stations.ErrInternal}, "u").Code)
}
