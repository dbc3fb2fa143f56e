package list_stations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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
	resp *models.StationListResponse
	err  error
}

func (s stubService) List(context.Context) (*models.StationListResponse, error) {
	return s.resp, s.err
}

func list(svc StationService) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodGet, "/stations", nil))
	return w
}

func TestHandle_List(t *testing.T) {
	w := list(stubService{resp: &models.StationListResponse{
		Stations: []models.StationResponse{{ID: "a"}, {ID: "b"}},
		Total:    2,
	}})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.StationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "b", resp.Stations[1].ID)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, list(stubService{err: stations.ErrStorageTimeout}).Code)
	assert.Equal(t, http.StatusInternalServerError, list(stubService{err: stations.ErrInternal}).Code)
}
