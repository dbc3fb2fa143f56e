package create_station

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
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
	got *models.CreateStationRequest
	err error
}

func (s *stubService) Create(_ context.Context, req *models.CreateStationRequest) (*models.StationResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.StationResponse{ID: "st-1", Name: req.Name, ChargingPoints: []models.ChargingPointResponse{{PointNumber: 1, Type: "type2"}}}, nil
}

func post(svc StationService, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodPost, "/stations", strings.NewReader(body)))
	return w
}

func TestHandle_Created(t *testing.T) {
	svc := &stubService{}
	w := post(svc, `{"name":"Central","address":"Main st. 1","discountAvailable":true,"chargingPoints":[{"pointNumber":1,"type":"type2"}]}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, svc.got.DiscountAvailable)
	require.Len(t, svc.got.ChargingPoints, 1)

	var resp models.StationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "st-1", resp.ID)
	assert.Equal(t, "Central", resp.Name)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, post(&stubService{}, `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, post(&stubService{err: fmt.Errorf("%w: duplicate point", stations.ErrInvalidInput)}, `{"name":"a"}`).Code)
	assert.Equal(t, http.StatusGatewayTimeout, post(&stubService{err: stations.ErrStorageTimeout}, `{"name":"a"}`).Code)
	assert.Equal(t, http.StatusInternalServerError, post(&stubService{err: stations.ErrInternal}, `{"name":"a"}`).Code)
}
