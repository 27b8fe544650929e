package get_business_overrides

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, req *models.ListOverridesRequest) (*models.OverrideListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OverrideListResponse), args.Error(1)
}

func serve(svc *mockService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/businesses/{businessId}/hours-overrides", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(middleware.HeaderUserID, "7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, mock.MatchedBy(func(req *models.ListOverridesRequest) bool {
		return req.UserID == 7 && req.BusinessID == "biz-1" &&
			req.From != nil && *req.From == "2024-03-01" && req.To == nil
	})).Return(&models.OverrideListResponse{
		Overrides: []models.OverrideResponse{{ID: 1, BusinessID: "biz-1", Date: "2024-03-08", Reason: "праздник"}},
	}, nil)

	rec := serve(svc, "/businesses/biz-1/hours-overrides?from=2024-03-01")

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.OverrideListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Overrides, 1)
	assert.Equal(t, "2024-03-08", body.Overrides[0].Date)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{overrides.ErrInvalidInput, http.StatusBadRequest},
		{overrides.ErrBusinessNotFound, http.StatusNotFound},
		{overrides.ErrAccessDenied, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockService{}
			svc.On("List", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(svc, "/businesses/biz-1/hours-overrides")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
