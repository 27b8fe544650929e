package upsert_business_override

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
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

func (m *mockService) Upsert(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OverrideResponse), args.Error(1)
}

func serve(svc *mockService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/businesses/{businessId}/hours-overrides/{date}", NewHandler(svc, logger.NewNop()).Handle).
		Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/businesses/biz-1/hours-overrides/2024-03-08", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &mockService{}
	svc.On("Upsert", mock.Anything, mock.MatchedBy(func(req *models.UpsertOverrideRequest) bool {
		return req.UserID == 7 && req.BusinessID == "biz-1" && req.Date == "2024-03-08" &&
			req.IsOpen && *req.OpenTime == "10:00" && len(req.Breaks) == 1 && req.Reason == "короткий день"
	})).Return(&models.OverrideResponse{ID: 3, BusinessID: "biz-1", Date: "2024-03-08", IsOpen: true}, nil)

	rec := serve(svc, `{"isOpen":true,"openTime":"10:00","closeTime":"15:00",
		"breaks":[{"startTime":"12:00","endTime":"12:30"}],"reason":"короткий день"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":3`)
	svc.AssertExpectations(t)
}

func TestHandle_InvalidBody(t *testing.T) {
	svc := &mockService{}

	rec := serve(svc, `{"isOpen":"yes"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: closeTime must be after openTime", overrides.ErrInvalidInput), http.StatusBadRequest},
		{overrides.ErrBusinessNotFound, http.StatusNotFound},
		{overrides.ErrAccessDenied, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockService{}
			svc.On("Upsert", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(svc, `{"isOpen":false,"reason":"ремонт"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
