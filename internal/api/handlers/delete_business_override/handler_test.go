package delete_business_override

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Delete(ctx context.Context, req *models.DeleteOverrideRequest) error {
	return m.Called(ctx, req).Error(0)
}

func serve(svc *mockService) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/businesses/{businessId}/hours-overrides/{date}", NewHandler(svc, logger.NewNop()).Handle).
		Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/businesses/biz-1/hours-overrides/2024-03-08", nil)
	req.Header.Set(middleware.HeaderUserID, "7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_NoContent(t *testing.T) {
	svc := &mockService{}
	svc.On("Delete", mock.Anything, &models.DeleteOverrideRequest{UserID: 7, BusinessID: "biz-1", Date: "2024-03-08"}).
		Return(nil)

	rec := serve(svc)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{overrides.ErrInvalidInput, http.StatusBadRequest},
		{overrides.ErrOverrideNotFound, http.StatusNotFound},
		{overrides.ErrBusinessNotFound, http.StatusNotFound},
		{overrides.ErrAccessDenied, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &mockService{}
			svc.On("Delete", mock.Anything, mock.Anything).Return(tt.err)

			assert.Equal(t, tt.want, serve(svc).Code)
		})
	}
}
