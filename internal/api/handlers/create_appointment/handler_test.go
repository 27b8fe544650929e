package create_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createAppointment.Response), args.Error(1)
}

const validBody = `{"businessId":"barber-shop","serviceId":"svc-1","date":"2024-03-15","startTime":"10:00:00","customerNotes":"без спешки"}`

func serve(uc *mockUseCase, body string, header http.Header) *httptest.ResponseRecorder {
	h := middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle))

	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func authHeader() http.Header {
	return http.Header{middleware.HeaderUserID: {"42"}}
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createAppointment.Request) bool {
		return req.CustomerID == "42" &&
			req.BusinessID == "barber-shop" &&
			req.StartTime == "10:00" &&
			req.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) &&
			req.IdempotencyKey == "key-1"
	})).Return(&createAppointment.Response{
		ID:              "appt-1",
		BusinessID:      "biz-1",
		ServiceID:       "svc-1",
		CustomerID:      "42",
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 30,
		Status:          domain.AppointmentPending,
		IdempotencyKey:  "key-1",
	}, nil)

	header := authHeader()
	header.Set(HeaderIdempotencyKey, "key-1")
	rec := serve(uc, validBody, header)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "appt-1", body.ID)
	assert.Equal(t, "2024-03-15", body.Date)
	assert.Equal(t, "PENDING", body.Status)
	uc.AssertExpectations(t)
}

func TestHandle_Unauthorized(t *testing.T) {
	uc := &mockUseCase{}
	rec := serve(uc, validBody, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := map[string]string{
		"broken json":   `{"businessId":`,
		"unknown field": `{"businessId":"b","extra":true}`,
		"bad date":      `{"businessId":"b","serviceId":"s","date":"15/03/2024","startTime":"10:00"}`,
		"bad time":      `{"businessId":"b","serviceId":"s","date":"2024-03-15","startTime":"ten"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := serve(uc, body, authHeader())

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_SlotConflictReturnsSlots(t *testing.T) {
	uc := &mockUseCase{}
	conflict := &createAppointment.SlotConflictError{
		Err:       createAppointment.ErrSlotConflict,
		State:     domain.SlotOccupied,
		Refreshed: true,
		Slots: []domain.TimeSlot{
			{Time: "10:00", State: domain.SlotOccupied, ConflictingAppointmentID: "appt-9"},
			{Time: "10:30", Available: true, State: domain.SlotAvailable},
		},
	}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("wrapped: %w", conflict))

	rec := serve(uc, validBody, authHeader())

	require.Equal(t, http.StatusConflict, rec.Code)

	var body SlotConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Equal(t, msgSlotConflict, body.Message)
	assert.Equal(t, "OCCUPIED", body.State)
	assert.True(t, body.Refreshed)
	require.Len(t, body.Slots, 2)
	assert.Equal(t, "10:30", body.Slots[1].Time)
	assert.True(t, body.Slots[1].Available)
}

func TestHandle_PrecheckConflictMessage(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, &createAppointment.SlotConflictError{
		Err:   createAppointment.ErrSlotNotAvailable,
		State: domain.SlotPast,
	})

	rec := serve(uc, validBody, authHeader())

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), msgSlotNotAvailable)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{createAppointment.ErrBusinessNotFound, http.StatusNotFound},
		{createAppointment.ErrServiceNotFound, http.StatusNotFound},
		{createAppointment.ErrServiceInactive, http.StatusUnprocessableEntity},
		{createAppointment.ErrInvalidDate, http.StatusBadRequest},
		{createAppointment.ErrDateTooFarInFuture, http.StatusBadRequest},
		{createAppointment.ErrInvalidInput, http.StatusBadRequest},
		{createAppointment.ErrPolicyRejected, http.StatusUnprocessableEntity},
		{createAppointment.ErrStoreUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(uc, validBody, authHeader())
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
