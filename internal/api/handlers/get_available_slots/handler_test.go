package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getAvailableSlots.Response), args.Error(1)
}

func serve(t *testing.T, uc *mockUseCase, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/businesses/{businessId}/available-slots", NewHandler(uc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailableSlots.Request) bool {
		return req.BusinessID == "barber-shop" &&
			req.ServiceID == "svc-1" &&
			req.StaffID != nil && *req.StaffID == "staff-7" &&
			req.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) &&
			req.SessionID == "sess-1"
	})).Return(&getAvailableSlots.Response{
		BusinessID:      "biz-1",
		ServiceID:       "svc-1",
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Timezone:        "Europe/Istanbul",
		DurationMinutes: 30,
		HoursSource:     "weekday",
		Slots: []domain.TimeSlot{
			{Time: "09:00", Available: true, State: domain.SlotAvailable},
			{Time: "09:15", State: domain.SlotOccupied, ConflictingAppointmentID: "appt-1"},
		},
	}, nil)

	rec := serve(t, uc, "/businesses/barber-shop/available-slots?serviceId=svc-1&date=2024-03-15&staffId=staff-7",
		http.Header{HeaderSessionID: {"sess-1"}})

	require.Equal(t, http.StatusOK, rec.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "biz-1", body.BusinessID)
	assert.Equal(t, "2024-03-15", body.Date)
	assert.Equal(t, "Europe/Istanbul", body.Timezone)
	require.Len(t, body.Slots, 2)
	assert.Equal(t, AvailableSlot{Time: "09:00", Available: true, State: "AVAILABLE"}, body.Slots[0])
	assert.Equal(t, "appt-1", body.Slots[1].ConflictingAppointmentID)
	uc.AssertExpectations(t)
}

func TestHandle_ClosedDayReturnsEmptyArray(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&getAvailableSlots.Response{
		BusinessID: "biz-1",
		Date:       time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC),
		Closed:     true,
	}, nil)

	rec := serve(t, uc, "/businesses/biz-1/available-slots?serviceId=svc-1&date=2024-03-17", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
	assert.Contains(t, rec.Body.String(), `"closed":true`)
}

func TestHandle_BadParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"no service", "/businesses/biz-1/available-slots?date=2024-03-15"},
		{"no date", "/businesses/biz-1/available-slots?serviceId=svc-1"},
		{"bad date", "/businesses/biz-1/available-slots?serviceId=svc-1&date=15.03.2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := serve(t, uc, tt.target, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{getAvailableSlots.ErrBusinessNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrServiceInactive, http.StatusUnprocessableEntity},
		{getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getAvailableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{getAvailableSlots.ErrStaleSelection, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(t, uc, "/businesses/biz-1/available-slots?serviceId=svc-1&date=2024-03-15", nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
