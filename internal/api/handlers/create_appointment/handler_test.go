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

	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	createAppointment "github.com/m04kA/SMC-ClinicService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ClinicService/pkg/logger"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*createAppointment.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

const validBody = `{"patientId":1,"procedureId":2,"date":"2025-03-14","startTime":"10:00"}`

func serve(uc CreateAppointmentUseCase, body string) *httptest.ResponseRecorder {
	h := NewHandler(uc, logger.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	uc := new(mockUseCase)
	start := types.MustTimeOfDay(10, 0)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createAppointment.Request) bool {
		return r.PatientID == 1 && r.ProcedureID == 2 && r.Start == start &&
			r.Date.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	})).Return(&createAppointment.Response{
		ID:              7,
		PatientID:       1,
		ProcedureID:     2,
		Date:            time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Start:           start,
		End:             types.MustTimeOfDay(11, 0),
		DurationMinutes: 60,
		Status:          "scheduled",
		PatientName:     "Maria Silva",
		ProcedureName:   "Limpeza",
		Slots:           []types.TimeOfDay{start, types.MustTimeOfDay(10, 30)},
		CreatedAt:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil)

	rec := serve(uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "2025-03-14", resp.Date)
	assert.Equal(t, "11:00", resp.EndTime)
	assert.Equal(t, []string{"10:00", "10:30"}, resp.Slots)
	assert.Equal(t, "2025-03-01T12:00:00Z", resp.CreatedAt)
	uc.AssertExpectations(t)
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"patientId":`},
		{"unknown field", `{"patientId":1,"procedureId":2,"date":"2025-03-14","startTime":"10:00","room":3}`},
		{"bad date", `{"patientId":1,"procedureId":2,"date":"14/03/2025","startTime":"10:00"}`},
		{"bad time", `{"patientId":1,"procedureId":2,"date":"2025-03-14","startTime":"25:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)

			rec := serve(uc, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"slot busy", createAppointment.ErrSlotBusy, http.StatusConflict},
		{"patient not found", createAppointment.ErrPatientNotFound, http.StatusNotFound},
		{"procedure not found", createAppointment.ErrProcedureNotFound, http.StatusNotFound},
		{"misaligned", fmt.Errorf("%w: 10:15", createAppointment.ErrInvalidTimeSlot), http.StatusBadRequest},
		{"invalid input", createAppointment.ErrInvalidInput, http.StatusBadRequest},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(uc, validBody)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_ConflictCarriesDetails(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, scheduler.NewConflictError(scheduler.AvailabilityResult{
		Reason:           scheduler.ReasonSlotsBooked,
		ConflictingSlots: []types.TimeOfDay{types.MustTimeOfDay(10, 30)},
	}))

	rec := serve(uc, validBody)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, msgSlotNotAvailable, resp["error"])
	assert.Equal(t, scheduler.ReasonSlotsBooked, resp["reason"])
	assert.Equal(t, []any{"10:30"}, resp["conflictingSlots"])
}
