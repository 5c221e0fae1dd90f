package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ClinicService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string   `json:"date"`
	ProcedureID     *int64   `json:"procedureId,omitempty"`
	DurationMinutes int      `json:"durationMinutes"`
	Open            string   `json:"open"`
	Close           string   `json:"close"`
	SlotMinutes     int      `json:"slotMinutes"`
	Slots           []string `json:"slots"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров.
// Дата уже проверена на наличие.
func ToUseCaseRequest(r *http.Request) (*getAvailableSlots.Request, error) {
	date, err := handlers.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		return nil, err
	}

	procedureID, err := handlers.QueryInt64(r, "procedureId")
	if err != nil {
		return nil, err
	}

	duration, err := handlers.QueryInt(r, "duration")
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:            date,
		ProcedureID:     procedureID,
		DurationMinutes: duration,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ProcedureID:     resp.ProcedureID,
		DurationMinutes: resp.DurationMinutes,
		Open:            resp.Open.String(),
		Close:           resp.Close.String(),
		SlotMinutes:     resp.SlotMinutes,
		Slots:           handlers.FormatSlots(resp.Slots),
	}
}
