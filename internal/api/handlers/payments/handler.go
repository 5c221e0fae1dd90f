// Package payments HTTP обработчики финансового журнала. Доступ только для finance и developer.
package payments

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
)

const (
	msgInvalidPaymentID    = "некорректный ID платежа"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidInput        = "некорректные данные платежа"
	msgNotFound            = "платеж не найден"
	msgAppointmentNotFound = "запись не найдена"
	msgDuplicate           = "по этой записи уже есть платеж"
	msgInvalidTransition   = "недопустимая смена статуса платежа"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/payments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	payment, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /payments", 0, err)
		return
	}

	h.logger.Info("POST /payments - Payment created: payment_id=%d, appointment_id=%d", payment.ID, payment.AppointmentID)
	handlers.RespondJSON(w, http.StatusCreated, payment)
}

// List GET /api/v1/payments?period=today|week|month|year&status=pending|paid|cancelled|all
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), listRequest(r))
	if err != nil {
		h.respondError(w, "GET /payments", 0, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Summary GET /api/v1/payments/summary?period=
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Summary(r.Context(), listRequest(r))
	if err != nil {
		h.respondError(w, "GET /payments/summary", 0, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/payments/{paymentId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, "GET /payments/{id}", h.service.GetByID)
}

// MarkPaid PATCH /api/v1/payments/{paymentId}/pay
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, "PATCH /payments/{id}/pay", h.service.MarkPaid)
}

// Cancel PATCH /api/v1/payments/{paymentId}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, "PATCH /payments/{id}/cancel", h.service.Cancel)
}

func (h *Handler) byID(
	w http.ResponseWriter,
	r *http.Request,
	route string,
	fn func(ctx context.Context, id int64) (*models.PaymentResponse, error),
) {
	paymentID, err := handlers.PathID(r, "paymentId")
	if err != nil {
		h.logger.Warn("%s - Invalid payment ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	payment, err := fn(r.Context(), paymentID)
	if err != nil {
		h.respondError(w, route, paymentID, err)
		return
	}

	h.logger.Info("%s - OK: payment_id=%d, status=%s", route, paymentID, payment.Status)
	handlers.RespondJSON(w, http.StatusOK, payment)
}

func listRequest(r *http.Request) *models.ListPaymentsRequest {
	q := r.URL.Query()
	return &models.ListPaymentsRequest{
		Period: models.Period(q.Get("period")),
		Status: q.Get("status"),
	}
}

func (h *Handler) respondError(w http.ResponseWriter, route string, paymentID int64, err error) {
	switch {
	case errors.Is(err, payments.ErrPaymentNotFound):
		h.logger.Warn("%s - Payment not found: payment_id=%d", route, paymentID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, payments.ErrAppointmentNotFound):
		h.logger.Warn("%s - Appointment not found", route)
		handlers.RespondNotFound(w, msgAppointmentNotFound)

	case errors.Is(err, payments.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, payments.ErrDuplicate):
		h.logger.Warn("%s - Duplicate payment", route)
		handlers.RespondConflict(w, msgDuplicate)

	case errors.Is(err, payments.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: payment_id=%d, %v", route, paymentID, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	default:
		h.logger.Error("%s - Internal error: payment_id=%d, error=%v", route, paymentID, err)
		handlers.RespondInternalError(w)
	}
}
