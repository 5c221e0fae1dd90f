package models

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

var (
	// ErrValidation возвращается при некорректных полях платежа
	ErrValidation = errors.New("invalid payment data")
)

// Period отчетный период журнала
type Period string

const (
	PeriodAll   Period = ""
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Since начало периода относительно now. Для PeriodAll возвращает nil.
func (p Period) Since(now time.Time) (*time.Time, error) {
	var from time.Time
	switch p {
	case PeriodAll:
		return nil, nil
	case PeriodToday:
		y, m, d := now.Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		from = now.AddDate(0, 0, -7)
	case PeriodMonth:
		from = now.AddDate(0, -1, 0)
	case PeriodYear:
		from = now.AddDate(-1, 0, 0)
	default:
		return nil, fmt.Errorf("%w: unknown period %q", ErrValidation, p)
	}
	return &from, nil
}

// CreatePaymentRequest тело запроса регистрации платежа
type CreatePaymentRequest struct {
	AppointmentID int64    `json:"appointmentId"`
	Amount        float64  `json:"amount"`
	Discount      *float64 `json:"discount,omitempty"`
	Method        string   `json:"method"`
}

// ToDomain проверяет поля и конвертирует request в domain модель
func (r *CreatePaymentRequest) ToDomain() (*domain.Payment, error) {
	if r.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentId is required", ErrValidation)
	}
	if r.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	discount := 0.0
	if r.Discount != nil {
		discount = *r.Discount
	}
	if discount < 0 || discount > r.Amount {
		return nil, fmt.Errorf("%w: discount must be between 0 and amount", ErrValidation)
	}

	method := domain.PaymentMethod(r.Method)
	if !slices.Contains(domain.PaymentMethods, method) {
		return nil, fmt.Errorf("%w: unknown method %q", ErrValidation, r.Method)
	}

	return &domain.Payment{
		AppointmentID: r.AppointmentID,
		Amount:        r.Amount,
		Discount:      discount,
		Method:        method,
		Status:        domain.PaymentPending,
	}, nil
}

// ListPaymentsRequest параметры выборки журнала
type ListPaymentsRequest struct {
	Period Period
	Status string
}

// ToDomainFilter конвертирует параметры выборки в фильтр репозитория
func (r *ListPaymentsRequest) ToDomainFilter(now time.Time) (domain.PaymentsFilter, error) {
	from, err := r.Period.Since(now)
	if err != nil {
		return domain.PaymentsFilter{}, err
	}

	filter := domain.PaymentsFilter{CreatedFrom: from}
	if r.Status != "" && r.Status != "all" {
		status := domain.PaymentStatus(r.Status)
		switch status {
		case domain.PaymentPending, domain.PaymentPaid, domain.PaymentCancelled:
			filter.Status = &status
		default:
			return domain.PaymentsFilter{}, fmt.Errorf("%w: unknown status %q", ErrValidation, r.Status)
		}
	}
	return filter, nil
}

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID            int64      `json:"id"`
	AppointmentID int64      `json:"appointmentId"`
	Amount        float64    `json:"amount"`
	Discount      float64    `json:"discount"`
	Net           float64    `json:"net"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	PatientName   string     `json:"patientName,omitempty"`
	ProcedureName string     `json:"procedureName,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PaymentListResponse ответ со списком платежей
type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// SummaryResponse финансовая сводка за период
type SummaryResponse struct {
	Period         string             `json:"period"`
	TotalReceived  float64            `json:"totalReceived"`
	TotalPending   float64            `json:"totalPending"`
	TotalCancelled float64            `json:"totalCancelled"`
	Count          int                `json:"count"`
	AverageTicket  float64            `json:"averageTicket"`
	ByMethod       map[string]float64 `json:"byMethod"`
}

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		Amount:        p.Amount,
		Discount:      p.Discount,
		Net:           p.Net(),
		Method:        string(p.Method),
		Status:        string(p.Status),
		PaidAt:        p.PaidAt,
		PatientName:   p.PatientName,
		ProcedureName: p.ProcedureName,
		CreatedAt:     p.CreatedAt,
	}
}

// FromDomainPayments конвертирует список
func FromDomainPayments(list []*domain.Payment) *PaymentListResponse {
	resp := &PaymentListResponse{Payments: make([]PaymentResponse, 0, len(list))}
	for _, p := range list {
		resp.Payments = append(resp.Payments, *FromDomainPayment(p))
	}
	return resp
}

// FromDomainSummary конвертирует сводку
func FromDomainSummary(period Period, s domain.PaymentSummary) *SummaryResponse {
	byMethod := make(map[string]float64, len(s.ByMethod))
	for m, v := range s.ByMethod {
		byMethod[string(m)] = v
	}
	name := string(period)
	if name == "" {
		name = "all"
	}
	return &SummaryResponse{
		Period:         name,
		TotalReceived:  s.TotalReceived,
		TotalPending:   s.TotalPending,
		TotalCancelled: s.TotalCancelled,
		Count:          s.Count,
		AverageTicket:  s.AverageTicket,
		ByMethod:       byMethod,
	}
}
