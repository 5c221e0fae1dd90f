package domain

import "time"

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	MethodPix    PaymentMethod = "pix"
	MethodCard   PaymentMethod = "card"
	MethodCash   PaymentMethod = "cash"
	MethodBoleto PaymentMethod = "boleto"
)

// PaymentMethods все поддерживаемые способы оплаты
var PaymentMethods = []PaymentMethod{MethodPix, MethodCard, MethodCash, MethodBoleto}

// PaymentStatus статус платежа
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment платеж за прием
type Payment struct {
	ID            int64
	AppointmentID int64
	Amount        float64
	Discount      float64
	Method        PaymentMethod
	Status        PaymentStatus
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Денормализованные данные для финансового отчета
	PatientName   string
	ProcedureName string
}

// Net сумма с учетом скидки
func (p *Payment) Net() float64 {
	return p.Amount - p.Discount
}

// PaymentsFilter фильтр платежей
type PaymentsFilter struct {
	CreatedFrom *time.Time
	Status      *PaymentStatus
}

// PaymentSummary финансовая сводка за период
type PaymentSummary struct {
	TotalReceived  float64
	TotalPending   float64
	TotalCancelled float64
	Count          int
	AverageTicket  float64
	ByMethod       map[PaymentMethod]float64
}

// Summarize считает сводку по списку платежей.
// Все суммы учитываются за вычетом скидки, средний чек считается по оплаченным.
func Summarize(payments []*Payment) PaymentSummary {
	summary := PaymentSummary{
		Count:    len(payments),
		ByMethod: make(map[PaymentMethod]float64, len(PaymentMethods)),
	}
	for _, m := range PaymentMethods {
		summary.ByMethod[m] = 0
	}

	paid := 0
	for _, p := range payments {
		switch p.Status {
		case PaymentPaid:
			summary.TotalReceived += p.Net()
			summary.ByMethod[p.Method] += p.Net()
			paid++
		case PaymentPending:
			summary.TotalPending += p.Net()
		case PaymentCancelled:
			summary.TotalCancelled += p.Net()
		}
	}

	if paid > 0 {
		summary.AverageTicket = summary.TotalReceived / float64(paid)
	}
	return summary
}
