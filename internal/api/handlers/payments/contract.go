package payments

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
)

type PaymentService interface {
	Create(ctx context.Context, req *models.CreatePaymentRequest) (*models.PaymentResponse, error)
	GetByID(ctx context.Context, id int64) (*models.PaymentResponse, error)
	List(ctx context.Context, req *models.ListPaymentsRequest) (*models.PaymentListResponse, error)
	Summary(ctx context.Context, req *models.ListPaymentsRequest) (*models.SummaryResponse, error)
	MarkPaid(ctx context.Context, id int64) (*models.PaymentResponse, error)
	Cancel(ctx context.Context, id int64) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
