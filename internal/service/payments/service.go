package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
)

// Service сервис финансового журнала
type Service struct {
	paymentRepo     PaymentRepository
	appointmentRepo AppointmentRepository
	now             func() time.Time
	logger          Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(paymentRepo PaymentRepository, appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		now:             time.Now,
		logger:          logger,
	}
}

// Create регистрирует платеж за запись в статусе pending
func (s *Service) Create(ctx context.Context, req *models.CreatePaymentRequest) (*models.PaymentResponse, error) {
	s.logger.Info("Create: payment for appointment id=%d, amount=%.2f", req.AppointmentID, req.Amount)

	payment, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.appointmentRepo.GetByID(ctx, payment.AppointmentID); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Create: appointment id=%d not found", payment.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Create: failed to get appointment id=%d: %v", payment.AppointmentID, err)
		return nil, fmt.Errorf("%w: Create - get appointment: %v", ErrInternal, err)
	}

	payment.CreatedAt = s.now()
	created, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrDuplicate) {
			s.logger.Warn("Create: appointment id=%d already has a payment", payment.AppointmentID)
			return nil, ErrDuplicate
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created payment id=%d", created.ID)
	return models.FromDomainPayment(created), nil
}

// GetByID получает платеж
func (s *Service) GetByID(ctx context.Context, id int64) (*models.PaymentResponse, error) {
	payment, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainPayment(payment), nil
}

// List журнал за период, новые первыми
func (s *Service) List(ctx context.Context, req *models.ListPaymentsRequest) (*models.PaymentListResponse, error) {
	list, err := s.list(ctx, "List", req)
	if err != nil {
		return nil, err
	}
	return models.FromDomainPayments(list), nil
}

// Summary финансовая сводка за период
func (s *Service) Summary(ctx context.Context, req *models.ListPaymentsRequest) (*models.SummaryResponse, error) {
	list, err := s.list(ctx, "Summary", req)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSummary(req.Period, domain.Summarize(list)), nil
}

// MarkPaid переводит платеж из pending в paid
func (s *Service) MarkPaid(ctx context.Context, id int64) (*models.PaymentResponse, error) {
	return s.setStatus(ctx, "MarkPaid", id, domain.PaymentPaid)
}

// Cancel отменяет платеж. Уже отмененный платеж отменить нельзя.
func (s *Service) Cancel(ctx context.Context, id int64) (*models.PaymentResponse, error) {
	return s.setStatus(ctx, "Cancel", id, domain.PaymentCancelled)
}

func (s *Service) setStatus(ctx context.Context, op string, id int64, next domain.PaymentStatus) (*models.PaymentResponse, error) {
	s.logger.Info("%s: payment id=%d -> %s", op, id, next)

	payment, err := s.get(ctx, op, id)
	if err != nil {
		return nil, err
	}

	allowed := payment.Status == domain.PaymentPending ||
		(next == domain.PaymentCancelled && payment.Status == domain.PaymentPaid)
	if !allowed {
		s.logger.Warn("%s: payment id=%d is %s", op, id, payment.Status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, payment.Status, next)
	}

	now := s.now()
	var paidAt *time.Time
	if next == domain.PaymentPaid {
		paidAt = &now
	}

	if err := s.paymentRepo.UpdateStatus(ctx, id, next, paidAt, now); err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("%s: repository error for payment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: payment id=%d is %s", op, id, next)
	return s.GetByID(ctx, id)
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("%s: payment id=%d not found", op, id)
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("%s: repository error for payment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return payment, nil
}

func (s *Service) list(ctx context.Context, op string, req *models.ListPaymentsRequest) ([]*domain.Payment, error) {
	filter, err := req.ToDomainFilter(s.now())
	if err != nil {
		s.logger.Warn("%s: invalid filter: %v", op, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: found %d payments for period %q", op, len(list), req.Period)
	return list, nil
}
