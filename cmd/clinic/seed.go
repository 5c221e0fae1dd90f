package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	authService "github.com/m04kA/SMC-ClinicService/internal/service/auth"
	authModels "github.com/m04kA/SMC-ClinicService/internal/service/auth/models"
	patientModels "github.com/m04kA/SMC-ClinicService/internal/service/patients/models"
	paymentModels "github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
	procedureModels "github.com/m04kA/SMC-ClinicService/internal/service/procedures/models"
	createAppointmentUC "github.com/m04kA/SMC-ClinicService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-ClinicService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
)

var (
	seedPatients     int
	seedAppointments int
	seedDays         int
	seedPassword     string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill database with demo data",
	Long: `Создает пользователей всех ролей, каталог процедур, пациентов и записи
на ближайшие дни. Записи размещаются только в свободные слоты.

Examples:
  clinic seed
  clinic seed --patients 200 --appointments 500 --days 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := storage.Migrate(ctx, rt.db, rt.dialect); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		gofakeit.Seed(time.Now().UnixNano())

		s := &seeder{rt: rt}
		if err := s.users(ctx); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		procedures, err := s.procedures(ctx)
		if err != nil {
			return fmt.Errorf("seed procedures: %w", err)
		}
		patients, err := s.patients(ctx, seedPatients)
		if err != nil {
			return fmt.Errorf("seed patients: %w", err)
		}
		if err := s.appointments(ctx, patients, procedures, seedAppointments, seedDays); err != nil {
			return fmt.Errorf("seed appointments: %w", err)
		}

		rt.log.Info("Seed complete")
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedPatients, "patients", 50, "number of patients")
	seedCmd.Flags().IntVar(&seedAppointments, "appointments", 120, "number of appointments to try to place")
	seedCmd.Flags().IntVar(&seedDays, "days", 14, "spread appointments over this many days starting tomorrow")
	seedCmd.Flags().StringVar(&seedPassword, "password", "clinic123", "password for seeded users")
}

type seeder struct {
	rt *runtime
}

func (s *seeder) users(ctx context.Context) error {
	for _, role := range domain.Roles {
		req := &authModels.RegisterRequest{
			Name:     gofakeit.Name(),
			Email:    string(role) + "@clinic.local",
			Password: seedPassword,
			Role:     string(role),
		}

		_, err := s.rt.app.Auth.Register(ctx, req)
		switch {
		case errors.Is(err, authService.ErrDuplicate):
			s.rt.log.Info("User %s already exists, skipping", req.Email)
		case err != nil:
			return err
		default:
			s.rt.log.Info("Seeded user %s (role=%s)", req.Email, role)
		}
	}
	return nil
}

var catalog = []procedureModels.ProcedureRequest{
	{Name: "Consulta inicial", Value: 200, DurationMinutes: 30},
	{Name: "Limpeza de pele", Value: 180, DurationMinutes: 60},
	{Name: "Peeling químico", Value: 350, DurationMinutes: 45},
	{Name: "Toxina botulínica", Value: 1200, DurationMinutes: 30},
	{Name: "Preenchimento labial", Value: 1500, DurationMinutes: 90},
	{Name: "Microagulhamento", Value: 450, DurationMinutes: 60},
}

func (s *seeder) procedures(ctx context.Context) ([]int64, error) {
	existing, err := s.rt.app.Procedures.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(catalog))
	for _, p := range existing.Procedures {
		ids = append(ids, p.ID)
	}
	if len(ids) > 0 {
		s.rt.log.Info("Procedures catalog already has %d entries, skipping", len(ids))
		return ids, nil
	}

	for i := range catalog {
		created, err := s.rt.app.Procedures.Create(ctx, &catalog[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	s.rt.log.Info("Seeded %d procedures", len(ids))
	return ids, nil
}

func (s *seeder) patients(ctx context.Context, count int) ([]int64, error) {
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		birth := gofakeit.DateRange(
			time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC),
		)
		req := &patientModels.PatientRequest{
			Name:      gofakeit.Name(),
			Email:     ptr.Ptr(gofakeit.Email()),
			Phone:     ptr.Ptr(gofakeit.Phone()),
			BirthDate: ptr.Ptr(birth.Format(domain.DateFormat)),
			Address:   ptr.Ptr(gofakeit.Street()),
			City:      ptr.Ptr(gofakeit.City()),
			State:     ptr.Ptr(gofakeit.StateAbr()),
			ZipCode:   ptr.Ptr(gofakeit.Zip()),
		}

		created, err := s.rt.app.Patients.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	s.rt.log.Info("Seeded %d patients", len(ids))
	return ids, nil
}

func (s *seeder) appointments(ctx context.Context, patients, procedures []int64, count, days int) error {
	if len(patients) == 0 || len(procedures) == 0 || days <= 0 {
		return nil
	}

	y, m, d := time.Now().Date()
	tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
	placed, paid := 0, 0

	for i := 0; i < count; i++ {
		day := tomorrow.AddDate(0, 0, gofakeit.Number(0, days-1))
		procedureID := procedures[gofakeit.Number(0, len(procedures)-1)]

		free, err := s.rt.app.FreeSlots.Execute(ctx, &getAvailableSlotsUC.Request{
			Date:        day,
			ProcedureID: ptr.Ptr(procedureID),
		})
		if err != nil {
			return err
		}
		if len(free.Slots) == 0 {
			continue
		}

		created, err := s.rt.app.CreateAppointment.Execute(ctx, &createAppointmentUC.Request{
			PatientID:   patients[gofakeit.Number(0, len(patients)-1)],
			ProcedureID: procedureID,
			Date:        day,
			Start:       free.Slots[gofakeit.Number(0, len(free.Slots)-1)],
		})
		if errors.Is(err, scheduler.ErrSchedulingConflict) {
			continue
		}
		if err != nil {
			return err
		}
		placed++

		// часть записей сразу с платежом
		if created.Value == nil || !gofakeit.Bool() {
			continue
		}
		method := domain.PaymentMethods[gofakeit.Number(0, len(domain.PaymentMethods)-1)]
		if _, err := s.rt.app.Payments.Create(ctx, &paymentModels.CreatePaymentRequest{
			AppointmentID: created.ID,
			Amount:        *created.Value,
			Method:        string(method),
		}); err != nil {
			return err
		}
		paid++
	}

	s.rt.log.Info("Seeded %d appointments (%d with payments) over %d days", placed, paid, days)
	return nil
}
