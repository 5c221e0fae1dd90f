package get_patient_appointments

import (
	"context"

	appointmentModels "github.com/m04kA/SMC-ClinicService/internal/service/appointments/models"
	patientModels "github.com/m04kA/SMC-ClinicService/internal/service/patients/models"
)

type AppointmentService interface {
	List(ctx context.Context, req *appointmentModels.ListAppointmentsRequest) (*appointmentModels.AppointmentListResponse, error)
}

type PatientService interface {
	GetByID(ctx context.Context, id int64) (*patientModels.PatientResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
