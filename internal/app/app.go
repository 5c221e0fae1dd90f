// Package app собирает зависимости сервиса: репозитории, сервисы, use cases и HTTP роутер.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	authHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/auth"
	cancelAppointmentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/cancel_appointment"
	checkAvailabilityHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/check_availability"
	createAppointmentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_available_slots"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_patient_appointments"
	getScheduleConfigHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_schedule_config"
	listAppointmentsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/list_appointments"
	patientsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/patients"
	paymentsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/payments"
	proceduresHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/procedures"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/config"
	"github.com/m04kA/SMC-ClinicService/internal/infra/lock"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	patientRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/patient"
	paymentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/payment"
	procedureRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/procedure"
	userRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/user"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	appointmentsService "github.com/m04kA/SMC-ClinicService/internal/service/appointments"
	authService "github.com/m04kA/SMC-ClinicService/internal/service/auth"
	patientsService "github.com/m04kA/SMC-ClinicService/internal/service/patients"
	paymentsService "github.com/m04kA/SMC-ClinicService/internal/service/payments"
	proceduresService "github.com/m04kA/SMC-ClinicService/internal/service/procedures"
	checkAvailabilityUC "github.com/m04kA/SMC-ClinicService/internal/usecase/check_availability"
	createAppointmentUC "github.com/m04kA/SMC-ClinicService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-ClinicService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-ClinicService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicService/pkg/txmanager"
)

// Logger общий интерфейс логгера всех слоев
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Deps внешние зависимости приложения
type Deps struct {
	DB      *dbmetrics.DB
	Dialect storage.Dialect
	Locker  lock.DayLocker
	Window  scheduler.Window
	Auth    config.AuthConfig

	// Metrics может быть nil, тогда метрики не собираются и /metrics не публикуется
	Metrics     *metrics.Metrics
	MetricsPath string

	Logger Logger
}

// App собранное приложение
type App struct {
	Router http.Handler

	Auth                  *authService.Service
	Patients              *patientsService.Service
	Procedures            *proceduresService.Service
	Appointments          *appointmentsService.Service
	Payments              *paymentsService.Service
	CreateAppointment     *createAppointmentUC.UseCase
	RescheduleAppointment *rescheduleAppointmentUC.UseCase
	CheckAvailability     *checkAvailabilityUC.UseCase
	FreeSlots             *getAvailableSlotsUC.UseCase
}

// New собирает приложение
func New(d Deps) *App {
	log := d.Logger

	// Репозитории
	appointments := appointmentRepo.NewRepository(d.DB, d.Dialect)
	patients := patientRepo.NewRepository(d.DB)
	procedures := procedureRepo.NewRepository(d.DB)
	payments := paymentRepo.NewRepository(d.DB)
	users := userRepo.NewRepository(d.DB)
	txMgr := txmanager.NewTransactionManager(d.DB)

	a := &App{}

	// Сервисы
	a.Auth = authService.NewService(users, d.Auth.JWTSecret, d.Auth.TokenTTL(), d.Metrics, log)
	a.Patients = patientsService.NewService(patients, appointments, log)
	a.Procedures = proceduresService.NewService(procedures, appointments, log)
	a.Appointments = appointmentsService.NewService(appointments, payments, txMgr, log)
	a.Payments = paymentsService.NewService(payments, appointments, log)

	// Use cases
	a.CreateAppointment = createAppointmentUC.NewUseCase(
		appointments,
		patients,
		procedures,
		d.Locker,
		txMgr,
		d.Window,
		d.Metrics,
		log,
	)
	a.RescheduleAppointment = rescheduleAppointmentUC.NewUseCase(
		appointments,
		d.Locker,
		txMgr,
		d.Window,
		d.Metrics,
		log,
	)
	a.CheckAvailability = checkAvailabilityUC.NewUseCase(appointments, procedures, d.Window, d.Metrics, log)
	a.FreeSlots = getAvailableSlotsUC.NewUseCase(appointments, procedures, d.Window, log)

	a.Router = a.newRouter(d)
	return a
}

func (a *App) newRouter(d Deps) *mux.Router {
	log := d.Logger

	// Handlers
	auth := authHandler.NewHandler(a.Auth, log)
	patients := patientsHandler.NewHandler(a.Patients, log)
	procedures := proceduresHandler.NewHandler(a.Procedures, log)
	payments := paymentsHandler.NewHandler(a.Payments, log)
	createAppointment := createAppointmentHandler.NewHandler(a.CreateAppointment, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(a.RescheduleAppointment, log)
	getAppointment := getAppointmentHandler.NewHandler(a.Appointments, log)
	listAppointments := listAppointmentsHandler.NewHandler(a.Appointments, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(a.Appointments, a.Patients, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(a.Appointments, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(a.Appointments, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(a.Appointments, log)
	freeSlots := getAvailableSlotsHandler.NewHandler(a.FreeSlots, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(a.CheckAvailability, log)
	scheduleConfig := getScheduleConfigHandler.NewHandler(d.Window, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if d.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.Metrics))
		r.Handle(d.MetricsPath, d.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", health(d.DB, log)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	limiter := middleware.NewIPRateLimiter(d.Auth.LoginRatePerMinute, d.Auth.LoginBurst)
	api.Handle("/auth/login", limiter.Middleware(log)(http.HandlerFunc(auth.Login))).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (Authorization: Bearer <jwt>)
	// ============================================================

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(a.Auth, log))

	protected.HandleFunc("/auth/me", auth.Me).Methods(http.MethodGet)

	// --- Пациенты ---
	protected.HandleFunc("/patients", patients.Create).Methods(http.MethodPost)
	protected.HandleFunc("/patients", patients.List).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{patientId}", patients.Get).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{patientId}", patients.Update).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{patientId}", patients.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// --- Процедуры ---
	protected.HandleFunc("/procedures", procedures.Create).Methods(http.MethodPost)
	protected.HandleFunc("/procedures", procedures.List).Methods(http.MethodGet)
	protected.HandleFunc("/procedures/{procedureId}", procedures.Get).Methods(http.MethodGet)
	protected.HandleFunc("/procedures/{procedureId}", procedures.Update).Methods(http.MethodPut)
	protected.HandleFunc("/procedures/{procedureId}", procedures.Delete).Methods(http.MethodDelete)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPut)

	// --- Расписание ---
	protected.HandleFunc("/schedule/free-slots", freeSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/schedule/availability", checkAvailability.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/schedule/config", scheduleConfig.Handle).Methods(http.MethodGet)

	// --- Финансы (finance, developer) ---
	finance := protected.PathPrefix("/payments").Subrouter()
	finance.Use(middleware.RequireFinance(log))

	finance.HandleFunc("", payments.Create).Methods(http.MethodPost)
	finance.HandleFunc("", payments.List).Methods(http.MethodGet)
	finance.HandleFunc("/summary", payments.Summary).Methods(http.MethodGet)
	finance.HandleFunc("/{paymentId}", payments.Get).Methods(http.MethodGet)
	finance.HandleFunc("/{paymentId}/pay", payments.MarkPaid).Methods(http.MethodPatch)
	finance.HandleFunc("/{paymentId}/cancel", payments.Cancel).Methods(http.MethodPatch)

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

// health проверяет доступность базы
func health(db *dbmetrics.DB, log Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Error("GET /health - Database ping failed: %v", err)
			handlers.RespondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
