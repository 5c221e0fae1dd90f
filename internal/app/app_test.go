package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/config"
	"github.com/m04kA/SMC-ClinicService/internal/infra/lock"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	authModels "github.com/m04kA/SMC-ClinicService/internal/service/auth/models"
	"github.com/m04kA/SMC-ClinicService/pkg/logger"
	"github.com/m04kA/SMC-ClinicService/pkg/metrics"
)

const day = "2099-01-15"

type testApp struct {
	t   *testing.T
	app *App
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	a := New(Deps{
		DB:      storagetest.NewDB(t),
		Dialect: storage.SQLite,
		Locker:  lock.NewLocal(time.Second),
		Window:  scheduler.DefaultWindow(),
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret",
			TokenTTLMinutes:    60,
			LoginRatePerMinute: 600,
			LoginBurst:         100,
		},
		Metrics:     metrics.New("clinic_test"),
		MetricsPath: "/metrics",
		Logger:      logger.NewNop(),
	})

	for _, u := range []authModels.RegisterRequest{
		{Name: "Ana", Email: "ana@clinica.com", Password: "segredo123", Role: "finance"},
		{Name: "Dr. Paulo", Email: "paulo@clinica.com", Password: "segredo123", Role: "doctor"},
	} {
		_, err := a.Auth.Register(context.Background(), &u)
		require.NoError(t, err)
	}

	return &testApp{t: t, app: a}
}

func (ta *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	ta.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(ta.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ta.app.Router.ServeHTTP(rec, req)
	return rec
}

func (ta *testApp) login(email, role string) string {
	ta.t.Helper()

	rec := ta.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "segredo123", "role": role,
	})
	require.Equal(ta.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp authModels.LoginResponse
	require.NoError(ta.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestApp_HealthAndAuth(t *testing.T) {
	ta := newTestApp(t)

	rec := ta.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = ta.do(http.MethodGet, "/api/v1/patients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ta.do(http.MethodGet, "/api/v1/patients", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ta.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ana@clinica.com", "password": "segredo123", "role": "doctor",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := ta.login("ana@clinica.com", "finance")
	rec = ta.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana", decode[map[string]any](t, rec)["name"])
}

func TestApp_SchedulingFlow(t *testing.T) {
	ta := newTestApp(t)
	doctor := ta.login("paulo@clinica.com", "doctor")
	finance := ta.login("ana@clinica.com", "finance")

	rec := ta.do(http.MethodPost, "/api/v1/procedures", doctor, map[string]any{
		"name": "Limpeza", "value": 150, "durationMinutes": 60,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	procedureID := int64(decode[map[string]any](t, rec)["id"].(float64))

	rec = ta.do(http.MethodPost, "/api/v1/patients", doctor, map[string]any{
		"name": "Maria Silva", "email": "maria@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	patientID := int64(decode[map[string]any](t, rec)["id"].(float64))

	book := func(start string) *httptest.ResponseRecorder {
		return ta.do(http.MethodPost, "/api/v1/appointments", doctor, map[string]any{
			"patientId": patientID, "procedureId": procedureID, "date": day, "startTime": start,
		})
	}

	// 10:00-11:00 занимает слоты 10:00 и 10:30
	rec = book("10:00")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, []any{"10:00", "10:30"}, created["slots"])
	assert.Equal(t, "11:00", created["endTime"])
	appointmentID := int64(created["id"].(float64))

	rec = book("10:30")
	require.Equal(t, http.StatusConflict, rec.Code)
	conflict := decode[map[string]any](t, rec)
	assert.Equal(t, scheduler.ReasonSlotsBooked, conflict["reason"])
	assert.Equal(t, []any{"10:30"}, conflict["conflictingSlots"])

	rec = book("17:30")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, scheduler.ReasonAfterClosing, decode[map[string]any](t, rec)["reason"])

	rec = book("10:15")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ta.do(http.MethodGet, "/api/v1/schedule/free-slots?date="+day+"&procedureId="+itoa(procedureID), doctor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slots := decode[map[string]any](t, rec)["slots"].([]any)
	assert.Contains(t, slots, "09:00")
	assert.NotContains(t, slots, "09:30")
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "10:30")
	assert.Contains(t, slots, "11:00")
	assert.Equal(t, "17:00", slots[len(slots)-1])

	rec = ta.do(http.MethodGet, "/api/v1/schedule/availability?date="+day+"&start=09:30&duration=60", doctor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	availability := decode[map[string]any](t, rec)
	assert.Equal(t, false, availability["available"])
	assert.Equal(t, []any{"10:00"}, availability["conflictingSlots"])

	rec = ta.do(http.MethodGet, "/api/v1/schedule/free-slots?date="+day, doctor, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// финансы доступны только finance и developer
	rec = ta.do(http.MethodPost, "/api/v1/payments", doctor, map[string]any{
		"appointmentId": appointmentID, "amount": 150, "method": "pix",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ta.do(http.MethodPost, "/api/v1/payments", finance, map[string]any{
		"appointmentId": appointmentID, "amount": 150, "method": "pix",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// перенос на 14:00 освобождает утренние слоты
	rec = ta.do(http.MethodPut, "/api/v1/appointments/"+itoa(appointmentID)+"/reschedule", doctor, map[string]any{
		"date": day, "startTime": "14:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []any{"14:00", "14:30"}, decode[map[string]any](t, rec)["slots"])

	rec = book("10:00")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := int64(decode[map[string]any](t, rec)["id"].(float64))

	rec = ta.do(http.MethodPatch, "/api/v1/appointments/"+itoa(second)+"/cancel", doctor, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// отмена освобождает слоты
	rec = book("10:00")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ta.do(http.MethodGet, "/api/v1/appointments?date="+day, doctor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string]any](t, rec)["appointments"], 2)

	rec = ta.do(http.MethodGet, "/api/v1/patients/"+itoa(patientID)+"/appointments", doctor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string]any](t, rec)["appointments"], 3)

	// запись с платежом удалить нельзя
	rec = ta.do(http.MethodDelete, "/api/v1/appointments/"+itoa(appointmentID), doctor, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ta.do(http.MethodDelete, "/api/v1/procedures/"+itoa(procedureID), doctor, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ta.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clinic_test_appointments_created_total 3")
	assert.True(t, strings.Contains(rec.Body.String(), `clinic_test_scheduling_conflicts_total{stage="check"} 2`), rec.Body.String())
}

func itoa(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
