package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	userRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/user"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ClinicService/internal/service/auth/models"
	"github.com/m04kA/SMC-ClinicService/pkg/metrics"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const secret = "test-secret"

func setup(t *testing.T) (*Service, *metrics.Metrics) {
	t.Helper()

	m := metrics.New("test")
	svc := NewService(userRepo.NewRepository(storagetest.NewDB(t)), secret, time.Hour, m, nopLogger{})
	svc.bcryptCost = bcrypt.MinCost

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Ana Financeiro",
		Email:    "Ana@Clinica.com",
		Password: "segredo123",
		Role:     "finance",
	})
	require.NoError(t, err)

	return svc, m
}

func TestService_LoginAndValidate(t *testing.T) {
	svc, m := setup(t)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "ana@clinica.com",
		Password: "segredo123",
		Role:     "finance",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana@clinica.com", resp.User.Email)
	assert.Equal(t, "finance", resp.User.Role)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.True(t, claims.CanAccessFinance())

	me, err := svc.Me(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, "Ana Financeiro", me.Name)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("success")))
}

func TestService_LoginRejected(t *testing.T) {
	svc, m := setup(t)

	tests := []struct {
		name string
		req  models.LoginRequest
	}{
		{"unknown email", models.LoginRequest{Email: "x@clinica.com", Password: "segredo123", Role: "finance"}},
		{"wrong role", models.LoginRequest{Email: "ana@clinica.com", Password: "segredo123", Role: "doctor"}},
		{"wrong password", models.LoginRequest{Email: "ana@clinica.com", Password: "errado", Role: "finance"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}

	_, err := svc.Login(context.Background(), &models.LoginRequest{Email: "ana@clinica.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("failed")))
}

func TestService_Register(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name: "Outra", Email: "ana@clinica.com", Password: "segredo123", Role: "doctor",
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	invalid := []models.RegisterRequest{
		{Name: "", Email: "a@b.c", Password: "segredo123", Role: "doctor"},
		{Name: "Bruno", Email: "a@b.c", Password: "123", Role: "doctor"},
		{Name: "Bruno", Email: "a@b.c", Password: "segredo123", Role: "admin"},
	}
	for _, req := range invalid {
		_, err := svc.Register(context.Background(), &req)
		assert.ErrorIs(t, err, ErrInvalidInput, req)
	}
}

func TestService_ValidateTokenRejects(t *testing.T) {
	svc, _ := setup(t)

	sign := func(method jwt.SigningMethod, key interface{}, claims models.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := models.Claims{
		UserID: 1,
		Role:   "finance",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	foreign := valid
	foreign.Issuer = "someone-else"

	tokens := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": sign(jwt.SigningMethodHS256, []byte("other"), valid),
		"expired":      sign(jwt.SigningMethodHS256, []byte(secret), expired),
		"issuer":       sign(jwt.SigningMethodHS256, []byte(secret), foreign),
		"alg none":     sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid),
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
