package patients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	patientRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/patient"
	"github.com/m04kA/SMC-ClinicService/internal/service/patients/models"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
)

type mockPatientRepo struct {
	mock.Mock
}

func (m *mockPatientRepo) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *mockPatientRepo) List(ctx context.Context, search string) ([]*domain.Patient, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Patient), args.Error(1)
}

func (m *mockPatientRepo) Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *mockPatientRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) CountActiveByPatient(ctx context.Context, patientID int64) (int, error) {
	args := m.Called(ctx, patientID)
	return args.Int(0), args.Error(1)
}

func (m *mockCounter) CountByPatient(ctx context.Context, patientID int64) (int, error) {
	args := m.Called(ctx, patientID)
	return args.Int(0), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func newService(repo *mockPatientRepo, counter *mockCounter) *Service {
	svc := NewService(repo, counter, nopLogger{})
	svc.now = func() time.Time { return now }
	return svc
}

func fakeRequest(f *gofakeit.Faker) *models.PatientRequest {
	return &models.PatientRequest{
		Name:      f.Name(),
		Email:     ptr.Ptr(f.Email()),
		Phone:     ptr.Ptr(f.Phone()),
		CPF:       ptr.Ptr(f.Numerify("###.###.###-##")),
		BirthDate: ptr.Ptr("1988-07-02"),
		City:      ptr.Ptr(f.City()),
		State:     ptr.Ptr(f.StateAbr()),
		ZipCode:   ptr.Ptr(f.Zip()),
	}
}

func TestService_Create(t *testing.T) {
	f := gofakeit.New(42)
	req := fakeRequest(f)

	repo := &mockPatientRepo{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Patient) bool {
		return p.Name == req.Name && p.BirthDate != nil && p.BirthDate.Year() == 1988
	})).Return(&domain.Patient{ID: 10, Name: req.Name, CPF: req.CPF, BirthDate: ptr.Ptr(time.Date(1988, 7, 2, 0, 0, 0, 0, time.UTC))}, nil)

	resp, err := newService(repo, &mockCounter{}).Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.ID)
	require.NotNil(t, resp.BirthDate)
	assert.Equal(t, "1988-07-02", *resp.BirthDate)
	repo.AssertExpectations(t)
}

func TestService_Create_Errors(t *testing.T) {
	f := gofakeit.New(7)

	repo := &mockPatientRepo{}
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, patientRepo.ErrDuplicate).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()
	svc := newService(repo, &mockCounter{})

	_, err := svc.Create(context.Background(), fakeRequest(f))
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Create(context.Background(), fakeRequest(f))
	assert.ErrorIs(t, err, ErrInternal)

	invalid := []*models.PatientRequest{
		{Name: "   "},
		{Name: "Ana", Email: ptr.Ptr("not-an-email")},
		{Name: "Ana", BirthDate: ptr.Ptr("02/07/1988")},
		{Name: "Ana", BirthDate: ptr.Ptr("2030-01-01")},
	}
	for _, req := range invalid {
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput, req)
	}
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestService_Update(t *testing.T) {
	repo := &mockPatientRepo{}
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Patient) bool { return p.ID == 3 })).
		Return(&domain.Patient{ID: 3, Name: "Ana Costa"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Patient) bool { return p.ID == 404 })).
		Return(nil, patientRepo.ErrPatientNotFound)
	svc := newService(repo, &mockCounter{})

	resp, err := svc.Update(context.Background(), 3, &models.PatientRequest{Name: "Ana Costa", Email: ptr.Ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Costa", resp.Name)

	_, err = svc.Update(context.Background(), 404, &models.PatientRequest{Name: "Ana Costa"})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		active  int
		total   int
		repoErr error
		wantErr error
	}{
		{name: "no appointments", wantErr: nil},
		{name: "upcoming appointment", active: 1, total: 1, wantErr: ErrHasActiveAppointments},
		{name: "history only", total: 3, wantErr: ErrHasHistory},
		{name: "not found", repoErr: patientRepo.ErrPatientNotFound, wantErr: ErrPatientNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &mockCounter{}
			counter.On("CountActiveByPatient", mock.Anything, int64(5)).Return(tt.active, nil)
			counter.On("CountByPatient", mock.Anything, int64(5)).Return(tt.total, nil)
			repo := &mockPatientRepo{}
			repo.On("Delete", mock.Anything, int64(5)).Return(tt.repoErr)

			err := newService(repo, counter).Delete(context.Background(), 5)
			if tt.wantErr == nil {
				require.NoError(t, err)
				repo.AssertCalled(t, "Delete", mock.Anything, int64(5))
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.active > 0 || tt.total > 0 {
				repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestService_List(t *testing.T) {
	repo := &mockPatientRepo{}
	repo.On("List", mock.Anything, "sil").Return([]*domain.Patient{{ID: 1, Name: "Maria Silva"}}, nil)

	resp, err := newService(repo, &mockCounter{}).List(context.Background(), "sil")
	require.NoError(t, err)
	require.Len(t, resp.Patients, 1)
	assert.Equal(t, "Maria Silva", resp.Patients[0].Name)
}
