package models

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

var (
	// ErrValidation возвращается при некорректных полях карточки
	ErrValidation = errors.New("invalid patient data")
)

// PatientRequest тело запроса создания и обновления карточки
type PatientRequest struct {
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	CPF       *string `json:"cpf,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"` // "1990-05-21"
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zipCode,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// ToDomain проверяет поля и конвертирует request в domain модель.
// Пустые строки опциональных полей превращаются в nil.
func (r *PatientRequest) ToDomain(now time.Time) (*domain.Patient, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters", ErrValidation, domain.MaxNameLength)
	}

	p := &domain.Patient{
		Name:    name,
		Email:   optional(r.Email),
		Phone:   optional(r.Phone),
		CPF:     optional(r.CPF),
		Address: optional(r.Address),
		City:    optional(r.City),
		State:   optional(r.State),
		ZipCode: optional(r.ZipCode),
		Notes:   optional(r.Notes),
	}

	if p.Email != nil {
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, *p.Email)
		}
	}

	if bd := optional(r.BirthDate); bd != nil {
		t, err := time.Parse(domain.DateFormat, *bd)
		if err != nil {
			return nil, fmt.Errorf("%w: birthDate must be YYYY-MM-DD", ErrValidation)
		}
		if t.After(now) {
			return nil, fmt.Errorf("%w: birthDate is in the future", ErrValidation)
		}
		p.BirthDate = &t
	}

	if p.Notes != nil && len(*p.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrValidation, domain.MaxNotesLength)
	}

	return p, nil
}

// PatientResponse ответ с карточкой пациента
type PatientResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CPF       *string   `json:"cpf,omitempty"`
	BirthDate *string   `json:"birthDate,omitempty"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
	State     *string   `json:"state,omitempty"`
	ZipCode   *string   `json:"zipCode,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PatientListResponse ответ со списком пациентов
type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
}

// FromDomainPatient конвертирует domain модель в DTO
func FromDomainPatient(p *domain.Patient) *PatientResponse {
	if p == nil {
		return nil
	}

	resp := &PatientResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		CPF:       p.CPF,
		Address:   p.Address,
		City:      p.City,
		State:     p.State,
		ZipCode:   p.ZipCode,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	if p.BirthDate != nil {
		bd := p.BirthDate.Format(domain.DateFormat)
		resp.BirthDate = &bd
	}

	return resp
}

// FromDomainPatients конвертирует список
func FromDomainPatients(list []*domain.Patient) *PatientListResponse {
	resp := &PatientListResponse{Patients: make([]PatientResponse, 0, len(list))}
	for _, p := range list {
		resp.Patients = append(resp.Patients, *FromDomainPatient(p))
	}
	return resp
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
