package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

var (
	// ErrValidation возвращается при некорректных полях процедуры
	ErrValidation = errors.New("invalid procedure data")
)

// ProcedureRequest тело запроса создания и обновления процедуры
type ProcedureRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Value           float64 `json:"value"`
	DurationMinutes int     `json:"durationMinutes"`
	Materials       *string `json:"materials,omitempty"`
}

// ToDomain проверяет поля и конвертирует request в domain модель
func (r *ProcedureRequest) ToDomain() (*domain.Procedure, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(name) > domain.MaxNameLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters", ErrValidation, domain.MaxNameLength)
	}
	if r.Value <= 0 {
		return nil, fmt.Errorf("%w: value must be positive", ErrValidation)
	}
	if r.DurationMinutes < domain.MinProcedureDurationMinutes || r.DurationMinutes > domain.MaxProcedureDurationMinutes {
		return nil, fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrValidation, domain.MinProcedureDurationMinutes, domain.MaxProcedureDurationMinutes)
	}

	return &domain.Procedure{
		Name:            name,
		Description:     r.Description,
		Value:           r.Value,
		DurationMinutes: r.DurationMinutes,
		Materials:       r.Materials,
	}, nil
}

// ProcedureResponse ответ с данными процедуры
type ProcedureResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Value           float64   `json:"value"`
	DurationMinutes int       `json:"durationMinutes"`
	Materials       *string   `json:"materials,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProcedureListResponse ответ со списком процедур
type ProcedureListResponse struct {
	Procedures []ProcedureResponse `json:"procedures"`
}

// FromDomainProcedure конвертирует domain модель в DTO
func FromDomainProcedure(p *domain.Procedure) *ProcedureResponse {
	if p == nil {
		return nil
	}
	return &ProcedureResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Value:           p.Value,
		DurationMinutes: p.DurationMinutes,
		Materials:       p.Materials,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// FromDomainProcedures конвертирует список
func FromDomainProcedures(list []*domain.Procedure) *ProcedureListResponse {
	resp := &ProcedureListResponse{Procedures: make([]ProcedureResponse, 0, len(list))}
	for _, p := range list {
		resp.Procedures = append(resp.Procedures, *FromDomainProcedure(p))
	}
	return resp
}
