package domain

import "time"

// Patient карточка пациента
type Patient struct {
	ID        int64
	Name      string
	Email     *string
	Phone     *string
	CPF       *string
	BirthDate *time.Time
	Address   *string
	City      *string
	State     *string
	ZipCode   *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
