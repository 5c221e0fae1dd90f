package models

import (
	"github.com/golang-jwt/jwt/v4"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// LoginRequest тело запроса входа
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RegisterRequest данные нового сотрудника
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserResponse публичные данные сотрудника, без хеша пароля
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse ответ на успешный вход
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// Claims содержимое JWT
type Claims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// CanAccessFinance доступ к финансовому разделу
func (c *Claims) CanAccessFinance() bool {
	u := domain.User{Role: domain.Role(c.Role)}
	return u.CanAccessFinance()
}

// FromDomainUser конвертирует domain модель в DTO
func FromDomainUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}
