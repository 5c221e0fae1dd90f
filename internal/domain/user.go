package domain

import "time"

// Role роль сотрудника клиники
type Role string

const (
	RoleFinance   Role = "finance"
	RoleDoctor    Role = "doctor"
	RoleSecretary Role = "secretary"
	RoleDeveloper Role = "developer"
)

// Roles все роли
var Roles = []Role{RoleFinance, RoleDoctor, RoleSecretary, RoleDeveloper}

// User сотрудник с доступом в систему
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAccessFinance true для ролей с доступом к финансам
func (u *User) CanAccessFinance() bool {
	return u.Role == RoleFinance || u.Role == RoleDeveloper
}

// IsValidRole проверяет, что роль известна
func IsValidRole(r Role) bool {
	for _, known := range Roles {
		if known == r {
			return true
		}
	}
	return false
}
