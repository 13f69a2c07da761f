package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
)

// User representa un operador del sistema (pertenece a una Store).
type User struct {
	ID           string
	StoreID      string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // ADMIN, MANAGER, CASHIER
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
