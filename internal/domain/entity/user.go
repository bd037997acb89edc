package entity

import "time"

// Roles válidos para User. Owner y Employee son los roles principales; el resto afina el acceso.
const (
	RoleOwner          = "owner"
	RoleAdmin          = "admin"
	RoleManager        = "manager"
	RoleCashier        = "cashier"
	RoleInventoryStaff = "inventory_staff"
	RoleEmployee       = "employee"
)

// User representa un usuario del sistema.
type User struct {
	ID                string
	Username          string
	PasswordHash      string // bcrypt hash, nunca plano en dominio después de persistir
	FullName          string
	Role              string
	IsActive          bool
	CanPOS            bool
	CanInventory      bool
	CanReports        bool
	CanUserManagement bool
	LastLoginAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
