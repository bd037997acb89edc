package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Permissions permisos individuales del usuario (solo restringen lo que el rol permite).
type Permissions struct {
	POS            bool `json:"can_pos"`
	Inventory      bool `json:"can_inventory"`
	Reports        bool `json:"can_reports"`
	UserManagement bool `json:"can_user_management"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// Si Permissions es nil se usan los permisos por defecto del rol.
type CreateUserRequest struct {
	Username    string       `json:"username" validate:"required,min=3,max=64"`
	Password    string       `json:"password" validate:"required,min=12"`
	FullName    string       `json:"full_name" validate:"required,max=200"`
	Role        string       `json:"role" validate:"required"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

// UpdateUserRequest campos editables de un usuario. Campos nil no se modifican.
type UpdateUserRequest struct {
	FullName    *string      `json:"full_name,omitempty"`
	Role        *string      `json:"role,omitempty"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

// ChangePasswordRequest cambio de contraseña. OldPassword es obligatorio salvo reseteo por el owner.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"required,min=12"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	FullName    string      `json:"full_name"`
	Role        string      `json:"role"`
	IsActive    bool        `json:"is_active"`
	Permissions Permissions `json:"permissions"`
	Modules     []string    `json:"modules"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y módulos accesibles.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ActivityByType movimientos de inventario de un usuario agrupados por tipo.
type ActivityByType struct {
	Type        string          `json:"type"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// UserActivityResponse actividad de un usuario.
type UserActivityResponse struct {
	UserID          string           `json:"user_id"`
	Username        string           `json:"username"`
	Transactions    []ActivityByType `json:"transactions"`
	OrdersProcessed int              `json:"orders_processed"`
	SalesTotal      decimal.Decimal  `json:"sales_total"`
}
