package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/application/audit"
	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/ports"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/access"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/domain/security"
)

// Actor usuario autenticado que ejecuta la operación.
type Actor struct {
	ID   string
	Role string
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repos repository.Set
	tx    ports.TxRunner
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repos repository.Set, tx ports.TxRunner) *UserUseCase {
	return &UserUseCase{repos: repos, tx: tx}
}

// Create crea un usuario con contraseña validada por la política. Los permisos individuales
// se limitan a lo que el rol permite.
func (uc *UserUseCase) Create(ctx context.Context, actorID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if len(username) < 3 || strings.ContainsAny(username, " \t") {
		return nil, fmt.Errorf("%w: nombre de usuario inválido", domain.ErrInvalidInput)
	}
	if !access.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, in.Role)
	}
	if err := security.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = username
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyPermissions(user, in.Permissions)

	err = uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actorID, entity.AuditUserCreate, "users", user.ID, nil, auditView(user))
	})
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// List lista usuarios; includeInactive incluye los desactivados.
func (uc *UserUseCase) List(ctx context.Context, includeInactive bool) ([]*dto.UserResponse, error) {
	users, err := uc.repos.Users.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, entityToUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, uc.repos.Users, id)
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Update modifica nombre, rol y permisos. El último owner activo no puede perder el rol.
func (uc *UserUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var user *entity.User
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		var err error
		if user, err = uc.get(ctx, r.Users, id); err != nil {
			return err
		}
		before := auditView(user)
		wasAdmin := managesUsers(user)
		if in.FullName != nil {
			name := strings.TrimSpace(*in.FullName)
			if name == "" {
				return fmt.Errorf("%w: el nombre no puede estar vacío", domain.ErrInvalidInput)
			}
			user.FullName = name
		}
		if in.Role != nil && *in.Role != user.Role {
			if !access.ValidRole(*in.Role) {
				return fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, *in.Role)
			}
			if err := uc.ensureNotLastOwner(ctx, r.Users, user); err != nil {
				return err
			}
			user.Role = *in.Role
			if in.Permissions == nil {
				access.DefaultPermissions(user.Role).Apply(user)
			}
		}
		if in.Permissions != nil {
			applyPermissions(user, in.Permissions)
		}
		if wasAdmin && !managesUsers(user) {
			if err := uc.ensureUserManagerRemains(ctx, r.Users, user.ID); err != nil {
				return err
			}
		}
		user.UpdatedAt = time.Now().UTC()
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actorID, entity.AuditUserUpdate, "users", user.ID, before, auditView(user))
	})
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// ChangePassword cambia la contraseña. El propio usuario debe dar la contraseña actual;
// el owner puede resetear la de otro usuario sin ella.
func (uc *UserUseCase) ChangePassword(ctx context.Context, actor Actor, targetID string, in dto.ChangePasswordRequest) error {
	user, err := uc.get(ctx, uc.repos.Users, targetID)
	if err != nil {
		return err
	}
	if actor.ID == user.ID {
		if !security.CheckPassword(user.PasswordHash, in.OldPassword) {
			return fmt.Errorf("%w: la contraseña actual no coincide", domain.ErrInvalidCredentials)
		}
	} else if actor.Role != entity.RoleOwner {
		return fmt.Errorf("%w: solo el owner puede resetear contraseñas de otros usuarios", domain.ErrForbidden)
	}
	if err := security.ValidatePassword(in.NewPassword); err != nil {
		return err
	}
	hash, err := security.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		if err := r.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actor.ID, entity.AuditUserPassword, "users", user.ID, nil, nil)
	})
}

// Deactivate desactiva un usuario. Nadie puede desactivarse a sí mismo ni al último owner activo.
func (uc *UserUseCase) Deactivate(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return fmt.Errorf("%w: no puedes desactivar tu propio usuario", domain.ErrConflict)
	}
	return uc.setActive(ctx, actorID, id, false)
}

// Reactivate vuelve a activar un usuario.
func (uc *UserUseCase) Reactivate(ctx context.Context, actorID, id string) error {
	return uc.setActive(ctx, actorID, id, true)
}

func (uc *UserUseCase) setActive(ctx context.Context, actorID, id string, active bool) error {
	return uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		user, err := uc.get(ctx, r.Users, id)
		if err != nil {
			return err
		}
		if user.IsActive == active {
			return nil
		}
		action := entity.AuditUserReactivate
		if !active {
			if err := uc.ensureNotLastOwner(ctx, r.Users, user); err != nil {
				return err
			}
			if managesUsers(user) {
				if err := uc.ensureUserManagerRemains(ctx, r.Users, user.ID); err != nil {
					return err
				}
			}
			action = entity.AuditUserDeactivate
		}
		user.IsActive = active
		user.UpdatedAt = time.Now().UTC()
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actorID, action, "users", user.ID, nil, map[string]bool{"is_active": active})
	})
}

// Activity movimientos de inventario del usuario agrupados por tipo y pedidos completados que procesó.
func (uc *UserUseCase) Activity(ctx context.Context, id string) (*dto.UserActivityResponse, error) {
	user, err := uc.get(ctx, uc.repos.Users, id)
	if err != nil {
		return nil, err
	}
	txs, err := uc.repos.Transactions.List(ctx, repository.TransactionFilter{UserID: user.ID})
	if err != nil {
		return nil, err
	}
	orders, err := uc.repos.Orders.List(ctx, repository.OrderFilter{UserID: user.ID, Status: entity.OrderStatusCompleted})
	if err != nil {
		return nil, err
	}

	byType := make(map[string]*dto.ActivityByType)
	for _, t := range txs {
		a, ok := byType[t.Type]
		if !ok {
			a = &dto.ActivityByType{Type: t.Type}
			byType[t.Type] = a
		}
		a.Count++
		a.TotalAmount = a.TotalAmount.Add(t.TotalAmount)
	}
	out := &dto.UserActivityResponse{
		UserID:          user.ID,
		Username:        user.Username,
		Transactions:    make([]dto.ActivityByType, 0, len(byType)),
		OrdersProcessed: len(orders),
		SalesTotal:      decimal.Zero,
	}
	for _, typ := range entity.TransactionTypes {
		if a, ok := byType[typ]; ok {
			out.Transactions = append(out.Transactions, *a)
		}
	}
	for _, o := range orders {
		out.SalesTotal = out.SalesTotal.Add(o.TotalAmount)
	}
	return out, nil
}

func (uc *UserUseCase) get(ctx context.Context, repo repository.UserRepository, id string) (*entity.User, error) {
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *UserUseCase) ensureNotLastOwner(ctx context.Context, repo repository.UserRepository, user *entity.User) error {
	if user.Role != entity.RoleOwner || !user.IsActive {
		return nil
	}
	n, err := repo.CountActiveByRole(ctx, entity.RoleOwner)
	if err != nil {
		return err
	}
	if n <= 1 {
		return fmt.Errorf("%w: debe existir al menos un owner activo", domain.ErrConflict)
	}
	return nil
}

// managesUsers indica si el usuario es un owner activo con gestión de usuarios habilitada.
func managesUsers(u *entity.User) bool {
	return u.Role == entity.RoleOwner && u.IsActive && u.CanUserManagement
}

// ensureUserManagerRemains exige que, aparte de exceptID, quede algún owner activo con
// gestión de usuarios; sin él nadie podría volver a administrar cuentas.
func (uc *UserUseCase) ensureUserManagerRemains(ctx context.Context, repo repository.UserRepository, exceptID string) error {
	users, err := repo.List(ctx, false)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID != exceptID && managesUsers(u) {
			return nil
		}
	}
	return fmt.Errorf("%w: debe quedar al menos un owner activo con gestión de usuarios", domain.ErrConflict)
}

func applyPermissions(u *entity.User, p *dto.Permissions) {
	perms := access.DefaultPermissions(u.Role)
	if p != nil {
		perms.POS = perms.POS && p.POS
		perms.Inventory = perms.Inventory && p.Inventory
		perms.Reports = perms.Reports && p.Reports
		perms.UserManagement = perms.UserManagement && p.UserManagement
	}
	perms.Apply(u)
}

func auditView(u *entity.User) map[string]any {
	return map[string]any{
		"username":    u.Username,
		"full_name":   u.FullName,
		"role":        u.Role,
		"is_active":   u.IsActive,
		"permissions": access.Of(u),
	}
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	p := access.Of(u)
	return &dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		IsActive: u.IsActive,
		Permissions: dto.Permissions{
			POS:            p.POS,
			Inventory:      p.Inventory,
			Reports:        p.Reports,
			UserManagement: p.UserManagement,
		},
		Modules:     access.UserModules(u),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
