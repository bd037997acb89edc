package store

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre bun.
type UserRepo struct {
	db bun.IDB
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db bun.IDB) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	if _, err := r.db.NewInsert().Model(toUserModel(user)).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: usuario %q", domain.ErrDuplicate, user.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "u.id = ?", id)
}

// GetByUsername obtiene un usuario por nombre de usuario.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "u.username = ?", username)
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	m := new(userModel)
	if err := r.db.NewSelect().Model(m).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return m.toEntity(), nil
}

// Update actualiza datos, rol, permisos y estado.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	m := toUserModel(user)
	res, err := r.db.NewUpdate().Model(m).
		Column("full_name", "role", "is_active", "can_pos", "can_inventory", "can_reports", "can_user_management", "updated_at").
		WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return expectAffected(res, "user")
}

// UpdatePassword reemplaza el hash de contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.NewUpdate().Model((*userModel)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return expectAffected(res, "user")
}

// UpdateLastLogin registra el último inicio de sesión.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.NewUpdate().Model((*userModel)(nil)).
		Set("last_login_at = ?", at.UTC()).
		Where("id = ?", id).Exec(ctx); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// List lista usuarios ordenados por nombre de usuario.
func (r *UserRepo) List(ctx context.Context, includeInactive bool) ([]*entity.User, error) {
	var ms []*userModel
	q := r.db.NewSelect().Model(&ms).Order("u.username ASC")
	if !includeInactive {
		q = q.Where("u.is_active = ?", true)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*entity.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// CountActiveByRole cuenta usuarios activos con el rol dado.
func (r *UserRepo) CountActiveByRole(ctx context.Context, role string) (int, error) {
	n, err := r.db.NewSelect().Model((*userModel)(nil)).
		Where("u.role = ?", role).
		Where("u.is_active = ?", true).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
