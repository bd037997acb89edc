package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/cafecraft/internal/domain/access"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

// ModuleService verifica a qué módulos accede un usuario.
// Combina el rol con los permisos individuales guardados en la DB, de modo que un cambio de
// permisos surte efecto sin esperar a que expire el token.
type ModuleService struct {
	userRepo repository.UserRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(userRepo repository.UserRepository) *ModuleService {
	return &ModuleService{userRepo: userRepo}
}

// HasModule informa si el usuario (activo) puede usar el módulo.
// Devuelve false (sin error) si el usuario no existe o no tiene acceso.
// Devuelve error solo ante fallos de infraestructura.
func (s *ModuleService) HasModule(ctx context.Context, userID, module string) (bool, error) {
	if userID == "" || module == "" {
		return false, fmt.Errorf("module: userID y module son obligatorios")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return access.CanAccess(user, module), nil
}

// CurrentRole rol vigente del usuario según la DB. Devuelve "" si no existe o está desactivado,
// de modo que un cambio de rol surte efecto sin esperar a que expire el token.
func (s *ModuleService) CurrentRole(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		return "", nil
	}
	return user.Role, nil
}
