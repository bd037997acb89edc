// Package access define el control de acceso por rol y por módulo.
// Un usuario accede a un módulo si está activo, su rol lo permite y su permiso individual
// (can_*) está habilitado: los permisos individuales solo pueden restringir, nunca ampliar.
package access

import "github.com/jhoicas/cafecraft/internal/domain/entity"

// Módulos de la aplicación.
const (
	ModulePOS            = "pos"
	ModuleInventory      = "inventory"
	ModuleReports        = "reports"
	ModuleUserManagement = "user_management"
)

// Modules lista ordenada de módulos.
var Modules = []string{ModulePOS, ModuleInventory, ModuleReports, ModuleUserManagement}

// ValidRoles roles aceptados.
var ValidRoles = []string{
	entity.RoleOwner,
	entity.RoleAdmin,
	entity.RoleManager,
	entity.RoleCashier,
	entity.RoleInventoryStaff,
	entity.RoleEmployee,
}

var roleAccess = map[string]map[string]bool{
	entity.RoleOwner:          {ModulePOS: true, ModuleInventory: true, ModuleReports: true, ModuleUserManagement: true},
	entity.RoleAdmin:          {ModulePOS: true, ModuleInventory: true, ModuleReports: true, ModuleUserManagement: true},
	entity.RoleManager:        {ModulePOS: true, ModuleInventory: true, ModuleReports: true},
	entity.RoleCashier:        {ModulePOS: true},
	entity.RoleInventoryStaff: {ModuleInventory: true},
	entity.RoleEmployee:       {ModulePOS: true},
}

// Permissions permisos individuales de un usuario.
type Permissions struct {
	POS            bool
	Inventory      bool
	Reports        bool
	UserManagement bool
}

// ValidRole indica si role es un rol conocido.
func ValidRole(role string) bool {
	_, ok := roleAccess[role]
	return ok
}

// RoleCanAccess indica si el rol, por sí solo, da acceso al módulo.
func RoleCanAccess(role, module string) bool {
	m, ok := roleAccess[role]
	if !ok {
		return false
	}
	return m[module]
}

// DefaultPermissions permisos individuales iniciales para un rol.
func DefaultPermissions(role string) Permissions {
	return Permissions{
		POS:            RoleCanAccess(role, ModulePOS),
		Inventory:      RoleCanAccess(role, ModuleInventory),
		Reports:        RoleCanAccess(role, ModuleReports),
		UserManagement: RoleCanAccess(role, ModuleUserManagement),
	}
}

// Apply copia los permisos sobre el usuario.
func (p Permissions) Apply(u *entity.User) {
	u.CanPOS = p.POS
	u.CanInventory = p.Inventory
	u.CanReports = p.Reports
	u.CanUserManagement = p.UserManagement
}

// Of devuelve los permisos individuales del usuario.
func Of(u *entity.User) Permissions {
	return Permissions{
		POS:            u.CanPOS,
		Inventory:      u.CanInventory,
		Reports:        u.CanReports,
		UserManagement: u.CanUserManagement,
	}
}

func (p Permissions) allows(module string) bool {
	switch module {
	case ModulePOS:
		return p.POS
	case ModuleInventory:
		return p.Inventory
	case ModuleReports:
		return p.Reports
	case ModuleUserManagement:
		return p.UserManagement
	}
	return false
}

// CanAccess indica si el usuario puede usar el módulo.
func CanAccess(u *entity.User, module string) bool {
	if u == nil || !u.IsActive {
		return false
	}
	return RoleCanAccess(u.Role, module) && Of(u).allows(module)
}

// AccessibleModules módulos a los que el rol da acceso, en orden fijo.
func AccessibleModules(role string) []string {
	out := make([]string, 0, len(Modules))
	for _, m := range Modules {
		if RoleCanAccess(role, m) {
			out = append(out, m)
		}
	}
	return out
}

// InaccessibleModules módulos que el rol no permite.
func InaccessibleModules(role string) []string {
	out := make([]string, 0, len(Modules))
	if !ValidRole(role) {
		return out
	}
	for _, m := range Modules {
		if !RoleCanAccess(role, m) {
			out = append(out, m)
		}
	}
	return out
}

// UserModules módulos efectivos del usuario (rol + permisos individuales).
func UserModules(u *entity.User) []string {
	out := make([]string, 0, len(Modules))
	for _, m := range Modules {
		if CanAccess(u, m) {
			out = append(out, m)
		}
	}
	return out
}

// IsPrivileged indica si el rol puede administrar el menú y anular ventas completadas.
func IsPrivileged(role string) bool {
	return role == entity.RoleOwner || role == entity.RoleAdmin || role == entity.RoleManager
}
