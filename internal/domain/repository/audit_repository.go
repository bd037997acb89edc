package repository

import (
	"context"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

// AuditFilter filtros de la bitácora.
type AuditFilter struct {
	UserID string
	Action string
	Limit  int
}

// AuditRepository bitácora de acciones.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]*entity.AuditEntry, error)
}

// SettingRepository tabla clave/valor de configuración persistida.
type SettingRepository interface {
	// Get devuelve (nil, nil) si la clave no existe.
	Get(ctx context.Context, key string) (*entity.Setting, error)
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]*entity.Setting, error)
}

// ReportRepository reportes de ventas guardados.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.SavedReport) error
	List(ctx context.Context, limit int) ([]*entity.SavedReport, error)
}
