package store

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora de auditoría.
type AuditRepo struct {
	db bun.IDB
}

// NewAuditRepository construye el adaptador de la bitácora.
func NewAuditRepository(db bun.IDB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Create registra una entrada.
func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	if _, err := r.db.NewInsert().Model(toAuditModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// List entradas más recientes primero.
func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	var ms []*auditModel
	q := r.db.NewSelect().Model(&ms).Order("a.timestamp DESC", "a.id DESC")
	if f.UserID != "" {
		q = q.Where("a.user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("a.action = ?", f.Action)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	out := make([]*entity.AuditEntry, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// ─── Settings ─────────────────────────────────────────────────────────────────

var _ repository.SettingRepository = (*SettingRepo)(nil)

// SettingRepo tabla clave/valor.
type SettingRepo struct {
	db bun.IDB
}

// NewSettingRepository construye el adaptador de settings.
func NewSettingRepository(db bun.IDB) *SettingRepo {
	return &SettingRepo{db: db}
}

// Get devuelve (nil, nil) si la clave no existe.
func (r *SettingRepo) Get(ctx context.Context, key string) (*entity.Setting, error) {
	m := &settingModel{Key: key}
	if err := r.db.NewSelect().Model(m).WherePK().Scan(ctx); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return m.toEntity(), nil
}

// Set inserta o actualiza la clave.
func (r *SettingRepo) Set(ctx context.Context, key, value string) error {
	m := &settingModel{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	exists, err := r.db.NewSelect().Model((*settingModel)(nil)).Where("? = ?", bun.Ident("key"), key).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check setting: %w", err)
	}
	if exists {
		_, err = r.db.NewUpdate().Model(m).WherePK().Exec(ctx)
	} else {
		_, err = r.db.NewInsert().Model(m).Exec(ctx)
	}
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// List todas las claves ordenadas.
func (r *SettingRepo) List(ctx context.Context) ([]*entity.Setting, error) {
	var ms []*settingModel
	if err := r.db.NewSelect().Model(&ms).Order("key ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	out := make([]*entity.Setting, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toEntity())
	}
	return out, nil
}

// ─── Reportes guardados ───────────────────────────────────────────────────────

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo reportes guardados.
type ReportRepo struct {
	db bun.IDB
}

// NewReportRepository construye el adaptador de reportes guardados.
func NewReportRepository(db bun.IDB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Create persiste el reporte.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.SavedReport) error {
	if _, err := r.db.NewInsert().Model(toReportModel(rep)).Exec(ctx); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// List reportes más recientes primero.
func (r *ReportRepo) List(ctx context.Context, limit int) ([]*entity.SavedReport, error) {
	var ms []*reportModel
	q := r.db.NewSelect().Model(&ms).Order("rp.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out := make([]*entity.SavedReport, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toEntity())
	}
	return out, nil
}
