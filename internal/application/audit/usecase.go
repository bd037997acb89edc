// Package audit registra y consulta la bitácora de acciones.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

const defaultLimit = 100

// Record escribe una entrada; oldValue/newValue se serializan a JSON (nil se omite).
func Record(ctx context.Context, repo repository.AuditRepository, userID, action, table, recordID string, oldValue, newValue any) error {
	e := &entity.AuditEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		TableName: table,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	}
	var err error
	if e.OldValue, err = encode(oldValue); err != nil {
		return err
	}
	if e.NewValue, err = encode(newValue); err != nil {
		return err
	}
	if err := repo.Create(ctx, e); err != nil {
		return fmt.Errorf("audit: %s: %w", action, err)
	}
	return nil
}

func encode(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("audit: serializar valor: %w", err)
	}
	return string(b), nil
}

// UseCase consulta de la bitácora.
type UseCase struct {
	repo repository.AuditRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.AuditRepository) *UseCase {
	return &UseCase{repo: repo}
}

// List entradas de la bitácora, más recientes primero.
func (uc *UseCase) List(ctx context.Context, q dto.AuditQuery) ([]dto.AuditEntryDTO, error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	entries, err := uc.repo.List(ctx, repository.AuditFilter{UserID: q.UserID, Action: q.Action, Limit: q.Limit})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryDTO{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			TableName: e.TableName,
			RecordID:  e.RecordID,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			Timestamp: e.Timestamp,
		})
	}
	return out, nil
}
