package dto

import "time"

// AuditQuery filtros de GET /api/audit.
type AuditQuery struct {
	UserID string `query:"user_id"`
	Action string `query:"action"`
	Limit  int    `query:"limit"`
}

// AuditEntryDTO entrada de la bitácora.
type AuditEntryDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	TableName string    `json:"table_name,omitempty"`
	RecordID  string    `json:"record_id,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
