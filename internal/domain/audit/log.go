package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Action is the kind of mutation being recorded
type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entry is one audit record. Old and new values are JSON snapshots of the
// mutated row taken inside the same transaction as the mutation itself.
type Entry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_audit_tenant_table"`
	Table     string         `gorm:"column:table_name;type:varchar(100);not null;index:idx_audit_tenant_table"`
	RecordID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Action    Action         `gorm:"type:varchar(10);not null"`
	OldValues datatypes.JSON `gorm:"type:jsonb"`
	NewValues datatypes.JSON `gorm:"type:jsonb"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index"`
	Details   string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "audit_logs"
}

// NewEntry builds an audit entry for a mutation
func NewEntry(tenantID uuid.UUID, tableName string, recordID uuid.UUID, action Action) *Entry {
	return &Entry{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Table:     tableName,
		RecordID:  recordID,
		Action:    action,
		CreatedAt: time.Now(),
	}
}

// WithValues attaches the before/after snapshots
func (e *Entry) WithValues(oldValues, newValues datatypes.JSON) *Entry {
	e.OldValues = oldValues
	e.NewValues = newValues
	return e
}

// WithUser attaches the acting user
func (e *Entry) WithUser(userID *uuid.UUID) *Entry {
	e.UserID = userID
	return e
}

// WithDetails attaches a human-readable note
func (e *Entry) WithDetails(details string) *Entry {
	e.Details = details
	return e
}

// Recorder persists audit entries. Implementations must write within the
// transaction carried by ctx so audit rows commit or roll back together with
// the mutation they describe.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
}

// Repository reads audit entries back for review screens
type Repository interface {
	Recorder

	// FindByRecord returns the audit trail for one record, newest first
	FindByRecord(ctx context.Context, tenantID uuid.UUID, tableName string, recordID uuid.UUID) ([]Entry, error)
}
