package models

import (
	"time"
)

// AuditAction is the closed set of auditable actions. Keeping this typed
// (rather than free text) makes invalid actions unrepresentable.
type AuditAction string

const (
	ActionCheckIn       AuditAction = "CHECKIN"
	ActionUncheck       AuditAction = "UNCHECK"
	ActionEditGuest     AuditAction = "EDIT_GUEST"
	ActionCreateGuest   AuditAction = "CREATE_GUEST"
	ActionDeleteGuest   AuditAction = "DELETE_GUEST"
	ActionImportGuests  AuditAction = "IMPORT_GUESTS"
	ActionCorrectGuest  AuditAction = "CORRECT_GUEST"
	ActionCreateUser    AuditAction = "CREATE_USER"
	ActionResetPassword AuditAction = "RESET_PASSWORD"
	ActionCreateEvent   AuditAction = "CREATE_EVENT"
	ActionAssignUser    AuditAction = "ASSIGN_USER"
)

// AuditLog records one sensitive action. Rows are append-only: nothing in
// this codebase updates or deletes them.
type AuditLog struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	UserID        uint        `json:"user_id" gorm:"not null;index"`
	Role          Role        `json:"role" gorm:"not null"`
	Action        AuditAction `json:"action" gorm:"type:varchar(32);not null;index"`
	EntityType    string      `json:"entity_type" gorm:"type:varchar(32);not null"`
	EntityID      uint        `json:"entity_id" gorm:"index"`
	Before        string      `json:"before,omitempty" gorm:"type:text"` // JSON snapshot
	After         string      `json:"after,omitempty" gorm:"type:text"`  // JSON snapshot
	Justification string      `json:"justification,omitempty" gorm:"type:text"`
	IP            string      `json:"ip,omitempty" gorm:"type:varchar(45)"`
	UserAgent     string      `json:"user_agent,omitempty" gorm:"type:varchar(255)"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TableName specifies the table name for AuditLog.
func (AuditLog) TableName() string {
	return "audit_logs"
}
