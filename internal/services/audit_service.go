package services

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/veloxevents/doorman/internal/logger"
	"github.com/veloxevents/doorman/internal/metrics"
	"github.com/veloxevents/doorman/internal/models"
)

// Actor identifies who performed an audited action, plus request metadata.
type Actor struct {
	UserID    uint
	Name      string
	Role      models.Role
	IP        string
	UserAgent string
}

// AuditEntry is one action to append to the trail.
type AuditEntry struct {
	Action        models.AuditAction
	EntityType    string
	EntityID      uint
	Before        interface{}
	After         interface{}
	Justification string
}

// AuditService appends immutable rows to the audit trail. Audit is a
// secondary concern: a failed write is logged and counted but never aborts
// the operation that triggered it. That policy is uniform across all flows.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends one audit row. Errors are swallowed after logging.
func (s *AuditService) Record(actor Actor, entry AuditEntry) {
	row := models.AuditLog{
		UserID:        actor.UserID,
		Role:          actor.Role,
		Action:        entry.Action,
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		Before:        snapshot(entry.Before),
		After:         snapshot(entry.After),
		Justification: entry.Justification,
		IP:            actor.IP,
		UserAgent:     actor.UserAgent,
	}

	if err := s.db.Create(&row).Error; err != nil {
		metrics.IncAuditWriteFailure()
		logger.WithFields(map[string]interface{}{
			"action":      entry.Action,
			"entity_type": entry.EntityType,
			"entity_id":   entry.EntityID,
			"user_id":     actor.UserID,
		}).WithError(err).Error("failed to write audit row")
	}
}

func snapshot(v interface{}) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// AuditFilter narrows the admin audit listing.
type AuditFilter struct {
	UserID     uint
	Action     models.AuditAction
	EntityType string
	EntityID   uint
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// List returns audit rows newest-first, with the total matching count for
// pagination.
func (s *AuditService) List(filter AuditFilter) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != 0 {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rows []models.AuditLog
	err := query.Order("created_at desc").Limit(limit).Offset(filter.Offset).Find(&rows).Error
	return rows, total, err
}

// GuestHistory returns the ordered check-in/undo trail for one guest.
func (s *AuditService) GuestHistory(guestID uint) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := s.db.
		Where("entity_type = ? AND entity_id = ? AND action IN ?",
			"guest", guestID, []models.AuditAction{models.ActionCheckIn, models.ActionUncheck}).
		Order("created_at asc").
		Find(&rows).Error
	return rows, err
}
