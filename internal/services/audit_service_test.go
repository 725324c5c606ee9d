package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxevents/doorman/internal/models"
)

func TestAuditService_Record(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuditService(db)

	service.Record(testActor(), AuditEntry{
		Action:        models.ActionCheckIn,
		EntityType:    "guest",
		EntityID:      42,
		Before:        map[string]interface{}{"checked_in_at": nil},
		After:         map[string]interface{}{"checked_in_at": "2026-08-31T20:00:00Z"},
		Justification: "",
	})

	var rows []models.AuditLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].UserID)
	assert.Equal(t, models.RoleUser, rows[0].Role)
	assert.Equal(t, models.ActionCheckIn, rows[0].Action)
	assert.Equal(t, "127.0.0.1", rows[0].IP)
	assert.Contains(t, rows[0].Before, "checked_in_at")
}

func TestAuditService_List(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuditService(db)

	actions := []models.AuditAction{models.ActionCheckIn, models.ActionUncheck, models.ActionCheckIn, models.ActionCreateUser}
	for i, action := range actions {
		service.Record(Actor{UserID: uint(i%2 + 1), Role: models.RoleAdmin}, AuditEntry{
			Action:     action,
			EntityType: "guest",
			EntityID:   uint(i + 1),
		})
	}

	rows, total, err := service.List(AuditFilter{Action: models.ActionCheckIn})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	rows, total, err = service.List(AuditFilter{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, row := range rows {
		assert.Equal(t, uint(1), row.UserID)
	}

	_, total, err = service.List(AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	rows, _, err = service.List(AuditFilter{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	past := time.Now().Add(time.Hour)
	_, total, err = service.List(AuditFilter{From: &past})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAuditService_GuestHistory(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuditService(db)

	// Interleave actions for two guests plus an edit that must not appear.
	service.Record(testActor(), AuditEntry{Action: models.ActionCheckIn, EntityType: "guest", EntityID: 1})
	service.Record(testActor(), AuditEntry{Action: models.ActionCheckIn, EntityType: "guest", EntityID: 2})
	service.Record(testActor(), AuditEntry{Action: models.ActionUncheck, EntityType: "guest", EntityID: 1})
	service.Record(testActor(), AuditEntry{Action: models.ActionEditGuest, EntityType: "guest", EntityID: 1})

	history, err := service.GuestHistory(1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ActionCheckIn, history[0].Action)
	assert.Equal(t, models.ActionUncheck, history[1].Action)
}
