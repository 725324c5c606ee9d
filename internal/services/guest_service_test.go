package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxevents/doorman/internal/models"
)

func TestSetAttendance_CheckIn(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	event, guest := seedEventWithGuest(t, db)

	updated, changed, err := service.SetAttendance(guest.ID, true, nil, testActor())
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, updated.CheckedInAt)
	assert.Equal(t, "Door Staff", updated.CheckedInBy)

	// The owning event's change marker moves in the same transaction.
	var reloaded models.Event
	require.NoError(t, db.First(&reloaded, event.ID).Error)
	assert.Equal(t, models.ChangeCheckIn, reloaded.LastChangeType)
	assert.True(t, reloaded.UpdatedAt.After(event.UpdatedAt))

	// A CHECKIN audit row with before/after snapshots is appended.
	var rows []models.AuditLog
	require.NoError(t, db.Where("entity_type = ? AND entity_id = ?", "guest", guest.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ActionCheckIn, rows[0].Action)
	assert.Contains(t, rows[0].Before, `"checked_in_at":null`)
	assert.NotContains(t, rows[0].After, `"checked_in_at":null`)
}

func TestSetAttendance_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	event, guest := seedEventWithGuest(t, db)

	var orig models.Event
	require.NoError(t, db.First(&orig, event.ID).Error)

	// Re-applying "not present" to a guest who never checked in changes nothing.
	updated, changed, err := service.SetAttendance(guest.ID, false, nil, testActor())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Nil(t, updated.CheckedInAt)

	var reloaded models.Event
	require.NoError(t, db.First(&reloaded, event.ID).Error)
	assert.Empty(t, reloaded.LastChangeType)
	assert.Equal(t, orig.UpdatedAt.UnixNano(), reloaded.UpdatedAt.UnixNano())

	// Same for "present" on a checked-in guest.
	_, changed, err = service.SetAttendance(guest.ID, true, nil, testActor())
	require.NoError(t, err)
	require.True(t, changed)

	require.NoError(t, db.First(&reloaded, event.ID).Error)
	markerAt := reloaded.UpdatedAt

	_, changed, err = service.SetAttendance(guest.ID, true, nil, testActor())
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, db.First(&reloaded, event.ID).Error)
	assert.Equal(t, markerAt.UnixNano(), reloaded.UpdatedAt.UnixNano())

	// Idempotent calls leave no extra audit rows.
	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("entity_id = ?", guest.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSetAttendance_UndoTransition(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	event, guest := seedEventWithGuest(t, db)

	_, _, err := service.SetAttendance(guest.ID, true, nil, testActor())
	require.NoError(t, err)

	updated, changed, err := service.SetAttendance(guest.ID, false, nil, testActor())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, updated.CheckedInAt)
	require.NotNil(t, updated.UndoAt)
	assert.Equal(t, "Door Staff", updated.UndoBy)

	var reloaded models.Event
	require.NoError(t, db.First(&reloaded, event.ID).Error)
	assert.Equal(t, models.ChangeUndo, reloaded.LastChangeType)
}

func TestSetAttendance_IsPaying(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	_, guest := seedEventWithGuest(t, db)

	paying := true
	updated, _, err := service.SetAttendance(guest.ID, true, &paying, testActor())
	require.NoError(t, err)
	assert.True(t, updated.IsPaying)
}

func TestSetAttendance_NotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))

	_, _, err := service.SetAttendance(9999, true, nil, testActor())
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestUndo_NotCheckedIn(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	event, guest := seedEventWithGuest(t, db)

	_, err := service.Undo(event.ID, guest.ID, "typo", testActor())
	assert.ErrorIs(t, err, ErrNotCheckedIn)

	// State untouched.
	var reloaded models.Guest
	require.NoError(t, db.First(&reloaded, guest.ID).Error)
	assert.Nil(t, reloaded.CheckedInAt)
}

func TestUndo_RecordsReason(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	event, guest := seedEventWithGuest(t, db)

	_, _, err := service.SetAttendance(guest.ID, true, nil, testActor())
	require.NoError(t, err)

	updated, err := service.Undo(event.ID, guest.ID, "scanned the wrong person", testActor())
	require.NoError(t, err)
	assert.Nil(t, updated.CheckedInAt)
	assert.Equal(t, "scanned the wrong person", updated.UndoReason)

	var rows []models.AuditLog
	require.NoError(t, db.Where("action = ?", models.ActionUncheck).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "scanned the wrong person", rows[0].Justification)
}

func TestUndo_WrongEvent(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	_, guest := seedEventWithGuest(t, db)

	other := &models.Event{Name: "Other Party", Status: models.EventActive}
	require.NoError(t, db.Create(other).Error)

	_, _, err := service.SetAttendance(guest.ID, true, nil, testActor())
	require.NoError(t, err)

	_, err = service.Undo(other.ID, guest.ID, "", testActor())
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestCreateManual(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	event, _ := seedEventWithGuest(t, db)

	guest, err := service.CreateManual(event.ID, "Walk Up", "Friends", "7", true, testActor())
	require.NoError(t, err)
	assert.True(t, guest.IsManual)
	assert.True(t, guest.IsPaying)
	require.NotNil(t, guest.CheckedInAt) // door-added guests are present on arrival

	var reloaded models.Event
	require.NoError(t, db.First(&reloaded, event.ID).Error)
	assert.Equal(t, models.ChangeCheckIn, reloaded.LastChangeType)

	// Duplicate name on the same list is rejected.
	_, err = service.CreateManual(event.ID, "Walk Up", "", "", false, testActor())
	assert.ErrorIs(t, err, ErrDuplicateGuest)
}

func TestListByEvent(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	event, _ := seedEventWithGuest(t, db)

	for _, name := range []string{"Alice Adams", "Bob Brown", "Alice Brown"} {
		require.NoError(t, db.Create(&models.Guest{FullName: name, EventID: event.ID, Category: "Friends"}).Error)
	}

	guests, total, err := service.ListByEvent(event.ID, GuestFilter{Search: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, guests, 2)
	assert.Equal(t, "Alice Adams", guests[0].FullName)

	_, total, err = service.ListByEvent(event.ID, GuestFilter{Category: "Family"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	guests, total, err = service.ListByEvent(event.ID, GuestFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, guests, 2)
}

func TestTransitionTimestamps(t *testing.T) {
	db := setupTestDB(t)
	service := NewGuestService(db, NewAuditService(db))
	_, guest := seedEventWithGuest(t, db)

	before := time.Now().Add(-time.Second)
	updated, _, err := service.SetAttendance(guest.ID, true, nil, testActor())
	require.NoError(t, err)
	assert.True(t, updated.CheckedInAt.After(before))
}
