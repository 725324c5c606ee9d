package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxevents/doorman/internal/models"
)

func TestImportCSV(t *testing.T) {
	db := setupTestDB(t)
	service := NewImportService(db, NewAuditService(db), NewNotificationService(nil))
	event, _ := seedEventWithGuest(t, db)

	csv := strings.Join([]string{
		"full_name,category,table_number,is_paying",
		"Alice Adams,Family,1,false",
		"Bob Brown,Friends,2,true",
		"Jane Roe,Family,1,false", // already on the list, skipped
		",,,",
	}, "\n")

	result, err := service.ImportCSV(event.ID, strings.NewReader(csv), testActor())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped)

	var bob models.Guest
	require.NoError(t, db.Where("event_id = ? AND full_name = ?", event.ID, "Bob Brown").First(&bob).Error)
	assert.True(t, bob.IsPaying)
	assert.False(t, bob.IsManual)
	assert.Nil(t, bob.CheckedInAt) // imported guests arrive unchecked

	var row models.AuditLog
	require.NoError(t, db.Where("action = ?", models.ActionImportGuests).First(&row).Error)
	assert.Equal(t, event.ID, row.EntityID)
}

func TestImportCSV_NoHeader(t *testing.T) {
	db := setupTestDB(t)
	service := NewImportService(db, NewAuditService(db), NewNotificationService(nil))
	event, _ := seedEventWithGuest(t, db)

	result, err := service.ImportCSV(event.ID, strings.NewReader("Carla Mendes,Work,3,yes\n"), testActor())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestImportCSV_Empty(t *testing.T) {
	db := setupTestDB(t)
	service := NewImportService(db, NewAuditService(db), NewNotificationService(nil))
	event, _ := seedEventWithGuest(t, db)

	_, err := service.ImportCSV(event.ID, strings.NewReader("full_name\n"), testActor())
	assert.ErrorIs(t, err, ErrEmptyImport)
}

func TestImportCSV_UnknownEvent(t *testing.T) {
	db := setupTestDB(t)
	service := NewImportService(db, NewAuditService(db), NewNotificationService(nil))

	_, err := service.ImportCSV(9999, strings.NewReader("Someone\n"), testActor())
	assert.ErrorIs(t, err, ErrEventNotFound)
}
