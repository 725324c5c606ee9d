package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veloxevents/doorman/internal/models"
)

// setupTestDB creates a SQLite in-memory DB unique per test and migrates
// the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.UserEvent{},
		&models.Guest{},
		&models.AuditLog{},
	))
	return db
}

func seedEventWithGuest(t *testing.T, db *gorm.DB) (*models.Event, *models.Guest) {
	t.Helper()
	event := &models.Event{Name: "Test Wedding", Status: models.EventActive}
	require.NoError(t, db.Create(event).Error)

	guest := &models.Guest{FullName: "Jane Roe", EventID: event.ID, Category: "Family"}
	require.NoError(t, db.Create(guest).Error)

	return event, guest
}

func testActor() Actor {
	return Actor{UserID: 1, Name: "Door Staff", Role: models.RoleUser, IP: "127.0.0.1", UserAgent: "test"}
}
