package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventPending   EventStatus = "PENDING"
	EventActive    EventStatus = "ACTIVE"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

// ChangeType tags the most recent guest-state change on an event. Polling
// clients compare it together with UpdatedAt to decide whether to refetch.
type ChangeType string

const (
	ChangeCheckIn ChangeType = "CHECKIN"
	ChangeUndo    ChangeType = "UNDO"
)

// Event is a party or wedding with a guest list worked at the door.
// UpdatedAt and LastChangeType only move when a guest's presence actually
// changes, so an idempotent re-apply never looks like news to pollers.
type Event struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	UUID           string      `json:"uuid" gorm:"uniqueIndex"`
	Name           string      `json:"name" gorm:"not null"`
	Date           time.Time   `json:"date"`
	Description    string      `json:"description"`
	Status         EventStatus `json:"status" gorm:"default:'PENDING'"`
	LastChangeType ChangeType  `json:"last_change_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for new events.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	return nil
}

// UserEvent grants a non-admin user access to one event's guest list.
// Unique on the pair; admins bypass it entirely.
type UserEvent struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	UserID  uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_event"`
	EventID uint `json:"event_id" gorm:"not null;uniqueIndex:idx_user_event"`

	User  User  `json:"-" gorm:"foreignKey:UserID"`
	Event Event `json:"-" gorm:"foreignKey:EventID"`

	CreatedAt time.Time `json:"created_at"`
}
