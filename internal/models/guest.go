package models

import (
	"time"
)

// Guest is one entry on an event's list. Presence is fully captured by
// CheckedInAt being nil or not; there is no separate boolean.
type Guest struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	FullName    string `json:"full_name" gorm:"not null;uniqueIndex:idx_event_fullname"`
	EventID     uint   `json:"event_id" gorm:"not null;uniqueIndex:idx_event_fullname;index"`
	Category    string `json:"category"`
	TableNumber string `json:"table_number"`
	IsManual    bool   `json:"is_manual" gorm:"default:false"` // added at the door vs. imported
	IsPaying    bool   `json:"is_paying" gorm:"default:false"`

	CheckedInAt *time.Time `json:"checked_in_at"`
	CheckedInBy string     `json:"checked_in_by,omitempty"`
	UndoAt      *time.Time `json:"undo_at,omitempty"`
	UndoBy      string     `json:"undo_by,omitempty"`
	UndoReason  string     `json:"undo_reason,omitempty"`

	Event Event `json:"-" gorm:"foreignKey:EventID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckedIn reports whether the guest is currently marked present.
func (g *Guest) CheckedIn() bool {
	return g.CheckedInAt != nil
}
