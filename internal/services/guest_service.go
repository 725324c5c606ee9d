package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/veloxevents/doorman/internal/metrics"
	"github.com/veloxevents/doorman/internal/models"
)

var (
	// ErrGuestNotFound is returned when the guest id does not exist.
	ErrGuestNotFound = errors.New("guest not found")
	// ErrNotCheckedIn is returned when undo targets a guest who is not
	// checked in. Maps to a 409 at the HTTP boundary.
	ErrNotCheckedIn = errors.New("guest is not checked in")
	// ErrDuplicateGuest is returned when a name already exists on the list.
	ErrDuplicateGuest = errors.New("guest already on the list")
)

// GuestService owns the check-in state machine. The one real rule here:
// an idempotent re-apply must not touch the owning event's UpdatedAt or
// LastChangeType, so polling clients never see a phantom change.
type GuestService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewGuestService(db *gorm.DB, audit *AuditService) *GuestService {
	return &GuestService{db: db, audit: audit}
}

// GetByID loads one guest.
func (s *GuestService) GetByID(id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := s.db.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return &guest, nil
}

// SetAttendance applies the desired presence state. Returns the guest and
// whether anything actually changed.
//
// Same-state calls succeed without writing: the guest row, the event's
// UpdatedAt and its LastChangeType are all left untouched, and no audit row
// is appended.
func (s *GuestService) SetAttendance(guestID uint, present bool, isPaying *bool, actor Actor) (*models.Guest, bool, error) {
	guest, err := s.GetByID(guestID)
	if err != nil {
		return nil, false, err
	}

	if guest.CheckedIn() == present {
		return guest, false, nil
	}

	before := *guest
	now := time.Now()

	var changeType models.ChangeType
	var action models.AuditAction
	if present {
		guest.CheckedInAt = &now
		guest.CheckedInBy = actor.displayName()
		changeType = models.ChangeCheckIn
		action = models.ActionCheckIn
	} else {
		guest.CheckedInAt = nil
		guest.UndoAt = &now
		guest.UndoBy = actor.displayName()
		changeType = models.ChangeUndo
		action = models.ActionUncheck
	}
	if isPaying != nil {
		guest.IsPaying = *isPaying
	}

	if err := s.commitTransition(guest, changeType, now); err != nil {
		return nil, false, err
	}

	if present {
		metrics.IncCheckin()
	} else {
		metrics.IncUndo()
	}

	s.audit.Record(actor, AuditEntry{
		Action:     action,
		EntityType: "guest",
		EntityID:   guest.ID,
		Before:     before,
		After:      guest,
	})

	return guest, true, nil
}

// Undo reverses a check-in, recording why. Fails with ErrNotCheckedIn if
// the guest is not currently present.
func (s *GuestService) Undo(eventID, guestID uint, reason string, actor Actor) (*models.Guest, error) {
	guest, err := s.GetByID(guestID)
	if err != nil {
		return nil, err
	}
	if guest.EventID != eventID {
		return nil, ErrGuestNotFound
	}

	if !guest.CheckedIn() {
		return nil, ErrNotCheckedIn
	}

	before := *guest
	now := time.Now()
	guest.CheckedInAt = nil
	guest.UndoAt = &now
	guest.UndoBy = actor.displayName()
	guest.UndoReason = reason

	if err := s.commitTransition(guest, models.ChangeUndo, now); err != nil {
		return nil, err
	}

	metrics.IncUndo()

	s.audit.Record(actor, AuditEntry{
		Action:        models.ActionUncheck,
		EntityType:    "guest",
		EntityID:      guest.ID,
		Before:        before,
		After:         guest,
		Justification: reason,
	})

	return guest, nil
}

// commitTransition writes the guest row and the owning event's change
// marker in one transaction. Both land or neither does.
func (s *GuestService) commitTransition(guest *models.Guest, changeType models.ChangeType, now time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Explicit column map so a nil CheckedInAt is persisted on undo.
		if err := tx.Model(&models.Guest{}).Where("id = ?", guest.ID).Updates(map[string]interface{}{
			"checked_in_at": guest.CheckedInAt,
			"checked_in_by": guest.CheckedInBy,
			"undo_at":       guest.UndoAt,
			"undo_by":       guest.UndoBy,
			"undo_reason":   guest.UndoReason,
			"is_paying":     guest.IsPaying,
			"updated_at":    now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Event{}).
			Where("id = ?", guest.EventID).
			Updates(map[string]interface{}{
				"updated_at":       now,
				"last_change_type": changeType,
			}).Error
	})
}

// CreateManual adds a walk-up guest at the door. Door-added guests are
// checked in on the spot.
func (s *GuestService) CreateManual(eventID uint, fullName, category, tableNumber string, isPaying bool, actor Actor) (*models.Guest, error) {
	var existing models.Guest
	err := s.db.Where("event_id = ? AND full_name = ?", eventID, fullName).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateGuest
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	guest := &models.Guest{
		FullName:    fullName,
		EventID:     eventID,
		Category:    category,
		TableNumber: tableNumber,
		IsManual:    true,
		IsPaying:    isPaying,
		CheckedInAt: &now,
		CheckedInBy: actor.displayName(),
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(guest).Error; err != nil {
			return err
		}
		return tx.Model(&models.Event{}).
			Where("id = ?", eventID).
			Updates(map[string]interface{}{
				"updated_at":       now,
				"last_change_type": models.ChangeCheckIn,
			}).Error
	}); err != nil {
		return nil, err
	}

	metrics.IncCheckin()

	s.audit.Record(actor, AuditEntry{
		Action:     models.ActionCreateGuest,
		EntityType: "guest",
		EntityID:   guest.ID,
		After:      guest,
	})

	return guest, nil
}

// GuestFilter narrows a guest listing.
type GuestFilter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

// ListByEvent returns an event's guests with the total matching count.
func (s *GuestService) ListByEvent(eventID uint, filter GuestFilter) ([]models.Guest, int64, error) {
	query := s.db.Model(&models.Guest{}).Where("event_id = ?", eventID)

	if filter.Search != "" {
		query = query.Where("full_name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var guests []models.Guest
	err := query.Order("full_name asc").Limit(limit).Offset(filter.Offset).Find(&guests).Error
	return guests, total, err
}

func (a Actor) displayName() string {
	if a.Name != "" {
		return a.Name
	}
	return "unknown"
}
