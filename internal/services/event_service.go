package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/veloxevents/doorman/internal/models"
)

var (
	// ErrEventNotFound is returned when the event id does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrUserNotFound is returned when an assignment targets an unknown user.
	ErrUserNotFound = errors.New("user not found")
)

// EventService manages events and the user-event assignments that gate
// non-admin access.
type EventService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewEventService(db *gorm.DB, audit *AuditService) *EventService {
	return &EventService{db: db, audit: audit}
}

// Create stores a new event and assigns the creator so they can see it
// regardless of role.
func (s *EventService) Create(name string, date time.Time, description string, actor Actor) (*models.Event, error) {
	event := &models.Event{
		Name:        name,
		Date:        date,
		Description: description,
		Status:      models.EventPending,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserEvent{UserID: actor.UserID, EventID: event.ID}).Error
	}); err != nil {
		return nil, err
	}

	s.audit.Record(actor, AuditEntry{
		Action:     models.ActionCreateEvent,
		EntityType: "event",
		EntityID:   event.ID,
		After:      event,
	})

	return event, nil
}

// GetByID loads one event.
func (s *EventService) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ListForUser returns events visible to the caller: all of them for admins,
// assigned ones for everyone else.
func (s *EventService) ListForUser(userID uint, role models.Role) ([]models.Event, error) {
	var events []models.Event
	query := s.db.Order("date desc")

	if role != models.RoleAdmin {
		query = query.Joins("JOIN user_events ON user_events.event_id = events.id").
			Where("user_events.user_id = ?", userID)
	}

	err := query.Find(&events).Error
	return events, err
}

// AssignUser links a user to an event. Re-assigning is a no-op.
func (s *EventService) AssignUser(eventID, userID uint, actor Actor) error {
	if _, err := s.GetByID(eventID); err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	assignment := models.UserEvent{UserID: userID, EventID: eventID}
	result := s.db.Where("user_id = ? AND event_id = ?", userID, eventID).FirstOrCreate(&assignment)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		s.audit.Record(actor, AuditEntry{
			Action:     models.ActionAssignUser,
			EntityType: "event",
			EntityID:   eventID,
			After:      assignment,
		})
	}

	return nil
}

// CanAccess is the assignment gate: admins see every event, other roles
// need a UserEvent row.
func (s *EventService) CanAccess(userID uint, role models.Role, eventID uint) (bool, error) {
	if role == models.RoleAdmin {
		return true, nil
	}

	var count int64
	err := s.db.Model(&models.UserEvent{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}

// CompletePastEvents flips ACTIVE events whose date has passed to COMPLETED.
// Run from the scheduler; returns the completed events for notification.
func (s *EventService) CompletePastEvents(now time.Time) ([]models.Event, error) {
	var stale []models.Event
	if err := s.db.Where("status = ? AND date < ?", models.EventActive, now).Find(&stale).Error; err != nil {
		return nil, err
	}
	if len(stale) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(stale))
	for _, e := range stale {
		ids = append(ids, e.ID)
	}

	if err := s.db.Model(&models.Event{}).
		Where("id IN ?", ids).
		Update("status", models.EventCompleted).Error; err != nil {
		return nil, err
	}

	return stale, nil
}
