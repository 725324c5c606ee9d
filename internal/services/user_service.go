package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/veloxevents/doorman/internal/models"
)

// ErrEmailTaken is returned when an account with the email already exists.
var ErrEmailTaken = errors.New("email already in use")

// UserService covers admin account management.
type UserService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewUserService(db *gorm.DB, audit *AuditService) *UserService {
	return &UserService{db: db, audit: audit}
}

// List returns all accounts, newest first.
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	err := s.db.Order("created_at desc").Find(&users).Error
	return users, err
}

// Create adds an account. Duplicate emails fail before any row is written.
func (s *UserService) Create(name, email, password string, role models.Role, actor Actor) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Name:    name,
		Email:   email,
		Role:    role,
		Enabled: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	s.audit.Record(actor, AuditEntry{
		Action:     models.ActionCreateUser,
		EntityType: "user",
		EntityID:   user.ID,
		After:      user,
	})

	return user, nil
}

// ResetPassword sets a new password for a user and clears any lockout.
func (s *UserService) ResetPassword(userID uint, newPassword string, actor Actor) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil

	if err := s.db.Save(&user).Error; err != nil {
		return err
	}

	s.audit.Record(actor, AuditEntry{
		Action:     models.ActionResetPassword,
		EntityType: "user",
		EntityID:   user.ID,
	})

	return nil
}
