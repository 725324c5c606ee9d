package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/veloxevents/doorman/internal/models"
)

// ErrEmptyImport is returned when the CSV has no data rows.
var ErrEmptyImport = errors.New("import file contains no guests")

// ImportResult summarizes one CSV import.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ImportService loads guest lists from CSV. Expected columns:
// full_name, category, table_number, is_paying. Only full_name is required.
type ImportService struct {
	db       *gorm.DB
	audit    *AuditService
	notifier *NotificationService
}

func NewImportService(db *gorm.DB, audit *AuditService, notifier *NotificationService) *ImportService {
	return &ImportService{db: db, audit: audit, notifier: notifier}
}

// ImportCSV reads guests from r into the event. Names already on the list
// are skipped; everything else goes in as not-checked-in imported guests.
func (s *ImportService) ImportCSV(eventID uint, r io.Reader, actor Actor) (*ImportResult, error) {
	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	records = dropHeader(records)
	if len(records) == 0 {
		return nil, ErrEmptyImport
	}

	result := &ImportResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
				result.Skipped++
				continue
			}

			guest := models.Guest{
				FullName: strings.TrimSpace(record[0]),
				EventID:  eventID,
				IsManual: false,
			}
			if len(record) > 1 {
				guest.Category = strings.TrimSpace(record[1])
			}
			if len(record) > 2 {
				guest.TableNumber = strings.TrimSpace(record[2])
			}
			if len(record) > 3 {
				guest.IsPaying = parseBool(record[3])
			}

			var count int64
			if err := tx.Model(&models.Guest{}).
				Where("event_id = ? AND full_name = ?", eventID, guest.FullName).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				result.Skipped++
				continue
			}

			if err := tx.Create(&guest).Error; err != nil {
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actor, AuditEntry{
		Action:     models.ActionImportGuests,
		EntityType: "event",
		EntityID:   eventID,
		After:      result,
	})

	s.notifier.Send(
		fmt.Sprintf("Guest import finished: %s", event.Name),
		fmt.Sprintf("%d guests imported, %d skipped.", result.Created, result.Skipped),
	)

	return result, nil
}

// dropHeader removes a leading header row if the first cell looks like one.
func dropHeader(records [][]string) [][]string {
	if len(records) == 0 {
		return records
	}
	first := strings.ToLower(strings.TrimSpace(records[0][0]))
	if first == "full_name" || first == "fullname" || first == "name" {
		return records[1:]
	}
	return records
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
