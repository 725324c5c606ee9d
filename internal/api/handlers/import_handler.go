package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veloxevents/doorman/internal/api/middleware"
	"github.com/veloxevents/doorman/internal/services"
)

type ImportHandler struct {
	importService *services.ImportService
	eventService  *services.EventService
}

func NewImportHandler(importService *services.ImportService, eventService *services.EventService) *ImportHandler {
	return &ImportHandler{importService: importService, eventService: eventService}
}

// ImportGuests loads a CSV guest list into an event. Accepts a multipart
// "file" field or a raw CSV body.
func (h *ImportHandler) ImportGuests(c *gin.Context) {
	eventID, ok := requireEventAccess(c, h.eventService, "id")
	if !ok {
		return
	}

	reader := c.Request.Body
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		reader = file
	}

	result, err := h.importService.ImportCSV(eventID, reader, middleware.CurrentActor(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, services.ErrEmptyImport):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Import file contains no guests"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
