package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veloxevents/doorman/internal/api/middleware"
	"github.com/veloxevents/doorman/internal/models"
	"github.com/veloxevents/doorman/internal/services"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// requireEventAccess applies the assignment gate and parses the event id
// from the named route param. Writes the response itself on failure.
func requireEventAccess(c *gin.Context, eventService *services.EventService, param string) (uint, bool) {
	eventID, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return 0, false
	}

	userID := c.GetUint("userID")
	role, _ := c.Get("role")

	ok, err := eventService.CanAccess(userID, role.(models.Role), uint(eventID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return 0, false
	}
	if !ok {
		// 403, not 404: the caller is authenticated, just not assigned.
		c.JSON(http.StatusForbidden, gin.H{"error": "Not assigned to this event"})
		return 0, false
	}

	return uint(eventID), true
}

func (h *EventHandler) List(c *gin.Context) {
	userID := c.GetUint("userID")
	role, _ := c.Get("role")

	events, err := h.eventService.ListForUser(userID, role.(models.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.Create(req.Name, req.Date, req.Description, middleware.CurrentActor(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Get returns one event, including updated_at and last_change_type so
// clients can poll for guest-state changes.
func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := requireEventAccess(c, h.eventService, "id")
	if !ok {
		return
	}

	event, err := h.eventService.GetByID(eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

type AssignUserRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (h *EventHandler) AssignUser(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.eventService.AssignUser(uint(eventID), req.UserID, middleware.CurrentActor(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User assigned"})
}
