package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veloxevents/doorman/internal/api/middleware"
	"github.com/veloxevents/doorman/internal/models"
	"github.com/veloxevents/doorman/internal/services"
)

type GuestHandler struct {
	guestService *services.GuestService
	eventService *services.EventService
	auditService *services.AuditService
}

func NewGuestHandler(guestService *services.GuestService, eventService *services.EventService, auditService *services.AuditService) *GuestHandler {
	return &GuestHandler{
		guestService: guestService,
		eventService: eventService,
		auditService: auditService,
	}
}

// List returns an event's guests with search and pagination.
func (h *GuestHandler) List(c *gin.Context) {
	eventID, ok := requireEventAccess(c, h.eventService, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	guests, total, err := h.guestService.ListByEvent(eventID, services.GuestFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list guests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"guests": guests, "total": total})
}

type CreateGuestRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Category    string `json:"category"`
	TableNumber string `json:"table_number"`
	IsPaying    bool   `json:"is_paying"`
}

// CreateManual adds a walk-up guest; they are checked in immediately.
func (h *GuestHandler) CreateManual(c *gin.Context) {
	eventID, ok := requireEventAccess(c, h.eventService, "id")
	if !ok {
		return
	}

	var req CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guest, err := h.guestService.CreateManual(eventID, req.FullName, req.Category, req.TableNumber, req.IsPaying, middleware.CurrentActor(c))
	if err != nil {
		if errors.Is(err, services.ErrDuplicateGuest) {
			c.JSON(http.StatusConflict, gin.H{"error": "Guest already on the list"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add guest"})
		return
	}

	c.JSON(http.StatusCreated, guest)
}

type AttendanceRequest struct {
	Present  *bool `json:"present" binding:"required"`
	IsPaying *bool `json:"is_paying"`
}

// SetAttendance is the idempotent presence toggle. Re-applying the current
// state succeeds without touching the event's change marker.
func (h *GuestHandler) SetAttendance(c *gin.Context) {
	guestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid guest ID"})
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guest, err := h.guestService.GetByID(uint(guestID))
	if err != nil {
		if errors.Is(err, services.ErrGuestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guest not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load guest"})
		return
	}

	if !h.checkEventAccess(c, guest.EventID) {
		return
	}

	updated, changed, err := h.guestService.SetAttendance(uint(guestID), *req.Present, req.IsPaying, middleware.CurrentActor(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update attendance"})
		return
	}

	message := "Attendance updated"
	if !changed {
		message = "Guest already in that state"
	}

	c.JSON(http.StatusOK, gin.H{"guest": updated, "changed": changed, "message": message})
}

type UndoRequest struct {
	GuestID uint   `json:"guest_id" binding:"required"`
	Reason  string `json:"reason"`
}

// Undo reverses a check-in. A guest who is not checked in yields 409.
func (h *GuestHandler) Undo(c *gin.Context) {
	eventID, ok := requireEventAccess(c, h.eventService, "id")
	if !ok {
		return
	}

	var req UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guest, err := h.guestService.Undo(eventID, req.GuestID, req.Reason, middleware.CurrentActor(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGuestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Guest not found"})
		case errors.Is(err, services.ErrNotCheckedIn):
			c.JSON(http.StatusConflict, gin.H{"error": "Guest is not checked in"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to undo check-in"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"guest": guest})
}

// History returns the ordered check-in/undo trail for one guest.
func (h *GuestHandler) History(c *gin.Context) {
	eventID, ok := requireEventAccess(c, h.eventService, "id")
	if !ok {
		return
	}

	guestID, err := strconv.ParseUint(c.Param("guestId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid guest ID"})
		return
	}

	guest, err := h.guestService.GetByID(uint(guestID))
	if err != nil || guest.EventID != eventID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guest not found"})
		return
	}

	history, err := h.auditService.GuestHistory(uint(guestID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// checkEventAccess applies the assignment gate for routes keyed by guest id
// rather than event id.
func (h *GuestHandler) checkEventAccess(c *gin.Context, eventID uint) bool {
	userID := c.GetUint("userID")
	role, _ := c.Get("role")

	ok, err := h.eventService.CanAccess(userID, role.(models.Role), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return false
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not assigned to this event"})
		return false
	}
	return true
}
