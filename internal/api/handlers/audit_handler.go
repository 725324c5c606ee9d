package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veloxevents/doorman/internal/models"
	"github.com/veloxevents/doorman/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List returns the filtered audit trail, newest first. Admin only; the role
// gate runs in the route group.
func (h *AuditHandler) List(c *gin.Context) {
	filter := services.AuditFilter{
		Action:     models.AuditAction(c.Query("action")),
		EntityType: c.Query("entity_type"),
	}

	if v, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		filter.UserID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("entity_id"), 10, 32); err == nil {
		filter.EntityID = uint(v)
	}
	if v, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &v
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, total, err := h.auditService.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": rows, "total": total})
}
