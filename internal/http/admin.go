package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/audit"
	auditRepo "github.com/mrlokans/shayfa/internal/database/audit"
	"github.com/mrlokans/shayfa/internal/dashboard"
	"github.com/mrlokans/shayfa/internal/entities"
)

// MaintenanceTrigger starts a maintenance pass on demand.
type MaintenanceTrigger interface {
	RunNow(ctx context.Context) error
}

type AdminController struct {
	client       *api.Client
	auditService *audit.Service
	maintenance  MaintenanceTrigger
}

func NewAdminController(client *api.Client, auditService *audit.Service, maintenance MaintenanceTrigger) *AdminController {
	return &AdminController{client: client, auditService: auditService, maintenance: maintenance}
}

// Stats handles GET /api/admin/stats.
func (ac *AdminController) Stats(c *gin.Context) {
	summary, err := dashboard.Collect(c.Request.Context(), ac.client)
	if err != nil {
		respondDomainError(c, err, "collect stats")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AuditEvents handles GET /api/admin/audit?page=&limit=&type=&user=.
func (ac *AdminController) AuditEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	events, total, err := ac.auditService.GetEvents(c.Request.Context(), auditRepo.EventFilter{
		UserID:    c.Query("user"),
		EventType: entities.AuditEventType(c.Query("type")),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// RunMaintenance handles POST /api/admin/maintenance.
func (ac *AdminController) RunMaintenance(c *gin.Context) {
	if ac.maintenance == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "maintenance not configured"})
		return
	}
	if err := ac.maintenance.RunNow(c.Request.Context()); err != nil {
		respondInternalError(c, err, "run maintenance")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "maintenance started"})
}
