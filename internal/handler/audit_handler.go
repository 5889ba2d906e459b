package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/inventory-admin-api/internal/dto"
	"github.com/noah-isme/inventory-admin-api/internal/models"
	"github.com/noah-isme/inventory-admin-api/pkg/response"
)

type auditService interface {
	List(ctx context.Context, skip, limit int) ([]models.AuditLog, int, error)
}

// AuditHandler exposes the audit trail.
type AuditHandler struct {
	service auditService
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(svc auditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List audit log entries
// @Description Newest first
// @Tags Audit
// @Security BearerAuth
// @Produce json
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Page size (1-1000)" default(100)
// @Success 200 {array} models.AuditLog
// @Header 200 {integer} X-Total-Count "Total rows"
// @Failure 403 {object} response.ErrorBody
// @Router /audit/ [get]
func (h *AuditHandler) List(c *gin.Context) {
	var page dto.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, bindError(err, "invalid pagination parameters"))
		return
	}

	logs, total, err := h.service.List(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	response.List(c, logs, total)
}
