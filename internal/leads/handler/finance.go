package handler

import (
	"net/http"

	"dealership_crm_backend/internal/leads/finance"
	"dealership_crm_backend/internal/leads/transport"
	"dealership_crm_backend/platform/httpkit"
	"dealership_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// FinanceHandler serves approval routes. The group it is mounted on carries
// the finance access policy.
type FinanceHandler struct {
	svc *finance.Service
	val *validator.Validator
}

func NewFinanceHandler(svc *finance.Service, val *validator.Validator) *FinanceHandler {
	return &FinanceHandler{svc: svc, val: val}
}

func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reject", h.Reject)
	rg.POST("/:id/commission-paid", h.MarkCommissionPaid)
}

func (h *FinanceHandler) List(c *gin.Context) {
	var req transport.ListFinanceLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	resp, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *FinanceHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	lead, err := h.svc.Approve(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *FinanceHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.RejectLeadRequest
	if !bindJSON(c, h.val, &req) {
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	lead, err := h.svc.Reject(c.Request.Context(), actor, id, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *FinanceHandler) MarkCommissionPaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.svc.MarkCommissionPaid(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}
