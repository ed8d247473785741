package handler

import (
	"net/http"
	"strconv"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/leads/management"
	"dealership_crm_backend/internal/leads/transport"
	"dealership_crm_backend/platform/httpkit"
	"dealership_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid lead id"
)

// Handler serves lead management routes.
type Handler struct {
	svc *management.Service
	val *validator.Validator
}

func New(svc *management.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the routes on a group already guarded by the sales
// floor policy. managerOnly further restricts reassignment.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, managerOnly gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.PATCH("/:id/active", h.SetActive)
	rg.PUT("/:id/assign", managerOnly, h.Assign)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if !bindJSON(c, h.val, &req) {
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateLeadRequest
	if !bindJSON(c, h.val, &req) {
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateLeadStatusRequest
	if !bindJSON(c, h.val, &req) {
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	lead, err := h.svc.UpdateStatus(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) SetActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.SetLeadActiveRequest
	if !bindJSON(c, h.val, &req) {
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	lead, err := h.svc.SetActive(c.Request.Context(), actor, id, *req.IsActive)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Assign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.AssignLeadRequest
	if !bindJSON(c, h.val, &req) {
		return
	}
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	lead, err := h.svc.Assign(c.Request.Context(), actor, id, req.AssignedTo)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func bindJSON(c *gin.Context, val *validator.Validator, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}

func actorOrAbort(c *gin.Context) (access.Actor, bool) {
	actor, ok := access.ActorFrom(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "Unauthenticated.", nil)
		return access.Actor{}, false
	}
	return actor, true
}
