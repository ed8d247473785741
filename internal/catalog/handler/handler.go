package handler

import (
	"net/http"
	"strconv"

	"dealership_crm_backend/internal/catalog/service"
	"dealership_crm_backend/internal/catalog/transport"
	"dealership_crm_backend/platform/httpkit"
	"dealership_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the vehicle catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid catalog id"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts read routes on protected and edits on manager.
func (h *Handler) RegisterRoutes(protected, manager *gin.RouterGroup) {
	protected.GET("/catalog/brands", h.ListBrands)
	protected.GET("/catalog/brands/:id/models", h.ListModels)
	protected.GET("/catalog/models/:id/trims", h.ListTrims)

	admin := manager.Group("/catalog")
	admin.POST("/brands", h.CreateBrand)
	admin.PUT("/brands/:id", h.RenameBrand)
	admin.DELETE("/brands/:id", h.DeleteBrand)
	admin.POST("/brands/:id/models", h.CreateModel)
	admin.PUT("/models/:id", h.RenameModel)
	admin.DELETE("/models/:id", h.DeleteModel)
	admin.POST("/models/:id/trims", h.CreateTrim)
	admin.PUT("/trims/:id", h.RenameTrim)
	admin.DELETE("/trims/:id", h.DeleteTrim)
}

// ListBrands GET /api/v1/catalog/brands
func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.svc.ListBrands(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, brands)
}

// CreateBrand POST /api/v1/catalog/brands
func (h *Handler) CreateBrand(c *gin.Context) {
	var req transport.NameRequest
	if !h.bindJSON(c, &req) {
		return
	}
	brand, err := h.svc.CreateBrand(c.Request.Context(), req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, brand)
}

func (h *Handler) RenameBrand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.NameRequest
	if !h.bindJSON(c, &req) {
		return
	}
	brand, err := h.svc.RenameBrand(c.Request.Context(), id, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, brand)
}

func (h *Handler) DeleteBrand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteBrand(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListModels GET /api/v1/catalog/brands/:id/models
func (h *Handler) ListModels(c *gin.Context) {
	brandID, ok := parseID(c)
	if !ok {
		return
	}
	models, err := h.svc.ListModels(c.Request.Context(), brandID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, models)
}

func (h *Handler) CreateModel(c *gin.Context) {
	brandID, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.NameRequest
	if !h.bindJSON(c, &req) {
		return
	}
	model, err := h.svc.CreateModel(c.Request.Context(), brandID, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, model)
}

func (h *Handler) RenameModel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.NameRequest
	if !h.bindJSON(c, &req) {
		return
	}
	model, err := h.svc.RenameModel(c.Request.Context(), id, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, model)
}

func (h *Handler) DeleteModel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteModel(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTrims GET /api/v1/catalog/models/:id/trims
func (h *Handler) ListTrims(c *gin.Context) {
	modelID, ok := parseID(c)
	if !ok {
		return
	}
	trims, err := h.svc.ListTrims(c.Request.Context(), modelID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, trims)
}

func (h *Handler) CreateTrim(c *gin.Context) {
	modelID, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.NameRequest
	if !h.bindJSON(c, &req) {
		return
	}
	trim, err := h.svc.CreateTrim(c.Request.Context(), modelID, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, trim)
}

func (h *Handler) RenameTrim(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.NameRequest
	if !h.bindJSON(c, &req) {
		return
	}
	trim, err := h.svc.RenameTrim(c.Request.Context(), id, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, trim)
}

func (h *Handler) DeleteTrim(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteTrim(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
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
