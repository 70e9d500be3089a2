package service

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schedly/catalog-api/internal/model"
	apperrors "github.com/schedly/catalog-api/pkg/errors"
	"github.com/schedly/catalog-api/pkg/httputil"
)

// Catalog is the surface the handler needs from the catalog service
type Catalog interface {
	CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.AppointmentService, error)
	GetService(ctx context.Context, id uuid.UUID) (*model.AppointmentService, error)
	UpdateService(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.AppointmentService, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*model.AppointmentService, error)
	ListServices(ctx context.Context, filters *model.ServiceFilters) ([]*model.AppointmentService, int, error)
}

type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	services := public.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
	}

	admin := protected.Group("/services")
	{
		admin.POST("", h.CreateService)
		admin.PUT("/:id", h.UpdateService)
		admin.DELETE("/:id", h.DeleteService)
		admin.POST("/:id/enable", h.EnableService)
		admin.POST("/:id/disable", h.DisableService)
	}
}

func (h *Handler) CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	svc, err := h.catalog.CreateService(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, svc)
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid service ID", err))
		return
	}

	svc, err := h.catalog.GetService(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, svc)
}

func (h *Handler) ListServices(c *gin.Context) {
	filters := &model.ServiceFilters{
		SearchTerm: c.Query("search"),
	}

	if v := c.Query("enabled"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid enabled filter", err))
			return
		}
		filters.Enabled = &enabled
	}

	filters.Pagination.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filters.Pagination.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if filters.Pagination.Page < 1 {
		filters.Pagination.Page = 1
	}
	if filters.Pagination.PageSize < 1 || filters.Pagination.PageSize > 100 {
		filters.Pagination.PageSize = 20
	}

	services, total, err := h.catalog.ListServices(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, services, filters.Pagination.Page, filters.Pagination.PageSize, total)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid service ID", err))
		return
	}

	var req model.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	svc, err := h.catalog.UpdateService(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, svc)
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid service ID", err))
		return
	}

	if err := h.catalog.DeleteService(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, nil)
}

func (h *Handler) EnableService(c *gin.Context) {
	h.setEnabled(c, true)
}

func (h *Handler) DisableService(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *Handler) setEnabled(c *gin.Context, enabled bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid service ID", err))
		return
	}

	svc, err := h.catalog.SetEnabled(c.Request.Context(), id, enabled)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, svc)
}
