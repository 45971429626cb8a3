package handler

import (
	"net/http"

	"leadflow_backend/internal/leads/analytics"
	"leadflow_backend/internal/leads/assignment"
	"leadflow_backend/internal/leads/management"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	management *management.Service
	assignment *assignment.Service
	analytics  *analytics.Service
	validate   *validator.Validator
}

func New(mgmt *management.Service, assign *assignment.Service, stats *analytics.Service, val *validator.Validator) *Handler {
	return &Handler{
		management: mgmt,
		assignment: assign,
		analytics:  stats,
		validate:   val,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/statuses", h.ListStatuses)
	rg.GET("/courses", h.ListCourses)
	rg.GET("/summary", h.Summary)
	rg.GET("/analytics", h.Dashboard)
	// Bulk operations redistribute other people's workloads, so they are
	// reserved for team leads.
	tl := rg.Group("", httpkit.RequireRole("team_lead"))
	tl.POST("/bulk-assign", h.BulkAssign)
	tl.POST("/distribute", h.Distribute)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.PUT("/:id/status", h.UpdateStatus)
	rg.GET("/:id/conversion-details", h.GetConversionDetails)
	rg.POST("/:id/conversion-details", h.RecordConversionDetails)
	rg.PUT("/:id/conversion-details", h.RecordConversionDetails)
	rg.PUT("/:id/assign", h.Assign)
	rg.POST("/:id/follow-up", h.SetFollowUp)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.management.Create(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.management.GetByID(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.management.Update(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	leads, err := h.management.List(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, leads)
}

func (h *Handler) ListStatuses(c *gin.Context) {
	statuses, err := h.management.ListStatuses(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, statuses)
}

func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.management.ListCourses(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, courses)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.management.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, lead)
}

// RecordConversionDetails serves both the initial record (POST) and the
// payment amendment (PUT); the upsert semantics are identical.
func (h *Handler) RecordConversionDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.ConversionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	details, err := h.management.RecordConversionDetails(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, details)
}

func (h *Handler) GetConversionDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	details, err := h.management.GetConversionDetails(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	// No record yet is a normal answer, not a 404.
	httpkit.OK(c, details)
}

func (h *Handler) SetFollowUp(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.FollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.management.SetFollowUp(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.assignment.Assign(c.Request.Context(), id, req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) BulkAssign(c *gin.Context) {
	var req transport.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.assignment.BulkAssign(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Distribute(c *gin.Context) {
	var req transport.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.assignment.Distribute(c.Request.Context(), req)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Summary(c *gin.Context) {
	params, ok := snapshotParams(c)
	if !ok {
		return
	}

	summary, err := h.analytics.Summary(c.Request.Context(), params)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, summary)
}

func (h *Handler) Dashboard(c *gin.Context) {
	params, ok := snapshotParams(c)
	if !ok {
		return
	}

	dashboard, err := h.analytics.Dashboard(c.Request.Context(), params)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, dashboard)
}

func snapshotParams(c *gin.Context) (repository.ListParams, bool) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return repository.ListParams{}, false
	}

	return repository.ListParams{
		BOEID:      req.BOEID,
		TeamLeadID: req.TeamLeadID,
		From:       req.From,
		To:         req.To,
		Inactive:   req.Inactive,
	}, true
}
