package handler

import (
	"errors"
	"net/http"

	"caseflow/internal/api/dto"
	"caseflow/internal/domain"
	"caseflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	orgIDKey  = "org_id"
	userIDKey = "user_id"
)

type WorkflowHandler struct {
	service service.WorkflowService
}

func NewWorkflowHandler(svc service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: svc}
}

// TenantMiddleware resolves the caller's identity from the gateway headers.
// Authentication itself happens upstream; the engine only needs the ids.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, err := uuid.Parse(c.GetHeader("X-Org-ID"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid X-Org-ID header"})
			return
		}
		userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid X-User-ID header"})
			return
		}
		c.Set(orgIDKey, orgID)
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func (h *WorkflowHandler) Register(api *gin.RouterGroup) {
	api.POST("/workflows", h.StartWorkflow)
	api.GET("/workflows/:id", h.GetExecution)
	api.POST("/workflows/:id/steps/:stepID/resume", h.ResumeWorkflow)
}

func (h *WorkflowHandler) StartWorkflow(c *gin.Context) {
	var req dto.StartWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	execution, err := h.service.StartWorkflow(c.Request.Context(), orgID(c), service.StartRequest{
		TemplateID:   req.TemplateID,
		CollectionID: req.CollectionID,
		CaseID:       req.CaseID,
		DocumentIDs:  req.DocumentIDs,
		CreatedBy:    userID(c),
		Name:         req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewExecutionResponse(execution, nil))
}

func (h *WorkflowHandler) GetExecution(c *gin.Context) {
	executionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}

	execution, steps, err := h.service.GetExecutionWithSteps(c.Request.Context(), orgID(c), executionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewExecutionResponse(execution, steps))
}

func (h *WorkflowHandler) ResumeWorkflow(c *gin.Context) {
	executionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execution id"})
		return
	}
	stepID, err := uuid.Parse(c.Param("stepID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid step id"})
		return
	}

	var req dto.ResumeWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ResumeWorkflow(c.Request.Context(), orgID(c), executionID, stepID, req.UserInput); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "resumed"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrStepMismatch):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStepNotWaiting):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func orgID(c *gin.Context) uuid.UUID {
	return c.MustGet(orgIDKey).(uuid.UUID)
}

func userID(c *gin.Context) uuid.UUID {
	return c.MustGet(userIDKey).(uuid.UUID)
}
