package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/learnloop/learnloop-backend/internal/http/response"
	"github.com/learnloop/learnloop-backend/internal/services"
)

type ProgressionHandler struct {
	svc services.ProgressionService
}

func NewProgressionHandler(svc services.ProgressionService) *ProgressionHandler {
	return &ProgressionHandler{svc: svc}
}

type startPathRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// POST /api/paths/:id/start
func (h *ProgressionHandler) StartPath(c *gin.Context) {
	pathID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req startPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	progress, err := h.svc.StartLearningPath(c.Request.Context(), req.UserID, pathID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"progress": progress})
}

// POST /api/assessments/submit
func (h *ProgressionHandler) SubmitAssessment(c *gin.Context) {
	var req services.SubmitAssessmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	result, err := h.svc.SubmitAssessment(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": result})
}

type completeModuleRequest struct {
	UserID         uuid.UUID `json:"user_id" binding:"required"`
	LearningPathID uuid.UUID `json:"learning_path_id" binding:"required"`
}

// POST /api/modules/:id/complete
func (h *ProgressionHandler) CompleteModule(c *gin.Context) {
	moduleID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req completeModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	result, err := h.svc.MarkModuleComplete(c.Request.Context(), req.UserID, req.LearningPathID, moduleID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": result})
}

// GET /api/paths/:id/progress?user_id=...
func (h *ProgressionHandler) GetProgress(c *gin.Context) {
	pathID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}
	progress, err := h.svc.GetProgress(c.Request.Context(), userID, pathID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": progress})
}
