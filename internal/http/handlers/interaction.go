package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/learnloop/learnloop-backend/internal/http/response"
	"github.com/learnloop/learnloop-backend/internal/services"
)

type InteractionHandler struct {
	svc services.InteractionService
}

func NewInteractionHandler(svc services.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

// POST /api/interactions
func (h *InteractionHandler) Record(c *gin.Context) {
	var req services.RecordInteractionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	row, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"interaction": row})
}

// GET /api/interactions?user_id=...
func (h *InteractionHandler) ListForUser(c *gin.Context) {
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}
	rows, err := h.svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"interactions": rows})
}

type createBookmarkRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	ResourceID uuid.UUID `json:"resource_id" binding:"required"`
}

// POST /api/bookmarks
func (h *InteractionHandler) CreateBookmark(c *gin.Context) {
	var req createBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	bookmark, err := h.svc.CreateBookmark(c.Request.Context(), req.UserID, req.ResourceID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"bookmark": bookmark})
}

// DELETE /api/bookmarks/:id?user_id=...
func (h *InteractionHandler) DeleteBookmark(c *gin.Context) {
	bookmarkID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBookmark(c.Request.Context(), userID, bookmarkID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
