package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-backend/internal/graph"
	"github.com/learnloop/learnloop-backend/internal/http/response"
)

type GraphHandler struct {
	projector *graph.Projector
}

func NewGraphHandler(projector *graph.Projector) *GraphHandler {
	return &GraphHandler{projector: projector}
}

// POST /api/admin/graph/sync
//
// Concurrent calls join the in-flight run and share its stats.
func (h *GraphHandler) Sync(c *gin.Context) {
	stats, err := h.projector.Sync(c.Request.Context())
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}
