package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/learnloop/learnloop-backend/internal/http/response"
	"github.com/learnloop/learnloop-backend/internal/services"
)

type RecommendationHandler struct {
	svc services.RecommendationService
}

func NewRecommendationHandler(svc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// GET /api/recommendations/resources?user_id=...
func (h *RecommendationHandler) ResourcesForUser(c *gin.Context) {
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return
	}
	results, err := h.svc.GetResourceRecommendations(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resources": results})
}

// GET /api/resources/:id/related?user_id=...
func (h *RecommendationHandler) RelatedResources(c *gin.Context) {
	resourceID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	userID := optionalQueryUUID(c, "user_id")
	results, err := h.svc.GetRelatedResources(c.Request.Context(), resourceID, userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resources": results})
}

// GET /api/resources/:id/modules
func (h *RecommendationHandler) ModulesForResource(c *gin.Context) {
	resourceID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	results, err := h.svc.GetModulesForResource(c.Request.Context(), resourceID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"modules": results})
}

// GET /api/modules/:id/paths?user_id=...
func (h *RecommendationHandler) PathsForModule(c *gin.Context) {
	moduleID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	userID := optionalQueryUUID(c, "user_id")
	results, err := h.svc.GetLearningPathsForModule(c.Request.Context(), moduleID, userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"learning_paths": results})
}

// GET /api/modules/:id/related?user_id=...
func (h *RecommendationHandler) RelatedModules(c *gin.Context) {
	moduleID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	userID := optionalQueryUUID(c, "user_id")
	results, err := h.svc.GetRelatedModules(c.Request.Context(), moduleID, userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"modules": results})
}

// GET /api/paths/:id/related?user_id=...
func (h *RecommendationHandler) RelatedPaths(c *gin.Context) {
	pathID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	userID := optionalQueryUUID(c, "user_id")
	results, err := h.svc.GetRelatedLearningPaths(c.Request.Context(), pathID, userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"learning_paths": results})
}

// GET /api/paths/:id/resources?user_id=...
func (h *RecommendationHandler) ResourcesForPath(c *gin.Context) {
	pathID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	userID := optionalQueryUUID(c, "user_id")
	results, err := h.svc.GetResourcesForLearningPath(c.Request.Context(), pathID, userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resources": results})
}

// GET /api/recommendations/modules?categories=a,b,c
func (h *RecommendationHandler) ModulesForCategories(c *gin.Context) {
	raw := c.Query("categories")
	categories := strings.Split(raw, ",")
	results, err := h.svc.GetModulesForCategories(c.Request.Context(), categories)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"modules": results})
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// optionalQueryUUID returns uuid.Nil when the query param is absent or
// unparseable; personalization filters simply stay off.
func optionalQueryUUID(c *gin.Context, name string) uuid.UUID {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		return uuid.Nil
	}
	return id
}
