package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emiilyxiia/microservices-3/models"
	"github.com/emiilyxiia/microservices-3/services"
	"github.com/emiilyxiia/microservices-3/store"
)

type RankedItemPayload struct {
	Name        string        `json:"name" binding:"required"`
	Origin      models.Origin `json:"origin" binding:"required,oneof=home cafe"`
	Rating      float64       `json:"rating" binding:"min=0,max=5"`
	CostPerGram float64       `json:"cost_per_gram" binding:"min=0"`
}

// Items is a pointer so a missing "items" key is rejected while an explicit
// empty list stays valid.
type CreateRankingRequest struct {
	ID     string               `json:"id" binding:"required,uuid"`
	UserID string               `json:"user_id" binding:"required,uuid"`
	Items  *[]RankedItemPayload `json:"items" binding:"required,dive"`
}

type ReplaceItemsRequest struct {
	Items *[]RankedItemPayload `json:"items" binding:"required,dive"`
}

// UpdateItemRequest carries the optional fields of a single-item patch; absent
// fields stay as they are.
type UpdateItemRequest struct {
	Name        *string        `json:"name"`
	Origin      *models.Origin `json:"origin" binding:"omitempty,oneof=home cafe"`
	Rating      *float64       `json:"rating" binding:"omitempty,min=0,max=5"`
	CostPerGram *float64       `json:"cost_per_gram" binding:"omitempty,min=0"`
}

type ListRankingsQuery struct {
	UserID    string         `form:"user_id" binding:"required,uuid"`
	MinRating *float64       `form:"min_rating" binding:"omitempty,min=0,max=5"`
	MaxRating *float64       `form:"max_rating" binding:"omitempty,min=0,max=5"`
	MaxCost   *float64       `form:"max_cost" binding:"omitempty,min=0"`
	Origin    *models.Origin `form:"origin" binding:"omitempty,oneof=home cafe"`
}

func toItems(payloads []RankedItemPayload) []models.RankedItem {
	items := make([]models.RankedItem, len(payloads))
	for i, p := range payloads {
		items[i] = models.RankedItem{
			Name:        p.Name,
			Origin:      p.Origin,
			Rating:      p.Rating,
			CostPerGram: p.CostPerGram,
		}
	}
	return items
}

// GET /ranking?user_id&min_rating&max_rating&max_cost&origin
func ListRankings(c *gin.Context) {
	var query ListRankingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondError(c, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	svc := services.ServiceInstance(c)
	if svc == nil {
		RespondError(c, "service not configured in context", http.StatusInternalServerError)
		return
	}

	rankings, err := svc.List(query.UserID, services.ItemFilters{
		MinRating: query.MinRating,
		MaxRating: query.MaxRating,
		MaxCost:   query.MaxCost,
		Origin:    query.Origin,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, rankings)
}

// POST /ranking
func CreateRanking(c *gin.Context) {
	var req CreateRankingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	svc := services.ServiceInstance(c)
	if svc == nil {
		RespondError(c, "service not configured in context", http.StatusInternalServerError)
		return
	}

	ranking := models.Ranking{
		ID:     req.ID,
		UserID: req.UserID,
		Items:  toItems(*req.Items),
	}
	created, err := svc.Create(&ranking)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /ranking/:id
func GetRanking(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	svc := services.ServiceInstance(c)
	if svc == nil {
		RespondError(c, "service not configured in context", http.StatusInternalServerError)
		return
	}

	ranking, err := svc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, ranking)
}

// PUT /ranking/:id replaces the entire item list.
func ReplaceRanking(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var req ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	svc := services.ServiceInstance(c)
	if svc == nil {
		RespondError(c, "service not configured in context", http.StatusInternalServerError)
		return
	}

	ranking, err := svc.Replace(id, toItems(*req.Items))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, ranking)
}

// DELETE /ranking/:id
func DeleteRanking(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	svc := services.ServiceInstance(c)
	if svc == nil {
		RespondError(c, "service not configured in context", http.StatusInternalServerError)
		return
	}

	if err := svc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PATCH /ranking/:id/item/:index updates single fields of one item.
func UpdateRankingItem(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	index, ok := ParamIndex(c, "index")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	svc := services.ServiceInstance(c)
	if svc == nil {
		RespondError(c, "service not configured in context", http.StatusInternalServerError)
		return
	}

	if _, err := svc.PatchItem(id, index, store.ItemPatch{
		Name:        req.Name,
		Origin:      req.Origin,
		Rating:      req.Rating,
		CostPerGram: req.CostPerGram,
	}); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "item updated"})
}
