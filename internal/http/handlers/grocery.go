package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hearthplan/hearthplan-backend/internal/http/response"
	"github.com/hearthplan/hearthplan-backend/internal/pkg/apierr"
	"github.com/hearthplan/hearthplan-backend/internal/services"
	"github.com/hearthplan/hearthplan-backend/internal/units"
)

type GroceryHandler struct {
	groceryService services.GroceryService
}

func NewGroceryHandler(groceryService services.GroceryService) *GroceryHandler {
	return &GroceryHandler{groceryService: groceryService}
}

// groceryItemView adds the human-friendly quantity rendering.
type groceryItemView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Mapped        bool     `json:"mapped"`
	TotalQuantity float64  `json:"total_quantity"`
	Unit          *string  `json:"unit,omitempty"`
	Display       string   `json:"display"`
	RecipeIDs     []string `json:"recipe_ids"`
}

func itemViews(detail *services.GroceryListDetail) []groceryItemView {
	out := make([]groceryItemView, 0, len(detail.Items))
	for _, item := range detail.Items {
		unitCode := ""
		if item.Unit != nil {
			unitCode = *item.Unit
		}
		recipeIDs := []string{}
		for _, id := range item.SourceRecipeIDs() {
			recipeIDs = append(recipeIDs, id.String())
		}
		out = append(out, groceryItemView{
			ID:            item.ID.String(),
			Name:          item.Name,
			Mapped:        item.Mapped,
			TotalQuantity: item.TotalQuantity,
			Unit:          item.Unit,
			Display:       units.Format(item.TotalQuantity, unitCode),
			RecipeIDs:     recipeIDs,
		})
	}
	return out
}

// POST /instances/:id/grocery-lists
// body: { "shopping_date": "YYYY-MM-DD" }
func (h *GroceryHandler) Generate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ShoppingDate string `json:"shopping_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apierr.Validation("invalid request body: %v", err))
		return
	}
	shoppingDate, err := parseDate(req.ShoppingDate)
	if err != nil {
		response.FromError(c, apierr.Validation("shopping_date must be YYYY-MM-DD"))
		return
	}
	detail, err := h.groceryService.Generate(c.Request.Context(), id, shoppingDate)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"list": detail.List, "items": itemViews(detail)})
}

// GET /grocery-lists/:id
func (h *GroceryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.groceryService.GetList(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"list": detail.List, "items": itemViews(detail)})
}

// GET /instances/:id/grocery-lists
func (h *GroceryHandler) ListByInstance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lists, err := h.groceryService.ListLists(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lists": lists})
}
