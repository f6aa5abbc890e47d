package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GroceryList is a generated shopping list for one instance and shopping date.
// Regenerating for the same date replaces the items of the existing row.
type GroceryList struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MealPlanInstanceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_list_instance_date,priority:1;column:meal_plan_instance_id" json:"meal_plan_instance_id"`
	ShoppingDate       time.Time `gorm:"type:date;not null;uniqueIndex:ux_list_instance_date,priority:2;column:shopping_date" json:"shopping_date"`
	GeneratedAt        time.Time `gorm:"not null;column:generated_at" json:"generated_at"`
	CreatedAt          time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (GroceryList) TableName() string {
	return "grocery_list"
}

// GroceryItem is one aggregated (ingredient, unit) line. Quantities are only
// summed within an identical unit; the same ingredient in a different unit is a
// separate row. RecipeIDs records the contributing recipes for traceability.
type GroceryItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GroceryListID uuid.UUID      `gorm:"type:uuid;not null;index;column:grocery_list_id" json:"grocery_list_id"`
	Name          string         `gorm:"not null;column:name" json:"name"`
	Mapped        bool           `gorm:"not null;default:false;column:mapped" json:"mapped"`
	TotalQuantity float64        `gorm:"type:numeric;not null;default:0;column:total_quantity" json:"total_quantity"`
	Unit          *string        `gorm:"column:unit" json:"unit,omitempty"`
	RecipeIDs     datatypes.JSON `gorm:"column:recipe_ids" json:"recipe_ids"`
	SortIndex     int            `gorm:"not null;default:0;column:sort_index" json:"sort_index"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (GroceryItem) TableName() string {
	return "grocery_item"
}

func (i *GroceryItem) SourceRecipeIDs() []uuid.UUID {
	var out []uuid.UUID
	if i == nil || len(i.RecipeIDs) == 0 {
		return out
	}
	_ = json.Unmarshal(i.RecipeIDs, &out)
	return out
}
