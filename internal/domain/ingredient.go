package domain

import (
	"time"

	"github.com/google/uuid"
)

type IngredientCategory string

const (
	CategoryDairy      IngredientCategory = "dairy"
	CategoryProduce    IngredientCategory = "produce"
	CategoryMeat       IngredientCategory = "meat"
	CategoryPantry     IngredientCategory = "pantry"
	CategorySpices     IngredientCategory = "spices"
	CategorySeafood    IngredientCategory = "seafood"
	CategoryCondiments IngredientCategory = "condiments"
	CategoryBaking     IngredientCategory = "baking"
)

var ingredientCategories = map[IngredientCategory]struct{}{
	CategoryDairy:      {},
	CategoryProduce:    {},
	CategoryMeat:       {},
	CategoryPantry:     {},
	CategorySpices:     {},
	CategorySeafood:    {},
	CategoryCondiments: {},
	CategoryBaking:     {},
}

func ValidIngredientCategory(c IngredientCategory) bool {
	_, ok := ingredientCategories[c]
	return ok
}

// CommonIngredient is the canonical identity free-text ingredient names resolve
// to. A row with any recipe usage cannot be deleted.
type CommonIngredient struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string              `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Category  *IngredientCategory `gorm:"column:category" json:"category,omitempty"`
	CreatedAt time.Time           `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time           `gorm:"not null;default:now()" json:"updated_at"`
}

func (CommonIngredient) TableName() string {
	return "common_ingredient"
}

// IngredientAlias maps one normalized free-text name to a canonical ingredient.
// Deleting an alias never deletes the ingredient.
type IngredientAlias struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CommonIngredientID uuid.UUID `gorm:"type:uuid;not null;index;column:common_ingredient_id" json:"common_ingredient_id"`
	Name               string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	CreatedAt          time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (IngredientAlias) TableName() string {
	return "ingredient_alias"
}
