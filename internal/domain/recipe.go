package domain

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	RetiredAt   *time.Time `gorm:"column:retired_at" json:"retired_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipe"
}

func (r *Recipe) Retired() bool {
	return r != nil && r.RetiredAt != nil
}

// RecipeIngredient keeps the free-text name the user typed. Canonical identity
// is resolved through ingredient aliases at read time, never written back here.
// Invariant: Unit set requires Quantity set.
type RecipeIngredient struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecipeID   uuid.UUID  `gorm:"type:uuid;not null;index;column:recipe_id" json:"recipe_id"`
	Name       string     `gorm:"not null;column:name" json:"name"`
	Quantity   *float64   `gorm:"type:numeric;column:quantity" json:"quantity,omitempty"`
	Unit       *string    `gorm:"column:unit" json:"unit,omitempty"`
	SortIndex  int        `gorm:"not null;default:0;column:sort_index" json:"sort_index"`
	PrepStepID *uuid.UUID `gorm:"type:uuid;column:prep_step_id" json:"prep_step_id,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredient"
}

type PrepStep struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index;column:recipe_id" json:"recipe_id"`
	Description string    `gorm:"not null;column:description" json:"description"`
	SortIndex   int       `gorm:"not null;default:0;column:sort_index" json:"sort_index"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PrepStep) TableName() string {
	return "prep_step"
}

// PrepStepClaim is the server-side idempotency record for on-the-fly prep step
// creation: one row per (recipe, normalized description), held briefly so rapid
// repeated triggers from any client resolve to the same step.
type PrepStepClaim struct {
	ID                    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecipeID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_prep_claim,priority:1;column:recipe_id" json:"recipe_id"`
	NormalizedDescription string    `gorm:"not null;uniqueIndex:ux_prep_claim,priority:2;column:normalized_description" json:"normalized_description"`
	PrepStepID            uuid.UUID `gorm:"type:uuid;not null;column:prep_step_id" json:"prep_step_id"`
	CreatedAt             time.Time `gorm:"not null;default:now()" json:"created_at"`
	ExpiresAt             time.Time `gorm:"not null;index;column:expires_at" json:"expires_at"`
}

func (PrepStepClaim) TableName() string {
	return "prep_step_claim"
}
