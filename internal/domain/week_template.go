package domain

import (
	"time"

	"github.com/google/uuid"
)

type MealAction string

const (
	ActionCook      MealAction = "cook"
	ActionShop      MealAction = "shop"
	ActionTakeout   MealAction = "takeout"
	ActionRest      MealAction = "rest"
	ActionLeftovers MealAction = "leftovers"
)

var mealActions = map[MealAction]struct{}{
	ActionCook:      {},
	ActionShop:      {},
	ActionTakeout:   {},
	ActionRest:      {},
	ActionLeftovers: {},
}

func ValidMealAction(a MealAction) bool {
	_, ok := mealActions[a]
	return ok
}

// WeekTemplate is the reusable 7-day assignment pattern, the unit of rotation.
// RetiredAt is a soft delete: sequences already referencing the template keep
// working, it only disappears from pickers.
type WeekTemplate struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string     `gorm:"not null;column:name" json:"name"`
	RetiredAt *time.Time `gorm:"column:retired_at" json:"retired_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (WeekTemplate) TableName() string {
	return "week_template"
}

func (t *WeekTemplate) Retired() bool {
	return t != nil && t.RetiredAt != nil
}

// DayAssignment: who does what on one day of the template week.
// Invariant: Action == cook requires RecipeID.
type DayAssignment struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WeekTemplateID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_template_day,priority:1;column:week_template_id" json:"week_template_id"`
	DayOfWeek      int        `gorm:"not null;uniqueIndex:ux_template_day,priority:2;column:day_of_week" json:"day_of_week"`
	AssignedUserID uuid.UUID  `gorm:"type:uuid;not null;column:assigned_user_id" json:"assigned_user_id"`
	Action         MealAction `gorm:"not null;column:action" json:"action"`
	RecipeID       *uuid.UUID `gorm:"type:uuid;column:recipe_id" json:"recipe_id,omitempty"`
	SortIndex      int        `gorm:"not null;default:0;column:sort_index" json:"sort_index"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (DayAssignment) TableName() string {
	return "day_assignment"
}
