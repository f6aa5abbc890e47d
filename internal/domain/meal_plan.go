package domain

import (
	"time"

	"github.com/google/uuid"
)

// MealPlanInstance is one dated realization of a rotation step. ThemeName
// snapshots the template name at materialization time so later template renames
// don't rewrite history.
type MealPlanInstance struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScheduleSequenceID uuid.UUID `gorm:"type:uuid;not null;index;column:schedule_sequence_id" json:"schedule_sequence_id"`
	WeekTemplateID     uuid.UUID `gorm:"type:uuid;not null;column:week_template_id" json:"week_template_id"`
	InstanceStartDate  time.Time `gorm:"type:date;not null;column:instance_start_date" json:"instance_start_date"`
	ThemeName          string    `gorm:"not null;column:theme_name" json:"theme_name"`
	WeekNumber         int       `gorm:"not null;default:1;column:week_number" json:"week_number"`
	CreatedAt          time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (MealPlanInstance) TableName() string {
	return "meal_plan_instance"
}

// MealAssignment is an instance-day override. A row exists only for days that
// differ from the template; deleting it reverts the day to the template default.
type MealAssignment struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MealPlanInstanceID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_instance_date,priority:1;column:meal_plan_instance_id" json:"meal_plan_instance_id"`
	Date               time.Time  `gorm:"type:date;not null;uniqueIndex:ux_instance_date,priority:2;column:date" json:"date"`
	AssignedUserID     uuid.UUID  `gorm:"type:uuid;not null;column:assigned_user_id" json:"assigned_user_id"`
	Action             MealAction `gorm:"not null;column:action" json:"action"`
	RecipeID           *uuid.UUID `gorm:"type:uuid;column:recipe_id" json:"recipe_id,omitempty"`
	SortIndex          int        `gorm:"not null;default:0;column:sort_index" json:"sort_index"`
	CreatedAt          time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (MealAssignment) TableName() string {
	return "meal_assignment"
}
