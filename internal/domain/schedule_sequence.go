package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleSequence rotates through an ordered, mutable list of week templates.
//
// CurrentWeekIndex is a logical counter, not an array index: the effective
// mapping is CurrentWeekIndex mod count(active mappings) computed at advance
// time, so adding or removing templates never requires renumbering history.
type ScheduleSequence struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name                 string    `gorm:"not null;column:name" json:"name"`
	AdvancementDayOfWeek int       `gorm:"not null;default:0;column:advancement_day_of_week" json:"advancement_day_of_week"`
	AdvancementTime      string    `gorm:"not null;default:'00:00';column:advancement_time" json:"advancement_time"`
	CurrentWeekIndex     int       `gorm:"not null;default:0;column:current_week_index" json:"current_week_index"`
	CreatedAt            time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ScheduleSequence) TableName() string {
	return "schedule_sequence"
}

// WeekTemplateMapping places a template at a position in a sequence. Removed
// mappings keep their row (history for prior instances) and are skipped during
// rotation.
type WeekTemplateMapping struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScheduleSequenceID uuid.UUID  `gorm:"type:uuid;not null;index;column:schedule_sequence_id" json:"schedule_sequence_id"`
	WeekTemplateID     uuid.UUID  `gorm:"type:uuid;not null;index;column:week_template_id" json:"week_template_id"`
	Position           int        `gorm:"not null;column:position" json:"position"`
	RemovedAt          *time.Time `gorm:"column:removed_at" json:"removed_at,omitempty"`
	CreatedAt          time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (WeekTemplateMapping) TableName() string {
	return "week_template_mapping"
}

func (m *WeekTemplateMapping) Removed() bool {
	return m != nil && m.RemovedAt != nil
}
