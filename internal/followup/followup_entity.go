package followup

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

// ReasonFrozen is set on follow-ups created by the frozen-student consumer.
const ReasonFrozen = "FROZEN_ABSENCE_LIMIT"

type FollowUp struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID       uuid.UUID  `gorm:"column:student_id;type:uuid;not null;index"`
	StudentName     string     `gorm:"column:student_name;type:varchar(150);not null"`
	AgeGroup        string     `gorm:"column:age_group;type:varchar(10)"`
	GuardianContact string     `gorm:"column:guardian_contact;type:varchar(120)"`
	Reason          string     `gorm:"column:reason;type:varchar(60);not null"`
	Priority        string     `gorm:"column:priority;type:varchar(10);not null;default:normal"`
	Status          string     `gorm:"column:status;type:varchar(10);not null;default:open;index"`
	Notes           string     `gorm:"column:notes;type:text"`
	AssignedTo      string     `gorm:"column:assigned_to;type:varchar(120)"`
	ResolvedBy      string     `gorm:"column:resolved_by;type:varchar(120)"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at;type:timestamptz"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (FollowUp) TableName() string {
	return "follow_ups"
}
