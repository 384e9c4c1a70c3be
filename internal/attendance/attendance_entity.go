package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Session lifecycle per (student, day): NONE -> OPEN -> CLOSED.
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Checkout modes.
const (
	CheckoutManual = "MANUAL"
	CheckoutAuto   = "AUTO"
)

// AutoCheckoutActor is recorded on sessions closed by the auto-checkout run.
const AutoCheckoutActor = "SYSTEM_AUTO"

type Session struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID    uuid.UUID  `gorm:"column:student_id;type:uuid;not null;index"`
	SessionDate  time.Time  `gorm:"column:session_date;type:date;not null;index"`
	CheckInTime  time.Time  `gorm:"column:check_in_time;type:timestamptz;not null"`
	CheckOutTime *time.Time `gorm:"column:check_out_time;type:timestamptz"`
	CheckoutMode string     `gorm:"column:checkout_mode;type:varchar(10)"`
	Status       string     `gorm:"column:status;type:varchar(10);not null;default:OPEN;index"`
	CheckedInBy  string     `gorm:"column:checked_in_by;type:varchar(120);not null"`
	CheckedOutBy string     `gorm:"column:checked_out_by;type:varchar(120)"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (Session) TableName() string {
	return "attendance_sessions"
}
