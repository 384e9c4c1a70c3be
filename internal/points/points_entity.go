package points

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recognized category names. Category is otherwise free text.
const (
	CategoryAttendance       = "Attendance"
	CategoryManualAdjustment = "Manual Adjustment"
)

// Category kinds. The duplicate-per-day guard only applies to standard
// entries: manual adjustments and reversing corrections always pass so
// undo/redo keeps working with the guard enabled.
const (
	KindStandard   = "standard"
	KindManual     = "manual"
	KindCorrection = "correction"
)

// Category tags a free-text category name with the kind the guard dispatches
// on.
type Category struct {
	Kind string
	Name string
}

// ParseCategory derives the kind from the legacy rules: negative points are
// corrections, a name containing "Manual" is a manual adjustment, everything
// else is standard.
func ParseCategory(name string, pts int) Category {
	switch {
	case pts < 0:
		return Category{Kind: KindCorrection, Name: name}
	case strings.Contains(name, "Manual"):
		return Category{Kind: KindManual, Name: name}
	default:
		return Category{Kind: KindStandard, Name: name}
	}
}

// LedgerEntry is append-only: once created, only the voided flag and reason
// ever change. A student's balance is the sum of points over non-voided rows.
type LedgerEntry struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID  uuid.UUID `gorm:"column:student_id;type:uuid;not null;index"`
	EntryDate  time.Time `gorm:"column:entry_date;type:date;not null;index"`
	Category   string    `gorm:"column:category;type:varchar(80);not null;index"`
	Kind       string    `gorm:"column:kind;type:varchar(12);not null;default:standard"`
	Points     int       `gorm:"column:points;not null"`
	RecordedBy string    `gorm:"column:recorded_by;type:varchar(120);not null"`
	Notes      *string   `gorm:"column:notes;type:text"`
	Voided     bool      `gorm:"column:voided;not null;default:false;index"`
	VoidReason *string   `gorm:"column:void_reason;type:varchar(200)"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (LedgerEntry) TableName() string {
	return "point_ledger_entries"
}
