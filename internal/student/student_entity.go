package student

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Age groups. Adult and Guest cover non-standard registrants (visiting
// parents, helpers) who still get an access key.
const (
	AgeGroup3to6   = "3-6"
	AgeGroup7to9   = "7-9"
	AgeGroup10to12 = "10-12"
	AgeGroupAdult  = "Adult"
	AgeGroupGuest  = "Guest"
)

// Student statuses. StatusFrozen is derived by the absence sweep only and is
// never accepted from registry edits.
const (
	StatusActive  = "active"
	StatusFrozen  = "frozen"
	StatusAlumni  = "alumni"
	StatusGuest   = "guest"
	StatusStudent = "student"
)

type Student struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	AccessKey           string         `gorm:"column:access_key;type:varchar(20);not null;uniqueIndex:uq_student_access_key"`
	FullName            string         `gorm:"column:full_name;type:varchar(150);not null"`
	AgeGroup            string         `gorm:"column:age_group;type:varchar(10);not null;index"`
	GuardianContact     string         `gorm:"column:guardian_contact;type:varchar(120)"`
	FaceEnrolled        bool           `gorm:"column:face_enrolled;not null;default:false"`
	FaceEmbedding       []float32      `gorm:"column:face_embedding;type:jsonb;serializer:json"`
	ConsecutiveAbsences int            `gorm:"column:consecutive_absences;not null;default:0"`
	Status              string         `gorm:"column:status;type:varchar(20);not null;default:active;index"`
	CreatedAt           time.Time      `gorm:"column:created_at"`
	UpdatedAt           time.Time      `gorm:"column:updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Student) TableName() string {
	return "students"
}

// ValidAgeGroup reports whether g is one of the known age groups.
func ValidAgeGroup(g string) bool {
	switch g {
	case AgeGroup3to6, AgeGroup7to9, AgeGroup10to12, AgeGroupAdult, AgeGroupGuest:
		return true
	default:
		return false
	}
}
