package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Staff roles. Admins manage settings, voids and season resets; teachers run
// check-in and award points.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"column:name;type:varchar(150);not null"`
	Email     string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_user_email"`
	Password  string         `gorm:"column:password;type:varchar(255);not null"`
	Role      string         `gorm:"column:role;type:varchar(20);not null;default:teacher"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}

// ValidRole reports whether r is a known staff role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleTeacher
}
