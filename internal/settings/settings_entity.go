package settings

import "time"

// Model is the single-row app_settings table. ID is fixed to 1 so updates
// always target the same row.
type Model struct {
	ID                   int       `gorm:"column:id;primaryKey"`
	MatchThreshold       float64   `gorm:"column:match_threshold;not null;default:0.8"`
	AutoCheckoutTime     string    `gorm:"column:auto_checkout_time;type:varchar(5);not null;default:'12:30'"`
	AllowDuplicatePoints bool      `gorm:"column:allow_duplicate_points;not null;default:false"`
	UpdatedBy            string    `gorm:"column:updated_by;type:varchar(120)"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (Model) TableName() string {
	return "app_settings"
}

// Settings is the immutable snapshot handed to the engines.
type Settings struct {
	MatchThreshold       float64
	AutoCheckoutTime     string
	AllowDuplicatePoints bool
}

// Defaults mirror the column defaults above.
func Defaults() Settings {
	return Settings{
		MatchThreshold:       0.8,
		AutoCheckoutTime:     "12:30",
		AllowDuplicatePoints: false,
	}
}
