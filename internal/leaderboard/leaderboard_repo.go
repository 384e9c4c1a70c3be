package leaderboard

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Row is one student's aggregate before ranking. Students with no active
// entries still appear with a zero total and a nil LastPointDate.
type Row struct {
	StudentID     string
	FullName      string
	AgeGroup      string
	TotalPoints   int
	LastPointDate *time.Time
}

//go:generate mockgen -source=leaderboard_repo.go -destination=mock/leaderboard_repo_mock.go -package=mock
type Repository interface {
	AggregateTotals(ctx context.Context, f Filter) ([]Row, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AggregateTotals(ctx context.Context, f Filter) ([]Row, error) {
	query := `
SELECT
	s.id::text            AS student_id,
	s.full_name           AS full_name,
	s.age_group           AS age_group,
	COALESCE(SUM(p.points), 0)::int AS total_points,
	MAX(p.entry_date)     AS last_point_date
FROM students s
LEFT JOIN point_ledger_entries p
	ON p.student_id = s.id
	AND p.voided = false
`
	args := []any{}

	if f.Month > 0 && f.Year > 0 {
		from := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.Local)
		to := from.AddDate(0, 1, 0)
		query += "\tAND p.entry_date >= ? AND p.entry_date < ?\n"
		args = append(args, from.Format("2006-01-02"), to.Format("2006-01-02"))
	} else if f.Year > 0 {
		from := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.Local)
		to := from.AddDate(1, 0, 0)
		query += "\tAND p.entry_date >= ? AND p.entry_date < ?\n"
		args = append(args, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	query += `WHERE s.deleted_at IS NULL
	AND s.status IN ('active', 'student', 'frozen')
`
	if f.AgeGroup != "" {
		query += "\tAND s.age_group = ?\n"
		args = append(args, f.AgeGroup)
	}

	query += "GROUP BY s.id, s.full_name, s.age_group"

	var rows []Row
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, err
}
