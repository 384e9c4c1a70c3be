package fairness

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Filter narrows both fairness views to a window. Month is 1-12 and only
// applies together with Year.
type Filter struct {
	AgeGroup string
	Month    int
	Year     int
}

// dateRange returns the half-open [from, to) window the filter selects, or
// ok=false for the all-time view.
func (f Filter) dateRange() (from, to string, ok bool) {
	switch {
	case f.Month > 0 && f.Year > 0:
		start := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.Local)
		return start.Format("2006-01-02"), start.AddDate(0, 1, 0).Format("2006-01-02"), true
	case f.Year > 0:
		start := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.Local)
		return start.Format("2006-01-02"), start.AddDate(1, 0, 0).Format("2006-01-02"), true
	default:
		return "", "", false
	}
}

// StudentTotalRow is one student's non-voided point total in the window.
// Students with no entries still appear with a zero total, so a child who
// never earned anything is visible to the weakest-link check.
type StudentTotalRow struct {
	StudentID   string
	FullName    string
	AgeGroup    string
	TotalPoints int
}

// ActivityRow aggregates one teacher's awarding behaviour over non-voided
// positive entries in the window.
type ActivityRow struct {
	Teacher          string
	TotalPoints      int
	DistinctStudents int
	EntryCount       int
}

//go:generate mockgen -source=fairness_repo.go -destination=mock/fairness_repo_mock.go -package=mock
type Repository interface {
	StudentTotals(ctx context.Context, f Filter) ([]StudentTotalRow, error)
	TeacherActivity(ctx context.Context, f Filter) ([]ActivityRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) StudentTotals(ctx context.Context, f Filter) ([]StudentTotalRow, error) {
	query := `
SELECT
	s.id::text  AS student_id,
	s.full_name AS full_name,
	s.age_group AS age_group,
	COALESCE(SUM(p.points), 0)::int AS total_points
FROM students s
LEFT JOIN point_ledger_entries p
	ON p.student_id = s.id
	AND p.voided = false
`
	args := []any{}

	if from, to, ok := f.dateRange(); ok {
		query += "\tAND p.entry_date >= ? AND p.entry_date < ?\n"
		args = append(args, from, to)
	}

	query += `WHERE s.deleted_at IS NULL
	AND s.status IN ('active', 'student', 'frozen')
`
	if f.AgeGroup != "" {
		query += "\tAND s.age_group = ?\n"
		args = append(args, f.AgeGroup)
	}

	query += "GROUP BY s.id, s.full_name, s.age_group"

	var rows []StudentTotalRow
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, err
}

func (r *repository) TeacherActivity(ctx context.Context, f Filter) ([]ActivityRow, error) {
	query := `
SELECT
	p.recorded_by                     AS teacher,
	COALESCE(SUM(p.points), 0)::int   AS total_points,
	COUNT(DISTINCT p.student_id)::int AS distinct_students,
	COUNT(*)::int                     AS entry_count
FROM point_ledger_entries p
JOIN students s ON s.id = p.student_id
WHERE p.voided = false
	AND p.points > 0
`
	args := []any{}

	if from, to, ok := f.dateRange(); ok {
		query += "\tAND p.entry_date >= ? AND p.entry_date < ?\n"
		args = append(args, from, to)
	}
	if f.AgeGroup != "" {
		query += "\tAND s.age_group = ?\n"
		args = append(args, f.AgeGroup)
	}

	query += `GROUP BY p.recorded_by
ORDER BY total_points DESC, teacher ASC`

	var rows []ActivityRow
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, err
}
