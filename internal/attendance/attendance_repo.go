package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Session) error
	FindOpenByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*Session, error)
	HasAnyOnDate(ctx context.Context, studentID string, date time.Time) (bool, error)
	ListOpenByDate(ctx context.Context, date time.Time) ([]Session, error)
	ListByStudent(ctx context.Context, studentID string, limit int) ([]Session, error)
	Update(ctx context.Context, s *Session) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindOpenByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("session_date = ?", date.Format("2006-01-02")).
		Where("status = ?", StatusOpen).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// HasAnyOnDate reports whether the student has a session today, open or
// closed. The absence sweep counts both as present.
func (r *repository) HasAnyOnDate(ctx context.Context, studentID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Session{}).
		Where("student_id = ?", studentID).
		Where("session_date = ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListOpenByDate(ctx context.Context, date time.Time) ([]Session, error) {
	var rows []Session
	err := r.db.WithContext(ctx).
		Where("session_date = ?", date.Format("2006-01-02")).
		Where("status = ?", StatusOpen).
		Order("check_in_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListByStudent(ctx context.Context, studentID string, limit int) ([]Session, error) {
	q := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("session_date DESC, check_in_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []Session
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}
