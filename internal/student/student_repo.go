package student

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// ListFilter narrows registry listings.
type ListFilter struct {
	AgeGroup string
	Status   string
}

//go:generate mockgen -source=student_repo.go -destination=mock/student_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Student) error
	FindByID(ctx context.Context, id string) (*Student, error)
	FindByAccessKey(ctx context.Context, accessKey string) (*Student, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Student, error)
	FindEnrolled(ctx context.Context) ([]Student, error)
	FindActive(ctx context.Context) ([]Student, error)
	Update(ctx context.Context, s *Student) error
	UpdateAbsences(ctx context.Context, id string, absences int, status string) error
	ResetAbsences(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, s *Student) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Student, error) {
	var s Student
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindByAccessKey(ctx context.Context, accessKey string) (*Student, error) {
	var s Student
	err := r.db.WithContext(ctx).Where("access_key = ?", accessKey).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Student, error) {
	q := r.db.WithContext(ctx)
	if filter.AgeGroup != "" {
		q = q.Where("age_group = ?", filter.AgeGroup)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []Student
	err := q.Order("full_name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindEnrolled(ctx context.Context) ([]Student, error) {
	var rows []Student
	err := r.db.WithContext(ctx).
		Where("face_enrolled = ?", true).
		Find(&rows).Error
	return rows, err
}

// FindActive returns the sweep population: everyone whose status still counts
// as attending (active, student and already-frozen children stay in the sweep;
// alumni and guests do not).
func (r *repository) FindActive(ctx context.Context) ([]Student, error) {
	var rows []Student
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{StatusActive, StatusStudent, StatusFrozen}).
		Order("full_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, s *Student) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) UpdateAbsences(ctx context.Context, id string, absences int, status string) error {
	return r.db.WithContext(ctx).
		Model(&Student{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"consecutive_absences": absences,
			"status":               status,
		}).Error
}

func (r *repository) ResetAbsences(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&Student{}).
		Where("id = ?", id).
		Update("consecutive_absences", 0).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Student{}).Error
}
