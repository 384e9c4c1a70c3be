package followup

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=followup_repo.go -destination=mock/followup_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, f *FollowUp) error
	FindByID(ctx context.Context, id string) (*FollowUp, error)
	HasOpenByStudentAndReason(ctx context.Context, studentID, reason string) (bool, error)
	List(ctx context.Context, status string) ([]FollowUp, error)
	Update(ctx context.Context, f *FollowUp) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *FollowUp) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*FollowUp, error) {
	var f FollowUp
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// HasOpenByStudentAndReason keeps the consumer idempotent across redelivered
// events: one open follow-up per student and reason.
func (r *repository) HasOpenByStudentAndReason(ctx context.Context, studentID, reason string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&FollowUp{}).
		Where("student_id = ?", studentID).
		Where("reason = ?", reason).
		Where("status = ?", StatusOpen).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) List(ctx context.Context, status string) ([]FollowUp, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []FollowUp
	err := q.
		Order("CASE priority WHEN 'high' THEN 0 ELSE 1 END ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, f *FollowUp) error {
	return r.db.WithContext(ctx).Save(f).Error
}
