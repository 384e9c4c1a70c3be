package points

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=points_repo.go -destination=mock/points_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *LedgerEntry) error
	FindByID(ctx context.Context, id string) (*LedgerEntry, error)
	ListByStudent(ctx context.Context, studentID string, includeVoided bool) ([]LedgerEntry, error)
	SumActiveByStudent(ctx context.Context, studentID string) (int, error)
	HasActiveOnDate(ctx context.Context, studentID, category string, date time.Time) (bool, error)
	SetVoided(ctx context.Context, id string, voided bool, reason *string) error
	VoidAllActive(ctx context.Context, reason string) (int64, error)
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

func (r *repository) Create(ctx context.Context, e *LedgerEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LedgerEntry, error) {
	var e LedgerEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentID string, includeVoided bool) ([]LedgerEntry, error) {
	q := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if !includeVoided {
		q = q.Where("voided = ?", false)
	}

	var rows []LedgerEntry
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) SumActiveByStudent(ctx context.Context, studentID string) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Select("COALESCE(SUM(points), 0)").
		Where("student_id = ?", studentID).
		Where("voided = ?", false).
		Scan(&total).Error
	return total, err
}

func (r *repository) HasActiveOnDate(ctx context.Context, studentID, category string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Where("student_id = ?", studentID).
		Where("category = ?", category).
		Where("entry_date = ?", date.Format("2006-01-02")).
		Where("voided = ?", false).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) SetVoided(ctx context.Context, id string, voided bool, reason *string) error {
	return r.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"voided":      voided,
			"void_reason": reason,
		}).Error
}

func (r *repository) VoidAllActive(ctx context.Context, reason string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Where("voided = ?", false).
		Updates(map[string]any{
			"voided":      true,
			"void_reason": reason,
		})
	return res.RowsAffected, res.Error
}
