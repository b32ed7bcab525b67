package adjustment

import (
	"context"
	"database/sql"

	"sistema-asistencia/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_repo.go -destination=mock/adjustment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, entry *HourAdjustment) error
	ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]HourAdjustment, int64, error)
	SumDeltas(ctx context.Context, studentID string) (float64, error)
	SumClosedHours(ctx context.Context, studentID string) (float64, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(r.db, r.tx).WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, entry *HourAdjustment) error {
	return r.conn(ctx).Create(entry).Error
}

func (r *repository) ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]HourAdjustment, int64, error) {
	q := r.conn(ctx).Model(&HourAdjustment{}).Where("student_id = ?", studentID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []HourAdjustment
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) SumDeltas(ctx context.Context, studentID string) (float64, error) {
	var sum float64
	err := r.conn(ctx).
		Model(&HourAdjustment{}).
		Select("COALESCE(SUM(delta_hours), 0)").
		Where("student_id = ?", studentID).
		Scan(&sum).Error
	return sum, err
}

// SumClosedHours totals hours_worked over the student's closed attendance sessions.
func (r *repository) SumClosedHours(ctx context.Context, studentID string) (float64, error) {
	var sum float64
	err := r.conn(ctx).
		Table("attendance_records").
		Select("COALESCE(SUM(hours_worked), 0)").
		Where("student_id = ?", studentID).
		Where("check_out IS NOT NULL").
		Scan(&sum).Error
	return sum, err
}
