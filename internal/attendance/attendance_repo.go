package attendance

import (
	"context"
	"database/sql"
	"time"

	"sistema-asistencia/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	StateOpen   = "open"
	StateClosed = "closed"
)

type ListFilter struct {
	StudentID string
	State     string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *AttendanceRecord) error
	FindByID(ctx context.Context, id string) (*AttendanceRecord, error)
	FindOpenByStudent(ctx context.Context, studentID string) (*AttendanceRecord, error)
	FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]AttendanceRecord, error)
	CloseIfOpen(ctx context.Context, id string, c Closure) (*AttendanceRecord, error)
	List(ctx context.Context, filter ListFilter) ([]AttendanceRecord, int64, error)
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

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.conn(ctx).Omit("Student").Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	if err := r.conn(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindOpenByStudent returns gorm.ErrRecordNotFound when the student has no open session.
func (r *repository) FindOpenByStudent(ctx context.Context, studentID string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.conn(ctx).
		Where("student_id = ?", studentID).
		Where("check_out IS NULL").
		Order("check_in DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindOpenOlderThan lists open sessions that checked in strictly before cutoff, oldest first.
func (r *repository) FindOpenOlderThan(ctx context.Context, cutoff time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.conn(ctx).
		Where("check_out IS NULL").
		Where("check_in < ?", cutoff).
		Order("check_in ASC").
		Find(&rows).Error
	return rows, err
}

// CloseIfOpen sets the closing fields only while check_out is still NULL.
// Of two racing closes exactly one matches; the other gets gorm.ErrRecordNotFound.
func (r *repository) CloseIfOpen(ctx context.Context, id string, c Closure) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	updates := map[string]any{
		"check_out":              c.CheckOut,
		"hours_worked":           c.Hours,
		"early_departure_reason": c.Reason,
		"close_source":           c.Source,
	}
	if c.ClosedBy != "" {
		updates["closed_by"] = c.ClosedBy
	}

	res := r.conn(ctx).
		Model(&rec).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Where("check_out IS NULL").
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]AttendanceRecord, int64, error) {
	q := r.conn(ctx).Model(&AttendanceRecord{})

	if filter.StudentID != "" {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	switch filter.State {
	case StateOpen:
		q = q.Where("check_out IS NULL")
	case StateClosed:
		q = q.Where("check_out IS NOT NULL")
	}
	if filter.From != nil {
		q = q.Where("check_in >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("check_in < ?", *filter.To)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	var rows []AttendanceRecord
	err := q.Preload("Student").
		Order("check_in DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	return rows, total, err
}
