package student

import (
	"context"
	"database/sql"
	"time"

	"sistema-asistencia/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=student_repo.go -destination=mock/student_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id string) (*Student, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Student, error)
	FindAll(ctx context.Context) ([]Student, error)
	AddAccumulatedHours(ctx context.Context, id string, delta float64) (float64, error)
	UpdateAccumulatedHours(ctx context.Context, id string, hours float64) (*Student, error)
	SetCompletedAt(ctx context.Context, id string, at *time.Time) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(r.db, r.tx).WithContext(ctx)
}

func (r *repository) FindByID(ctx context.Context, id string) (*Student, error) {
	var s Student
	if err := r.conn(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Student, error) {
	var s Student
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAll(ctx context.Context) ([]Student, error) {
	var list []Student
	err := r.conn(ctx).Order("full_name ASC").Find(&list).Error
	return list, err
}

// AddAccumulatedHours increments the running total in one statement and returns the new value, floored at zero.
func (r *repository) AddAccumulatedHours(ctx context.Context, id string, delta float64) (float64, error) {
	var updated Student
	res := r.conn(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "accumulated_hours"}}}).
		Where("id = ?", id).
		Updates(map[string]any{
			"accumulated_hours": gorm.Expr("GREATEST(accumulated_hours + ?, 0)", delta),
			"updated_at":        gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return updated.AccumulatedHours, nil
}

func (r *repository) UpdateAccumulatedHours(ctx context.Context, id string, hours float64) (*Student, error) {
	var updated Student
	res := r.conn(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"accumulated_hours": hours,
			"updated_at":        gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &updated, nil
}

func (r *repository) SetCompletedAt(ctx context.Context, id string, at *time.Time) error {
	res := r.conn(ctx).
		Model(&Student{}).
		Where("id = ?", id).
		Update("completed_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
