package attendance

import (
	"errors"
	"strings"

	attendanceerrors "sistema-asistencia/internal/attendance/errors"
	"sistema-asistencia/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const openSessionConstraint = "uq_attendance_open_session"

// mapRepositoryError turns driver errors into typed errors. notFound is returned for gorm.ErrRecordNotFound.
func mapRepositoryError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	if isOpenSessionViolation(err) {
		return attendanceerrors.ErrActiveSessionExists
	}

	return apperror.Store(err, "attendance store unavailable")
}

func isOpenSessionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == openSessionConstraint
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, openSessionConstraint)
}
