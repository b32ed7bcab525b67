package student

import (
	"errors"

	"sistema-asistencia/internal/shared/apperror"
	studenterrors "sistema-asistencia/internal/student/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return studenterrors.ErrStudentNotFound
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return apperror.Store(err, "Student store unavailable")
}
