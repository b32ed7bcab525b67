package adjustment

import (
	"errors"

	adjustmenterrors "sistema-asistencia/internal/adjustment/errors"
	"sistema-asistencia/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return adjustmenterrors.ErrStudentNotFound
	}

	return apperror.Store(err, "adjustment store unavailable")
}
