package adjustmenterrors

import (
	"net/http"

	"sistema-asistencia/internal/shared/apperror"
)

var (
	ErrStudentNotFound = apperror.New(
		apperror.CodeNotFound,
		"student not found",
		http.StatusNotFound,
	)
	ErrInvalidStudentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid student ID",
		http.StatusBadRequest,
	)
	ErrZeroDelta = apperror.New(
		apperror.CodeInvalidInput,
		"delta hours must not be zero",
		http.StatusBadRequest,
	)
	ErrDeltaOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"delta hours exceed the allowed adjustment",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"reason is too short",
		http.StatusBadRequest,
	)
	ErrInsufficientHours = apperror.New(
		apperror.CodeInvalidInput,
		"insufficient accumulated hours",
		http.StatusBadRequest,
	)
)
