package attendanceerrors

import (
	"net/http"

	"sistema-asistencia/internal/shared/apperror"
)

var (
	ErrActiveSessionExists = apperror.New(
		apperror.CodeConflict,
		"active session already exists",
		http.StatusConflict,
	)
	ErrNoActiveSession = apperror.New(
		apperror.CodeNotFound,
		"no active session for this student",
		http.StatusNotFound,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrRecordAlreadyClosed = apperror.New(
		apperror.CodeNotFound,
		"attendance record is already closed",
		http.StatusNotFound,
	)
	ErrStudentNotFound = apperror.New(
		apperror.CodeNotFound,
		"student not found",
		http.StatusNotFound,
	)
	ErrInvalidShift = apperror.New(
		apperror.CodeInvalidInput,
		"shift must be one of morning, evening, full",
		http.StatusBadRequest,
	)
	ErrRoomRequired = apperror.New(
		apperror.CodeInvalidInput,
		"room is required when the student has no assigned room",
		http.StatusBadRequest,
	)
	ErrInvalidStudentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid student ID",
		http.StatusBadRequest,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance record ID",
		http.StatusBadRequest,
	)
	ErrInvalidSweepHours = apperror.New(
		apperror.CodeInvalidInput,
		"threshold and credit hours must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must be before to",
		http.StatusBadRequest,
	)
	ErrEarlyDepartureReasonRequired = apperror.New(
		"EARLY_DEPARTURE_REASON_REQUIRED",
		"an early departure reason is required for sessions shorter than the minimum",
		http.StatusBadRequest,
	)
)
