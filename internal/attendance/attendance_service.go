package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	attendanceerrors "sistema-asistencia/internal/attendance/errors"
	"sistema-asistencia/internal/bootstrap"
	"sistema-asistencia/internal/config"
	"sistema-asistencia/internal/events"
	"sistema-asistencia/internal/messaging/kafka"
	"sistema-asistencia/internal/metrics"
	"sistema-asistencia/internal/shared/apperror"
	"sistema-asistencia/internal/shared/clock"
	"sistema-asistencia/internal/shared/contextutil"
	"sistema-asistencia/internal/shared/response"
	"sistema-asistencia/internal/student"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	PassCap   = "cap"
	PassStale = "stale"

	systemActor = "system"
)

// errSessionGone marks a close that lost the race to another writer.
var errSessionGone = errors.New("attendance session already closed")

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, studentID string, req CheckInRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, studentID string, req CheckOutRequest) (CheckOutResponse, error)
	ForceCheckOut(ctx context.Context, recordID, actorID string, req ForceCheckOutRequest) (CheckOutResponse, error)
	AutoCloseStaleRecords(ctx context.Context, thresholdHours, creditHours float64) (int, error)
	CapLongRunningSessions(ctx context.Context, thresholdHours, creditHours float64) (int, error)
	RunMaintenance(ctx context.Context) (MaintenanceResponse, error)
	GetActive(ctx context.Context, studentID string) (ActiveSessionResponse, error)
	List(ctx context.Context, filter ListFilter) ([]AttendanceResponse, response.PaginationMeta, error)
}

// ProgressInvalidator drops cached student progress after hours change.
type ProgressInvalidator interface {
	InvalidateProgress(ctx context.Context, studentID string)
}

type service struct {
	db       *sql.DB
	repo     Repository
	students student.Repository
	outbox   kafka.OutboxRepository
	progress ProgressInvalidator
	audit    bootstrap.AuditLogger
	clock    clock.Clock
	policy   config.Policy
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	students student.Repository,
	clk clock.Clock,
	policy config.Policy,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, students, nil, nil, nil, clk, policy, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	students student.Repository,
	outboxRepo kafka.OutboxRepository,
	progress ProgressInvalidator,
	audit bootstrap.AuditLogger,
	clk clock.Clock,
	policy config.Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	if audit == nil {
		audit = bootstrap.NopAuditLogger()
	}
	return &service{
		db:       db,
		repo:     repo,
		students: students,
		outbox:   outboxRepo,
		progress: progress,
		audit:    audit,
		clock:    clk,
		policy:   policy,
		logger:   l,
	}
}

func (s *service) CheckIn(ctx context.Context, studentID string, req CheckInRequest) (CheckInResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("check in requested",
		zap.String("request_id", rid),
		zap.String("student_id", studentID),
		zap.String("shift", req.Shift),
		zap.String("room", req.Room),
	)

	if _, err := uuid.Parse(studentID); err != nil {
		return CheckInResponse{}, attendanceerrors.ErrInvalidStudentID
	}
	shift := Shift(strings.ToLower(strings.TrimSpace(req.Shift)))
	if !shift.Valid() {
		return CheckInResponse{}, attendanceerrors.ErrInvalidShift
	}

	now := s.clock.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check in begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CheckInResponse{}, apperror.Store(err, "attendance store unavailable")
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	st, err := s.students.WithTx(tx).FindByID(ctx, studentID)
	if err != nil {
		return CheckInResponse{}, s.rejectCheckIn(rid, studentID, mapRepositoryError(err, attendanceerrors.ErrStudentNotFound))
	}

	room := strings.TrimSpace(req.Room)
	if room == "" {
		room = st.AssignedRoom
	}
	if room == "" {
		return CheckInResponse{}, s.rejectCheckIn(rid, studentID, attendanceerrors.ErrRoomRequired)
	}

	var autoClosed *AttendanceRecord
	var staleClose Closure

	open, err := qtx.FindOpenByStudent(ctx, studentID)
	switch {
	case err == nil:
		if !IsStale(open.CheckIn, now, s.policy.StaleThresholdHours) {
			return CheckInResponse{}, s.rejectCheckIn(rid, studentID, attendanceerrors.ErrActiveSessionExists)
		}

		staleClose = creditClosure(*open, now, s.policy.StaleCreditHours, s.policy,
			staleOnCheckInReason(s.policy.StaleThresholdHours), CloseSourceStaleClose)
		staleClose.ClosedBy = systemActor

		closed, _, err := s.closeSession(ctx, tx, *open, staleClose, errSessionGone)
		if err != nil && !errors.Is(err, errSessionGone) {
			s.logger.Error("check in stale auto-close failed",
				zap.String("request_id", rid),
				zap.String("record_id", open.ID.String()),
				zap.Error(err),
			)
			return CheckInResponse{}, err
		}
		autoClosed = closed
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("check in find open session failed", zap.String("request_id", rid), zap.Error(err))
		return CheckInResponse{}, mapRepositoryError(err, attendanceerrors.ErrNoActiveSession)
	}

	rec := &AttendanceRecord{
		ID:        uuid.New(),
		StudentID: st.ID,
		CheckIn:   now,
		Shift:     shift,
		Room:      room,
		CreatedAt: now,
	}
	if err := qtx.Create(ctx, rec); err != nil {
		mapped := mapRepositoryError(err, attendanceerrors.ErrStudentNotFound)
		if apperror.HasCode(mapped, apperror.CodeConflict) {
			return CheckInResponse{}, s.rejectCheckIn(rid, studentID, mapped)
		}
		s.logger.Error("check in persist failed", zap.String("request_id", rid), zap.Error(err))
		return CheckInResponse{}, mapped
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check in commit failed", zap.String("request_id", rid), zap.Error(err))
		return CheckInResponse{}, apperror.Store(err, "attendance store unavailable")
	}

	metrics.CheckIns.Inc()

	resp := CheckInResponse{Record: mapToResponse(*rec)}
	if autoClosed != nil {
		s.afterClose(ctx, autoClosed.StudentID.String(), staleClose)
		closedResp := mapToResponse(*autoClosed)
		resp.AutoClosed = &closedResp
		s.logger.Warn("stale session auto-closed on check in",
			zap.String("request_id", rid),
			zap.String("student_id", studentID),
			zap.String("record_id", autoClosed.ID.String()),
			zap.Float64("credited_hours", staleClose.Hours),
		)
	}

	s.logger.Info("check in success",
		zap.String("request_id", rid),
		zap.String("student_id", studentID),
		zap.String("record_id", rec.ID.String()),
		zap.String("room", room),
	)
	return resp, nil
}

func (s *service) rejectCheckIn(rid, studentID string, err error) error {
	httpErr := apperror.ToHTTP(err)
	metrics.CheckInRejections.WithLabelValues(httpErr.Code).Inc()
	s.logger.Warn("check in rejected",
		zap.String("request_id", rid),
		zap.String("student_id", studentID),
		zap.String("code", httpErr.Code),
		zap.String("reason", httpErr.Message),
	)
	return err
}

func (s *service) CheckOut(ctx context.Context, studentID string, req CheckOutRequest) (CheckOutResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("check out requested", zap.String("request_id", rid), zap.String("student_id", studentID))

	if _, err := uuid.Parse(studentID); err != nil {
		return CheckOutResponse{}, attendanceerrors.ErrInvalidStudentID
	}

	now := s.clock.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check out begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CheckOutResponse{}, apperror.Store(err, "attendance store unavailable")
	}
	defer tx.Rollback()

	open, err := s.repo.WithTx(tx).FindOpenByStudent(ctx, studentID)
	if err != nil {
		mapped := mapRepositoryError(err, attendanceerrors.ErrNoActiveSession)
		if apperror.HasCode(mapped, apperror.CodeNotFound) {
			s.logger.Warn("check out without active session", zap.String("request_id", rid), zap.String("student_id", studentID))
		} else {
			s.logger.Error("check out find open session failed", zap.String("request_id", rid), zap.Error(err))
		}
		return CheckOutResponse{}, mapped
	}

	c := elapsedClosure(*open, now, s.policy, trimmed(req.EarlyDepartureReason), CloseSourceCheckOut)
	c.ClosedBy = studentID

	closed, total, err := s.closeSession(ctx, tx, *open, c, attendanceerrors.ErrNoActiveSession)
	if err != nil {
		s.logger.Warn("check out close failed",
			zap.String("request_id", rid),
			zap.String("record_id", open.ID.String()),
			zap.Error(err),
		)
		return CheckOutResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check out commit failed", zap.String("request_id", rid), zap.Error(err))
		return CheckOutResponse{}, apperror.Store(err, "attendance store unavailable")
	}

	s.afterClose(ctx, studentID, c)

	s.logger.Info("check out success",
		zap.String("request_id", rid),
		zap.String("student_id", studentID),
		zap.String("record_id", closed.ID.String()),
		zap.Float64("hours_worked", c.Hours),
		zap.Bool("capped", c.Capped),
	)

	return CheckOutResponse{
		Record:           mapToResponse(*closed),
		HoursWorked:      c.Hours,
		Capped:           c.Capped,
		AccumulatedHours: total,
	}, nil
}

func (s *service) ForceCheckOut(ctx context.Context, recordID, actorID string, req ForceCheckOutRequest) (CheckOutResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("force check out requested",
		zap.String("request_id", rid),
		zap.String("record_id", recordID),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(recordID); err != nil {
		return CheckOutResponse{}, attendanceerrors.ErrInvalidRecordID
	}

	now := s.clock.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("force check out begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CheckOutResponse{}, apperror.Store(err, "attendance store unavailable")
	}
	defer tx.Rollback()

	rec, err := s.repo.WithTx(tx).FindByID(ctx, recordID)
	if err != nil {
		return CheckOutResponse{}, mapRepositoryError(err, attendanceerrors.ErrRecordNotFound)
	}
	if !rec.IsOpen() {
		s.logger.Warn("force check out on closed record", zap.String("request_id", rid), zap.String("record_id", recordID))
		return CheckOutResponse{}, attendanceerrors.ErrRecordAlreadyClosed
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = ReasonForcedByAdministrator
	}

	c := elapsedClosure(*rec, now, s.policy, reason, CloseSourceForceClose)
	c.ClosedBy = actorID

	closed, total, err := s.closeSession(ctx, tx, *rec, c, attendanceerrors.ErrRecordAlreadyClosed)
	if err != nil {
		s.logger.Warn("force check out close failed",
			zap.String("request_id", rid),
			zap.String("record_id", recordID),
			zap.Error(err),
		)
		return CheckOutResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("force check out commit failed", zap.String("request_id", rid), zap.Error(err))
		return CheckOutResponse{}, apperror.Store(err, "attendance store unavailable")
	}

	s.afterClose(ctx, rec.StudentID.String(), c)

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "ATTENDANCE_FORCE_CLOSE",
		Message: "attendance session force-closed",
		ActorID: actorID,
		Meta: map[string]any{
			"record_id":    recordID,
			"student_id":   rec.StudentID.String(),
			"hours_worked": c.Hours,
			"capped":       c.Capped,
			"reason":       *c.Reason,
		},
	})

	s.logger.Info("force check out success",
		zap.String("request_id", rid),
		zap.String("record_id", recordID),
		zap.String("actor_id", actorID),
		zap.Float64("hours_worked", c.Hours),
	)

	return CheckOutResponse{
		Record:           mapToResponse(*closed),
		HoursWorked:      c.Hours,
		Capped:           c.Capped,
		AccumulatedHours: total,
	}, nil
}

func (s *service) AutoCloseStaleRecords(ctx context.Context, thresholdHours, creditHours float64) (int, error) {
	if thresholdHours < 0 || creditHours < 0 {
		return 0, attendanceerrors.ErrInvalidSweepHours
	}
	if thresholdHours == 0 {
		thresholdHours = s.policy.StaleThresholdHours
	}
	if creditHours == 0 {
		creditHours = s.policy.StaleCreditHours
	}
	return s.sweep(ctx, PassStale, thresholdHours, creditHours, staleSweepReason, CloseSourceStaleClose)
}

func (s *service) CapLongRunningSessions(ctx context.Context, thresholdHours, creditHours float64) (int, error) {
	if thresholdHours < 0 || creditHours < 0 {
		return 0, attendanceerrors.ErrInvalidSweepHours
	}
	if thresholdHours == 0 {
		thresholdHours = s.policy.CapThresholdHours
	}
	if creditHours == 0 {
		creditHours = s.policy.CapCreditHours
	}
	return s.sweep(ctx, PassCap, thresholdHours, creditHours, capSweepReason(thresholdHours), CloseSourceCapClose)
}

// RunMaintenance runs the cap pass before the stale pass. A session past the cap threshold is
// credited the cap credit, so the stale pass only sees what the cap pass could not close.
func (s *service) RunMaintenance(ctx context.Context) (MaintenanceResponse, error) {
	ranAt := s.clock.Now()

	capped, err := s.CapLongRunningSessions(ctx, 0, 0)
	if err != nil {
		return MaintenanceResponse{Capped: capped}, err
	}

	stale, err := s.AutoCloseStaleRecords(ctx, 0, 0)
	if err != nil {
		return MaintenanceResponse{Capped: capped, StaleClosed: stale}, err
	}

	resp := MaintenanceResponse{
		Capped:      capped,
		StaleClosed: stale,
		RanAt:       ranAt.UTC().Format(time.RFC3339),
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "ATTENDANCE_MAINTENANCE",
		Message: "cap and stale-close passes completed",
		Meta: map[string]any{
			"capped":       capped,
			"stale_closed": stale,
		},
	})

	return resp, nil
}

func (s *service) sweep(ctx context.Context, pass string, thresholdHours, creditHours float64, reason, source string) (int, error) {
	started := time.Now()
	defer func() {
		metrics.MaintenanceDuration.WithLabelValues(pass).Observe(time.Since(started).Seconds())
	}()

	now := s.clock.Now()
	cutoff := now.Add(-config.Hours(thresholdHours))

	candidates, err := s.repo.FindOpenOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("sweep list open sessions failed", zap.String("pass", pass), zap.Error(err))
		return 0, mapRepositoryError(err, attendanceerrors.ErrRecordNotFound)
	}

	closed := 0
	for _, rec := range candidates {
		c := creditClosure(rec, now, creditHours, s.policy, reason, source)
		c.ClosedBy = systemActor

		ok, err := s.closeInOwnTx(ctx, rec, c)
		if err != nil {
			s.logger.Error("sweep close failed",
				zap.String("pass", pass),
				zap.String("record_id", rec.ID.String()),
				zap.Int("closed_so_far", closed),
				zap.Error(err),
			)
			return closed, err
		}
		if ok {
			closed++
		}
	}

	s.logger.Info("sweep completed",
		zap.String("pass", pass),
		zap.Float64("threshold_hours", thresholdHours),
		zap.Float64("credit_hours", creditHours),
		zap.Int("candidates", len(candidates)),
		zap.Int("closed", closed),
	)
	return closed, nil
}

// closeInOwnTx reports false when another writer closed the session first.
func (s *service) closeInOwnTx(ctx context.Context, rec AttendanceRecord, c Closure) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, apperror.Store(err, "attendance store unavailable")
	}
	defer tx.Rollback()

	if _, _, err := s.closeSession(ctx, tx, rec, c, errSessionGone); err != nil {
		if errors.Is(err, errSessionGone) {
			return false, nil
		}
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, apperror.Store(err, "attendance store unavailable")
	}

	s.afterClose(ctx, rec.StudentID.String(), c)
	return true, nil
}

// closeSession performs the conditional close, credits the student and queues the hours-changed event,
// all inside tx. notOpen is returned when the session was no longer open.
func (s *service) closeSession(ctx context.Context, tx *sql.Tx, rec AttendanceRecord, c Closure, notOpen error) (*AttendanceRecord, float64, error) {
	closed, err := s.repo.WithTx(tx).CloseIfOpen(ctx, rec.ID.String(), c)
	if err != nil {
		return nil, 0, mapRepositoryError(err, notOpen)
	}

	studentID := rec.StudentID.String()
	total, err := s.students.WithTx(tx).AddAccumulatedHours(ctx, studentID, c.Hours)
	if err != nil {
		return nil, 0, mapRepositoryError(err, attendanceerrors.ErrStudentNotFound)
	}

	if s.outbox != nil {
		event, err := kafka.NewHoursChangedOutboxEvent(events.HoursChangedEvent{
			RequestID:        contextutil.GetRequestID(ctx),
			StudentID:        studentID,
			Source:           c.Source,
			SourceID:         rec.ID.String(),
			DeltaHours:       c.Hours,
			AccumulatedHours: total,
			OccurredAt:       c.CheckOut,
		})
		if err != nil {
			return nil, 0, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("queue hours changed event failed", zap.String("record_id", rec.ID.String()), zap.Error(err))
			return nil, 0, apperror.Store(err, "outbox unavailable")
		}
	}

	return closed, total, nil
}

func (s *service) afterClose(ctx context.Context, studentID string, c Closure) {
	metrics.SessionsClosed.WithLabelValues(c.Source).Inc()
	metrics.HoursCredited.WithLabelValues(c.Source).Add(c.Hours)
	if s.progress != nil {
		s.progress.InvalidateProgress(ctx, studentID)
	}
}

func (s *service) GetActive(ctx context.Context, studentID string) (ActiveSessionResponse, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return ActiveSessionResponse{}, attendanceerrors.ErrInvalidStudentID
	}

	open, err := s.repo.FindOpenByStudent(ctx, studentID)
	if err != nil {
		return ActiveSessionResponse{}, mapRepositoryError(err, attendanceerrors.ErrNoActiveSession)
	}

	now := s.clock.Now()
	elapsed := ElapsedHours(open.CheckIn, now)
	return ActiveSessionResponse{
		Record:                       mapToResponse(*open),
		ElapsedHours:                 elapsed,
		MinSessionHours:              s.policy.MinSessionHours,
		RequiresEarlyDepartureReason: RequiresEarlyDepartureReason(open.CheckIn, now, s.policy.MinSessionHours),
		WillBeCapped:                 elapsed > s.policy.DailyCapHours,
	}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]AttendanceResponse, response.PaginationMeta, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, response.PaginationMeta{}, attendanceerrors.ErrInvalidTimeRange
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, response.PaginationMeta{}, mapRepositoryError(err, attendanceerrors.ErrRecordNotFound)
	}

	return mapToListResponse(rows), response.NewPaginationMeta(total, filter.Page, filter.PageSize), nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
