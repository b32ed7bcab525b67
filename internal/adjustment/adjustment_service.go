package adjustment

import (
	"context"
	"crypto/rand"
	"database/sql"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	adjustmenterrors "sistema-asistencia/internal/adjustment/errors"
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
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Drift below this is float noise from summing fractional hours.
const driftTolerance = 1e-9

//go:generate mockgen -source=adjustment_service.go -destination=mock/adjustment_service_mock.go -package=mock
type Service interface {
	AdjustHours(ctx context.Context, studentID string, delta float64, reason, actorID string) (AdjustmentResponse, error)
	ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]AdjustmentResponse, response.PaginationMeta, error)
	Reconcile(ctx context.Context, studentID, actorID string) (ReconcileResponse, error)
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
	outboxRepo kafka.OutboxRepository,
	progress ProgressInvalidator,
	audit bootstrap.AuditLogger,
	clk clock.Clock,
	policy config.Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("adjustment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("adjustment.service")
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

func (s *service) validate(delta float64, reason string) error {
	if delta == 0 || math.IsNaN(delta) {
		return adjustmenterrors.ErrZeroDelta
	}
	if math.Abs(delta) > s.policy.MaxAdjustmentHours {
		return adjustmenterrors.ErrDeltaOutOfRange
	}
	if utf8.RuneCountInString(reason) < s.policy.MinReasonLength {
		return adjustmenterrors.ErrReasonTooShort
	}
	return nil
}

func (s *service) AdjustHours(ctx context.Context, studentID string, delta float64, reason, actorID string) (AdjustmentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	reason = strings.TrimSpace(reason)
	s.logger.Debug("adjust hours requested",
		zap.String("request_id", rid),
		zap.String("student_id", studentID),
		zap.Float64("delta_hours", delta),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(studentID); err != nil {
		return AdjustmentResponse{}, adjustmenterrors.ErrInvalidStudentID
	}
	if err := s.validate(delta, reason); err != nil {
		s.logger.Warn("adjust hours rejected", zap.String("request_id", rid), zap.Error(err))
		return AdjustmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("adjust hours begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AdjustmentResponse{}, apperror.Store(err, "adjustment store unavailable")
	}
	defer tx.Rollback()

	studentsTx := s.students.WithTx(tx)

	st, err := studentsTx.FindByIDForUpdate(ctx, studentID)
	if err != nil {
		return AdjustmentResponse{}, mapRepositoryError(err)
	}

	previous := st.AccumulatedHours
	if delta < 0 && previous+delta < 0 {
		s.logger.Warn("adjust hours rejected",
			zap.String("request_id", rid),
			zap.String("student_id", studentID),
			zap.Float64("accumulated_hours", previous),
			zap.Float64("delta_hours", delta),
		)
		return AdjustmentResponse{}, adjustmenterrors.ErrInsufficientHours
	}
	next := math.Max(previous+delta, 0)

	now := s.clock.Now()
	entry := &HourAdjustment{
		ID:            uuid.New(),
		Reference:     newReference(now),
		StudentID:     st.ID,
		DeltaHours:    delta,
		Reason:        reason,
		PreviousHours: previous,
		NewHours:      next,
		CreatedBy:     actorID,
		CreatedAt:     now,
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		s.logger.Error("adjust hours ledger insert failed", zap.String("request_id", rid), zap.Error(err))
		return AdjustmentResponse{}, mapRepositoryError(err)
	}

	if _, err := studentsTx.UpdateAccumulatedHours(ctx, studentID, next); err != nil {
		s.logger.Error("adjust hours student update failed", zap.String("request_id", rid), zap.Error(err))
		return AdjustmentResponse{}, mapRepositoryError(err)
	}

	if err := s.queueHoursChanged(ctx, tx, events.HoursChangedEvent{
		RequestID:        rid,
		StudentID:        studentID,
		Source:           events.SourceAdjustment,
		SourceID:         entry.Reference,
		DeltaHours:       delta,
		AccumulatedHours: next,
		OccurredAt:       now,
	}); err != nil {
		return AdjustmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("adjust hours commit failed", zap.String("request_id", rid), zap.Error(err))
		return AdjustmentResponse{}, apperror.Store(err, "adjustment store unavailable")
	}

	metrics.Adjustments.WithLabelValues(entry.Direction()).Inc()
	if s.progress != nil {
		s.progress.InvalidateProgress(ctx, studentID)
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "HOURS_ADJUSTED",
		Message: "manual hour adjustment applied",
		ActorID: actorID,
		Meta: map[string]any{
			"reference":      entry.Reference,
			"student_id":     studentID,
			"delta_hours":    delta,
			"previous_hours": previous,
			"new_hours":      next,
		},
	})

	s.logger.Info("adjust hours success",
		zap.String("request_id", rid),
		zap.String("student_id", studentID),
		zap.String("reference", entry.Reference),
		zap.Float64("previous_hours", previous),
		zap.Float64("new_hours", next),
	)

	return mapToResponse(*entry), nil
}

func (s *service) ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]AdjustmentResponse, response.PaginationMeta, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return nil, response.PaginationMeta{}, adjustmenterrors.ErrInvalidStudentID
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	rows, total, err := s.repo.ListByStudent(ctx, studentID, page, pageSize)
	if err != nil {
		s.logger.Error("list adjustments failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, response.PaginationMeta{}, mapRepositoryError(err)
	}
	return mapToListResponse(rows), response.NewPaginationMeta(total, page, pageSize), nil
}

// Reconcile recomputes accumulated hours from closed sessions plus ledger entries and stores the result.
func (s *service) Reconcile(ctx context.Context, studentID, actorID string) (ReconcileResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(studentID); err != nil {
		return ReconcileResponse{}, adjustmenterrors.ErrInvalidStudentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReconcileResponse{}, apperror.Store(err, "adjustment store unavailable")
	}
	defer tx.Rollback()

	studentsTx := s.students.WithTx(tx)
	repoTx := s.repo.WithTx(tx)

	st, err := studentsTx.FindByIDForUpdate(ctx, studentID)
	if err != nil {
		return ReconcileResponse{}, mapRepositoryError(err)
	}

	closed, err := repoTx.SumClosedHours(ctx, studentID)
	if err != nil {
		return ReconcileResponse{}, mapRepositoryError(err)
	}
	deltas, err := repoTx.SumDeltas(ctx, studentID)
	if err != nil {
		return ReconcileResponse{}, mapRepositoryError(err)
	}

	recomputed := math.Max(closed+deltas, 0)
	resp := ReconcileResponse{
		StudentID:       studentID,
		PreviousHours:   st.AccumulatedHours,
		ClosedHours:     closed,
		AdjustmentHours: deltas,
		RecomputedHours: recomputed,
		Drift:           recomputed - st.AccumulatedHours,
	}

	if math.Abs(resp.Drift) < driftTolerance {
		s.logger.Info("reconcile found no drift", zap.String("request_id", rid), zap.String("student_id", studentID))
		return resp, nil
	}

	if _, err := studentsTx.UpdateAccumulatedHours(ctx, studentID, recomputed); err != nil {
		return ReconcileResponse{}, mapRepositoryError(err)
	}

	if err := s.queueHoursChanged(ctx, tx, events.HoursChangedEvent{
		RequestID:        rid,
		StudentID:        studentID,
		Source:           events.SourceReconcile,
		DeltaHours:       resp.Drift,
		AccumulatedHours: recomputed,
		OccurredAt:       s.clock.Now(),
	}); err != nil {
		return ReconcileResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ReconcileResponse{}, apperror.Store(err, "adjustment store unavailable")
	}

	if s.progress != nil {
		s.progress.InvalidateProgress(ctx, studentID)
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "HOURS_RECONCILED",
		Message: "accumulated hours recomputed",
		ActorID: actorID,
		Meta: map[string]any{
			"student_id":       studentID,
			"previous_hours":   resp.PreviousHours,
			"recomputed_hours": recomputed,
			"drift":            resp.Drift,
		},
	})

	s.logger.Warn("reconcile corrected drift",
		zap.String("request_id", rid),
		zap.String("student_id", studentID),
		zap.Float64("drift", resp.Drift),
	)
	return resp, nil
}

func (s *service) queueHoursChanged(ctx context.Context, tx *sql.Tx, ev events.HoursChangedEvent) error {
	if s.outbox == nil {
		return nil
	}
	event, err := kafka.NewHoursChangedOutboxEvent(ev)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("queue hours changed event failed", zap.String("student_id", ev.StudentID), zap.Error(err))
		return apperror.Store(err, "outbox unavailable")
	}
	return nil
}

// newReference returns a time-sortable ledger reference such as ADJ-01J9Z3....
func newReference(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return "ADJ-" + ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
