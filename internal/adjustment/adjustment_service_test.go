package adjustment_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"sistema-asistencia/internal/adjustment"
	adjustmenterrors "sistema-asistencia/internal/adjustment/errors"
	mock_adjustment "sistema-asistencia/internal/adjustment/mock"
	"sistema-asistencia/internal/config"
	"sistema-asistencia/internal/events"
	"sistema-asistencia/internal/messaging/kafka"
	mock_kafka "sistema-asistencia/internal/messaging/kafka/mock"
	"sistema-asistencia/internal/shared/apperror"
	"sistema-asistencia/internal/shared/clock"
	"sistema-asistencia/internal/student"
	mock_student "sistema-asistencia/internal/student/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

var now = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

type deps struct {
	svc      adjustment.Service
	sql      sqlmock.Sqlmock
	repo     *mock_adjustment.MockRepository
	students *mock_student.MockRepository
	outbox   *mock_kafka.MockOutboxRepository
}

func setup(t *testing.T) deps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	d := deps{
		sql:      mock,
		repo:     mock_adjustment.NewMockRepository(ctrl),
		students: mock_student.NewMockRepository(ctrl),
		outbox:   mock_kafka.NewMockOutboxRepository(ctrl),
	}
	d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo).AnyTimes()
	d.students.EXPECT().WithTx(gomock.Any()).Return(d.students).AnyTimes()
	d.outbox.EXPECT().WithTx(gomock.Any()).Return(d.outbox).AnyTimes()

	d.svc = adjustment.NewService(db, d.repo, d.students, d.outbox, nil, nil, clock.NewFixed(now), config.DefaultPolicy())
	return d
}

func studentWith(hours float64) *student.Student {
	return &student.Student{ID: uuid.New(), FullName: "Ana Torres", RequiredHours: 480, AccumulatedHours: hours}
}

func TestAdjustmentService_AdjustHours(t *testing.T) {
	ctx := context.Background()
	actor := uuid.NewString()
	reason := "makeup session approved"

	t.Run("subtract within balance", func(t *testing.T) {
		d := setup(t)
		st := studentWith(10)
		id := st.ID.String()

		d.sql.ExpectBegin()
		d.sql.ExpectCommit()
		gomock.InOrder(
			d.students.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(st, nil),
			d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *adjustment.HourAdjustment) error {
				assert.Equal(t, -5.0, e.DeltaHours)
				assert.Equal(t, 10.0, e.PreviousHours)
				assert.Equal(t, 5.0, e.NewHours)
				assert.Equal(t, actor, e.CreatedBy)
				assert.True(t, strings.HasPrefix(e.Reference, "ADJ-"))
				return nil
			}),
			d.students.EXPECT().UpdateAccumulatedHours(gomock.Any(), id, 5.0).Return(st, nil),
			d.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
				var payload events.HoursChangedEvent
				require.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, events.SourceAdjustment, payload.Source)
				assert.Equal(t, 5.0, payload.AccumulatedHours)
				assert.Equal(t, id, ev.AggregateID)
				return nil
			}),
		)

		resp, err := d.svc.AdjustHours(ctx, id, -5, reason, actor)

		require.NoError(t, err)
		assert.Equal(t, 5.0, resp.NewHours)
		assert.Equal(t, now.Format(time.RFC3339), resp.CreatedAt)
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("subtract beyond balance", func(t *testing.T) {
		d := setup(t)
		st := studentWith(3)

		d.sql.ExpectBegin()
		d.sql.ExpectRollback()
		d.students.EXPECT().FindByIDForUpdate(gomock.Any(), st.ID.String()).Return(st, nil)

		_, err := d.svc.AdjustHours(ctx, st.ID.String(), -5, reason, actor)

		assert.ErrorIs(t, err, adjustmenterrors.ErrInsufficientHours)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("subtract entire balance", func(t *testing.T) {
		d := setup(t)
		st := studentWith(3)

		d.sql.ExpectBegin()
		d.sql.ExpectCommit()
		d.students.EXPECT().FindByIDForUpdate(gomock.Any(), st.ID.String()).Return(st, nil)
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		d.students.EXPECT().UpdateAccumulatedHours(gomock.Any(), st.ID.String(), 0.0).Return(st, nil)
		d.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := d.svc.AdjustHours(ctx, st.ID.String(), -3, reason, actor)

		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.NewHours)
	})

	t.Run("input validation", func(t *testing.T) {
		cases := []struct {
			name   string
			delta  float64
			reason string
			want   error
		}{
			{"zero delta", 0, reason, adjustmenterrors.ErrZeroDelta},
			{"over bound", 100.5, reason, adjustmenterrors.ErrDeltaOutOfRange},
			{"under bound", -101, reason, adjustmenterrors.ErrDeltaOutOfRange},
			{"short reason", 2, "typo", adjustmenterrors.ErrReasonTooShort},
			{"padded short reason", 2, "   typo fix   ", adjustmenterrors.ErrReasonTooShort},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				d := setup(t)

				_, err := d.svc.AdjustHours(ctx, uuid.NewString(), tc.delta, tc.reason, actor)

				assert.ErrorIs(t, err, tc.want)
				assert.NoError(t, d.sql.ExpectationsWereMet())
			})
		}
	})

	t.Run("bound is inclusive", func(t *testing.T) {
		d := setup(t)
		st := studentWith(0)

		d.sql.ExpectBegin()
		d.sql.ExpectCommit()
		d.students.EXPECT().FindByIDForUpdate(gomock.Any(), st.ID.String()).Return(st, nil)
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		d.students.EXPECT().UpdateAccumulatedHours(gomock.Any(), st.ID.String(), 100.0).Return(st, nil)
		d.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := d.svc.AdjustHours(ctx, st.ID.String(), 100, reason, actor)

		assert.NoError(t, err)
	})

	t.Run("unknown student", func(t *testing.T) {
		d := setup(t)
		id := uuid.NewString()

		d.sql.ExpectBegin()
		d.sql.ExpectRollback()
		d.students.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.svc.AdjustHours(ctx, id, 2, reason, actor)

		assert.ErrorIs(t, err, adjustmenterrors.ErrStudentNotFound)
	})

	t.Run("ledger insert failure leaves hours untouched", func(t *testing.T) {
		d := setup(t)
		st := studentWith(8)

		d.sql.ExpectBegin()
		d.sql.ExpectRollback()
		d.students.EXPECT().FindByIDForUpdate(gomock.Any(), st.ID.String()).Return(st, nil)
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := d.svc.AdjustHours(ctx, st.ID.String(), 2, reason, actor)

		assert.True(t, apperror.HasCode(err, apperror.CodeStoreError))
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("invalid id", func(t *testing.T) {
		d := setup(t)

		_, err := d.svc.AdjustHours(ctx, "student-1", 2, reason, actor)

		assert.ErrorIs(t, err, adjustmenterrors.ErrInvalidStudentID)
	})
}

func TestAdjustmentService_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("corrects drift", func(t *testing.T) {
		d := setup(t)
		st := studentWith(50)
		id := st.ID.String()

		d.sql.ExpectBegin()
		d.sql.ExpectCommit()
		d.students.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(st, nil)
		d.repo.EXPECT().SumClosedHours(gomock.Any(), id).Return(42.5, nil)
		d.repo.EXPECT().SumDeltas(gomock.Any(), id).Return(-2.5, nil)
		d.students.EXPECT().UpdateAccumulatedHours(gomock.Any(), id, 40.0).Return(st, nil)
		d.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
			var payload events.HoursChangedEvent
			require.NoError(t, json.Unmarshal(ev.Payload, &payload))
			assert.Equal(t, events.SourceReconcile, payload.Source)
			assert.Equal(t, -10.0, payload.DeltaHours)
			return nil
		})

		resp, err := d.svc.Reconcile(ctx, id, "supervisor-1")

		require.NoError(t, err)
		assert.Equal(t, 40.0, resp.RecomputedHours)
		assert.Equal(t, -10.0, resp.Drift)
		assert.NoError(t, d.sql.ExpectationsWereMet())
	})

	t.Run("no drift writes nothing", func(t *testing.T) {
		d := setup(t)
		st := studentWith(12)
		id := st.ID.String()

		d.sql.ExpectBegin()
		d.sql.ExpectRollback()
		d.students.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(st, nil)
		d.repo.EXPECT().SumClosedHours(gomock.Any(), id).Return(10.0, nil)
		d.repo.EXPECT().SumDeltas(gomock.Any(), id).Return(2.0, nil)

		resp, err := d.svc.Reconcile(ctx, id, "supervisor-1")

		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.Drift)
	})

	t.Run("negative sum clamps to zero", func(t *testing.T) {
		d := setup(t)
		st := studentWith(1)
		id := st.ID.String()

		d.sql.ExpectBegin()
		d.sql.ExpectCommit()
		d.students.EXPECT().FindByIDForUpdate(gomock.Any(), id).Return(st, nil)
		d.repo.EXPECT().SumClosedHours(gomock.Any(), id).Return(0.0, nil)
		d.repo.EXPECT().SumDeltas(gomock.Any(), id).Return(-4.0, nil)
		d.students.EXPECT().UpdateAccumulatedHours(gomock.Any(), id, 0.0).Return(st, nil)
		d.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := d.svc.Reconcile(ctx, id, "supervisor-1")

		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.RecomputedHours)
	})
}

func TestAdjustmentService_ListByStudent(t *testing.T) {
	d := setup(t)
	id := uuid.New()

	d.repo.EXPECT().ListByStudent(gomock.Any(), id.String(), 1, 10).Return([]adjustment.HourAdjustment{
		{ID: uuid.New(), Reference: "ADJ-1", StudentID: id, DeltaHours: 2, CreatedAt: now},
	}, int64(1), nil)

	items, meta, err := d.svc.ListByStudent(context.Background(), id.String(), 0, 0)

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "ADJ-1", items[0].Reference)
	assert.Equal(t, int64(1), meta.Total)
}
