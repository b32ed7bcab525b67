package attendance_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sistema-asistencia/internal/attendance"
	attendanceerrors "sistema-asistencia/internal/attendance/errors"
	mock_attendance "sistema-asistencia/internal/attendance/mock"
	"sistema-asistencia/internal/config"
	"sistema-asistencia/internal/events"
	"sistema-asistencia/internal/shared/apperror"
	"sistema-asistencia/internal/shared/clock"
	"sistema-asistencia/internal/student"
	mock_student "sistema-asistencia/internal/student/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var baseTime = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

type fixture struct {
	svc      attendance.Service
	sql      sqlmock.Sqlmock
	records  *memoryRecords
	students *memoryStudents
	outbox   *recordingOutbox
	progress *recordingProgress
	audit    *recordingAudit
	clock    *clock.Fixed
	student  *student.Student
}

func newFixture(t *testing.T, recs ...attendance.AttendanceRecord) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := &student.Student{
		ID:            uuid.MustParse("6f1c2a9e-0d41-4b7a-9f3e-2a7c1b5d8e90"),
		FullName:      "Ana Torres",
		StudentType:   student.StudentTypeService,
		RequiredHours: 480,
		AssignedRoom:  "Lab 3",
	}

	f := &fixture{
		sql:      mock,
		records:  newMemoryRecords(recs...),
		students: newMemoryStudents(st),
		outbox:   &recordingOutbox{},
		progress: &recordingProgress{},
		audit:    &recordingAudit{},
		clock:    clock.NewFixed(baseTime),
		student:  st,
	}
	f.svc = attendance.NewServiceWithOutbox(db, f.records, f.students, f.outbox, f.progress, f.audit, f.clock, config.DefaultPolicy())
	return f
}

func (f *fixture) expectCommit(n int) {
	for i := 0; i < n; i++ {
		f.sql.ExpectBegin()
		f.sql.ExpectCommit()
	}
}

func (f *fixture) expectRollback() {
	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
}

func (f *fixture) openRecord(checkIn time.Time) attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		ID:        uuid.New(),
		StudentID: f.student.ID,
		CheckIn:   checkIn,
		Shift:     attendance.ShiftMorning,
		Room:      "Lab 3",
	}
}

func (f *fixture) seed(rec attendance.AttendanceRecord) attendance.AttendanceRecord {
	cp := rec
	f.records.records[rec.ID.String()] = &cp
	return rec
}

func decodeHoursEvent(t *testing.T, payload []byte) events.HoursChangedEvent {
	t.Helper()
	var ev events.HoursChangedEvent
	require.NoError(t, json.Unmarshal(payload, &ev))
	return ev
}

func TestAttendanceService_CheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("creates open session in assigned room", func(t *testing.T) {
		f := newFixture(t)
		f.expectCommit(1)

		resp, err := f.svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: "morning"})

		require.NoError(t, err)
		assert.True(t, resp.Record.Open)
		assert.Equal(t, "Lab 3", resp.Record.Room)
		assert.Equal(t, baseTime.Format(time.RFC3339), resp.Record.CheckIn)
		assert.Nil(t, resp.AutoClosed)
		assert.Len(t, f.records.all(), 1)
		assert.Empty(t, f.outbox.events)
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})

	t.Run("room override and shift case", func(t *testing.T) {
		f := newFixture(t)
		f.expectCommit(1)

		resp, err := f.svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: " Evening ", Room: "Library"})

		require.NoError(t, err)
		assert.Equal(t, "Library", resp.Record.Room)
		assert.Equal(t, "evening", resp.Record.Shift)
	})

	t.Run("invalid student id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CheckIn(ctx, "nope", attendance.CheckInRequest{Shift: "morning"})

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidStudentID)
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})

	t.Run("invalid shift", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: "night"})

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidShift)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newFixture(t)
		f.expectRollback()

		_, err := f.svc.CheckIn(ctx, uuid.NewString(), attendance.CheckInRequest{Shift: "morning"})

		assert.ErrorIs(t, err, attendanceerrors.ErrStudentNotFound)
		assert.Empty(t, f.records.all())
	})

	t.Run("room required without assignment", func(t *testing.T) {
		f := newFixture(t)
		f.student.AssignedRoom = ""
		f.expectRollback()

		_, err := f.svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: "full"})

		assert.ErrorIs(t, err, attendanceerrors.ErrRoomRequired)
	})

	t.Run("fresh open session conflicts", func(t *testing.T) {
		f := newFixture(t)
		open := f.seed(f.openRecord(baseTime.Add(-2 * time.Hour)))
		f.expectRollback()

		_, err := f.svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: "morning"})

		assert.ErrorIs(t, err, attendanceerrors.ErrActiveSessionExists)
		assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
		assert.True(t, f.records.get(open.ID.String()).IsOpen())
		assert.Len(t, f.records.all(), 1)
		assert.Equal(t, 0.0, f.students.hours(f.student.ID.String()))
	})

	t.Run("session at exactly the stale threshold still conflicts", func(t *testing.T) {
		f := newFixture(t)
		f.seed(f.openRecord(baseTime.Add(-24 * time.Hour)))
		f.expectRollback()

		_, err := f.svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: "morning"})

		assert.ErrorIs(t, err, attendanceerrors.ErrActiveSessionExists)
	})

	t.Run("stale session is auto-closed with fixed credit", func(t *testing.T) {
		f := newFixture(t)
		staleCheckIn := baseTime.Add(-30 * time.Hour)
		stale := f.seed(f.openRecord(staleCheckIn))
		f.expectCommit(1)

		resp, err := f.svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: "morning"})

		require.NoError(t, err)
		require.NotNil(t, resp.AutoClosed)
		assert.Equal(t, stale.ID.String(), resp.AutoClosed.ID)

		closed := f.records.get(stale.ID.String())
		require.NotNil(t, closed.CheckOut)
		assert.Equal(t, staleCheckIn.Add(4*time.Hour), *closed.CheckOut)
		assert.InDelta(t, 4.0, *closed.HoursWorked, 1e-9)
		assert.Equal(t, "system auto-close (stale, >24h)", *closed.EarlyDepartureReason)
		assert.Equal(t, attendance.CloseSourceStaleClose, *closed.CloseSource)

		assert.Len(t, f.records.all(), 2)
		assert.True(t, resp.Record.Open)
		assert.InDelta(t, 4.0, f.students.hours(f.student.ID.String()), 1e-9)

		require.Len(t, f.outbox.events, 1)
		ev := decodeHoursEvent(t, f.outbox.events[0].Payload)
		assert.Equal(t, events.SourceStaleClose, ev.Source)
		assert.Equal(t, stale.ID.String(), ev.SourceID)
		assert.InDelta(t, 4.0, ev.DeltaHours, 1e-9)
		assert.Equal(t, []string{f.student.ID.String()}, f.progress.ids)
	})

	t.Run("stale session closed by another writer is ignored", func(t *testing.T) {
		f := newFixture(t)
		stale := f.seed(f.openRecord(baseTime.Add(-30 * time.Hour)))
		f.records.beforeClose = func(id string) { f.records.forceClose(id, baseTime) }
		f.expectCommit(1)

		resp, err := f.svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: "morning"})

		require.NoError(t, err)
		assert.Nil(t, resp.AutoClosed)
		assert.False(t, f.records.get(stale.ID.String()).IsOpen())
		assert.Equal(t, 0.0, f.students.hours(f.student.ID.String()))
		assert.Empty(t, f.outbox.events)
	})

	t.Run("unique index violation maps to conflict", func(t *testing.T) {
		f := newFixture(t)
		// Another check-in lands between the open-session read and the insert.
		ctrl := gomock.NewController(t)
		repo := mock_attendance.NewMockRepository(ctrl)
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		svc := attendance.NewService(db, repo, f.students, f.clock, config.DefaultPolicy())

		mock.ExpectBegin()
		mock.ExpectRollback()
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().FindOpenByStudent(gomock.Any(), f.student.ID.String()).Return(nil, errNotFound())
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uniqueViolation())

		_, err = svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: "morning"})

		assert.ErrorIs(t, err, attendanceerrors.ErrActiveSessionExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure is a store error", func(t *testing.T) {
		f := newFixture(t)
		f.sql.ExpectBegin().WillReturnError(errors.New("connection refused"))

		_, err := f.svc.CheckIn(ctx, f.student.ID.String(), attendance.CheckInRequest{Shift: "morning"})

		assert.True(t, apperror.HasCode(err, apperror.CodeStoreError))
	})
}

func TestAttendanceService_CheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("credits elapsed hours", func(t *testing.T) {
		f := newFixture(t)
		open := f.seed(f.openRecord(baseTime.Add(-5 * time.Hour)))
		f.students.students[f.student.ID.String()].AccumulatedHours = 20
		f.expectCommit(1)

		resp, err := f.svc.CheckOut(ctx, f.student.ID.String(), attendance.CheckOutRequest{})

		require.NoError(t, err)
		assert.InDelta(t, 5.0, resp.HoursWorked, 1e-9)
		assert.False(t, resp.Capped)
		assert.InDelta(t, 25.0, resp.AccumulatedHours, 1e-9)
		assert.False(t, resp.Record.Open)
		assert.Nil(t, resp.Record.EarlyDepartureReason)

		closed := f.records.get(open.ID.String())
		assert.Equal(t, baseTime, *closed.CheckOut)
		assert.Equal(t, f.student.ID.String(), *closed.ClosedBy)

		require.Len(t, f.outbox.events, 1)
		ev := decodeHoursEvent(t, f.outbox.events[0].Payload)
		assert.Equal(t, events.SourceCheckOut, ev.Source)
		assert.InDelta(t, 25.0, ev.AccumulatedHours, 1e-9)
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})

	t.Run("caps long session and notes the cap", func(t *testing.T) {
		f := newFixture(t)
		f.seed(f.openRecord(baseTime.Add(-12 * time.Hour)))
		f.expectCommit(1)

		resp, err := f.svc.CheckOut(ctx, f.student.ID.String(), attendance.CheckOutRequest{})

		require.NoError(t, err)
		assert.InDelta(t, 10.0, resp.HoursWorked, 1e-9)
		assert.True(t, resp.Capped)
		require.NotNil(t, resp.Record.EarlyDepartureReason)
		assert.Equal(t, "capped at 10.0h daily limit (elapsed 12.00h)", *resp.Record.EarlyDepartureReason)
		assert.InDelta(t, 10.0, f.students.hours(f.student.ID.String()), 1e-9)
	})

	t.Run("cap note keeps the student's reason", func(t *testing.T) {
		f := newFixture(t)
		f.seed(f.openRecord(baseTime.Add(-11 * time.Hour)))
		f.expectCommit(1)
		reason := "forgot to check out"

		resp, err := f.svc.CheckOut(ctx, f.student.ID.String(), attendance.CheckOutRequest{EarlyDepartureReason: &reason})

		require.NoError(t, err)
		assert.Equal(t, "capped at 10.0h daily limit (elapsed 11.00h); forgot to check out", *resp.Record.EarlyDepartureReason)
	})

	t.Run("short session keeps reason", func(t *testing.T) {
		f := newFixture(t)
		f.seed(f.openRecord(baseTime.Add(-90 * time.Minute)))
		f.expectCommit(1)
		reason := "  medical appointment "

		resp, err := f.svc.CheckOut(ctx, f.student.ID.String(), attendance.CheckOutRequest{EarlyDepartureReason: &reason})

		require.NoError(t, err)
		assert.InDelta(t, 1.5, resp.HoursWorked, 1e-9)
		assert.Equal(t, "medical appointment", *resp.Record.EarlyDepartureReason)
	})

	t.Run("clock behind check-in credits zero", func(t *testing.T) {
		f := newFixture(t)
		f.seed(f.openRecord(baseTime.Add(time.Hour)))
		f.expectCommit(1)

		resp, err := f.svc.CheckOut(ctx, f.student.ID.String(), attendance.CheckOutRequest{})

		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.HoursWorked)
		assert.Equal(t, 0.0, f.students.hours(f.student.ID.String()))
	})

	t.Run("no active session", func(t *testing.T) {
		f := newFixture(t)
		f.expectRollback()

		_, err := f.svc.CheckOut(ctx, f.student.ID.String(), attendance.CheckOutRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrNoActiveSession)
		assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
	})

	t.Run("losing a close race credits nothing", func(t *testing.T) {
		f := newFixture(t)
		open := f.seed(f.openRecord(baseTime.Add(-5 * time.Hour)))
		f.records.beforeClose = func(id string) { f.records.forceClose(id, baseTime.Add(-time.Minute)) }
		f.expectRollback()

		_, err := f.svc.CheckOut(ctx, f.student.ID.String(), attendance.CheckOutRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrNoActiveSession)
		assert.Equal(t, baseTime.Add(-time.Minute), *f.records.get(open.ID.String()).CheckOut)
		assert.Equal(t, 0.0, f.students.hours(f.student.ID.String()))
		assert.Empty(t, f.outbox.events)
	})

	t.Run("student credit failure aborts the close", func(t *testing.T) {
		f := newFixture(t)
		ctrl := gomock.NewController(t)
		students := mock_student.NewMockRepository(ctrl)
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		f.seed(f.openRecord(baseTime.Add(-4 * time.Hour)))
		svc := attendance.NewService(db, f.records, students, f.clock, config.DefaultPolicy())

		mock.ExpectBegin()
		mock.ExpectRollback()
		students.EXPECT().WithTx(gomock.Any()).Return(students)
		students.EXPECT().AddAccumulatedHours(gomock.Any(), f.student.ID.String(), 4.0).Return(0.0, errors.New("deadlock detected"))

		_, err = svc.CheckOut(ctx, f.student.ID.String(), attendance.CheckOutRequest{})

		assert.True(t, apperror.HasCode(err, apperror.CodeStoreError))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAttendanceService_ForceCheckOut(t *testing.T) {
	ctx := context.Background()
	actor := uuid.NewString()

	t.Run("default reason and audit entry", func(t *testing.T) {
		f := newFixture(t)
		open := f.seed(f.openRecord(baseTime.Add(-6 * time.Hour)))
		f.expectCommit(1)

		resp, err := f.svc.ForceCheckOut(ctx, open.ID.String(), actor, attendance.ForceCheckOutRequest{})

		require.NoError(t, err)
		assert.InDelta(t, 6.0, resp.HoursWorked, 1e-9)
		assert.Equal(t, attendance.ReasonForcedByAdministrator, *resp.Record.EarlyDepartureReason)
		assert.Equal(t, actor, *f.records.get(open.ID.String()).ClosedBy)
		assert.Equal(t, attendance.CloseSourceForceClose, *f.records.get(open.ID.String()).CloseSource)

		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, "ATTENDANCE_FORCE_CLOSE", f.audit.entries[0].Action)
		assert.Equal(t, actor, f.audit.entries[0].ActorID)
	})

	t.Run("capped force close combines notes", func(t *testing.T) {
		f := newFixture(t)
		open := f.seed(f.openRecord(baseTime.Add(-14 * time.Hour)))
		f.expectCommit(1)

		resp, err := f.svc.ForceCheckOut(ctx, open.ID.String(), actor, attendance.ForceCheckOutRequest{Reason: "left without checking out"})

		require.NoError(t, err)
		assert.True(t, resp.Capped)
		assert.Equal(t, "capped at 10.0h daily limit (elapsed 14.00h); left without checking out", *resp.Record.EarlyDepartureReason)
	})

	t.Run("already closed", func(t *testing.T) {
		f := newFixture(t)
		rec := f.openRecord(baseTime.Add(-6 * time.Hour))
		out := baseTime.Add(-time.Hour)
		rec.CheckOut = &out
		f.seed(rec)
		f.expectRollback()

		_, err := f.svc.ForceCheckOut(ctx, rec.ID.String(), actor, attendance.ForceCheckOutRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrRecordAlreadyClosed)
		assert.Empty(t, f.audit.entries)
	})

	t.Run("closed between read and write", func(t *testing.T) {
		f := newFixture(t)
		open := f.seed(f.openRecord(baseTime.Add(-6 * time.Hour)))
		f.records.beforeClose = func(id string) { f.records.forceClose(id, baseTime) }
		f.expectRollback()

		_, err := f.svc.ForceCheckOut(ctx, open.ID.String(), actor, attendance.ForceCheckOutRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrRecordAlreadyClosed)
		assert.Equal(t, 0.0, f.students.hours(f.student.ID.String()))
	})

	t.Run("unknown record", func(t *testing.T) {
		f := newFixture(t)
		f.expectRollback()

		_, err := f.svc.ForceCheckOut(ctx, uuid.NewString(), actor, attendance.ForceCheckOutRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrRecordNotFound)
	})

	t.Run("invalid record id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ForceCheckOut(ctx, "42", actor, attendance.ForceCheckOutRequest{})

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidRecordID)
	})
}

func TestAttendanceService_CapLongRunningSessions(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	over := f.seed(f.openRecord(baseTime.Add(-11 * time.Hour)))

	other := &student.Student{ID: uuid.New(), FullName: "Luis Perez", RequiredHours: 240}
	f.students.students[other.ID.String()] = other
	exact := f.openRecord(baseTime.Add(-10 * time.Hour))
	exact.StudentID = other.ID
	f.seed(exact)

	third := &student.Student{ID: uuid.New(), FullName: "Eva Ruiz", RequiredHours: 240}
	f.students.students[third.ID.String()] = third
	under := f.openRecord(baseTime.Add(-9 * time.Hour))
	under.StudentID = third.ID
	f.seed(under)

	f.expectCommit(1)

	n, err := f.svc.CapLongRunningSessions(ctx, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, n)

	capped := f.records.get(over.ID.String())
	assert.Equal(t, over.CheckIn.Add(10*time.Hour), *capped.CheckOut)
	assert.InDelta(t, 10.0, *capped.HoursWorked, 1e-9)
	assert.Equal(t, "system cap (>10h daily limit)", *capped.EarlyDepartureReason)
	assert.Equal(t, attendance.CloseSourceCapClose, *capped.CloseSource)
	assert.Equal(t, "system", *capped.ClosedBy)

	assert.True(t, f.records.get(exact.ID.String()).IsOpen())
	assert.True(t, f.records.get(under.ID.String()).IsOpen())
	assert.InDelta(t, 10.0, f.students.hours(f.student.ID.String()), 1e-9)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestAttendanceService_AutoCloseStaleRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("closes only sessions past the threshold", func(t *testing.T) {
		f := newFixture(t)
		stale := f.seed(f.openRecord(baseTime.Add(-25 * time.Hour)))

		other := &student.Student{ID: uuid.New(), FullName: "Luis Perez", RequiredHours: 240}
		f.students.students[other.ID.String()] = other
		recent := f.openRecord(baseTime.Add(-23 * time.Hour))
		recent.StudentID = other.ID
		f.seed(recent)

		f.expectCommit(1)

		n, err := f.svc.AutoCloseStaleRecords(ctx, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		closed := f.records.get(stale.ID.String())
		assert.InDelta(t, 4.0, *closed.HoursWorked, 1e-9)
		assert.Equal(t, "system auto-close (stale)", *closed.EarlyDepartureReason)
		assert.True(t, f.records.get(recent.ID.String()).IsOpen())
	})

	t.Run("overrides and skipped races", func(t *testing.T) {
		f := newFixture(t)
		first := f.seed(f.openRecord(baseTime.Add(-9 * time.Hour)))

		other := &student.Student{ID: uuid.New(), FullName: "Luis Perez", RequiredHours: 240}
		f.students.students[other.ID.String()] = other
		second := f.openRecord(baseTime.Add(-8 * time.Hour))
		second.StudentID = other.ID
		f.seed(second)

		f.records.beforeClose = func(id string) {
			if id == first.ID.String() {
				f.records.forceClose(id, baseTime)
			}
		}
		f.expectRollback()
		f.expectCommit(1)

		n, err := f.svc.AutoCloseStaleRecords(ctx, 6, 2)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.InDelta(t, 2.0, *f.records.get(second.ID.String()).HoursWorked, 1e-9)
		assert.InDelta(t, 2.0, f.students.hours(other.ID.String()), 1e-9)
		assert.Equal(t, 0.0, f.students.hours(f.student.ID.String()))
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})

	t.Run("credit above the daily cap is clamped", func(t *testing.T) {
		f := newFixture(t)
		stale := f.seed(f.openRecord(baseTime.Add(-40 * time.Hour)))
		f.expectCommit(1)

		_, err := f.svc.AutoCloseStaleRecords(ctx, 0, 12)

		require.NoError(t, err)
		closed := f.records.get(stale.ID.String())
		assert.InDelta(t, 10.0, *closed.HoursWorked, 1e-9)
		assert.Equal(t, stale.CheckIn.Add(10*time.Hour), *closed.CheckOut)
	})

	t.Run("second run closes nothing", func(t *testing.T) {
		f := newFixture(t)
		stale := f.seed(f.openRecord(baseTime.Add(-30 * time.Hour)))
		f.expectCommit(1)

		first, err := f.svc.AutoCloseStaleRecords(ctx, 0, 0)
		require.NoError(t, err)
		second, err := f.svc.AutoCloseStaleRecords(ctx, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, 1, first)
		assert.Equal(t, 0, second)
		assert.InDelta(t, 4.0, *f.records.get(stale.ID.String()).HoursWorked, 1e-9)
		assert.InDelta(t, 4.0, f.students.hours(f.student.ID.String()), 1e-9)
		assert.Len(t, f.outbox.events, 1)
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})

	t.Run("credit never exceeds elapsed time", func(t *testing.T) {
		f := newFixture(t)
		young := f.seed(f.openRecord(baseTime.Add(-2 * time.Hour)))
		f.expectCommit(1)

		n, err := f.svc.AutoCloseStaleRecords(ctx, 1, 8)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		closed := f.records.get(young.ID.String())
		assert.InDelta(t, 2.0, *closed.HoursWorked, 1e-9)
		assert.False(t, closed.CheckOut.After(baseTime))
		assert.InDelta(t, 2.0, f.students.hours(f.student.ID.String()), 1e-9)
	})

	t.Run("negative hours rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AutoCloseStaleRecords(ctx, -1, 0)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidSweepHours)

		_, err = f.svc.CapLongRunningSessions(ctx, 0, -2)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidSweepHours)
	})
}

func TestAttendanceService_CapLongRunningSessions_Repeated(t *testing.T) {
	ctx := context.Background()

	t.Run("second run closes nothing", func(t *testing.T) {
		f := newFixture(t)
		over := f.seed(f.openRecord(baseTime.Add(-12 * time.Hour)))
		f.expectCommit(1)

		first, err := f.svc.CapLongRunningSessions(ctx, 0, 0)
		require.NoError(t, err)
		second, err := f.svc.CapLongRunningSessions(ctx, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, 1, first)
		assert.Equal(t, 0, second)
		assert.InDelta(t, 10.0, *f.records.get(over.ID.String()).HoursWorked, 1e-9)
		assert.InDelta(t, 10.0, f.students.hours(f.student.ID.String()), 1e-9)
		assert.Len(t, f.outbox.events, 1)
		assert.NoError(t, f.sql.ExpectationsWereMet())
	})

	t.Run("credit above elapsed is clamped to elapsed", func(t *testing.T) {
		f := newFixture(t)
		young := f.seed(f.openRecord(baseTime.Add(-2 * time.Hour)))
		f.expectCommit(1)

		n, err := f.svc.CapLongRunningSessions(ctx, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		closed := f.records.get(young.ID.String())
		assert.InDelta(t, 2.0, *closed.HoursWorked, 1e-9)
		assert.Equal(t, baseTime, *closed.CheckOut)
		assert.InDelta(t, 2.0, f.students.hours(f.student.ID.String()), 1e-9)

		require.Len(t, f.outbox.events, 1)
		ev := decodeHoursEvent(t, f.outbox.events[0].Payload)
		assert.InDelta(t, 2.0, ev.DeltaHours, 1e-9)
	})
}

func TestAttendanceService_RunMaintenance(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	old := f.seed(f.openRecord(baseTime.Add(-30 * time.Hour)))
	f.expectCommit(1)

	resp, err := f.svc.RunMaintenance(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Capped)
	assert.Equal(t, 0, resp.StaleClosed)
	assert.Equal(t, baseTime.Format(time.RFC3339), resp.RanAt)

	closed := f.records.get(old.ID.String())
	assert.Equal(t, attendance.CloseSourceCapClose, *closed.CloseSource)
	assert.InDelta(t, 10.0, *closed.HoursWorked, 1e-9)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "ATTENDANCE_MAINTENANCE", f.audit.entries[0].Action)
}

func TestAttendanceService_AccumulatedMatchesClosedSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.student.ID.String()

	steps := []time.Duration{5 * time.Hour, 13 * time.Hour, 90 * time.Minute}
	for _, d := range steps {
		f.expectCommit(2)
		_, err := f.svc.CheckIn(ctx, id, attendance.CheckInRequest{Shift: "full"})
		require.NoError(t, err)
		f.clock.Advance(d)
		_, err = f.svc.CheckOut(ctx, id, attendance.CheckOutRequest{})
		require.NoError(t, err)
		f.clock.Advance(time.Hour)
	}

	var sum float64
	for _, r := range f.records.all() {
		require.NotNil(t, r.HoursWorked)
		assert.LessOrEqual(t, *r.HoursWorked, 10.0)
		sum += *r.HoursWorked
	}
	assert.InDelta(t, 16.5, sum, 1e-9)
	assert.InDelta(t, sum, f.students.hours(id), 1e-9)
	assert.Len(t, f.outbox.events, 3)
}

func TestAttendanceService_GetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("short session needs a reason", func(t *testing.T) {
		f := newFixture(t)
		f.seed(f.openRecord(baseTime.Add(-2 * time.Hour)))

		resp, err := f.svc.GetActive(ctx, f.student.ID.String())

		require.NoError(t, err)
		assert.InDelta(t, 2.0, resp.ElapsedHours, 1e-9)
		assert.True(t, resp.RequiresEarlyDepartureReason)
		assert.False(t, resp.WillBeCapped)
		assert.Equal(t, 3.0, resp.MinSessionHours)
	})

	t.Run("long session will be capped", func(t *testing.T) {
		f := newFixture(t)
		f.seed(f.openRecord(baseTime.Add(-11 * time.Hour)))

		resp, err := f.svc.GetActive(ctx, f.student.ID.String())

		require.NoError(t, err)
		assert.False(t, resp.RequiresEarlyDepartureReason)
		assert.True(t, resp.WillBeCapped)
	})

	t.Run("no session", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.GetActive(ctx, f.student.ID.String())

		assert.ErrorIs(t, err, attendanceerrors.ErrNoActiveSession)
	})
}

func TestAttendanceService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults paging", func(t *testing.T) {
		f := newFixture(t)
		f.seed(f.openRecord(baseTime.Add(-2 * time.Hour)))

		items, meta, err := f.svc.List(ctx, attendance.ListFilter{StudentID: f.student.ID.String()})

		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, int64(1), meta.Total)
		assert.Equal(t, 1, meta.Page)
	})

	t.Run("inverted range", func(t *testing.T) {
		f := newFixture(t)
		from, to := baseTime, baseTime.Add(-time.Hour)

		_, _, err := f.svc.List(ctx, attendance.ListFilter{From: &from, To: &to})

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidTimeRange)
	})
}
