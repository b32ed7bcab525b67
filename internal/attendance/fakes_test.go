package attendance_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"sistema-asistencia/internal/attendance"
	"sistema-asistencia/internal/bootstrap"
	"sistema-asistencia/internal/messaging/kafka"
	"sistema-asistencia/internal/student"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// memoryRecords keeps the same guarantees as the Postgres store: one open session per student
// and a close that only matches an open row.
type memoryRecords struct {
	mu      sync.Mutex
	records map[string]*attendance.AttendanceRecord

	// beforeClose runs ahead of CloseIfOpen, letting a test close the row from "another writer".
	beforeClose func(id string)
}

func newMemoryRecords(recs ...attendance.AttendanceRecord) *memoryRecords {
	m := &memoryRecords{records: map[string]*attendance.AttendanceRecord{}}
	for i := range recs {
		r := recs[i]
		m.records[r.ID.String()] = &r
	}
	return m
}

func (m *memoryRecords) WithTx(*sql.Tx) attendance.Repository { return m }

func (m *memoryRecords) Create(_ context.Context, rec *attendance.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.StudentID == rec.StudentID && r.IsOpen() {
			return uniqueViolation()
		}
	}
	cp := *rec
	m.records[rec.ID.String()] = &cp
	return nil
}

func (m *memoryRecords) FindByID(_ context.Context, id string) (*attendance.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memoryRecords) FindOpenByStudent(_ context.Context, studentID string) (*attendance.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.StudentID.String() == studentID && r.IsOpen() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRecords) FindOpenOlderThan(_ context.Context, cutoff time.Time) ([]attendance.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.AttendanceRecord
	for _, r := range m.records {
		if r.IsOpen() && r.CheckIn.Before(cutoff) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (m *memoryRecords) CloseIfOpen(_ context.Context, id string, c attendance.Closure) (*attendance.AttendanceRecord, error) {
	if m.beforeClose != nil {
		m.beforeClose(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok || !r.IsOpen() {
		return nil, gorm.ErrRecordNotFound
	}
	checkOut := c.CheckOut
	hours := c.Hours
	source := c.Source
	r.CheckOut = &checkOut
	r.HoursWorked = &hours
	r.EarlyDepartureReason = c.Reason
	r.CloseSource = &source
	if c.ClosedBy != "" {
		by := c.ClosedBy
		r.ClosedBy = &by
	}
	cp := *r
	return &cp, nil
}

func (m *memoryRecords) List(_ context.Context, filter attendance.ListFilter) ([]attendance.AttendanceRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.AttendanceRecord
	for _, r := range m.records {
		if filter.StudentID != "" && r.StudentID.String() != filter.StudentID {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

// forceClose marks a row closed outside the service.
func (m *memoryRecords) forceClose(id string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok && r.IsOpen() {
		zero := 0.0
		r.CheckOut = &at
		r.HoursWorked = &zero
	}
}

func (m *memoryRecords) get(id string) attendance.AttendanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.records[id]
}

func (m *memoryRecords) all() []attendance.AttendanceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]attendance.AttendanceRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out
}

type memoryStudents struct {
	mu       sync.Mutex
	students map[string]*student.Student
}

func newMemoryStudents(sts ...*student.Student) *memoryStudents {
	m := &memoryStudents{students: map[string]*student.Student{}}
	for _, s := range sts {
		m.students[s.ID.String()] = s
	}
	return m
}

func (m *memoryStudents) WithTx(*sql.Tx) student.Repository { return m }

func (m *memoryStudents) FindByID(_ context.Context, id string) (*student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memoryStudents) FindByIDForUpdate(ctx context.Context, id string) (*student.Student, error) {
	return m.FindByID(ctx, id)
}

func (m *memoryStudents) FindAll(context.Context) ([]student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]student.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memoryStudents) AddAccumulatedHours(_ context.Context, id string, delta float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	s.AccumulatedHours += delta
	if s.AccumulatedHours < 0 {
		s.AccumulatedHours = 0
	}
	return s.AccumulatedHours, nil
}

func (m *memoryStudents) UpdateAccumulatedHours(_ context.Context, id string, hours float64) (*student.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	s.AccumulatedHours = hours
	cp := *s
	return &cp, nil
}

func (m *memoryStudents) SetCompletedAt(_ context.Context, id string, at *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.CompletedAt = at
	return nil
}

func (m *memoryStudents) hours(id string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.students[id].AccumulatedHours
}

type recordingOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
}

func (o *recordingOutbox) WithTx(*sql.Tx) kafka.OutboxRepository { return o }

func (o *recordingOutbox) Create(_ context.Context, event kafka.OutboxEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
	return nil
}

func (o *recordingOutbox) ListPending(context.Context, int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (o *recordingOutbox) MarkSent(context.Context, string) error { return nil }

func (o *recordingOutbox) MarkFailed(context.Context, string, string) error { return nil }

type recordingProgress struct {
	mu  sync.Mutex
	ids []string
}

func (p *recordingProgress) InvalidateProgress(_ context.Context, studentID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, studentID)
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []bootstrap.AuditLog
}

func (a *recordingAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func errNotFound() error { return gorm.ErrRecordNotFound }

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_open_session"}
}
