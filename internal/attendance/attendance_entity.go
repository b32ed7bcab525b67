package attendance

import (
	"time"

	"sistema-asistencia/internal/events"

	"github.com/google/uuid"
)

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
	ShiftFull    Shift = "full"
)

func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftEvening, ShiftFull:
		return true
	default:
		return false
	}
}

// Close sources recorded on a closed session. They double as the hours-changed event source.
const (
	CloseSourceCheckOut   = events.SourceCheckOut
	CloseSourceForceClose = events.SourceForceClose
	CloseSourceStaleClose = events.SourceStaleClose
	CloseSourceCapClose   = events.SourceCapClose
)

// AttendanceRecord is one check-in/check-out session. CheckOut and HoursWorked stay nil while the session is open.
type AttendanceRecord struct {
	ID                   uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	StudentID            uuid.UUID   `gorm:"column:student_id;type:uuid;not null;index"`
	CheckIn              time.Time   `gorm:"column:check_in;type:timestamptz;not null"`
	CheckOut             *time.Time  `gorm:"column:check_out;type:timestamptz"`
	Shift                Shift       `gorm:"column:shift;type:varchar(10);not null"`
	Room                 string      `gorm:"column:room;type:varchar(100);not null"`
	HoursWorked          *float64    `gorm:"column:hours_worked"`
	EarlyDepartureReason *string     `gorm:"column:early_departure_reason;type:text"`
	CloseSource          *string     `gorm:"column:close_source;type:varchar(20)"`
	ClosedBy             *string     `gorm:"column:closed_by;type:varchar(64)"`
	CreatedAt            time.Time   `gorm:"column:created_at"`
	Student              *StudentRef `gorm:"foreignKey:StudentID;references:ID"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

func (r AttendanceRecord) IsOpen() bool {
	return r.CheckOut == nil
}

type StudentRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (StudentRef) TableName() string {
	return "students"
}
