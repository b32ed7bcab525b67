package events

import "time"

const HoursChangedTopic = "attendance.student.hours.v1"

// Sources of an hours change.
const (
	SourceCheckOut   = "check_out"
	SourceForceClose = "force_close"
	SourceStaleClose = "stale_close"
	SourceCapClose   = "cap_close"
	SourceAdjustment = "adjustment"
	SourceReconcile  = "reconcile"
)

const EventTypeHoursChanged = "student_hours_changed"

type HoursChangedEvent struct {
	EventType        string    `json:"event_type"`
	RequestID        string    `json:"request_id,omitempty"`
	StudentID        string    `json:"student_id"`
	Source           string    `json:"source"`
	SourceID         string    `json:"source_id,omitempty"`
	DeltaHours       float64   `json:"delta_hours"`
	AccumulatedHours float64   `json:"accumulated_hours"`
	OccurredAt       time.Time `json:"occurred_at"`
}
