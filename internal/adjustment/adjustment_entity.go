package adjustment

import (
	"time"

	"github.com/google/uuid"
)

// HourAdjustment is one ledger entry. Rows are append-only and drive reconciliation.
type HourAdjustment struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Reference     string    `gorm:"column:reference;type:varchar(32);uniqueIndex"`
	StudentID     uuid.UUID `gorm:"column:student_id;type:uuid;not null;index"`
	DeltaHours    float64   `gorm:"column:delta_hours;not null"`
	Reason        string    `gorm:"column:reason;type:text;not null"`
	PreviousHours float64   `gorm:"column:previous_hours;not null"`
	NewHours      float64   `gorm:"column:new_hours;not null"`
	CreatedBy     string    `gorm:"column:created_by;type:varchar(64)"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (HourAdjustment) TableName() string {
	return "hour_adjustments"
}

func (a HourAdjustment) Direction() string {
	if a.DeltaHours < 0 {
		return DirectionSubtract
	}
	return DirectionAdd
}

const (
	DirectionAdd      = "add"
	DirectionSubtract = "subtract"
)
