package student

import (
	"time"

	"github.com/google/uuid"
)

type StudentType string

const (
	StudentTypeService    StudentType = "service"
	StudentTypeInternship StudentType = "internship"
)

type Student struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName         string
	StudentType      StudentType `gorm:"type:varchar(20)"`
	RequiredHours    float64
	AccumulatedHours float64
	AssignedRoom     string
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Student) TableName() string {
	return "students"
}

// RemainingHours never goes below zero.
func (s Student) RemainingHours() float64 {
	if rem := s.RequiredHours - s.AccumulatedHours; rem > 0 {
		return rem
	}
	return 0
}

func (s Student) HasCompleted() bool {
	return s.RequiredHours > 0 && s.AccumulatedHours >= s.RequiredHours
}
