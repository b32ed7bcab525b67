package student

import "time"

type StudentResponse struct {
	ID               string     `json:"id"`
	FullName         string     `json:"full_name"`
	StudentType      string     `json:"student_type"`
	RequiredHours    float64    `json:"required_hours"`
	AccumulatedHours float64    `json:"accumulated_hours"`
	AssignedRoom     string     `json:"assigned_room"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type ProgressResponse struct {
	StudentID        string     `json:"student_id"`
	StudentType      string     `json:"student_type"`
	RequiredHours    float64    `json:"required_hours"`
	AccumulatedHours float64    `json:"accumulated_hours"`
	RemainingHours   float64    `json:"remaining_hours"`
	Percent          float64    `json:"percent"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

func mapToResponse(s Student) StudentResponse {
	return StudentResponse{
		ID:               s.ID.String(),
		FullName:         s.FullName,
		StudentType:      string(s.StudentType),
		RequiredHours:    s.RequiredHours,
		AccumulatedHours: s.AccumulatedHours,
		AssignedRoom:     s.AssignedRoom,
		CompletedAt:      s.CompletedAt,
	}
}

func mapToListResponse(list []Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(list))
	for _, s := range list {
		out = append(out, mapToResponse(s))
	}
	return out
}

func mapToProgress(s Student) ProgressResponse {
	percent := 100.0
	if s.RequiredHours > 0 {
		percent = s.AccumulatedHours / s.RequiredHours * 100
		if percent > 100 {
			percent = 100
		}
	}
	return ProgressResponse{
		StudentID:        s.ID.String(),
		StudentType:      string(s.StudentType),
		RequiredHours:    s.RequiredHours,
		AccumulatedHours: s.AccumulatedHours,
		RemainingHours:   s.RemainingHours(),
		Percent:          percent,
		Completed:        s.HasCompleted(),
		CompletedAt:      s.CompletedAt,
	}
}
