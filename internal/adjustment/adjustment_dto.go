package adjustment

import "time"

type AdjustHoursRequest struct {
	DeltaHours float64 `json:"delta_hours" binding:"required"`
	Reason     string  `json:"reason" binding:"required,max=500"`
}

type AdjustmentResponse struct {
	ID            string  `json:"id"`
	Reference     string  `json:"reference"`
	StudentID     string  `json:"student_id"`
	DeltaHours    float64 `json:"delta_hours"`
	Reason        string  `json:"reason"`
	PreviousHours float64 `json:"previous_hours"`
	NewHours      float64 `json:"new_hours"`
	CreatedBy     string  `json:"created_by,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type ReconcileResponse struct {
	StudentID       string  `json:"student_id"`
	PreviousHours   float64 `json:"previous_hours"`
	ClosedHours     float64 `json:"closed_hours"`
	AdjustmentHours float64 `json:"adjustment_hours"`
	RecomputedHours float64 `json:"recomputed_hours"`
	Drift           float64 `json:"drift"`
}

func mapToResponse(a HourAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:            a.ID.String(),
		Reference:     a.Reference,
		StudentID:     a.StudentID.String(),
		DeltaHours:    a.DeltaHours,
		Reason:        a.Reason,
		PreviousHours: a.PreviousHours,
		NewHours:      a.NewHours,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(rows []HourAdjustment) []AdjustmentResponse {
	out := make([]AdjustmentResponse, len(rows))
	for i, r := range rows {
		out[i] = mapToResponse(r)
	}
	return out
}
