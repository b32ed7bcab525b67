package attendance

import "time"

type CheckInRequest struct {
	Room  string `json:"room" binding:"omitempty,max=100"`
	Shift string `json:"shift" binding:"required,max=20"`
}

type CheckOutRequest struct {
	EarlyDepartureReason *string `json:"early_departure_reason" binding:"omitempty,max=500"`
}

type ForceCheckOutRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// SweepRequest overrides the configured threshold and credit. Zero keeps the configured value.
type SweepRequest struct {
	ThresholdHours float64 `json:"threshold_hours" binding:"omitempty,gte=0"`
	CreditHours    float64 `json:"credit_hours" binding:"omitempty,gte=0"`
}

type AttendanceResponse struct {
	ID                   string   `json:"id"`
	StudentID            string   `json:"student_id"`
	StudentName          string   `json:"student_name,omitempty"`
	CheckIn              string   `json:"check_in"`
	CheckOut             *string  `json:"check_out"`
	Shift                string   `json:"shift"`
	Room                 string   `json:"room"`
	HoursWorked          *float64 `json:"hours_worked"`
	EarlyDepartureReason *string  `json:"early_departure_reason"`
	CloseSource          *string  `json:"close_source,omitempty"`
	Open                 bool     `json:"open"`
}

type CheckInResponse struct {
	Record     AttendanceResponse  `json:"record"`
	AutoClosed *AttendanceResponse `json:"auto_closed,omitempty"`
}

type CheckOutResponse struct {
	Record           AttendanceResponse `json:"record"`
	HoursWorked      float64            `json:"hours_worked"`
	Capped           bool               `json:"capped"`
	AccumulatedHours float64            `json:"accumulated_hours"`
}

type ActiveSessionResponse struct {
	Record                       AttendanceResponse `json:"record"`
	ElapsedHours                 float64            `json:"elapsed_hours"`
	MinSessionHours              float64            `json:"min_session_hours"`
	RequiresEarlyDepartureReason bool               `json:"requires_early_departure_reason"`
	WillBeCapped                 bool               `json:"will_be_capped"`
}

type SweepResponse struct {
	Pass   string `json:"pass"`
	Closed int    `json:"closed"`
}

type MaintenanceResponse struct {
	Capped      int    `json:"capped"`
	StaleClosed int    `json:"stale_closed"`
	RanAt       string `json:"ran_at"`
}

func mapToResponse(a AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                   a.ID.String(),
		StudentID:            a.StudentID.String(),
		CheckIn:              a.CheckIn.UTC().Format(time.RFC3339),
		Shift:                string(a.Shift),
		Room:                 a.Room,
		HoursWorked:          a.HoursWorked,
		EarlyDepartureReason: a.EarlyDepartureReason,
		CloseSource:          a.CloseSource,
		Open:                 a.IsOpen(),
	}
	if a.CheckOut != nil {
		v := a.CheckOut.UTC().Format(time.RFC3339)
		resp.CheckOut = &v
	}
	if a.Student != nil {
		resp.StudentName = a.Student.FullName
	}
	return resp
}

func mapToListResponse(rows []AttendanceRecord) []AttendanceResponse {
	out := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		out[i] = mapToResponse(r)
	}
	return out
}
