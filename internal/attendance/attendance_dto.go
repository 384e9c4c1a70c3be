package attendance

type CheckInRequest struct {
	StudentID string `json:"student_id"`
	AccessKey string `json:"access_key"`
}

type CheckOutRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}

type SessionResponse struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	SessionDate  string  `json:"session_date"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	CheckoutMode string  `json:"checkout_mode,omitempty"`
	Status       string  `json:"status"`
	CheckedInBy  string  `json:"checked_in_by"`
	CheckedOutBy string  `json:"checked_out_by,omitempty"`
}

type AutoCheckoutResponse struct {
	ClosedSessions int `json:"closed_sessions"`
}

type SweepResponse struct {
	AbsentCount int `json:"absent_count"`
	FrozenCount int `json:"frozen_count"`
}
