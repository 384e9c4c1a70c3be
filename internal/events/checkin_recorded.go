package events

import "time"

const CheckInRecordedTopic = "ministry.attendance.checkin.v1"

type CheckInRecordedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	SessionID   string    `json:"session_id"`
	StudentID   string    `json:"student_id"`
	SessionDate string    `json:"session_date"`
	CheckedInBy string    `json:"checked_in_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
