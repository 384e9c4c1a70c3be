package events

import "time"

const StudentFrozenTopic = "ministry.student.frozen.v1"

// StudentFrozenEvent fires when the absence sweep pushes a student over the
// consecutive-absence limit. The follow-up consumer turns it into a
// high-priority follow-up queue entry.
type StudentFrozenEvent struct {
	EventType           string    `json:"event_type"`
	RequestID           string    `json:"request_id,omitempty"`
	StudentID           string    `json:"student_id"`
	FullName            string    `json:"full_name"`
	AgeGroup            string    `json:"age_group"`
	GuardianContact     string    `json:"guardian_contact,omitempty"`
	ConsecutiveAbsences int       `json:"consecutive_absences"`
	OccurredAt          time.Time `json:"occurred_at"`
}
