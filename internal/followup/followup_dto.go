package followup

type ResolveRequest struct {
	Note string `json:"note" binding:"required"`
}

type AssignRequest struct {
	AssignedTo string `json:"assigned_to" binding:"required"`
}

type FollowUpResponse struct {
	ID              string  `json:"id"`
	StudentID       string  `json:"student_id"`
	StudentName     string  `json:"student_name"`
	AgeGroup        string  `json:"age_group,omitempty"`
	GuardianContact string  `json:"guardian_contact,omitempty"`
	Reason          string  `json:"reason"`
	Priority        string  `json:"priority"`
	Status          string  `json:"status"`
	Notes           string  `json:"notes,omitempty"`
	AssignedTo      string  `json:"assigned_to,omitempty"`
	ResolvedBy      string  `json:"resolved_by,omitempty"`
	ResolvedAt      *string `json:"resolved_at,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
}
