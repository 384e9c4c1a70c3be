package points

type AddPointsRequest struct {
	StudentID string  `json:"student_id" binding:"required,uuid"`
	Category  string  `json:"category" binding:"required"`
	Points    int     `json:"points"`
	Notes     *string `json:"notes"`
	// Kind overrides the derived category kind. Used by the adjustment
	// stack so a redo of a standard award goes through the manual path.
	Kind string `json:"-"`
}

type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type EntryResponse struct {
	ID         string  `json:"id"`
	StudentID  string  `json:"student_id"`
	EntryDate  string  `json:"entry_date"`
	Category   string  `json:"category"`
	Kind       string  `json:"kind"`
	Points     int     `json:"points"`
	RecordedBy string  `json:"recorded_by"`
	Notes      *string `json:"notes,omitempty"`
	Voided     bool    `json:"voided"`
	VoidReason *string `json:"void_reason,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type StudentTotalResponse struct {
	StudentID   string `json:"student_id"`
	TotalPoints int    `json:"total_points"`
}

type ResetSeasonResponse struct {
	VoidedEntries int64 `json:"voided_entries"`
}
