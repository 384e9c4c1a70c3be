package fairness

type TeacherActivityResponse struct {
	Teacher          string `json:"teacher"`
	TotalPoints      int    `json:"total_points"`
	DistinctStudents int    `json:"distinct_students"`
	EntryCount       int    `json:"entry_count"`
}

type FlaggedStudentResponse struct {
	StudentID   string  `json:"student_id"`
	FullName    string  `json:"full_name"`
	AgeGroup    string  `json:"age_group"`
	TotalPoints int     `json:"total_points"`
	Threshold   float64 `json:"threshold"`
}

type BelowAverageResponse struct {
	AveragePoints float64                  `json:"average_points"`
	Threshold     float64                  `json:"threshold"`
	Flagged       []FlaggedStudentResponse `json:"flagged"`
}
