package leaderboard

// Filter narrows the board. Month is 1-12 and only applies together with Year.
type Filter struct {
	AgeGroup string
	Month    int
	Year     int
}

// IsAllTime reports whether the filter selects the cacheable default board.
func (f Filter) IsAllTime() bool {
	return f.AgeGroup == "" && f.Month == 0 && f.Year == 0
}

type Entry struct {
	Rank          int     `json:"rank"`
	StudentID     string  `json:"student_id"`
	FullName      string  `json:"full_name"`
	AgeGroup      string  `json:"age_group"`
	TotalPoints   int     `json:"total_points"`
	LastPointDate *string `json:"last_point_date,omitempty"`
}

type BoardResponse struct {
	Entries []Entry `json:"entries"`
}

type RankResponse struct {
	StudentID   string `json:"student_id"`
	Rank        int    `json:"rank"`
	OutOf       int    `json:"out_of"`
	TotalPoints int    `json:"total_points"`
}
