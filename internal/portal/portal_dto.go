package portal

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/attendance"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/points"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/storyclient"
)

type ProfileResponse struct {
	StudentID           string                       `json:"student_id"`
	FullName            string                       `json:"full_name"`
	AgeGroup            string                       `json:"age_group"`
	Status              string                       `json:"status"`
	ConsecutiveAbsences int                          `json:"consecutive_absences"`
	TotalPoints         int                          `json:"total_points"`
	Rank                int                          `json:"rank"`
	OutOf               int                          `json:"out_of"`
	RecentPoints        []points.EntryResponse       `json:"recent_points"`
	RecentSessions      []attendance.SessionResponse `json:"recent_sessions"`
	Advice              string                       `json:"advice,omitempty"`
}

type StoryResponse struct {
	StudentName string            `json:"student_name"`
	Story       storyclient.Story `json:"story"`
}
