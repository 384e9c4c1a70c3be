package fairness

import (
	"context"
	"sort"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"

	"go.uber.org/zap"
)

// FlagRatio marks a student whose point total is at or below this fraction of
// the class average.
const FlagRatio = 0.5

//go:generate mockgen -source=fairness_service.go -destination=mock/fairness_service_mock.go -package=mock
type Service interface {
	TeacherActivity(ctx context.Context, f Filter) ([]TeacherActivityResponse, error)
	BelowAverage(ctx context.Context, f Filter) (BelowAverageResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo:   repo,
		logger: zap.L().Named("fairness.service"),
	}
}

func (s *service) TeacherActivity(ctx context.Context, f Filter) ([]TeacherActivityResponse, error) {
	rows, err := s.repo.TeacherActivity(ctx, f)
	if err != nil {
		return nil, apperror.Collaborator(err, "store")
	}

	res := make([]TeacherActivityResponse, len(rows))
	for i, r := range rows {
		res[i] = TeacherActivityResponse{
			Teacher:          r.Teacher,
			TotalPoints:      r.TotalPoints,
			DistinctStudents: r.DistinctStudents,
			EntryCount:       r.EntryCount,
		}
	}
	return res, nil
}

// BelowAverage flags students whose total in the window sits at or below half
// the class average, so leaders can see who is being left behind. An all-zero
// (or empty) class flags nobody; a quiet week is not a fairness problem.
func (s *service) BelowAverage(ctx context.Context, f Filter) (BelowAverageResponse, error) {
	rows, err := s.repo.StudentTotals(ctx, f)
	if err != nil {
		return BelowAverageResponse{}, apperror.Collaborator(err, "store")
	}

	resp := BelowAverageResponse{Flagged: []FlaggedStudentResponse{}}
	if len(rows) == 0 {
		return resp, nil
	}

	total := 0
	for _, r := range rows {
		total += r.TotalPoints
	}
	avg := float64(total) / float64(len(rows))
	resp.AveragePoints = avg
	resp.Threshold = avg * FlagRatio

	if avg == 0 {
		return resp, nil
	}

	for _, r := range rows {
		if float64(r.TotalPoints) <= resp.Threshold {
			resp.Flagged = append(resp.Flagged, FlaggedStudentResponse{
				StudentID:   r.StudentID,
				FullName:    r.FullName,
				AgeGroup:    r.AgeGroup,
				TotalPoints: r.TotalPoints,
				Threshold:   resp.Threshold,
			})
		}
	}

	// Lowest totals first so the most left-behind students lead the list.
	sort.Slice(resp.Flagged, func(i, j int) bool {
		if resp.Flagged[i].TotalPoints != resp.Flagged[j].TotalPoints {
			return resp.Flagged[i].TotalPoints < resp.Flagged[j].TotalPoints
		}
		return resp.Flagged[i].FullName < resp.Flagged[j].FullName
	})

	return resp, nil
}
