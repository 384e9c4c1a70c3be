package portal

import (
	"context"
	"errors"
	"strings"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/attendance"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/leaderboard"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/points"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/storyclient"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/student"
	studenterrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/student/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	recentPointsLimit   = 10
	recentSessionsLimit = 10
)

//go:generate mockgen -source=portal_service.go -destination=mock/portal_service_mock.go -package=mock
type Service interface {
	Profile(ctx context.Context, accessKey string) (ProfileResponse, error)
	Story(ctx context.Context, accessKey string) (StoryResponse, error)
}

type service struct {
	students    student.Repository
	points      points.Service
	leaderboard leaderboard.Service
	attendance  attendance.Service
	stories     *storyclient.Client
	logger      *zap.Logger
}

// NewService assembles the guardian-facing read model. stories may be nil;
// advice and bedtime stories are then omitted.
func NewService(
	students student.Repository,
	pointsService points.Service,
	leaderboardService leaderboard.Service,
	attendanceService attendance.Service,
	stories *storyclient.Client,
) Service {
	return &service{
		students:    students,
		points:      pointsService,
		leaderboard: leaderboardService,
		attendance:  attendanceService,
		stories:     stories,
		logger:      zap.L().Named("portal.service"),
	}
}

// Profile is everything a guardian sees after entering the child's access
// key: identity, points, rank and recent activity. The advice line is
// best-effort; the profile never fails because the text service is down.
func (s *service) Profile(ctx context.Context, accessKey string) (ProfileResponse, error) {
	st, err := s.findStudent(ctx, accessKey)
	if err != nil {
		return ProfileResponse{}, err
	}
	id := st.ID.String()

	total, err := s.points.TotalForStudent(ctx, id)
	if err != nil {
		return ProfileResponse{}, err
	}

	resp := ProfileResponse{
		StudentID:           id,
		FullName:            st.FullName,
		AgeGroup:            st.AgeGroup,
		Status:              st.Status,
		ConsecutiveAbsences: st.ConsecutiveAbsences,
		TotalPoints:         total.TotalPoints,
	}

	if rank, err := s.leaderboard.StudentRank(ctx, id); err == nil {
		resp.Rank = rank.Rank
		resp.OutOf = rank.OutOf
	} else {
		s.logger.Warn("portal rank lookup failed", zap.String("student_id", id), zap.Error(err))
	}

	if entries, err := s.points.ListByStudent(ctx, id, false); err == nil {
		if len(entries) > recentPointsLimit {
			entries = entries[:recentPointsLimit]
		}
		resp.RecentPoints = entries
	} else {
		s.logger.Warn("portal points lookup failed", zap.String("student_id", id), zap.Error(err))
	}

	if sessions, err := s.attendance.ListForStudent(ctx, id, recentSessionsLimit); err == nil {
		resp.RecentSessions = sessions
	} else {
		s.logger.Warn("portal sessions lookup failed", zap.String("student_id", id), zap.Error(err))
	}

	if s.stories != nil {
		advice, err := s.stories.Advice(ctx, storyclient.AdviceRequest{
			Name:     st.FullName,
			AgeGroup: st.AgeGroup,
			Points:   resp.TotalPoints,
			Rank:     resp.Rank,
		})
		if err != nil {
			s.logger.Warn("portal advice failed", zap.String("student_id", id), zap.Error(err))
		} else {
			resp.Advice = advice
		}
	}

	return resp, nil
}

func (s *service) Story(ctx context.Context, accessKey string) (StoryResponse, error) {
	st, err := s.findStudent(ctx, accessKey)
	if err != nil {
		return StoryResponse{}, err
	}

	if s.stories == nil {
		return StoryResponse{}, apperror.New(
			apperror.CodeServiceUnavailable,
			"Story service is not available",
			503,
		)
	}

	story, err := s.stories.Story(ctx, st.FullName, st.AgeGroup)
	if err != nil {
		return StoryResponse{}, apperror.Collaborator(err, "story service")
	}

	return StoryResponse{StudentName: st.FullName, Story: story}, nil
}

func (s *service) findStudent(ctx context.Context, accessKey string) (*student.Student, error) {
	accessKey = strings.TrimSpace(accessKey)
	if accessKey == "" {
		return nil, studenterrors.ErrAccessKeyNotFound
	}

	st, err := s.students.FindByAccessKey(ctx, accessKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, studenterrors.ErrAccessKeyNotFound
		}
		return nil, apperror.Collaborator(err, "store")
	}
	return st, nil
}
