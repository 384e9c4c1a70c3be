package portal

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/attendance"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/leaderboard"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/points"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/student"
	studenterrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/student/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeStudents struct {
	byKey map[string]*student.Student
}

func (f *fakeStudents) WithTx(tx *sql.Tx) student.Repository { return f }
func (f *fakeStudents) Create(ctx context.Context, s *student.Student) error {
	return nil
}
func (f *fakeStudents) FindByID(ctx context.Context, id string) (*student.Student, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeStudents) FindByAccessKey(ctx context.Context, accessKey string) (*student.Student, error) {
	if s, ok := f.byKey[accessKey]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeStudents) FindAll(ctx context.Context, filter student.ListFilter) ([]student.Student, error) {
	return nil, nil
}
func (f *fakeStudents) FindEnrolled(ctx context.Context) ([]student.Student, error) {
	return nil, nil
}
func (f *fakeStudents) FindActive(ctx context.Context) ([]student.Student, error) {
	return nil, nil
}
func (f *fakeStudents) Update(ctx context.Context, s *student.Student) error { return nil }
func (f *fakeStudents) UpdateAbsences(ctx context.Context, id string, absences int, status string) error {
	return nil
}
func (f *fakeStudents) ResetAbsences(ctx context.Context, id string) error { return nil }
func (f *fakeStudents) Delete(ctx context.Context, id string) error        { return nil }

type fakePoints struct {
	totalFn func(ctx context.Context, studentID string) (points.StudentTotalResponse, error)
	listFn  func(ctx context.Context, studentID string, includeVoided bool) ([]points.EntryResponse, error)
}

func (f *fakePoints) AddPoints(ctx context.Context, actor string, req points.AddPointsRequest) (points.EntryResponse, error) {
	return points.EntryResponse{}, nil
}
func (f *fakePoints) Void(ctx context.Context, actor, id, reason string) (points.EntryResponse, error) {
	return points.EntryResponse{}, nil
}
func (f *fakePoints) Unvoid(ctx context.Context, actor, id string) (points.EntryResponse, error) {
	return points.EntryResponse{}, nil
}
func (f *fakePoints) ResetSeason(ctx context.Context, actor string) (points.ResetSeasonResponse, error) {
	return points.ResetSeasonResponse{}, nil
}
func (f *fakePoints) TotalForStudent(ctx context.Context, studentID string) (points.StudentTotalResponse, error) {
	return f.totalFn(ctx, studentID)
}
func (f *fakePoints) ListByStudent(ctx context.Context, studentID string, includeVoided bool) ([]points.EntryResponse, error) {
	return f.listFn(ctx, studentID, includeVoided)
}

type fakeLeaderboard struct {
	rankFn func(ctx context.Context, studentID string) (leaderboard.RankResponse, error)
}

func (f *fakeLeaderboard) Board(ctx context.Context, filter leaderboard.Filter) (leaderboard.BoardResponse, error) {
	return leaderboard.BoardResponse{}, nil
}
func (f *fakeLeaderboard) StudentRank(ctx context.Context, studentID string) (leaderboard.RankResponse, error) {
	return f.rankFn(ctx, studentID)
}

type fakeAttendance struct {
	listFn func(ctx context.Context, studentID string, limit int) ([]attendance.SessionResponse, error)
}

func (f *fakeAttendance) CheckIn(ctx context.Context, actor, studentID string) (attendance.SessionResponse, error) {
	return attendance.SessionResponse{}, nil
}
func (f *fakeAttendance) CheckInByAccessKey(ctx context.Context, actor, accessKey string) (attendance.SessionResponse, error) {
	return attendance.SessionResponse{}, nil
}
func (f *fakeAttendance) CheckOut(ctx context.Context, actor, studentID string) (attendance.SessionResponse, error) {
	return attendance.SessionResponse{}, nil
}
func (f *fakeAttendance) RunAutoCheckout(ctx context.Context) (attendance.AutoCheckoutResponse, error) {
	return attendance.AutoCheckoutResponse{}, nil
}
func (f *fakeAttendance) RunAbsenceSweep(ctx context.Context, actor string) (attendance.SweepResponse, error) {
	return attendance.SweepResponse{}, nil
}
func (f *fakeAttendance) ListForStudent(ctx context.Context, studentID string, limit int) ([]attendance.SessionResponse, error) {
	return f.listFn(ctx, studentID, limit)
}

func TestProfile(t *testing.T) {
	st := &student.Student{
		ID:        uuid.New(),
		AccessKey: "KK-2026-007",
		FullName:  "Naomi Carter",
		AgeGroup:  student.AgeGroup7to9,
		Status:    student.StatusActive,
	}
	students := &fakeStudents{byKey: map[string]*student.Student{st.AccessKey: st}}

	pointsSvc := &fakePoints{
		totalFn: func(ctx context.Context, studentID string) (points.StudentTotalResponse, error) {
			return points.StudentTotalResponse{StudentID: studentID, TotalPoints: 85}, nil
		},
		listFn: func(ctx context.Context, studentID string, includeVoided bool) ([]points.EntryResponse, error) {
			assert.False(t, includeVoided)
			entries := make([]points.EntryResponse, 15)
			for i := range entries {
				entries[i] = points.EntryResponse{ID: uuid.NewString(), Points: 5}
			}
			return entries, nil
		},
	}
	board := &fakeLeaderboard{
		rankFn: func(ctx context.Context, studentID string) (leaderboard.RankResponse, error) {
			return leaderboard.RankResponse{StudentID: studentID, Rank: 3, OutOf: 20, TotalPoints: 85}, nil
		},
	}
	sessions := &fakeAttendance{
		listFn: func(ctx context.Context, studentID string, limit int) ([]attendance.SessionResponse, error) {
			assert.Equal(t, recentSessionsLimit, limit)
			return []attendance.SessionResponse{{ID: uuid.NewString()}}, nil
		},
	}

	svc := NewService(students, pointsSvc, board, sessions, nil)

	resp, err := svc.Profile(context.Background(), " KK-2026-007 ")
	assert.NoError(t, err)
	assert.Equal(t, "Naomi Carter", resp.FullName)
	assert.Equal(t, 85, resp.TotalPoints)
	assert.Equal(t, 3, resp.Rank)
	assert.Equal(t, 20, resp.OutOf)
	assert.Len(t, resp.RecentPoints, recentPointsLimit)
	assert.Len(t, resp.RecentSessions, 1)
}

func TestProfile_RankFailureIsNotFatal(t *testing.T) {
	st := &student.Student{
		ID:        uuid.New(),
		AccessKey: "KK-2026-007",
		FullName:  "Naomi Carter",
		AgeGroup:  student.AgeGroup7to9,
		Status:    student.StatusActive,
	}
	students := &fakeStudents{byKey: map[string]*student.Student{st.AccessKey: st}}

	pointsSvc := &fakePoints{
		totalFn: func(ctx context.Context, studentID string) (points.StudentTotalResponse, error) {
			return points.StudentTotalResponse{TotalPoints: 10}, nil
		},
		listFn: func(ctx context.Context, studentID string, includeVoided bool) ([]points.EntryResponse, error) {
			return nil, nil
		},
	}
	board := &fakeLeaderboard{
		rankFn: func(ctx context.Context, studentID string) (leaderboard.RankResponse, error) {
			return leaderboard.RankResponse{}, errors.New("cache down")
		},
	}
	sessions := &fakeAttendance{
		listFn: func(ctx context.Context, studentID string, limit int) ([]attendance.SessionResponse, error) {
			return nil, nil
		},
	}

	svc := NewService(students, pointsSvc, board, sessions, nil)

	resp, err := svc.Profile(context.Background(), st.AccessKey)
	assert.NoError(t, err)
	assert.Equal(t, 10, resp.TotalPoints)
	assert.Zero(t, resp.Rank)
}

func TestProfile_UnknownAccessKey(t *testing.T) {
	svc := NewService(&fakeStudents{byKey: map[string]*student.Student{}}, &fakePoints{}, &fakeLeaderboard{}, &fakeAttendance{}, nil)

	_, err := svc.Profile(context.Background(), "KK-1999-404")
	assert.ErrorIs(t, err, studenterrors.ErrAccessKeyNotFound)

	_, err = svc.Profile(context.Background(), "   ")
	assert.ErrorIs(t, err, studenterrors.ErrAccessKeyNotFound)
}

func TestStory_UnavailableWithoutClient(t *testing.T) {
	st := &student.Student{
		ID:        uuid.New(),
		AccessKey: "KK-2026-007",
		FullName:  "Naomi Carter",
		AgeGroup:  student.AgeGroup7to9,
	}
	svc := NewService(&fakeStudents{byKey: map[string]*student.Student{st.AccessKey: st}}, &fakePoints{}, &fakeLeaderboard{}, &fakeAttendance{}, nil)

	_, err := svc.Story(context.Background(), st.AccessKey)
	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeServiceUnavailable, appErr.Code)
	assert.Equal(t, 503, appErr.HTTPStatus)
}
