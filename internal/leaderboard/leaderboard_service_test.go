package leaderboard

import (
	"context"
	"testing"
	"time"

	studenterrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/student/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	aggregateTotalsFn func(ctx context.Context, f Filter) ([]Row, error)
}

func (f *fakeRepo) AggregateTotals(ctx context.Context, filter Filter) ([]Row, error) {
	return f.aggregateTotalsFn(ctx, filter)
}

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestBoard_OrdersByTotalThenRecencyThenName(t *testing.T) {
	rows := []Row{
		{StudentID: uuid.NewString(), FullName: "zoe", TotalPoints: 40, LastPointDate: day("2026-08-01")},
		{StudentID: uuid.NewString(), FullName: "Aaron", TotalPoints: 40, LastPointDate: day("2026-08-15")},
		{StudentID: uuid.NewString(), FullName: "Caleb", TotalPoints: 40, LastPointDate: day("2026-08-15")},
		{StudentID: uuid.NewString(), FullName: "bella", TotalPoints: 40, LastPointDate: day("2026-08-15")},
		{StudentID: uuid.NewString(), FullName: "Noah", TotalPoints: 90, LastPointDate: day("2026-07-01")},
	}
	repo := &fakeRepo{aggregateTotalsFn: func(ctx context.Context, f Filter) ([]Row, error) {
		return rows, nil
	}}
	svc := NewService(repo, nil)

	board, err := svc.Board(context.Background(), Filter{})
	assert.NoError(t, err)
	assert.Len(t, board.Entries, 5)

	names := make([]string, len(board.Entries))
	for i, e := range board.Entries {
		names[i] = e.FullName
		assert.Equal(t, i+1, e.Rank)
	}
	// Highest total first, then latest point date, then case-insensitive name.
	assert.Equal(t, []string{"Noah", "Aaron", "bella", "Caleb", "zoe"}, names)
}

func TestBoard_NeverScoredSortsAfterDatedAtSameTotal(t *testing.T) {
	rows := []Row{
		{StudentID: uuid.NewString(), FullName: "Ada", TotalPoints: 0, LastPointDate: nil},
		{StudentID: uuid.NewString(), FullName: "Ben", TotalPoints: 0, LastPointDate: day("2026-08-10")},
	}
	repo := &fakeRepo{aggregateTotalsFn: func(ctx context.Context, f Filter) ([]Row, error) {
		return rows, nil
	}}
	svc := NewService(repo, nil)

	board, err := svc.Board(context.Background(), Filter{})
	assert.NoError(t, err)
	assert.Equal(t, "Ben", board.Entries[0].FullName)
	assert.Equal(t, "Ada", board.Entries[1].FullName)
	assert.Nil(t, board.Entries[1].LastPointDate)
}

func TestBoard_FilterPassedThrough(t *testing.T) {
	var got Filter
	repo := &fakeRepo{aggregateTotalsFn: func(ctx context.Context, f Filter) ([]Row, error) {
		got = f
		return nil, nil
	}}
	svc := NewService(repo, nil)

	_, err := svc.Board(context.Background(), Filter{AgeGroup: "7-9", Month: 8, Year: 2026})
	assert.NoError(t, err)
	assert.Equal(t, "7-9", got.AgeGroup)
	assert.Equal(t, 8, got.Month)
	assert.Equal(t, 2026, got.Year)
}

func TestStudentRank(t *testing.T) {
	first := uuid.NewString()
	second := uuid.NewString()
	rows := []Row{
		{StudentID: first, FullName: "Noah", TotalPoints: 90, LastPointDate: day("2026-08-01")},
		{StudentID: second, FullName: "Ada", TotalPoints: 40, LastPointDate: day("2026-08-01")},
	}
	repo := &fakeRepo{aggregateTotalsFn: func(ctx context.Context, f Filter) ([]Row, error) {
		return rows, nil
	}}
	svc := NewService(repo, nil)

	rank, err := svc.StudentRank(context.Background(), second)
	assert.NoError(t, err)
	assert.Equal(t, 2, rank.Rank)
	assert.Equal(t, 2, rank.OutOf)
	assert.Equal(t, 40, rank.TotalPoints)

	_, err = svc.StudentRank(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, studenterrors.ErrStudentNotFound)

	_, err = svc.StudentRank(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, studenterrors.ErrInvalidStudentID)
}
