package leaderboard

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	pointsledger "github.com/digitalmerch4862/KingdomKids-sub000/internal/points"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
	studenterrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/student/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const cacheTTL = 5 * time.Minute

//go:generate mockgen -source=leaderboard_service.go -destination=mock/leaderboard_service_mock.go -package=mock
type Service interface {
	Board(ctx context.Context, f Filter) (BoardResponse, error)
	StudentRank(ctx context.Context, studentID string) (RankResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

// NewService builds the leaderboard. rdb may be nil; the all-time board is
// then recomputed on every request.
func NewService(repo Repository, rdb *redis.Client) Service {
	return &service{
		repo:   repo,
		rdb:    rdb,
		logger: zap.L().Named("leaderboard.service"),
	}
}

func (s *service) Board(ctx context.Context, f Filter) (BoardResponse, error) {
	if !f.IsAllTime() {
		return s.compute(ctx, f)
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, pointsledger.LeaderboardCacheKey).Bytes(); err == nil {
			var resp BoardResponse
			if json.Unmarshal(cached, &resp) == nil {
				return resp, nil
			}
		}
	}

	// Collapse concurrent rebuilds of the cold all-time board.
	v, err, _ := s.group.Do(pointsledger.LeaderboardCacheKey, func() (any, error) {
		resp, err := s.compute(ctx, f)
		if err != nil {
			return BoardResponse{}, err
		}
		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				if setErr := s.rdb.Set(ctx, pointsledger.LeaderboardCacheKey, payload, cacheTTL).Err(); setErr != nil {
					s.logger.Warn("leaderboard cache write failed", zap.Error(setErr))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return BoardResponse{}, err
	}
	return v.(BoardResponse), nil
}

func (s *service) StudentRank(ctx context.Context, studentID string) (RankResponse, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return RankResponse{}, studenterrors.ErrInvalidStudentID
	}

	board, err := s.Board(ctx, Filter{})
	if err != nil {
		return RankResponse{}, err
	}

	for _, e := range board.Entries {
		if e.StudentID == studentID {
			return RankResponse{
				StudentID:   studentID,
				Rank:        e.Rank,
				OutOf:       len(board.Entries),
				TotalPoints: e.TotalPoints,
			}, nil
		}
	}
	return RankResponse{}, studenterrors.ErrStudentNotFound
}

func (s *service) compute(ctx context.Context, f Filter) (BoardResponse, error) {
	rows, err := s.repo.AggregateTotals(ctx, f)
	if err != nil {
		return BoardResponse{}, apperror.Collaborator(err, "store")
	}

	rankRows(rows)

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		e := Entry{
			Rank:        i + 1,
			StudentID:   r.StudentID,
			FullName:    r.FullName,
			AgeGroup:    r.AgeGroup,
			TotalPoints: r.TotalPoints,
		}
		if r.LastPointDate != nil {
			v := r.LastPointDate.Format("2006-01-02")
			e.LastPointDate = &v
		}
		entries[i] = e
	}
	return BoardResponse{Entries: entries}, nil
}

// rankRows orders by total descending, then most recent point date, then
// locale-collated name. Students who never earned a point sort after anyone
// with a dated entry at the same total.
func rankRows(rows []Row) {
	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		switch {
		case a.LastPointDate != nil && b.LastPointDate != nil:
			if !a.LastPointDate.Equal(*b.LastPointDate) {
				return a.LastPointDate.After(*b.LastPointDate)
			}
		case a.LastPointDate != nil:
			return true
		case b.LastPointDate != nil:
			return false
		}
		return coll.CompareString(a.FullName, b.FullName) < 0
	})
}
