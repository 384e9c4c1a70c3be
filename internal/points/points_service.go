package points

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/audit"
	pointserrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/points/errors"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/settings"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeasonResetReason is the fixed void reason used by ResetSeason.
const SeasonResetReason = "Reset Season"

// LeaderboardCacheKey is invalidated on every ledger mutation so the cached
// all-time board never serves stale totals.
const LeaderboardCacheKey = "leaderboard:alltime"

//go:generate mockgen -source=points_service.go -destination=mock/points_service_mock.go -package=mock
type Service interface {
	AddPoints(ctx context.Context, actor string, req AddPointsRequest) (EntryResponse, error)
	Void(ctx context.Context, actor, id, reason string) (EntryResponse, error)
	Unvoid(ctx context.Context, actor, id string) (EntryResponse, error)
	ResetSeason(ctx context.Context, actor string) (ResetSeasonResponse, error)
	TotalForStudent(ctx context.Context, studentID string) (StudentTotalResponse, error)
	ListByStudent(ctx context.Context, studentID string, includeVoided bool) ([]EntryResponse, error)
}

type service struct {
	repo     Repository
	settings settings.Provider
	auditor  audit.Logger
	rdb      *redis.Client
	logger   *zap.Logger
}

// NewService builds the points engine. rdb may be nil; cache invalidation is
// then skipped.
func NewService(
	repo Repository,
	settingsProvider settings.Provider,
	auditor audit.Logger,
	rdb *redis.Client,
) Service {
	return &service{
		repo:     repo,
		settings: settingsProvider,
		auditor:  auditor,
		rdb:      rdb,
		logger:   zap.L().Named("points.service"),
	}
}

func (s *service) AddPoints(ctx context.Context, actor string, req AddPointsRequest) (EntryResponse, error) {
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return EntryResponse{}, pointserrors.ErrInvalidStudentID
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return EntryResponse{}, pointserrors.ErrMissingCategory
	}

	cat := ParseCategory(category, req.Points)
	if req.Kind != "" {
		cat.Kind = req.Kind
	}

	// The entry is dated with the caller's calendar day, not the created-at
	// timestamp.
	now := time.Now()
	today := dateOf(now)

	if cat.Kind == KindStandard {
		cfg, err := s.settings.Get(ctx)
		if err != nil {
			return EntryResponse{}, apperror.Collaborator(err, "store")
		}
		if !cfg.AllowDuplicatePoints {
			exists, err := s.repo.HasActiveOnDate(ctx, req.StudentID, category, today)
			if err != nil {
				return EntryResponse{}, apperror.Collaborator(err, "store")
			}
			if exists {
				return EntryResponse{}, pointserrors.DuplicateCategory(category)
			}
		}
	}

	entry := &LedgerEntry{
		ID:         uuid.New(),
		StudentID:  studentID,
		EntryDate:  today,
		Category:   category,
		Kind:       cat.Kind,
		Points:     req.Points,
		RecordedBy: actor,
		Notes:      req.Notes,
	}

	// Ledger write failures are fatal and surfaced to the caller.
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("ledger append failed",
			zap.String("student_id", req.StudentID),
			zap.String("category", category),
			zap.Error(err),
		)
		return EntryResponse{}, apperror.Collaborator(err, "store")
	}

	// Audit is best-effort only.
	s.auditor.Log(ctx, audit.Event{
		Kind:     audit.KindPointAdd,
		Actor:    actor,
		EntityID: entry.ID.String(),
		Payload: map[string]any{
			"student_id": req.StudentID,
			"category":   category,
			"points":     req.Points,
		},
	})

	s.invalidateLeaderboard(ctx)

	s.logger.Info("points awarded",
		zap.String("student_id", req.StudentID),
		zap.String("category", category),
		zap.String("kind", cat.Kind),
		zap.Int("points", req.Points),
		zap.String("actor", actor),
	)

	return mapToEntryResponse(*entry), nil
}

// Void soft-deletes an entry. Voiding an already-voided entry is harmless:
// totals only sum non-voided rows, so no double-negative counting is possible.
func (s *service) Void(ctx context.Context, actor, id, reason string) (EntryResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return EntryResponse{}, err
	}

	if err := s.repo.SetVoided(ctx, id, true, &reason); err != nil {
		return EntryResponse{}, apperror.Collaborator(err, "store")
	}
	entry.Voided = true
	entry.VoidReason = &reason

	s.auditor.Log(ctx, audit.Event{
		Kind:     audit.KindPointVoid,
		Actor:    actor,
		EntityID: id,
		Payload:  map[string]any{"reason": reason},
	})
	s.invalidateLeaderboard(ctx)

	return mapToEntryResponse(*entry), nil
}

// Unvoid restores a voided entry's contribution to the student's total.
func (s *service) Unvoid(ctx context.Context, actor, id string) (EntryResponse, error) {
	entry, err := s.findEntry(ctx, id)
	if err != nil {
		return EntryResponse{}, err
	}

	if err := s.repo.SetVoided(ctx, id, false, nil); err != nil {
		return EntryResponse{}, apperror.Collaborator(err, "store")
	}
	entry.Voided = false
	entry.VoidReason = nil

	s.auditor.Log(ctx, audit.Event{
		Kind:     audit.KindPointUnvoid,
		Actor:    actor,
		EntityID: id,
	})
	s.invalidateLeaderboard(ctx)

	return mapToEntryResponse(*entry), nil
}

// ResetSeason bulk-voids every active entry. History stays for audit; every
// visible balance drops to zero.
func (s *service) ResetSeason(ctx context.Context, actor string) (ResetSeasonResponse, error) {
	count, err := s.repo.VoidAllActive(ctx, SeasonResetReason)
	if err != nil {
		s.logger.Error("reset season failed", zap.Error(err))
		return ResetSeasonResponse{}, apperror.Collaborator(err, "store")
	}

	s.auditor.Log(ctx, audit.Event{
		Kind:    audit.KindSeasonReset,
		Actor:   actor,
		Payload: map[string]any{"voided_entries": count},
	})
	s.invalidateLeaderboard(ctx)

	s.logger.Info("season reset", zap.String("actor", actor), zap.Int64("voided_entries", count))
	return ResetSeasonResponse{VoidedEntries: count}, nil
}

func (s *service) TotalForStudent(ctx context.Context, studentID string) (StudentTotalResponse, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return StudentTotalResponse{}, pointserrors.ErrInvalidStudentID
	}

	total, err := s.repo.SumActiveByStudent(ctx, studentID)
	if err != nil {
		return StudentTotalResponse{}, apperror.Collaborator(err, "store")
	}
	return StudentTotalResponse{StudentID: studentID, TotalPoints: total}, nil
}

func (s *service) ListByStudent(ctx context.Context, studentID string, includeVoided bool) ([]EntryResponse, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return nil, pointserrors.ErrInvalidStudentID
	}

	rows, err := s.repo.ListByStudent(ctx, studentID, includeVoided)
	if err != nil {
		return nil, apperror.Collaborator(err, "store")
	}

	res := make([]EntryResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToEntryResponse(r)
	}
	return res, nil
}

func (s *service) findEntry(ctx context.Context, id string) (*LedgerEntry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, pointserrors.ErrEntryNotFound
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pointserrors.ErrEntryNotFound
		}
		return nil, apperror.Collaborator(err, "store")
	}
	return entry, nil
}

func (s *service) invalidateLeaderboard(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, LeaderboardCacheKey).Err(); err != nil {
		s.logger.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

func mapToEntryResponse(e LedgerEntry) EntryResponse {
	resp := EntryResponse{
		ID:         e.ID.String(),
		StudentID:  e.StudentID.String(),
		EntryDate:  e.EntryDate.Format("2006-01-02"),
		Category:   e.Category,
		Kind:       e.Kind,
		Points:     e.Points,
		RecordedBy: e.RecordedBy,
		Notes:      e.Notes,
		Voided:     e.Voided,
		VoidReason: e.VoidReason,
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// dateOf truncates t to its calendar day in the caller's location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
