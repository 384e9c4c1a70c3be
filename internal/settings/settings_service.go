package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	settingserrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/settings/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provider is the narrow read interface the engines depend on.
type Provider interface {
	Get(ctx context.Context) (Settings, error)
}

//go:generate mockgen -source=settings_service.go -destination=mock/settings_service_mock.go -package=mock
type Service interface {
	Provider
	Refresh(ctx context.Context) (Settings, error)
	Update(ctx context.Context, actor string, req UpdateSettingsRequest) (SettingsResponse, error)
	Describe(ctx context.Context) (SettingsResponse, error)
}

type service struct {
	repo   Repository
	ttl    time.Duration
	logger *zap.Logger

	mu        sync.RWMutex
	cached    Settings
	fetchedAt time.Time
}

// NewService caches the settings row for ttl so engines do not hit the store
// on every call. Pass ttl <= 0 for the 30s default.
func NewService(repo Repository, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &service{
		repo:   repo,
		ttl:    ttl,
		logger: zap.L().Named("settings.service"),
	}
}

func (s *service) Get(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	fresh := !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.ttl
	cached := s.cached
	s.mu.RUnlock()

	if fresh {
		return cached, nil
	}
	return s.Refresh(ctx)
}

func (s *service) Refresh(ctx context.Context) (Settings, error) {
	m, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No row yet: serve defaults and seed the table lazily.
			defaults := Defaults()
			seed := &Model{
				MatchThreshold:       defaults.MatchThreshold,
				AutoCheckoutTime:     defaults.AutoCheckoutTime,
				AllowDuplicatePoints: defaults.AllowDuplicatePoints,
				UpdatedBy:            "SYSTEM",
			}
			if saveErr := s.repo.Save(ctx, seed); saveErr != nil {
				s.logger.Warn("seed default settings failed", zap.Error(saveErr))
			}
			s.store(defaults)
			return defaults, nil
		}
		s.logger.Error("load settings failed", zap.Error(err))
		return Settings{}, err
	}

	snap := Settings{
		MatchThreshold:       m.MatchThreshold,
		AutoCheckoutTime:     m.AutoCheckoutTime,
		AllowDuplicatePoints: m.AllowDuplicatePoints,
	}
	s.store(snap)
	return snap, nil
}

func (s *service) Update(ctx context.Context, actor string, req UpdateSettingsRequest) (SettingsResponse, error) {
	current, err := s.Refresh(ctx)
	if err != nil {
		return SettingsResponse{}, err
	}

	m := &Model{
		MatchThreshold:       current.MatchThreshold,
		AutoCheckoutTime:     current.AutoCheckoutTime,
		AllowDuplicatePoints: current.AllowDuplicatePoints,
		UpdatedBy:            actor,
	}

	if req.MatchThreshold != nil {
		if *req.MatchThreshold < 0.5 || *req.MatchThreshold > 0.99 {
			return SettingsResponse{}, settingserrors.ErrInvalidMatchThreshold
		}
		m.MatchThreshold = *req.MatchThreshold
	}
	if req.AutoCheckoutTime != nil {
		if _, _, err := ParseClock(*req.AutoCheckoutTime); err != nil {
			return SettingsResponse{}, settingserrors.ErrInvalidCheckoutTime
		}
		m.AutoCheckoutTime = *req.AutoCheckoutTime
	}
	if req.AllowDuplicatePoints != nil {
		m.AllowDuplicatePoints = *req.AllowDuplicatePoints
	}

	if err := s.repo.Save(ctx, m); err != nil {
		s.logger.Error("save settings failed", zap.Error(err))
		return SettingsResponse{}, err
	}

	snap := Settings{
		MatchThreshold:       m.MatchThreshold,
		AutoCheckoutTime:     m.AutoCheckoutTime,
		AllowDuplicatePoints: m.AllowDuplicatePoints,
	}
	s.store(snap)

	s.logger.Info("settings updated",
		zap.String("actor", actor),
		zap.Float64("match_threshold", snap.MatchThreshold),
		zap.String("auto_checkout_time", snap.AutoCheckoutTime),
		zap.Bool("allow_duplicate_points", snap.AllowDuplicatePoints),
	)

	return toResponse(m), nil
}

func (s *service) Describe(ctx context.Context) (SettingsResponse, error) {
	snap, err := s.Get(ctx)
	if err != nil {
		return SettingsResponse{}, err
	}
	return SettingsResponse{
		MatchThreshold:       snap.MatchThreshold,
		AutoCheckoutTime:     snap.AutoCheckoutTime,
		AllowDuplicatePoints: snap.AllowDuplicatePoints,
	}, nil
}

func (s *service) store(snap Settings) {
	s.mu.Lock()
	s.cached = snap
	s.fetchedAt = time.Now()
	s.mu.Unlock()
}

func toResponse(m *Model) SettingsResponse {
	resp := SettingsResponse{
		MatchThreshold:       m.MatchThreshold,
		AutoCheckoutTime:     m.AutoCheckoutTime,
		AllowDuplicatePoints: m.AllowDuplicatePoints,
		UpdatedBy:            m.UpdatedBy,
	}
	if !m.UpdatedAt.IsZero() {
		resp.UpdatedAt = m.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// ParseClock parses an HH:MM time-of-day string.
func ParseClock(v string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
