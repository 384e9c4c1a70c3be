package followup

import (
	"context"
	"errors"
	"time"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/audit"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/events"
	followuperrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/followup/errors"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=followup_service.go -destination=mock/followup_service_mock.go -package=mock
type Service interface {
	CreateFromFrozenEvent(ctx context.Context, event events.StudentFrozenEvent) error
	List(ctx context.Context, status string) ([]FollowUpResponse, error)
	Assign(ctx context.Context, actor, id, assignee string) (FollowUpResponse, error)
	Resolve(ctx context.Context, actor, id, note string) (FollowUpResponse, error)
}

type service struct {
	repo    Repository
	auditor audit.Logger
	logger  *zap.Logger
}

func NewService(repo Repository, auditor audit.Logger) Service {
	return &service{
		repo:    repo,
		auditor: auditor,
		logger:  zap.L().Named("followup.service"),
	}
}

// CreateFromFrozenEvent opens a high-priority follow-up for a frozen student.
// Redelivered events are absorbed: at most one open entry per student and
// reason exists at a time.
func (s *service) CreateFromFrozenEvent(ctx context.Context, event events.StudentFrozenEvent) error {
	sid, err := uuid.Parse(event.StudentID)
	if err != nil {
		s.logger.Warn("frozen event with bad student id, dropping",
			zap.String("student_id", event.StudentID),
		)
		return nil
	}

	exists, err := s.repo.HasOpenByStudentAndReason(ctx, event.StudentID, ReasonFrozen)
	if err != nil {
		return apperror.Collaborator(err, "store")
	}
	if exists {
		s.logger.Debug("open follow-up already exists, skipping",
			zap.String("student_id", event.StudentID),
		)
		return nil
	}

	f := &FollowUp{
		ID:              uuid.New(),
		StudentID:       sid,
		StudentName:     event.FullName,
		AgeGroup:        event.AgeGroup,
		GuardianContact: event.GuardianContact,
		Reason:          ReasonFrozen,
		Priority:        PriorityHigh,
		Status:          StatusOpen,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return apperror.Collaborator(err, "store")
	}

	s.logger.Info("follow-up opened for frozen student",
		zap.String("student_id", event.StudentID),
		zap.String("student_name", event.FullName),
		zap.Int("consecutive_absences", event.ConsecutiveAbsences),
	)
	return nil
}

func (s *service) List(ctx context.Context, status string) ([]FollowUpResponse, error) {
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, apperror.Collaborator(err, "store")
	}

	res := make([]FollowUpResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToFollowUpResponse(r)
	}
	return res, nil
}

func (s *service) Assign(ctx context.Context, actor, id, assignee string) (FollowUpResponse, error) {
	f, err := s.findFollowUp(ctx, id)
	if err != nil {
		return FollowUpResponse{}, err
	}
	if f.Status == StatusResolved {
		return FollowUpResponse{}, followuperrors.ErrAlreadyResolved
	}

	f.AssignedTo = assignee
	if err := s.repo.Update(ctx, f); err != nil {
		return FollowUpResponse{}, apperror.Collaborator(err, "store")
	}

	s.logger.Info("follow-up assigned",
		zap.String("id", id),
		zap.String("assigned_to", assignee),
		zap.String("actor", actor),
	)
	return mapToFollowUpResponse(*f), nil
}

func (s *service) Resolve(ctx context.Context, actor, id, note string) (FollowUpResponse, error) {
	f, err := s.findFollowUp(ctx, id)
	if err != nil {
		return FollowUpResponse{}, err
	}
	if f.Status == StatusResolved {
		return FollowUpResponse{}, followuperrors.ErrAlreadyResolved
	}

	now := time.Now()
	f.Status = StatusResolved
	f.Notes = note
	f.ResolvedBy = actor
	f.ResolvedAt = &now

	if err := s.repo.Update(ctx, f); err != nil {
		return FollowUpResponse{}, apperror.Collaborator(err, "store")
	}

	s.logger.Info("follow-up resolved",
		zap.String("id", id),
		zap.String("actor", actor),
	)
	return mapToFollowUpResponse(*f), nil
}

func (s *service) findFollowUp(ctx context.Context, id string) (*FollowUp, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, followuperrors.ErrInvalidFollowUpID
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, followuperrors.ErrFollowUpNotFound
		}
		return nil, apperror.Collaborator(err, "store")
	}
	return f, nil
}

func mapToFollowUpResponse(f FollowUp) FollowUpResponse {
	resp := FollowUpResponse{
		ID:              f.ID.String(),
		StudentID:       f.StudentID.String(),
		StudentName:     f.StudentName,
		AgeGroup:        f.AgeGroup,
		GuardianContact: f.GuardianContact,
		Reason:          f.Reason,
		Priority:        f.Priority,
		Status:          f.Status,
		Notes:           f.Notes,
		AssignedTo:      f.AssignedTo,
		ResolvedBy:      f.ResolvedBy,
	}
	if f.ResolvedAt != nil {
		v := f.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &v
	}
	if !f.CreatedAt.IsZero() {
		resp.CreatedAt = f.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
