package student

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/faceclient"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/settings"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/counter"
	studenterrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/student/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Embedder is the face-embedding collaborator. *faceclient.Client satisfies it.
type Embedder interface {
	Embed(ctx context.Context, image []byte) ([]float32, error)
}

//go:generate mockgen -source=student_service.go -destination=mock/student_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterStudentRequest) (StudentResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]StudentResponse, error)
	GetByID(ctx context.Context, id string) (StudentResponse, error)
	GetByAccessKey(ctx context.Context, accessKey string) (StudentResponse, error)
	Update(ctx context.Context, id string, req UpdateStudentRequest) (StudentResponse, error)
	Delete(ctx context.Context, id string) error
	EnrollFace(ctx context.Context, id string, imageB64 string) (StudentResponse, error)
	IdentifyByFace(ctx context.Context, imageB64 string) (IdentifyFaceResponse, error)
}

type service struct {
	repo     Repository
	counter  counter.Repository
	embedder Embedder
	settings settings.Provider
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	counterRepo counter.Repository,
	embedder Embedder,
	settingsProvider settings.Provider,
) Service {
	return &service{
		repo:     repo,
		counter:  counterRepo,
		embedder: embedder,
		settings: settingsProvider,
		logger:   zap.L().Named("student.service"),
	}
}

func (s *service) Register(ctx context.Context, req RegisterStudentRequest) (StudentResponse, error) {
	if !ValidAgeGroup(req.AgeGroup) {
		return StudentResponse{}, studenterrors.ErrInvalidAgeGroup
	}

	year := time.Now().Year()
	seq, err := s.counter.GetNextValue(ctx, fmt.Sprintf("access_key_%d", year))
	if err != nil {
		s.logger.Error("generate access key failed", zap.Error(err))
		return StudentResponse{}, apperror.Collaborator(err, "store")
	}
	accessKey := fmt.Sprintf("KK-%d-%03d", year, seq)

	status := StatusActive
	if req.AgeGroup == AgeGroupAdult || req.AgeGroup == AgeGroupGuest {
		status = StatusGuest
	}

	row := &Student{
		ID:              uuid.New(),
		AccessKey:       accessKey,
		FullName:        strings.TrimSpace(req.FullName),
		AgeGroup:        req.AgeGroup,
		GuardianContact: req.GuardianContact,
		Status:          status,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("register student persist failed", zap.Error(err))
		return StudentResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("student registered",
		zap.String("student_id", row.ID.String()),
		zap.String("access_key", row.AccessKey),
		zap.String("age_group", row.AgeGroup),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]StudentResponse, error) {
	if filter.AgeGroup != "" && !ValidAgeGroup(filter.AgeGroup) {
		return nil, studenterrors.ErrInvalidAgeGroup
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]StudentResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (StudentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return StudentResponse{}, studenterrors.ErrInvalidStudentID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return StudentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) GetByAccessKey(ctx context.Context, accessKey string) (StudentResponse, error) {
	row, err := s.repo.FindByAccessKey(ctx, strings.TrimSpace(accessKey))
	if err != nil {
		if mapped := mapRepositoryError(err); errors.Is(mapped, studenterrors.ErrStudentNotFound) {
			return StudentResponse{}, studenterrors.ErrAccessKeyNotFound
		}
		return StudentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateStudentRequest) (StudentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return StudentResponse{}, studenterrors.ErrInvalidStudentID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return StudentResponse{}, mapRepositoryError(err)
	}

	if req.FullName != nil {
		row.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.AgeGroup != nil {
		if !ValidAgeGroup(*req.AgeGroup) {
			return StudentResponse{}, studenterrors.ErrInvalidAgeGroup
		}
		row.AgeGroup = *req.AgeGroup
	}
	if req.GuardianContact != nil {
		row.GuardianContact = *req.GuardianContact
	}
	if req.Status != nil {
		// Frozen is derived by the sweep. Edits may unfreeze (back to
		// active) but never freeze.
		if *req.Status == StatusFrozen {
			return StudentResponse{}, studenterrors.ErrFrozenIsDerived
		}
		switch *req.Status {
		case StatusActive, StatusAlumni, StatusGuest, StatusStudent:
			if row.Status == StatusFrozen && *req.Status == StatusActive {
				row.ConsecutiveAbsences = 0
			}
			row.Status = *req.Status
		default:
			return StudentResponse{}, apperror.InvalidField("Status")
		}
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("update student persist failed", zap.String("student_id", id), zap.Error(err))
		return StudentResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return studenterrors.ErrInvalidStudentID
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	return mapRepositoryError(s.repo.Delete(ctx, id))
}

func (s *service) EnrollFace(ctx context.Context, id string, imageB64 string) (StudentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return StudentResponse{}, studenterrors.ErrInvalidStudentID
	}

	image, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil || len(image) == 0 {
		return StudentResponse{}, studenterrors.ErrInvalidImage
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return StudentResponse{}, mapRepositoryError(err)
	}

	embedding, err := s.embedder.Embed(ctx, image)
	if err != nil {
		s.logger.Error("embed face failed", zap.String("student_id", id), zap.Error(err))
		return StudentResponse{}, apperror.Collaborator(err, "embedding")
	}

	row.FaceEmbedding = embedding
	row.FaceEnrolled = true

	if err := s.repo.Update(ctx, row); err != nil {
		return StudentResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("face enrolled", zap.String("student_id", id))
	return mapToResponse(*row), nil
}

func (s *service) IdentifyByFace(ctx context.Context, imageB64 string) (IdentifyFaceResponse, error) {
	image, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil || len(image) == 0 {
		return IdentifyFaceResponse{}, studenterrors.ErrInvalidImage
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return IdentifyFaceResponse{}, apperror.Collaborator(err, "store")
	}

	probe, err := s.embedder.Embed(ctx, image)
	if err != nil {
		return IdentifyFaceResponse{}, apperror.Collaborator(err, "embedding")
	}

	enrolled, err := s.repo.FindEnrolled(ctx)
	if err != nil {
		return IdentifyFaceResponse{}, mapRepositoryError(err)
	}

	var (
		best    *Student
		bestSim float64
	)
	for i := range enrolled {
		sim := faceclient.CosineSimilarity(probe, enrolled[i].FaceEmbedding)
		if sim > bestSim {
			bestSim = sim
			best = &enrolled[i]
		}
	}

	if best == nil || bestSim < cfg.MatchThreshold {
		s.logger.Debug("no face match",
			zap.Float64("best_similarity", bestSim),
			zap.Float64("threshold", cfg.MatchThreshold),
		)
		return IdentifyFaceResponse{}, studenterrors.ErrNoFaceMatch
	}

	return IdentifyFaceResponse{
		Student:    mapToResponse(*best),
		Similarity: bestSim,
		Threshold:  cfg.MatchThreshold,
	}, nil
}

func mapToResponse(s Student) StudentResponse {
	return StudentResponse{
		ID:                  s.ID.String(),
		AccessKey:           s.AccessKey,
		FullName:            s.FullName,
		AgeGroup:            s.AgeGroup,
		GuardianContact:     s.GuardianContact,
		FaceEnrolled:        s.FaceEnrolled,
		ConsecutiveAbsences: s.ConsecutiveAbsences,
		Status:              s.Status,
	}
}
