package student

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/settings"
	studenterrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/student/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	students map[string]*Student
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{students: make(map[string]*Student)}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, s *Student) error {
	f.students[s.ID.String()] = s
	return nil
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) FindByAccessKey(ctx context.Context, accessKey string) (*Student, error) {
	for _, s := range f.students {
		if s.AccessKey == accessKey {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) FindAll(ctx context.Context, filter ListFilter) ([]Student, error) {
	var rows []Student
	for _, s := range f.students {
		if filter.AgeGroup != "" && s.AgeGroup != filter.AgeGroup {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		rows = append(rows, *s)
	}
	return rows, nil
}
func (f *fakeRepo) FindEnrolled(ctx context.Context) ([]Student, error) {
	var rows []Student
	for _, s := range f.students {
		if s.FaceEnrolled {
			rows = append(rows, *s)
		}
	}
	return rows, nil
}
func (f *fakeRepo) FindActive(ctx context.Context) ([]Student, error) { return nil, nil }
func (f *fakeRepo) Update(ctx context.Context, s *Student) error {
	f.students[s.ID.String()] = s
	return nil
}
func (f *fakeRepo) UpdateAbsences(ctx context.Context, id string, absences int, status string) error {
	return nil
}
func (f *fakeRepo) ResetAbsences(ctx context.Context, id string) error { return nil }
func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(f.students, id)
	return nil
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeEmbedder struct {
	embedFn func(ctx context.Context, image []byte) ([]float32, error)
}

func (f *fakeEmbedder) Embed(ctx context.Context, image []byte) ([]float32, error) {
	return f.embedFn(ctx, image)
}

type fakeSettings struct {
	cfg settings.Settings
}

func (f *fakeSettings) Get(ctx context.Context) (settings.Settings, error) {
	return f.cfg, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, &fakeCounter{}, &fakeEmbedder{
		embedFn: func(ctx context.Context, image []byte) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		},
	}, &fakeSettings{cfg: settings.Defaults()})
}

func TestRegister_AccessKeyFormat(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	year := time.Now().Year()

	first, err := svc.Register(ctx, RegisterStudentRequest{FullName: "Naomi Carter", AgeGroup: AgeGroup7to9})
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("KK-%d-001", year), first.AccessKey)
	assert.Equal(t, StatusActive, first.Status)

	second, err := svc.Register(ctx, RegisterStudentRequest{FullName: "Eli Carter", AgeGroup: AgeGroup3to6})
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("KK-%d-002", year), second.AccessKey)
}

func TestRegister_AdultAndGuestGetGuestStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	for _, group := range []string{AgeGroupAdult, AgeGroupGuest} {
		resp, err := svc.Register(ctx, RegisterStudentRequest{FullName: "Visiting Parent", AgeGroup: group})
		assert.NoError(t, err)
		assert.Equal(t, StatusGuest, resp.Status)
	}
}

func TestRegister_UnknownAgeGroup(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Register(context.Background(), RegisterStudentRequest{FullName: "X", AgeGroup: "13-15"})
	assert.ErrorIs(t, err, studenterrors.ErrInvalidAgeGroup)
}

func TestUpdate_FrozenCannotBeAssigned(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterStudentRequest{FullName: "Naomi Carter", AgeGroup: AgeGroup7to9})
	assert.NoError(t, err)

	frozen := StatusFrozen
	_, err = svc.Update(ctx, created.ID, UpdateStudentRequest{Status: &frozen})
	assert.ErrorIs(t, err, studenterrors.ErrFrozenIsDerived)
}

func TestUpdate_UnfreezingResetsAbsences(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterStudentRequest{FullName: "Naomi Carter", AgeGroup: AgeGroup7to9})
	assert.NoError(t, err)

	// Simulate the sweep having frozen the student.
	row := repo.students[created.ID]
	row.Status = StatusFrozen
	row.ConsecutiveAbsences = 4

	active := StatusActive
	resp, err := svc.Update(ctx, created.ID, UpdateStudentRequest{Status: &active})
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, resp.Status)
	assert.Equal(t, 0, resp.ConsecutiveAbsences)
}

func TestUpdate_InvalidStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterStudentRequest{FullName: "Naomi Carter", AgeGroup: AgeGroup7to9})
	assert.NoError(t, err)

	bogus := "graduated"
	_, err = svc.Update(ctx, created.ID, UpdateStudentRequest{Status: &bogus})
	assert.Error(t, err)
}

func TestGetByAccessKey(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterStudentRequest{FullName: "Naomi Carter", AgeGroup: AgeGroup7to9})
	assert.NoError(t, err)

	found, err := svc.GetByAccessKey(ctx, "  "+created.AccessKey+" ")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByAccessKey(ctx, "KK-1999-999")
	assert.ErrorIs(t, err, studenterrors.ErrAccessKeyNotFound)
}

func TestIdentifyByFace_ThresholdApplies(t *testing.T) {
	repo := newFakeRepo()
	match := &Student{
		ID:            uuid.New(),
		AccessKey:     "KK-2026-001",
		FullName:      "Naomi Carter",
		AgeGroup:      AgeGroup7to9,
		Status:        StatusActive,
		FaceEnrolled:  true,
		FaceEmbedding: []float32{1, 0, 0},
	}
	far := &Student{
		ID:            uuid.New(),
		AccessKey:     "KK-2026-002",
		FullName:      "Eli Carter",
		AgeGroup:      AgeGroup3to6,
		Status:        StatusActive,
		FaceEnrolled:  true,
		FaceEmbedding: []float32{0, 1, 0},
	}
	repo.students[match.ID.String()] = match
	repo.students[far.ID.String()] = far

	embedder := &fakeEmbedder{
		embedFn: func(ctx context.Context, image []byte) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		},
	}
	cfg := &fakeSettings{cfg: settings.Settings{MatchThreshold: 0.8, AutoCheckoutTime: "12:30"}}
	svc := NewService(repo, &fakeCounter{}, embedder, cfg)

	image := base64.StdEncoding.EncodeToString([]byte("probe"))
	resp, err := svc.IdentifyByFace(context.Background(), image)
	assert.NoError(t, err)
	assert.Equal(t, match.ID.String(), resp.Student.ID)
	assert.InDelta(t, 1.0, resp.Similarity, 0.001)

	// Raising the threshold above the similarity yields no match.
	cfg.cfg.MatchThreshold = 0.9
	embedder.embedFn = func(ctx context.Context, image []byte) ([]float32, error) {
		return []float32{0.7, 0.7, 0}, nil
	}
	_, err = svc.IdentifyByFace(context.Background(), image)
	assert.ErrorIs(t, err, studenterrors.ErrNoFaceMatch)
}

func TestIdentifyByFace_RejectsBadImage(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.IdentifyByFace(context.Background(), "!!not-base64!!")
	assert.ErrorIs(t, err, studenterrors.ErrInvalidImage)
}
