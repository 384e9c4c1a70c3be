package followup

import (
	"context"
	"testing"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/audit"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/events"
	followuperrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/followup/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rows map[string]*FollowUp
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*FollowUp)}
}

func (f *fakeRepo) Create(ctx context.Context, fu *FollowUp) error {
	f.rows[fu.ID.String()] = fu
	return nil
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*FollowUp, error) {
	if fu, ok := f.rows[id]; ok {
		return fu, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) HasOpenByStudentAndReason(ctx context.Context, studentID, reason string) (bool, error) {
	for _, fu := range f.rows {
		if fu.StudentID.String() == studentID && fu.Reason == reason && fu.Status == StatusOpen {
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeRepo) List(ctx context.Context, status string) ([]FollowUp, error) {
	var rows []FollowUp
	for _, fu := range f.rows {
		if status != "" && fu.Status != status {
			continue
		}
		rows = append(rows, *fu)
	}
	return rows, nil
}
func (f *fakeRepo) Update(ctx context.Context, fu *FollowUp) error {
	f.rows[fu.ID.String()] = fu
	return nil
}

func frozenEvent(studentID string) events.StudentFrozenEvent {
	return events.StudentFrozenEvent{
		EventType:           "student.frozen",
		StudentID:           studentID,
		FullName:            "Naomi Carter",
		AgeGroup:            "7-9",
		GuardianContact:     "+62 812 000 111",
		ConsecutiveAbsences: 4,
	}
}

func TestCreateFromFrozenEvent_OpensHighPriorityEntry(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, audit.Nop{})
	studentID := uuid.NewString()

	err := svc.CreateFromFrozenEvent(context.Background(), frozenEvent(studentID))
	assert.NoError(t, err)

	rows, _ := repo.List(context.Background(), StatusOpen)
	assert.Len(t, rows, 1)
	assert.Equal(t, PriorityHigh, rows[0].Priority)
	assert.Equal(t, ReasonFrozen, rows[0].Reason)
	assert.Equal(t, "Naomi Carter", rows[0].StudentName)
}

func TestCreateFromFrozenEvent_RedeliveryIsAbsorbed(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, audit.Nop{})
	studentID := uuid.NewString()

	ctx := context.Background()
	assert.NoError(t, svc.CreateFromFrozenEvent(ctx, frozenEvent(studentID)))
	assert.NoError(t, svc.CreateFromFrozenEvent(ctx, frozenEvent(studentID)))

	rows, _ := repo.List(ctx, StatusOpen)
	assert.Len(t, rows, 1)
}

func TestCreateFromFrozenEvent_ResolvedEntryAllowsNewOne(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, audit.Nop{})
	studentID := uuid.NewString()
	ctx := context.Background()

	assert.NoError(t, svc.CreateFromFrozenEvent(ctx, frozenEvent(studentID)))

	rows, _ := repo.List(ctx, StatusOpen)
	_, err := svc.Resolve(ctx, "Admin Ruth", rows[0].ID.String(), "called home")
	assert.NoError(t, err)

	// The student froze again later; a fresh entry opens.
	assert.NoError(t, svc.CreateFromFrozenEvent(ctx, frozenEvent(studentID)))
	open, _ := repo.List(ctx, StatusOpen)
	assert.Len(t, open, 1)
}

func TestCreateFromFrozenEvent_BadStudentIDDropped(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, audit.Nop{})

	err := svc.CreateFromFrozenEvent(context.Background(), frozenEvent("not-a-uuid"))
	assert.NoError(t, err)
	assert.Empty(t, repo.rows)
}

func TestResolve_SetsResolutionFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, audit.Nop{})
	ctx := context.Background()

	assert.NoError(t, svc.CreateFromFrozenEvent(ctx, frozenEvent(uuid.NewString())))
	rows, _ := repo.List(ctx, StatusOpen)
	id := rows[0].ID.String()

	resolved, err := svc.Resolve(ctx, "Admin Ruth", id, "guardian reached, returning next week")
	assert.NoError(t, err)
	assert.Equal(t, StatusResolved, resolved.Status)
	assert.Equal(t, "Admin Ruth", resolved.ResolvedBy)
	assert.Equal(t, "guardian reached, returning next week", resolved.Notes)
	assert.NotNil(t, resolved.ResolvedAt)

	_, err = svc.Resolve(ctx, "Admin Ruth", id, "again")
	assert.ErrorIs(t, err, followuperrors.ErrAlreadyResolved)
}

func TestAssign(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, audit.Nop{})
	ctx := context.Background()

	assert.NoError(t, svc.CreateFromFrozenEvent(ctx, frozenEvent(uuid.NewString())))
	rows, _ := repo.List(ctx, StatusOpen)
	id := rows[0].ID.String()

	assigned, err := svc.Assign(ctx, "Admin Ruth", id, "Teacher Grace")
	assert.NoError(t, err)
	assert.Equal(t, "Teacher Grace", assigned.AssignedTo)

	_, err = svc.Assign(ctx, "Admin Ruth", uuid.NewString(), "Teacher Grace")
	assert.ErrorIs(t, err, followuperrors.ErrFollowUpNotFound)

	_, err = svc.Assign(ctx, "Admin Ruth", "nope", "Teacher Grace")
	assert.ErrorIs(t, err, followuperrors.ErrInvalidFollowUpID)
}
