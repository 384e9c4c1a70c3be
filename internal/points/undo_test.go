package points

import (
	"context"
	"testing"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/audit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAdjustmentStack_UndoPostsInvertedEntry(t *testing.T) {
	repo, entries := newLedgerFake()
	svc := NewService(repo, defaultFakeSettings(), audit.Nop{}, nil)
	stack := NewAdjustmentStack(svc)

	ctx := context.Background()
	studentID := uuid.New().String()

	resp, err := svc.AddPoints(ctx, "Teacher Grace", AddPointsRequest{
		StudentID: studentID,
		Category:  "Memory Verse",
		Points:    10,
	})
	assert.NoError(t, err)
	stack.Push(Adjustment{StudentID: resp.StudentID, Category: resp.Category, Points: resp.Points, Actor: "Teacher Grace"})

	undone, ok, err := stack.Undo(ctx)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -10, undone.Points)
	assert.Equal(t, KindCorrection, undone.Kind)

	// Ledger has both rows; nothing was edited in place.
	assert.Len(t, *entries, 2)

	total, _ := svc.TotalForStudent(ctx, studentID)
	assert.Equal(t, 0, total.TotalPoints)
}

func TestAdjustmentStack_RedoRepostsThroughManualKind(t *testing.T) {
	repo, entries := newLedgerFake()
	svc := NewService(repo, defaultFakeSettings(), audit.Nop{}, nil)
	stack := NewAdjustmentStack(svc)

	ctx := context.Background()
	studentID := uuid.New().String()

	resp, err := svc.AddPoints(ctx, "Teacher Grace", AddPointsRequest{
		StudentID: studentID,
		Category:  "Memory Verse",
		Points:    10,
	})
	assert.NoError(t, err)
	stack.Push(Adjustment{StudentID: resp.StudentID, Category: resp.Category, Points: resp.Points, Actor: "Teacher Grace"})

	_, ok, err := stack.Undo(ctx)
	assert.NoError(t, err)
	assert.True(t, ok)

	// Redo posts a fresh positive entry even though the category already has
	// an active row dated today.
	redone, ok, err := stack.Redo(ctx)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, redone.Points)
	assert.Equal(t, KindManual, redone.Kind)

	assert.Len(t, *entries, 3)
	total, _ := svc.TotalForStudent(ctx, studentID)
	assert.Equal(t, 10, total.TotalPoints)
}

func TestAdjustmentStack_PushClearsRedo(t *testing.T) {
	repo, _ := newLedgerFake()
	svc := NewService(repo, defaultFakeSettings(), audit.Nop{}, nil)
	stack := NewAdjustmentStack(svc)

	ctx := context.Background()
	studentID := uuid.New().String()

	first, err := svc.AddPoints(ctx, "Teacher Grace", AddPointsRequest{
		StudentID: studentID,
		Category:  "Memory Verse",
		Points:    10,
	})
	assert.NoError(t, err)
	stack.Push(Adjustment{StudentID: first.StudentID, Category: first.Category, Points: first.Points, Actor: "Teacher Grace"})

	_, ok, err := stack.Undo(ctx)
	assert.NoError(t, err)
	assert.True(t, ok)

	second, err := svc.AddPoints(ctx, "Teacher Grace", AddPointsRequest{
		StudentID: studentID,
		Category:  "Craft",
		Points:    5,
	})
	assert.NoError(t, err)
	stack.Push(Adjustment{StudentID: second.StudentID, Category: second.Category, Points: second.Points, Actor: "Teacher Grace"})

	// New award dropped the redo history.
	_, ok, err = stack.Redo(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)

	undo, redo := stack.Depths()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 0, redo)
}

func TestAdjustmentStack_EmptyUndoRedo(t *testing.T) {
	repo, _ := newLedgerFake()
	svc := NewService(repo, defaultFakeSettings(), audit.Nop{}, nil)
	stack := NewAdjustmentStack(svc)

	ctx := context.Background()

	_, ok, err := stack.Undo(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = stack.Redo(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
}
