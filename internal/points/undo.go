package points

import (
	"context"
	"sync"
)

// Adjustment describes one committed award so it can be reversed later.
type Adjustment struct {
	StudentID string
	Category  string
	Points    int
	Actor     string
}

// AdjustmentStack is an explicit two-stack undo/redo over committed ledger
// entries. Nothing is ever edited in place: every undo and every redo posts a
// fresh entry with the inverted sign, preserving the append-only audit trail.
type AdjustmentStack struct {
	svc Service

	mu      sync.Mutex
	history []Adjustment
	redo    []Adjustment
}

func NewAdjustmentStack(svc Service) *AdjustmentStack {
	return &AdjustmentStack{svc: svc}
}

// Push records a committed award as undoable and clears the redo stack, the
// same way an editor drops redo history after a new edit.
func (a *AdjustmentStack) Push(adj Adjustment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, adj)
	a.redo = nil
}

// Undo posts a correction entry reversing the most recent award. The negative
// sign makes it a correction, so the duplicate-per-day guard never blocks it.
func (a *AdjustmentStack) Undo(ctx context.Context) (EntryResponse, bool, error) {
	a.mu.Lock()
	if len(a.history) == 0 {
		a.mu.Unlock()
		return EntryResponse{}, false, nil
	}
	adj := a.history[len(a.history)-1]
	a.mu.Unlock()

	resp, err := a.svc.AddPoints(ctx, adj.Actor, AddPointsRequest{
		StudentID: adj.StudentID,
		Category:  adj.Category,
		Points:    -adj.Points,
	})
	if err != nil {
		return EntryResponse{}, false, err
	}

	a.mu.Lock()
	a.history = a.history[:len(a.history)-1]
	a.redo = append(a.redo, adj)
	a.mu.Unlock()

	return resp, true, nil
}

// Redo re-applies the most recently undone award. It goes through the manual
// kind so re-awarding a standard category the same day does not trip the
// duplicate guard.
func (a *AdjustmentStack) Redo(ctx context.Context) (EntryResponse, bool, error) {
	a.mu.Lock()
	if len(a.redo) == 0 {
		a.mu.Unlock()
		return EntryResponse{}, false, nil
	}
	adj := a.redo[len(a.redo)-1]
	a.mu.Unlock()

	resp, err := a.svc.AddPoints(ctx, adj.Actor, AddPointsRequest{
		StudentID: adj.StudentID,
		Category:  adj.Category,
		Points:    adj.Points,
		Kind:      KindManual,
	})
	if err != nil {
		return EntryResponse{}, false, err
	}

	a.mu.Lock()
	a.redo = a.redo[:len(a.redo)-1]
	a.history = append(a.history, adj)
	a.mu.Unlock()

	return resp, true, nil
}

// Depths returns (undoable, redoable) counts, for the classroom toolbar.
func (a *AdjustmentStack) Depths() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history), len(a.redo)
}
