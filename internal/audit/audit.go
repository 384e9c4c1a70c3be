package audit

import "context"

// Event kinds written by the engines.
const (
	KindPointAdd      = "POINT_ADD"
	KindPointVoid     = "POINT_VOID"
	KindPointUnvoid   = "POINT_UNVOID"
	KindSeasonReset   = "SEASON_RESET"
	KindCheckIn       = "CHECKIN"
	KindCheckOut      = "CHECKOUT"
	KindCheckOutAuto  = "CHECKOUT_AUTO"
	KindAbsenceSweep  = "ABSENCE_SWEEP"
	KindStudentFrozen = "STUDENT_FROZEN"
	KindShutdown      = "SERVER_SHUTDOWN"
)

// Event is a single audit trail record.
type Event struct {
	Kind     string
	Actor    string
	EntityID string
	Payload  map[string]any
}

// Logger is the audit sink. Writes are best-effort: implementations log
// failures themselves and never return them, so callers cannot accidentally
// fail a business operation on an audit write.
//
//go:generate mockgen -source=audit.go -destination=mock/audit_mock.go -package=mock
type Logger interface {
	Log(ctx context.Context, event Event)
}

// Nop discards all events. Used in tests and optional wiring.
type Nop struct{}

func (Nop) Log(context.Context, Event) {}
