package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	attendanceerrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/attendance/errors"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/audit"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/events"
	kafka "github.com/digitalmerch4862/KingdomKids-sub000/internal/messaging/kafka"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/points"
	pointserrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/points/errors"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/settings"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/contextutil"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/student"
	studenterrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/student/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AbsenceFreezeLimit is the consecutive-absence count at which a student is
// frozen and routed to follow-up.
const AbsenceFreezeLimit = 4

// CheckInBonusPoints is awarded once per day on the first successful check-in.
const CheckInBonusPoints = 5

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, actor, studentID string) (SessionResponse, error)
	CheckInByAccessKey(ctx context.Context, actor, accessKey string) (SessionResponse, error)
	CheckOut(ctx context.Context, actor, studentID string) (SessionResponse, error)
	RunAutoCheckout(ctx context.Context) (AutoCheckoutResponse, error)
	RunAbsenceSweep(ctx context.Context, actor string) (SweepResponse, error)
	ListForStudent(ctx context.Context, studentID string, limit int) ([]SessionResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	students student.Repository
	points   points.Service
	ledger   points.Repository
	settings settings.Provider
	auditor  audit.Logger
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	logger   *zap.Logger
}

// NewService builds the attendance engine. outbox and rdb may be nil; event
// publishing and the daily sweep guard are then skipped.
func NewService(
	db *sql.DB,
	repo Repository,
	students student.Repository,
	pointsService points.Service,
	ledger points.Repository,
	settingsProvider settings.Provider,
	auditor audit.Logger,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
) Service {
	return &service{
		db:       db,
		repo:     repo,
		students: students,
		points:   pointsService,
		ledger:   ledger,
		settings: settingsProvider,
		auditor:  auditor,
		outbox:   outbox,
		rdb:      rdb,
		logger:   zap.L().Named("attendance.service"),
	}
}

func (s *service) CheckIn(ctx context.Context, actor, studentID string) (SessionResponse, error) {
	sid, err := uuid.Parse(studentID)
	if err != nil {
		return SessionResponse{}, attendanceerrors.ErrInvalidStudentID
	}

	st, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, studenterrors.ErrStudentNotFound
		}
		return SessionResponse{}, apperror.Collaborator(err, "store")
	}

	now := time.Now()
	today := dateOf(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionResponse{}, apperror.Collaborator(err, "store")
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindOpenByStudentAndDate(ctx, studentID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionResponse{}, apperror.Collaborator(err, "store")
	}
	if existing != nil {
		return SessionResponse{}, attendanceerrors.AlreadyCheckedIn(existing.CheckInTime)
	}

	session := &Session{
		ID:          uuid.New(),
		StudentID:   sid,
		SessionDate: today,
		CheckInTime: now,
		Status:      StatusOpen,
		CheckedInBy: actor,
	}
	if err := qtx.Create(ctx, session); err != nil {
		return SessionResponse{}, apperror.Collaborator(err, "store")
	}

	if err := s.enqueueCheckInEvent(ctx, tx, session); err != nil {
		return SessionResponse{}, apperror.Collaborator(err, "outbox")
	}

	if err := tx.Commit(); err != nil {
		return SessionResponse{}, apperror.Collaborator(err, "store")
	}

	// Check-in resets the absence streak no matter how far along it was.
	if err := s.students.ResetAbsences(ctx, studentID); err != nil {
		s.logger.Error("absence streak reset failed",
			zap.String("student_id", studentID),
			zap.Error(err),
		)
	}

	s.auditor.Log(ctx, audit.Event{
		Kind:     audit.KindCheckIn,
		Actor:    actor,
		EntityID: session.ID.String(),
		Payload: map[string]any{
			"student_id":   studentID,
			"session_date": today.Format("2006-01-02"),
		},
	})

	s.awardCheckInBonus(ctx, actor, studentID)

	s.logger.Info("student checked in",
		zap.String("student_id", studentID),
		zap.String("student_name", st.FullName),
		zap.String("actor", actor),
	)

	return mapToSessionResponse(*session), nil
}

func (s *service) CheckInByAccessKey(ctx context.Context, actor, accessKey string) (SessionResponse, error) {
	st, err := s.students.FindByAccessKey(ctx, accessKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, studenterrors.ErrAccessKeyNotFound
		}
		return SessionResponse{}, apperror.Collaborator(err, "store")
	}
	return s.CheckIn(ctx, actor, st.ID.String())
}

func (s *service) CheckOut(ctx context.Context, actor, studentID string) (SessionResponse, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return SessionResponse{}, attendanceerrors.ErrInvalidStudentID
	}

	today := dateOf(time.Now())
	session, err := s.repo.FindOpenByStudentAndDate(ctx, studentID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, attendanceerrors.ErrNoOpenSession
		}
		return SessionResponse{}, apperror.Collaborator(err, "store")
	}

	now := time.Now()
	session.CheckOutTime = &now
	session.CheckoutMode = CheckoutManual
	session.Status = StatusClosed
	session.CheckedOutBy = actor

	if err := s.repo.Update(ctx, session); err != nil {
		return SessionResponse{}, apperror.Collaborator(err, "store")
	}

	s.auditor.Log(ctx, audit.Event{
		Kind:     audit.KindCheckOut,
		Actor:    actor,
		EntityID: session.ID.String(),
		Payload:  map[string]any{"student_id": studentID},
	})

	return mapToSessionResponse(*session), nil
}

// RunAutoCheckout closes every session still open today, stamping the
// configured checkout time rather than the moment the job happened to run.
func (s *service) RunAutoCheckout(ctx context.Context) (AutoCheckoutResponse, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return AutoCheckoutResponse{}, apperror.Collaborator(err, "store")
	}
	hour, minute, err := settings.ParseClock(cfg.AutoCheckoutTime)
	if err != nil {
		return AutoCheckoutResponse{}, apperror.Collaborator(err, "settings")
	}

	now := time.Now()
	today := dateOf(now)
	checkoutAt := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

	open, err := s.repo.ListOpenByDate(ctx, today)
	if err != nil {
		return AutoCheckoutResponse{}, apperror.Collaborator(err, "store")
	}

	closed := 0
	for i := range open {
		session := open[i]
		session.CheckOutTime = &checkoutAt
		session.CheckoutMode = CheckoutAuto
		session.Status = StatusClosed
		session.CheckedOutBy = AutoCheckoutActor

		if err := s.repo.Update(ctx, &session); err != nil {
			s.logger.Error("auto checkout failed for session",
				zap.String("session_id", session.ID.String()),
				zap.Error(err),
			)
			continue
		}
		closed++

		s.auditor.Log(ctx, audit.Event{
			Kind:     audit.KindCheckOutAuto,
			Actor:    AutoCheckoutActor,
			EntityID: session.ID.String(),
			Payload:  map[string]any{"student_id": session.StudentID.String()},
		})
	}

	s.logger.Info("auto checkout complete",
		zap.Int("open_sessions", len(open)),
		zap.Int("closed", closed),
	)
	return AutoCheckoutResponse{ClosedSessions: closed}, nil
}

// RunAbsenceSweep increments the absence streak of every enrolled student with
// no attendance record and no Attendance point entry today, freezing those who
// reach the limit. A redis marker stops a second run from double-counting the
// same day.
func (s *service) RunAbsenceSweep(ctx context.Context, actor string) (SweepResponse, error) {
	today := dateOf(time.Now())

	if err := s.acquireSweepMarker(ctx, today); err != nil {
		return SweepResponse{}, err
	}

	population, err := s.students.FindActive(ctx)
	if err != nil {
		s.releaseSweepMarker(ctx, today)
		return SweepResponse{}, apperror.Collaborator(err, "store")
	}

	var res SweepResponse
	for i := range population {
		st := population[i]
		id := st.ID.String()

		present, err := s.wasPresent(ctx, id, today)
		if err != nil {
			s.logger.Error("sweep presence check failed",
				zap.String("student_id", id),
				zap.Error(err),
			)
			continue
		}
		if present {
			continue
		}

		absences := st.ConsecutiveAbsences + 1
		status := st.Status
		if absences >= AbsenceFreezeLimit && status != student.StatusFrozen {
			status = student.StatusFrozen
		}

		if err := s.students.UpdateAbsences(ctx, id, absences, status); err != nil {
			s.logger.Error("sweep absence update failed",
				zap.String("student_id", id),
				zap.Error(err),
			)
			continue
		}
		res.AbsentCount++

		if status == student.StatusFrozen && st.Status != student.StatusFrozen {
			res.FrozenCount++
			s.onStudentFrozen(ctx, actor, &st, absences)
		}
	}

	s.auditor.Log(ctx, audit.Event{
		Kind:  audit.KindAbsenceSweep,
		Actor: actor,
		Payload: map[string]any{
			"sweep_date":   today.Format("2006-01-02"),
			"absent_count": res.AbsentCount,
			"frozen_count": res.FrozenCount,
		},
	})

	s.logger.Info("absence sweep complete",
		zap.Int("absent", res.AbsentCount),
		zap.Int("frozen", res.FrozenCount),
	)
	return res, nil
}

func (s *service) ListForStudent(ctx context.Context, studentID string, limit int) ([]SessionResponse, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return nil, attendanceerrors.ErrInvalidStudentID
	}

	rows, err := s.repo.ListByStudent(ctx, studentID, limit)
	if err != nil {
		return nil, apperror.Collaborator(err, "store")
	}

	res := make([]SessionResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToSessionResponse(r)
	}
	return res, nil
}

// awardCheckInBonus posts the daily attendance bonus. A failure here never
// fails the check-in; a duplicate just means the bonus was already granted.
func (s *service) awardCheckInBonus(ctx context.Context, actor, studentID string) {
	_, err := s.points.AddPoints(ctx, actor, points.AddPointsRequest{
		StudentID: studentID,
		Category:  points.CategoryAttendance,
		Points:    CheckInBonusPoints,
	})
	if err == nil {
		return
	}
	if pointserrors.IsDuplicateCategory(err) {
		s.logger.Debug("attendance bonus already granted today",
			zap.String("student_id", studentID),
		)
		return
	}
	s.logger.Error("attendance bonus failed",
		zap.String("student_id", studentID),
		zap.Error(err),
	)
}

// wasPresent treats either a session row or an Attendance ledger entry as
// presence, so a manually awarded attendance point protects the streak.
func (s *service) wasPresent(ctx context.Context, studentID string, day time.Time) (bool, error) {
	attended, err := s.repo.HasAnyOnDate(ctx, studentID, day)
	if err != nil {
		return false, err
	}
	if attended {
		return true, nil
	}
	return s.ledger.HasActiveOnDate(ctx, studentID, points.CategoryAttendance, day)
}

func (s *service) onStudentFrozen(ctx context.Context, actor string, st *student.Student, absences int) {
	s.auditor.Log(ctx, audit.Event{
		Kind:     audit.KindStudentFrozen,
		Actor:    actor,
		EntityID: st.ID.String(),
		Payload: map[string]any{
			"full_name":            st.FullName,
			"consecutive_absences": absences,
		},
	})

	if s.outbox == nil {
		return
	}

	event := events.StudentFrozenEvent{
		EventType:           "student.frozen",
		RequestID:           contextutil.GetRequestID(ctx),
		StudentID:           st.ID.String(),
		FullName:            st.FullName,
		AgeGroup:            st.AgeGroup,
		GuardianContact:     st.GuardianContact,
		ConsecutiveAbsences: absences,
		OccurredAt:          time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal frozen event failed", zap.Error(err))
		return
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "student",
		AggregateID:   st.ID.String(),
		EventType:     event.EventType,
		Topic:         events.StudentFrozenTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		s.logger.Error("invalid frozen outbox event", zap.Error(err))
		return
	}
	if err := s.outbox.Create(ctx, outboxEvent); err != nil {
		s.logger.Error("enqueue frozen event failed",
			zap.String("student_id", st.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) enqueueCheckInEvent(ctx context.Context, tx *sql.Tx, session *Session) error {
	if s.outbox == nil {
		return nil
	}

	event := events.CheckInRecordedEvent{
		EventType:   "attendance.checkin.recorded",
		RequestID:   contextutil.GetRequestID(ctx),
		SessionID:   session.ID.String(),
		StudentID:   session.StudentID.String(),
		SessionDate: session.SessionDate.Format("2006-01-02"),
		CheckedInBy: session.CheckedInBy,
		OccurredAt:  session.CheckInTime,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "attendance_session",
		AggregateID:   session.ID.String(),
		EventType:     event.EventType,
		Topic:         events.CheckInRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, outboxEvent)
}

func (s *service) acquireSweepMarker(ctx context.Context, day time.Time) error {
	if s.rdb == nil {
		return nil
	}
	key := sweepMarkerKey(day)
	ok, err := s.rdb.SetNX(ctx, key, "1", 36*time.Hour).Result()
	if err != nil {
		s.logger.Warn("sweep marker unavailable, proceeding without guard", zap.Error(err))
		return nil
	}
	if !ok {
		return attendanceerrors.ErrSweepAlreadyRan
	}
	return nil
}

func (s *service) releaseSweepMarker(ctx context.Context, day time.Time) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, sweepMarkerKey(day)).Err(); err != nil {
		s.logger.Warn("sweep marker release failed", zap.Error(err))
	}
}

func sweepMarkerKey(day time.Time) string {
	return fmt.Sprintf("attendance:sweep:%s", day.Format("2006-01-02"))
}

func mapToSessionResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:           s.ID.String(),
		StudentID:    s.StudentID.String(),
		SessionDate:  s.SessionDate.Format("2006-01-02"),
		CheckInTime:  s.CheckInTime.Format(time.RFC3339),
		CheckoutMode: s.CheckoutMode,
		Status:       s.Status,
		CheckedInBy:  s.CheckedInBy,
		CheckedOutBy: s.CheckedOutBy,
	}
	if s.CheckOutTime != nil {
		v := s.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &v
	}
	return resp
}

// dateOf truncates t to its calendar day in the caller's location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
