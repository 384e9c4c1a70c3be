package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/attendance"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	checkInFn            func(ctx context.Context, actor, studentID string) (attendance.SessionResponse, error)
	checkInByAccessKeyFn func(ctx context.Context, actor, accessKey string) (attendance.SessionResponse, error)
	checkOutFn           func(ctx context.Context, actor, studentID string) (attendance.SessionResponse, error)
	runAutoCheckoutFn    func(ctx context.Context) (attendance.AutoCheckoutResponse, error)
	runAbsenceSweepFn    func(ctx context.Context, actor string) (attendance.SweepResponse, error)
	listForStudentFn     func(ctx context.Context, studentID string, limit int) ([]attendance.SessionResponse, error)
}

func (f *fakeService) CheckIn(ctx context.Context, actor, studentID string) (attendance.SessionResponse, error) {
	return f.checkInFn(ctx, actor, studentID)
}
func (f *fakeService) CheckInByAccessKey(ctx context.Context, actor, accessKey string) (attendance.SessionResponse, error) {
	return f.checkInByAccessKeyFn(ctx, actor, accessKey)
}
func (f *fakeService) CheckOut(ctx context.Context, actor, studentID string) (attendance.SessionResponse, error) {
	return f.checkOutFn(ctx, actor, studentID)
}
func (f *fakeService) RunAutoCheckout(ctx context.Context) (attendance.AutoCheckoutResponse, error) {
	return f.runAutoCheckoutFn(ctx)
}
func (f *fakeService) RunAbsenceSweep(ctx context.Context, actor string) (attendance.SweepResponse, error) {
	return f.runAbsenceSweepFn(ctx, actor)
}
func (f *fakeService) ListForStudent(ctx context.Context, studentID string, limit int) ([]attendance.SessionResponse, error) {
	return f.listForStudentFn(ctx, studentID, limit)
}

func TestHandler_CheckInByAccessKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		checkInByAccessKeyFn: func(ctx context.Context, actor, accessKey string) (attendance.SessionResponse, error) {
			assert.Equal(t, "Teacher Grace", actor)
			assert.Equal(t, "KK-2026-001", accessKey)
			return attendance.SessionResponse{
				ID:          uuid.NewString(),
				StudentID:   uuid.NewString(),
				CheckInTime: time.Now().Format(time.RFC3339),
				Status:      attendance.StatusOpen,
			}, nil
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("actor", "Teacher Grace")
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/check-in",
		strings.NewReader(`{"access_key":"KK-2026-001"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CheckIn(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), attendance.StatusOpen)
}

func TestHandler_CheckInRequiresAnIdentifier(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := attendance.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("actor", "Teacher Grace")
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/check-in", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CheckIn(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "access_key")
}

func TestHandler_SweepPassesActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		runAbsenceSweepFn: func(ctx context.Context, actor string) (attendance.SweepResponse, error) {
			assert.Equal(t, "Admin Ruth", actor)
			return attendance.SweepResponse{AbsentCount: 3, FrozenCount: 1}, nil
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("actor", "Admin Ruth")
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/sweep", nil)

	h.RunAbsenceSweep(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"frozen_count":1`)
}
