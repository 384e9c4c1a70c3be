package points_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/points"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	addPointsFn func(ctx context.Context, actor string, req points.AddPointsRequest) (points.EntryResponse, error)
}

func (f *fakeService) AddPoints(ctx context.Context, actor string, req points.AddPointsRequest) (points.EntryResponse, error) {
	return f.addPointsFn(ctx, actor, req)
}
func (f *fakeService) Void(ctx context.Context, actor, id, reason string) (points.EntryResponse, error) {
	return points.EntryResponse{}, nil
}
func (f *fakeService) Unvoid(ctx context.Context, actor, id string) (points.EntryResponse, error) {
	return points.EntryResponse{}, nil
}
func (f *fakeService) ResetSeason(ctx context.Context, actor string) (points.ResetSeasonResponse, error) {
	return points.ResetSeasonResponse{}, nil
}
func (f *fakeService) TotalForStudent(ctx context.Context, studentID string) (points.StudentTotalResponse, error) {
	return points.StudentTotalResponse{}, nil
}
func (f *fakeService) ListByStudent(ctx context.Context, studentID string, includeVoided bool) ([]points.EntryResponse, error) {
	return nil, nil
}

func postCtx(actor, path, body string) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("actor", actor)
	if body != "" {
		c.Request = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(http.MethodPost, path, nil)
	}
	return w, c
}

func TestHandler_AddThenUndo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	studentID := uuid.NewString()

	var awarded []points.AddPointsRequest
	svc := &fakeService{
		addPointsFn: func(ctx context.Context, actor string, req points.AddPointsRequest) (points.EntryResponse, error) {
			awarded = append(awarded, req)
			return points.EntryResponse{
				ID:        uuid.NewString(),
				StudentID: req.StudentID,
				Category:  req.Category,
				Points:    req.Points,
				Kind:      points.ParseCategory(req.Category, req.Points).Kind,
			}, nil
		},
	}
	h := points.NewHandler(svc)

	w, c := postCtx("Teacher Grace", "/points",
		`{"student_id":"`+studentID+`","category":"Memory Verse","points":10}`)
	h.Add(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	w2, c2 := postCtx("Teacher Grace", "/points/undo", "")
	h.Undo(c2)
	assert.Equal(t, http.StatusCreated, w2.Code)

	// The undo posted a compensating negative entry.
	assert.Len(t, awarded, 2)
	assert.Equal(t, -10, awarded[1].Points)
	assert.Equal(t, "Memory Verse", awarded[1].Category)
}

func TestHandler_UndoWithEmptyStack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := points.NewHandler(&fakeService{})

	w, c := postCtx("Teacher Grace", "/points/undo", "")
	h.Undo(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"undone":false`)
}

func TestHandler_StacksAreScopedToActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	studentID := uuid.NewString()

	svc := &fakeService{
		addPointsFn: func(ctx context.Context, actor string, req points.AddPointsRequest) (points.EntryResponse, error) {
			return points.EntryResponse{
				ID:        uuid.NewString(),
				StudentID: req.StudentID,
				Category:  req.Category,
				Points:    req.Points,
				Kind:      points.KindStandard,
			}, nil
		},
	}
	h := points.NewHandler(svc)

	w, c := postCtx("Teacher Grace", "/points",
		`{"student_id":"`+studentID+`","category":"Craft","points":5}`)
	h.Add(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	// A different teacher has nothing to undo.
	w2, c2 := postCtx("Teacher Mark", "/points/undo", "")
	h.Undo(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), `"undone":false`)
}
