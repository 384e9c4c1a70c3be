package points

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client

	mu     sync.Mutex
	stacks map[string]*AdjustmentStack // per-actor undo/redo stacks
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, stacks: make(map[string]*AdjustmentStack)}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb, stacks: make(map[string]*AdjustmentStack)}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) stackFor(actor string) *AdjustmentStack {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.stacks[actor]
	if !ok {
		st = NewAdjustmentStack(h.service)
		h.stacks[actor] = st
	}
	return st
}

func (h *Handler) Add(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	actor := c.GetString("actor")

	var req AddPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	req.Kind = "" // never trust kind from the wire

	resp, err := h.service.AddPoints(c.Request.Context(), actor, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// Positive awards become undoable for this actor's session.
	if resp.Points > 0 {
		h.stackFor(actor).Push(Adjustment{
			StudentID: resp.StudentID,
			Category:  resp.Category,
			Points:    resp.Points,
			Actor:     actor,
		})
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Undo(c *gin.Context) {
	actor := c.GetString("actor")

	resp, ok, err := h.stackFor(actor).Undo(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !ok {
		response.Success(c, http.StatusOK, gin.H{"undone": false}, nil)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Redo(c *gin.Context) {
	actor := c.GetString("actor")

	resp, ok, err := h.stackFor(actor).Redo(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !ok {
		response.Success(c, http.StatusOK, gin.H{"redone": false}, nil)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Void(c *gin.Context) {
	actor := c.GetString("actor")

	var req VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, err := h.service.Void(c.Request.Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Unvoid(c *gin.Context) {
	actor := c.GetString("actor")

	resp, err := h.service.Unvoid(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ResetSeason(c *gin.Context) {
	actor := c.GetString("actor")

	resp, err := h.service.ResetSeason(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListForStudent(c *gin.Context) {
	includeVoided := c.Query("include_voided") == "true"

	resp, err := h.service.ListByStudent(c.Request.Context(), c.Param("id"), includeVoided)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) TotalForStudent(c *gin.Context) {
	resp, err := h.service.TotalForStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
