package attendance

import (
	"net/http"
	"strconv"

	attendanceerrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/attendance/errors"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/apperror"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// CheckIn accepts either a student ID or a scanned access key.
func (h *Handler) CheckIn(c *gin.Context) {
	actor := c.GetString("actor")

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	var (
		resp SessionResponse
		err  error
	)
	switch {
	case req.StudentID != "":
		resp, err = h.service.CheckIn(c.Request.Context(), actor, req.StudentID)
	case req.AccessKey != "":
		resp, err = h.service.CheckInByAccessKey(c.Request.Context(), actor, req.AccessKey)
	default:
		err = attendanceerrors.ErrMissingIdentifier
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	actor := c.GetString("actor")

	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, err := h.service.CheckOut(c.Request.Context(), actor, req.StudentID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RunAutoCheckout(c *gin.Context) {
	resp, err := h.service.RunAutoCheckout(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RunAbsenceSweep(c *gin.Context) {
	actor := c.GetString("actor")

	resp, err := h.service.RunAbsenceSweep(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListForStudent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	resp, err := h.service.ListForStudent(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
