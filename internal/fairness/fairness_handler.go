package fairness

import (
	"net/http"
	"strconv"

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

func filterFromQuery(c *gin.Context) Filter {
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))
	return Filter{
		AgeGroup: c.Query("age_group"),
		Month:    month,
		Year:     year,
	}
}

func (h *Handler) TeacherActivity(c *gin.Context) {
	resp, err := h.service.TeacherActivity(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BelowAverage(c *gin.Context) {
	resp, err := h.service.BelowAverage(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
