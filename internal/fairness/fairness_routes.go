package fairness

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	fr := r.Group("/fairness")
	fr.Use(middleware.AuthMiddleware())
	{
		fr.GET("/activity", middleware.Authorize(enforcer, "points", "admin"), h.TeacherActivity)
		fr.GET("/below-average", middleware.Authorize(enforcer, "points", "admin"), h.BelowAverage)
	}
}
