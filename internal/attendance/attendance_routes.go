package attendance

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	att := r.Group("/attendance")
	att.Use(middleware.AuthMiddleware())
	{
		att.POST("/check-in", middleware.Authorize(enforcer, "attendance", "create"), h.CheckIn)
		att.POST("/check-out", middleware.Authorize(enforcer, "attendance", "create"), h.CheckOut)
		att.POST("/auto-checkout", middleware.Authorize(enforcer, "attendance", "admin"), h.RunAutoCheckout)
		att.POST("/sweep", middleware.Authorize(enforcer, "attendance", "sweep"), h.RunAbsenceSweep)
		att.GET("/students/:id", middleware.Authorize(enforcer, "attendance", "read"), h.ListForStudent)
	}
}
