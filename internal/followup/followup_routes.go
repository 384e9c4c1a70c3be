package followup

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	fu := r.Group("/followups")
	fu.Use(middleware.AuthMiddleware())
	{
		fu.GET("", middleware.Authorize(enforcer, "followups", "read"), h.List)
		fu.POST("/:id/assign", middleware.Authorize(enforcer, "followups", "write"), h.Assign)
		fu.POST("/:id/resolve", middleware.Authorize(enforcer, "followups", "write"), h.Resolve)
	}
}
