package settings

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	grp := r.Group("/settings")
	grp.Use(middleware.AuthMiddleware())
	{
		grp.GET("", middleware.Authorize(enforcer, "settings", "read"), h.Get)
		grp.PUT("", middleware.Authorize(enforcer, "settings", "write"), h.Update)
	}
}
