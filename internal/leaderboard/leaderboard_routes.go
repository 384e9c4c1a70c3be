package leaderboard

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	lb := r.Group("/leaderboard")
	lb.Use(middleware.AuthMiddleware())
	{
		lb.GET("", middleware.Authorize(enforcer, "points", "read"), h.Board)
		lb.GET("/students/:id", middleware.Authorize(enforcer, "points", "read"), h.StudentRank)
	}
}
