package points

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer, rdb *redis.Client) {
	pts := r.Group("/points")
	pts.Use(middleware.AuthMiddleware())
	{
		pts.POST("", middleware.Authorize(enforcer, "points", "create"), middleware.Idempotency(rdb), h.Add)
		pts.POST("/undo", middleware.Authorize(enforcer, "points", "create"), h.Undo)
		pts.POST("/redo", middleware.Authorize(enforcer, "points", "create"), h.Redo)
		pts.POST("/reset-season", middleware.Authorize(enforcer, "points", "admin"), h.ResetSeason)
		pts.POST("/:id/void", middleware.Authorize(enforcer, "points", "admin"), h.Void)
		pts.POST("/:id/unvoid", middleware.Authorize(enforcer, "points", "admin"), h.Unvoid)
		pts.GET("/students/:id", middleware.Authorize(enforcer, "points", "read"), h.ListForStudent)
		pts.GET("/students/:id/total", middleware.Authorize(enforcer, "points", "read"), h.TotalForStudent)
	}
}
