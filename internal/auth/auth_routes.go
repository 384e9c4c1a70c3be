package auth

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), h.Me)
		auth.POST("/register",
			middleware.AuthMiddleware(),
			middleware.Authorize(enforcer, "users", "admin"),
			h.Register,
		)
	}
}
