package student

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, enforcer rbac.Enforcer) {
	students := r.Group("/students")
	students.Use(middleware.AuthMiddleware())
	{
		students.GET("", middleware.Authorize(enforcer, "students", "read"), h.GetAll)
		students.POST("", middleware.Authorize(enforcer, "students", "write"), h.Register)
		students.GET("/:id", middleware.Authorize(enforcer, "students", "read"), h.GetByID)
		students.PUT("/:id", middleware.Authorize(enforcer, "students", "write"), h.Update)
		students.DELETE("/:id", middleware.Authorize(enforcer, "students", "write"), h.Delete)
		students.POST("/:id/face", middleware.Authorize(enforcer, "students", "write"), h.EnrollFace)
		students.POST("/identify", middleware.Authorize(enforcer, "students", "read"), h.IdentifyFace)
	}
}
