package portal

import (
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes exposes the guardian portal. Access keys are the only
// credential, so the endpoints are public but tightly rate limited per IP.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	p := r.Group("/portal")
	p.Use(middleware.RateLimitByIP(0.5, 5))
	{
		p.GET("/:accessKey", h.Profile)
		p.GET("/:accessKey/story", h.Story)
	}
}
