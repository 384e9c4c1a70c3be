package middleware

import (
	"net/http"

	autherrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/auth/errors"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/rbac"
	"github.com/digitalmerch4862/KingdomKids-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize enforces role-based access on an object/action pair. The role is
// set by AuthMiddleware, so this must run after it.
func Authorize(enforcer rbac.Enforcer, obj, act string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := enforcer.Enforce(role, obj, act)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(
				c,
				autherrors.ErrForbidden.HTTPStatus,
				autherrors.ErrForbidden.Code,
				autherrors.ErrForbidden.Message,
				map[string]any{"required": obj + ":" + act},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
