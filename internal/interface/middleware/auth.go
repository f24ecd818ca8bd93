package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danieloks/account-service/internal/domain/entity"
	repo "github.com/danieloks/account-service/internal/domain/repository"
	"github.com/danieloks/account-service/pkg/helpers"
	"github.com/danieloks/account-service/pkg/response"
)

const ctxIdentityKey = "identity"

// IdentityFrom returns the identity Auth resolved for this request.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// Auth resolves the caller from the session cookie. Missing and invalid
// tokens are distinct failures only in message; both end as 401. A token for
// an account deleted since issuance ends as 404.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookie)
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "not authorized, no token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "not authorized, token failed", nil)
			c.Abort()
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				response.Error[any](c, http.StatusNotFound, "user not found", nil)
			} else {
				response.Error[any](c, http.StatusInternalServerError, "store unavailable", nil)
			}
			c.Abort()
			return
		}
		c.Set(ctxIdentityKey, Identity{
			ID:         u.ID,
			Name:       u.Name,
			Email:      u.Email,
			Role:       u.Role,
			IsVerified: u.IsVerified,
		})
		c.Next()
	}
}

// RequireRole gates a route on the caller's role. Must run after Auth.
func RequireRole(allowed ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, ErrUnauthenticated.Error(), nil)
			c.Abort()
			return
		}
		if err := CheckRole(id, allowed...); err != nil {
			response.Error[any](c, http.StatusForbidden, err.Error(), nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireVerified gates a route on a verified email address. Must run after Auth.
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, ErrUnauthenticated.Error(), nil)
			c.Abort()
			return
		}
		if err := CheckVerified(id); err != nil {
			response.Error[any](c, http.StatusForbidden, err.Error(), nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
