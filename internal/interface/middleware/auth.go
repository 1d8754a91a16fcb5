package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bienesraices/internal/domain/entity"
	"github.com/oksasatya/bienesraices/pkg/helpers"
)

// Context keys set by Protect and Identify.
const (
	CtxUserIDKey   = "userID"
	CtxUserNameKey = "userName"
)

// LoginPath is where unauthenticated visitors of protected pages are sent.
const LoginPath = "/login"

// UserLookup resolves the account behind a session.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*entity.User, error)
}

// Protect requires a valid session cookie that belongs to an existing user.
// Otherwise the cookie is cleared and the visitor is redirected to the login page.
func Protect(jwt *helpers.JWTManager, users UserLookup, cookies *helpers.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		claims, err := jwt.ParseSessionToken(token)
		if err != nil {
			cookies.Clear(c)
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		u, err := users.UserByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			cookies.Clear(c)
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserNameKey, u.Name)
		c.Next()
	}
}

// Identify reads the session when present. It never rejects a request.
func Identify(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(helpers.SessionCookie); err == nil && token != "" {
			if claims, err := jwt.ParseSessionToken(token); err == nil {
				c.Set(CtxUserIDKey, claims.UserID)
				c.Set(CtxUserNameKey, claims.Name)
			}
		}
		c.Next()
	}
}
