package app

import (
	"context"
	"net/http"
	"strings"

	"land_records_lending/db"
	"land_records_lending/models"
	"land_records_lending/session"

	"github.com/gin-gonic/gin"
)

const (
	AppSessionCookie = "app_session"

	CtxUserID = "userID"
	CtxRole   = "role"
)

type SessionReader interface {
	Get(ctx context.Context, id string) (*session.AppSession, error)
	Delete(ctx context.Context, id string) error
}

// SessionID 先取 Cookie，再取 Authorization: Bearer
func SessionID(c *gin.Context) string {
	if ck, err := c.Request.Cookie(AppSessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.GetHeader("Authorization")
	if v, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func AuthRequired(sess SessionReader, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := SessionID(c)
		if sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := sess.Get(c.Request.Context(), sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在；角色以数据库为准
		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			_ = sess.Delete(c.Request.Context(), sid)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		c.Set(CtxUserID, u.ID)
		c.Set(CtxRole, u.Role)
		c.Next()
	}
}

// RequireRole 必须挂在 AuthRequired 之后
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, role := CurrentUser(c)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
	}
}

func CurrentUser(c *gin.Context) (string, models.Role) {
	uid := c.GetString(CtxUserID)
	v, _ := c.Get(CtxRole)
	role, _ := v.(models.Role)
	return uid, role
}
