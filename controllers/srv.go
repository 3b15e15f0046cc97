// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"land_records_lending/app"
	"land_records_lending/db"
	"land_records_lending/models"
	"land_records_lending/session"

	"go.uber.org/zap"
)

// SessionStore 由 session.AppSessionStore 实现
type SessionStore interface {
	app.SessionReader
	Create(ctx context.Context, id, userID string, role models.Role) error
	RevokeAllForUser(ctx context.Context, userID string) error
	TTL() time.Duration
}

// Locker 由 session.SweepLock 实现
type Locker interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

var (
	_ SessionStore = (*session.AppSessionStore)(nil)
	_ Locker       = (*session.SweepLock)(nil)
)

type Srv struct {
	Repo      *db.Repo
	AppSess   SessionStore
	SweepLock Locker
	Log       *zap.Logger
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:      a.Repo,
		AppSess:   a.AppSessions(),
		SweepLock: a.SweepLock(),
		Log:       a.Log,
		Cfg:       a.Config,
	}
}

// --- helpers ---

// 统一设置业务会话 Cookie；maxAge < 0 表示删除
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	ma := int(maxAge / time.Second)
	if maxAge < 0 {
		ma = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Cfg.SecureCookie(),
		MaxAge:   ma,
	})
}
