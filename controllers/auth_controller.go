package controllers

import (
	"net/http"

	"land_records_lending/app"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	u, err := ac.Repo.VerifyCredentials(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		ac.writeError(c, err)
		return
	}

	sid := uuid.NewString()
	if err := ac.AppSess.Create(c.Request.Context(), sid, u.ID, u.Role); err != nil {
		ac.writeError(c, err)
		return
	}
	ac.setAppCookie(c.Writer, sid, ac.AppSess.TTL())
	ac.Log.Info("user logged in", zap.String("user_id", u.ID), zap.String("client_ip", c.ClientIP()))
	c.JSON(http.StatusOK, app.H{"user": u, "token": sid})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if sid := app.SessionID(c); sid != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), sid)
	}
	ac.setAppCookie(c.Writer, "", -1)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	uid, _ := app.CurrentUser(c)
	u, err := ac.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		ac.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}
