package controllers

import (
	"context"
	"errors"
	"net/http"

	"land_records_lending/app"
	"land_records_lending/db"
	"land_records_lending/session"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ *Srv }

func NewNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

type createNotificationReq struct {
	UserID      string `json:"userId" binding:"required,uuid"`
	BorrowingID string `json:"borrowingId" binding:"required,uuid"`
	Message     string `json:"message" binding:"required,max=2000"`
}

// GET /api/notifications
func (nc *NotificationController) Mine(c *gin.Context) {
	uid, _ := app.CurrentUser(c)
	items, err := nc.Repo.ListNotificationsByUser(c.Request.Context(), uid)
	if err != nil {
		nc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/notifications/unread
func (nc *NotificationController) Unread(c *gin.Context) {
	uid, _ := app.CurrentUser(c)
	items, err := nc.Repo.ListUnreadNotificationsByUser(c.Request.Context(), uid)
	if err != nil {
		nc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items, "count": len(items)})
}

// POST /api/notifications/:id/read
// 别人的通知按不存在处理
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	uid, _ := app.CurrentUser(c)
	n, err := nc.Repo.GetNotificationByID(c.Request.Context(), id)
	if err != nil {
		nc.writeError(c, err)
		return
	}
	if n.UserID != uid {
		nc.writeError(c, db.ErrNotificationNotFound)
		return
	}
	n, err = nc.Repo.MarkNotificationRead(c.Request.Context(), id)
	if err != nil {
		nc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// POST /api/notifications/read-all
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	uid, _ := app.CurrentUser(c)
	n, err := nc.Repo.MarkAllNotificationsRead(c.Request.Context(), uid)
	if err != nil {
		nc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"updated": n})
}

// POST /api/notifications（管理员）
func (nc *NotificationController) Create(c *gin.Context) {
	var in createNotificationReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	n, err := nc.Repo.CreateNotification(c.Request.Context(), db.CreateNotificationInput{
		UserID:      in.UserID,
		BorrowingID: in.BorrowingID,
		Message:     in.Message,
	})
	if err != nil {
		nc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// POST /api/notifications/generate-overdue（管理员）
func (nc *NotificationController) GenerateOverdue(c *gin.Context) {
	var created int
	err := nc.SweepLock.Run(c.Request.Context(), func(ctx context.Context) error {
		n, err := nc.Repo.GenerateOverdueNotifications(ctx)
		created = n
		return err
	})
	if errors.Is(err, session.ErrLocked) {
		c.JSON(http.StatusConflict, app.H{"error": err.Error(), "reason": "sweep_running"})
		return
	}
	if err != nil {
		nc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"created": created})
}
