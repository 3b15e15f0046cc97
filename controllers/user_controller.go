package controllers

import (
	"net/http"

	"land_records_lending/app"
	"land_records_lending/db"
	"land_records_lending/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

type createUserReq struct {
	Username string      `json:"username" binding:"required,min=3,max=255"`
	Password string      `json:"password" binding:"required,min=6"`
	FullName string      `json:"fullName" binding:"required"`
	Role     models.Role `json:"role" binding:"required,role"`
	Section  *string     `json:"section"`
}

type updateUserReq struct {
	Username *string      `json:"username" binding:"omitempty,min=3,max=255"`
	Password *string      `json:"password" binding:"omitempty,min=6"`
	FullName *string      `json:"fullName" binding:"omitempty,min=1"`
	Role     *models.Role `json:"role" binding:"omitempty,role"`
	Section  *string      `json:"section"`
}

// GET /api/users
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.Repo.ListUsers(c.Request.Context())
	if err != nil {
		uc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": users})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	user, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		uc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

// POST /api/users
func (uc *UserController) CreateUser(c *gin.Context) {
	var in createUserReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	u, err := uc.Repo.CreateUser(c.Request.Context(), uuid.NewString(), db.CreateUserInput{
		Username: in.Username,
		Password: in.Password,
		FullName: in.FullName,
		Role:     in.Role,
		Section:  in.Section,
	})
	if err != nil {
		uc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": u})
}

// PUT /api/users/:id
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var in updateUserReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	u, err := uc.Repo.UpdateUser(c.Request.Context(), id, db.UpdateUserInput{
		Username: in.Username,
		Password: in.Password,
		FullName: in.FullName,
		Role:     in.Role,
		Section:  in.Section,
	})
	if err != nil {
		uc.writeError(c, err)
		return
	}
	// 角色或密码变了，旧会话作废
	if in.Role != nil || in.Password != nil {
		if err := uc.AppSess.RevokeAllForUser(c.Request.Context(), u.ID); err != nil {
			uc.Log.Warn("revoke sessions failed", zap.String("user_id", u.ID), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	// 不允许删除自己，避免锁死
	if uid, _ := app.CurrentUser(c); uid == id {
		badRequestMsg(c, "cannot delete yourself")
		return
	}

	deleted, err := uc.Repo.DeleteUserByID(c.Request.Context(), id)
	if err != nil {
		uc.writeError(c, err)
		return
	}
	if deleted {
		// 撤销该用户的所有登录会话
		if err := uc.AppSess.RevokeAllForUser(c.Request.Context(), id); err != nil {
			uc.Log.Warn("revoke sessions failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, app.H{"deleted": deleted})
}
