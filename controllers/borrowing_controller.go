package controllers

import (
	"net/http"
	"strconv"

	"land_records_lending/app"
	"land_records_lending/db"
	"land_records_lending/models"

	"github.com/gin-gonic/gin"
)

type BorrowingController struct{ *Srv }

func NewBorrowingController(s *Srv) *BorrowingController { return &BorrowingController{Srv: s} }

type createBorrowingReq struct {
	UserID       string              `json:"userId" binding:"omitempty,uuid"`
	DocumentType models.DocumentType `json:"documentType" binding:"required,doctype"`
	DocumentID   string              `json:"documentId" binding:"required,uuid"`
	Notes        *string             `json:"notes" binding:"omitempty,max=2000"`
}

type returnBorrowingReq struct {
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

type borrowingQuery struct {
	UserID       string                 `form:"userId" binding:"omitempty,uuid"`
	Status       models.BorrowingStatus `form:"status" binding:"omitempty,oneof=open closed"`
	DocumentType models.DocumentType    `form:"documentType" binding:"omitempty,doctype"`
}

// POST /api/borrowings
// 不传 userId 时借给自己；只有管理员可以替别人借
func (bc *BorrowingController) Create(c *gin.Context) {
	var in createBorrowingReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	uid, role := app.CurrentUser(c)
	borrower := in.UserID
	if borrower == "" {
		borrower = uid
	}
	if borrower != uid && role != models.RoleAdmin {
		forbidden(c)
		return
	}

	b, err := bc.Repo.CreateBorrowing(c.Request.Context(), db.CreateBorrowingInput{
		UserID:   borrower,
		Document: models.DocumentRef{Type: in.DocumentType, ID: in.DocumentID},
		Notes:    in.Notes,
	})
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// POST /api/borrowings/:id/return
func (bc *BorrowingController) Return(c *gin.Context) {
	var in returnBorrowingReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if !bc.canSee(c, id) {
		return
	}
	b, err := bc.Repo.ReturnBorrowing(c.Request.Context(), id, in.Notes)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// canSee 非管理员只能操作自己的借阅；记录不存在时交给仓库层报 404，返回 false 时已写响应
func (bc *BorrowingController) canSee(c *gin.Context, id string) bool {
	uid, role := app.CurrentUser(c)
	if role == models.RoleAdmin {
		return true
	}
	b, err := bc.Repo.GetBorrowingByID(c.Request.Context(), id)
	switch {
	case db.IsNotFound(err):
		return true
	case err != nil:
		bc.writeError(c, err)
		return false
	}
	if b.UserID != uid {
		forbidden(c)
		return false
	}
	return true
}

// GET /api/borrowings/:id
func (bc *BorrowingController) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	b, err := bc.Repo.GetBorrowingByID(c.Request.Context(), id)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	uid, role := app.CurrentUser(c)
	if role != models.RoleAdmin && b.UserID != uid {
		forbidden(c)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/borrowings?userId=&status=&documentType=
// 非管理员只能看到自己的记录
func (bc *BorrowingController) List(c *gin.Context) {
	var q borrowingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	uid, role := app.CurrentUser(c)
	if role != models.RoleAdmin {
		if q.UserID != "" && q.UserID != uid {
			forbidden(c)
			return
		}
		q.UserID = uid
	}
	items, err := bc.Repo.FindBorrowings(c.Request.Context(), db.BorrowingFilter{
		UserID:       q.UserID,
		Status:       q.Status,
		DocumentType: q.DocumentType,
	})
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/borrowings/user/:userId
func (bc *BorrowingController) ListByUser(c *gin.Context) {
	target, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	uid, role := app.CurrentUser(c)
	if role != models.RoleAdmin && target != uid {
		forbidden(c)
		return
	}
	items, err := bc.Repo.ListBorrowingsByUser(c.Request.Context(), target)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/borrowings/open（管理员）
func (bc *BorrowingController) ListOpen(c *gin.Context) {
	items, err := bc.Repo.ListOpenBorrowings(c.Request.Context())
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/borrowings/overdue?days=30（管理员）
func (bc *BorrowingController) ListOverdue(c *gin.Context) {
	days := models.OverdueThresholdDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequestMsg(c, "days must be an integer")
			return
		}
		if n > models.MaxOverdueThresholdDays {
			badRequestMsg(c, "days out of range")
			return
		}
		days = n
	}
	items, err := bc.Repo.ListOverdueBorrowings(c.Request.Context(), days)
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}
