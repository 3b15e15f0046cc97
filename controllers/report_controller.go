package controllers

import (
	"net/http"
	"strings"

	"land_records_lending/app"
	"land_records_lending/db"
	"land_records_lending/export"
	"land_records_lending/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// GET /api/reports/documents
func (rc *ReportController) Documents(c *gin.Context) {
	rows, err := rc.Repo.DocumentReport(c.Request.Context())
	if err != nil {
		rc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}

// GET /api/reports/users
func (rc *ReportController) Users(c *gin.Context) {
	rows, err := rc.Repo.UserBorrowingReport(c.Request.Context())
	if err != nil {
		rc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}

// GET /api/reports/overdue
func (rc *ReportController) Overdue(c *gin.Context) {
	rows, err := rc.Repo.OverdueReport(c.Request.Context())
	if err != nil {
		rc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}

// GET /api/reports/overdue/export
func (rc *ReportController) OverdueExport(c *gin.Context) {
	rows, err := rc.Repo.OverdueReport(c.Request.Context())
	if err != nil {
		rc.writeError(c, err)
		return
	}
	filename := "overdue-" + rc.Repo.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := export.WriteOverdueXLSX(c.Writer, rows); err != nil {
		_ = c.Error(err)
	}
}

// GET /api/reports/dashboard?userIds=a,b
// userIds 只对管理员开放；其他角色按身份决定范围
func (rc *ReportController) Dashboard(c *gin.Context) {
	uid, role := app.CurrentUser(c)

	if raw, ok := c.GetQuery("userIds"); ok {
		if role != models.RoleAdmin {
			forbidden(c)
			return
		}
		ids := splitIDs(raw)
		for _, id := range ids {
			if _, err := uuid.Parse(id); err != nil {
				badRequestMsg(c, "invalid userIds")
				return
			}
		}
		stats, err := rc.Repo.DashboardStats(c.Request.Context(), db.UsersScope(ids))
		if err != nil {
			rc.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
		return
	}

	stats, err := rc.Repo.DashboardFor(c.Request.Context(), db.Caller{UserID: uid, Role: role})
	if err != nil {
		rc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func splitIDs(raw string) []string {
	ids := []string{}
	seen := map[string]bool{}
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		ids = append(ids, s)
	}
	return ids
}
