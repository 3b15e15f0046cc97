package routes

import (
	"net/http"

	"land_records_lending/app"
	"land_records_lending/controllers"
	"land_records_lending/models"

	"github.com/gin-gonic/gin"
)

type catalogHandlers interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func RegisterRoutes(r *gin.Engine, s *controllers.Srv) {
	// 控制器
	authCtl := controllers.NewAuthController(s)
	userCtl := controllers.NewUserController(s)
	borrowCtl := controllers.NewBorrowingController(s)
	notifyCtl := controllers.NewNotificationController(s)
	reportCtl := controllers.NewReportController(s)

	// 复用的中间件
	authMW := app.AuthRequired(s.AppSess, s.Repo)
	adminMW := app.RequireRole(models.RoleAdmin)

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })

	api := r.Group("/api")

	// ------------------------------
	// 登录 / 登出
	// ------------------------------
	auth := api.Group("/auth")
	{
		auth.POST("/login", authCtl.Login)
		auth.POST("/logout", authCtl.Logout)
		auth.GET("/me", authMW, authCtl.Me)
	}

	// ------------------------------
	// 用户管理（仅管理员）
	// ------------------------------
	users := api.Group("/users", authMW, adminMW)
	{
		users.GET("", userCtl.ListUsers)
		users.GET("/:id", userCtl.GetUser)
		users.POST("", userCtl.CreateUser)
		users.PUT("/:id", userCtl.UpdateUser)
		users.DELETE("/:id", userCtl.DeleteUser)
	}

	// ------------------------------
	// 三个目录：登录可查，管理员可改
	// ------------------------------
	registerCatalog(api.Group("/property-books", authMW), adminMW, controllers.PropertyBookController(s))
	registerCatalog(api.Group("/survey-deeds", authMW), adminMW, controllers.SurveyDeedController(s))
	registerCatalog(api.Group("/archival-dossiers", authMW), adminMW, controllers.ArchivalDossierController(s))

	// ------------------------------
	// 借还台账
	// ------------------------------
	borrowings := api.Group("/borrowings", authMW)
	{
		borrowings.GET("", borrowCtl.List) // ?userId=&status=&documentType=
		borrowings.GET("/open", adminMW, borrowCtl.ListOpen)
		borrowings.GET("/overdue", adminMW, borrowCtl.ListOverdue) // ?days=30
		borrowings.GET("/user/:userId", borrowCtl.ListByUser)
		borrowings.GET("/:id", borrowCtl.Get)
		borrowings.POST("", borrowCtl.Create)
		borrowings.POST("/:id/return", borrowCtl.Return)
	}

	// ------------------------------
	// 通知
	// ------------------------------
	notifications := api.Group("/notifications", authMW)
	{
		notifications.GET("", notifyCtl.Mine)
		notifications.GET("/unread", notifyCtl.Unread)
		notifications.POST("/:id/read", notifyCtl.MarkRead)
		notifications.POST("/read-all", notifyCtl.MarkAllRead)
		notifications.POST("", adminMW, notifyCtl.Create)
		notifications.POST("/generate-overdue", adminMW, notifyCtl.GenerateOverdue)
	}

	// ------------------------------
	// 报表：dashboard 按角色，其余仅管理员
	// ------------------------------
	reports := api.Group("/reports", authMW)
	{
		reports.GET("/dashboard", reportCtl.Dashboard) // ?userIds=a,b（管理员）
		reports.GET("/documents", adminMW, reportCtl.Documents)
		reports.GET("/users", adminMW, reportCtl.Users)
		reports.GET("/overdue", adminMW, reportCtl.Overdue)
		reports.GET("/overdue/export", adminMW, reportCtl.OverdueExport)
	}
}

func registerCatalog(g *gin.RouterGroup, adminMW gin.HandlerFunc, h catalogHandlers) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", adminMW, h.Create)
	g.PUT("/:id", adminMW, h.Update)
	g.DELETE("/:id", adminMW, h.Delete)
}
