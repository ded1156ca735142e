package router

import (
	"cashbook/api"
	"cashbook/config"
	"cashbook/middleware"
	"cashbook/service"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the HTTP surface.
func SetupRouter(cfg *config.Config, sessions service.SessionStore) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	authHandler := api.NewAuthHandler(cfg, sessions)
	businessHandler := api.NewBusinessHandler(sessions)
	dashboardHandler := api.NewDashboardHandler()
	transactionHandler := api.NewTransactionHandler(cfg)
	exportHandler := api.NewExportHandler()
	memberHandler := api.NewMemberHandler()

	// Uploaded photos.
	r.Static("/media", cfg.Media.UploadDir)

	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	// Authenticated surface.
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth())
	{
		authorized.POST("/logout", authHandler.Logout)
		authorized.GET("/auth/profile", authHandler.GetProfile)

		// Business list/create need authentication but no selection.
		authorized.GET("/businesses", businessHandler.List)
		authorized.POST("/businesses", businessHandler.Create)
		authorized.GET("/businesses/lookups", businessHandler.Lookups)
		authorized.GET("/business/switch/:id", businessHandler.Switch)

		// Everything below operates on the active business.
		scoped := authorized.Group("")
		scoped.Use(middleware.RequireBusiness(sessions))
		{
			scoped.GET("/dashboard",
				middleware.RequireOperation(middleware.OpDashboardView), dashboardHandler.Get)
			scoped.GET("/transactions",
				middleware.RequireOperation(middleware.OpTransactionList), transactionHandler.List)
			scoped.POST("/transactions/cash-in",
				middleware.RequireOperation(middleware.OpCashInCreate), transactionHandler.CreateCashIn)
			scoped.POST("/transactions/cash-out",
				middleware.RequireOperation(middleware.OpCashOutCreate), transactionHandler.CreateCashOut)
			scoped.POST("/transactions/category",
				middleware.RequireOperation(middleware.OpCategoryCreate), transactionHandler.CreateCategory)
			scoped.GET("/export/excel",
				middleware.RequireOperation(middleware.OpExportExcel), exportHandler.ExportExcel)
			scoped.GET("/export/pdf",
				middleware.RequireOperation(middleware.OpExportPDF), exportHandler.ExportPDF)
			scoped.POST("/add-member",
				middleware.RequireOperation(middleware.OpMemberAdd), memberHandler.Add)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware allows cross-origin requests from the web client.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
