package routes

import (
	"civicreport-be/controllers"
	"civicreport-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ReportRoutes sets up the report routes
func ReportRoutes(r *gin.Engine, rc *controllers.ReportController) {
	report := r.Group("/api/report")
	{
		report.POST("/create", middlewares.AuthMiddleware(), middlewares.ReportRateLimiter(5), rc.CreateReport)
		report.GET("", rc.ListReports)
		report.GET("/stats", rc.GetStats)
		report.GET("/recent", rc.RecentReports)
		report.GET("/mine", middlewares.AuthMiddleware(), rc.MyReports)
	}
}
