package routes

import (
	"civicreport-be/controllers"

	"github.com/gin-gonic/gin"
)

// ClassifyRoutes sets up the classification routes. No auth: the suggestion
// is advisory and carries no user data.
func ClassifyRoutes(r *gin.Engine, cc *controllers.ClassifyController) {
	ai := r.Group("/api/ai")
	{
		ai.POST("/describe", cc.Describe)
	}
}
