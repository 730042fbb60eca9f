package router

import (
	"contract-registry/api/handler"
	"contract-registry/api/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, jwtSecret string,
	authH *handler.AuthHandler, recordH *handler.RecordHandler,
	ruleH *handler.RuleHandler, jobH *handler.JobHandler) {

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authH.Login)

		records := api.Group("/records", middleware.Auth(jwtSecret))
		{
			records.POST("", recordH.Create)
			records.GET("", recordH.List)
			records.GET("/:id", recordH.Get)
			records.PUT("/:id", recordH.Update)
			records.DELETE("/:id", recordH.Delete)
			records.POST("/:id/transition", recordH.Transition)
		}

		rules := api.Group("/notification-rules", middleware.Auth(jwtSecret))
		{
			rules.POST("", ruleH.Create)
			rules.GET("", ruleH.List)
			rules.PUT("/:id", ruleH.Update)
			rules.DELETE("/:id", ruleH.Delete)
		}

		jobs := api.Group("/jobs", middleware.Auth(jwtSecret))
		{
			jobs.POST("/transitions/run", jobH.RunTransitions)
			jobs.POST("/renewals/run", jobH.RunRenewals)
		}
	}
}
