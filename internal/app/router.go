package app

import (
	"csa_sim_backend/docs"
	"csa_sim_backend/internal/config"
	"csa_sim_backend/internal/middleware"
	"csa_sim_backend/internal/model"
	"csa_sim_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}

	// 2. 登录后可用的通用路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/schemes", c.scheme.ListSchemes)
		authGroup.GET("/schemes/names", c.scheme.SchemeNames)
		authGroup.GET("/schemes/:id", c.scheme.GetScheme)
		authGroup.GET("/questions", c.question.ListQuestions)
		authGroup.GET("/questions/:id", c.question.GetQuestion)
		authGroup.GET("/systems", c.system.ListSystems)

		authGroup.POST("/attempts", c.attempt.CreateAttempt)
		authGroup.GET("/attempts/:id", c.attempt.GetAttempt)
		authGroup.GET("/attempts/:id/feedback", c.attempt.GetManualFeedback)

		authGroup.GET("/improvements", c.improvement.GetByQuestionAndUser)
		authGroup.GET("/improvements/:id", c.improvement.GetImprovement)

		authGroup.GET("/users/:id/schemes", c.user.UserSchemes)
		authGroup.GET("/users/:id/schemes/:scheme_id/table", c.user.UserProgressTable)
		authGroup.GET("/users/:id/attempts", c.user.UserAttempts)
		authGroup.GET("/users/:id/scores", c.user.UserAverageScores)
		authGroup.GET("/users/:id/improvements", c.improvement.ListByUser)
	}

	// 3. 培训师及以上
	trainerGroup := router.Group("/api")
	trainerGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Trainer))
	{
		trainerGroup.GET("/users", c.user.ListUsers)
		trainerGroup.GET("/users/:id", c.user.GetUser)
		trainerGroup.PUT("/attempts/:id/feedback", c.attempt.SaveManualFeedback)
	}

	// 4. 仅管理员
	adminGroup := router.Group("/api")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/users", c.user.CreateUser)
		adminGroup.PUT("/users/:id", c.user.UpdateUser)
		adminGroup.DELETE("/users/:id", c.user.DeleteUser)
		adminGroup.POST("/users/:id/schemes", c.user.AssignScheme)
		adminGroup.DELETE("/users/:id/schemes/:scheme_id", c.user.UnassignScheme)

		adminGroup.POST("/schemes", c.scheme.CreateScheme)
		adminGroup.PUT("/schemes/:id", c.scheme.UpdateScheme)
		adminGroup.DELETE("/schemes/:id", c.scheme.DeleteScheme)
		adminGroup.POST("/schemes/:id/image", c.image.UploadSchemeImage)
		adminGroup.DELETE("/schemes/:id/image", c.image.DeleteSchemeImage)

		adminGroup.POST("/questions", c.question.CreateQuestion)
		adminGroup.PUT("/questions/:id", c.question.UpdateQuestion)
		adminGroup.DELETE("/questions/:id", c.question.DeleteQuestion)
		adminGroup.POST("/questions/:id/regrade", c.question.RegradeQuestion)

		adminGroup.GET("/prompt", c.prompt.GetPrompt)
		adminGroup.PUT("/prompt", c.prompt.SavePrompt)
		adminGroup.POST("/prompt/reset", c.prompt.ResetPrompt)
		adminGroup.GET("/prompt/history", c.prompt.PromptHistory)
		adminGroup.POST("/prompt/revert/:history_id", c.prompt.RevertPrompt)

		adminGroup.POST("/systems", c.system.CreateSystem)
		adminGroup.PUT("/systems/:id", c.system.UpdateSystem)
		adminGroup.DELETE("/systems/:id", c.system.DeleteSystem)

		adminGroup.POST("/datasets/questions", c.dataset.ImportQuestions)
		adminGroup.POST("/datasets/corpus", c.dataset.ReloadCorpus)
	}
}
