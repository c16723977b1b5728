package app

import (
	"classroom_backend/docs"
	"classroom_backend/internal/config"
	"classroom_backend/internal/middleware"
	"classroom_backend/internal/model"
	"classroom_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		// 学生接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/courses/:courseId/enroll", c.course.Enroll)

	classroom := group.Group("/classroom/courses/:courseId")
	{
		classroom.GET("/progress", c.classroom.CourseProgress)
		classroom.GET("/lessons/:lessonId", c.classroom.ShowLesson)
		classroom.PATCH("/lessons/:lessonId/answer-quiz", c.classroom.AnswerQuiz)
		classroom.PATCH("/lessons/:lessonId/answer-personality-quiz", c.classroom.AnswerPersonalityQuiz)
		classroom.PATCH("/lessons/:lessonId/complete", c.classroom.MarkComplete)
	}
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher/courses/:courseId")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/lessons", c.lesson.CreateLesson)
		teacher.PUT("/lessons/:lessonId", c.lesson.UpdateLesson)

		teacher.GET("/leaderboard", c.course.Leaderboard)
		teacher.POST("/leaderboard/export", c.course.ExportLeaderboard)

		teacher.DELETE("/progress", c.course.ResetProgress)
		teacher.DELETE("/progress/:userId", c.course.ResetProgress)
	}
}
