package app

import (
	"werise_backend/docs"
	"werise_backend/internal/middleware"
	"werise_backend/internal/model"
	"werise_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 所有接口都按设备划分存储命名空间
	api := router.Group("/api")
	api.Use(middleware.DeviceMiddleware())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c)

	auth := middleware.AuthMiddleware(a.services.auth)

	// 2. 登录用户
	user := api.Group("")
	user.Use(auth)
	a.registerUserRoutes(user, c)

	// 3. 导师工作台
	mentor := api.Group("/mentor")
	mentor.Use(auth, middleware.RoleMiddleware(model.RoleMentor))
	{
		mentor.GET("/assignments", c.mentor.ListAssignments)
		mentor.POST("/assignments/:email/curate", c.mentor.CurateAssignment)
	}

	// 4. 管理员相关接口
	admin := api.Group("/admin")
	admin.Use(auth, middleware.RoleMiddleware(model.RoleAdmin))
	a.registerAdminRoutes(admin, c)
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/health", c.health.HealthCheck)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", c.auth.SignUp)
		authGroup.POST("/signin", c.auth.SignIn)
		authGroup.POST("/password-reset", c.auth.RequestPasswordReset)
	}
}

func (a *App) registerUserRoutes(r *gin.RouterGroup, c *controllers) {
	r.POST("/auth/signout", c.auth.SignOut)

	r.GET("/profile", c.user.GetProfile)
	r.PUT("/profile", c.user.UpdateProfile)
	r.DELETE("/device", c.user.ResetDevice)

	r.GET("/dashboard", c.dashboard.GetDashboard)
	r.GET("/notifications", c.dashboard.GetNotifications)

	r.GET("/courses", c.course.ListCourses)
	r.GET("/courses/:id", c.course.GetCourse)

	path := r.Group("/path")
	{
		path.GET("", c.learningPath.GetPath)
		path.POST("/generate", c.learningPath.GenerateRoadmap)
		path.POST("/courses", c.learningPath.AddCourse)
		path.DELETE("/courses/:courseId", c.learningPath.RemoveCourse)
		path.PATCH("/courses/:courseId", c.learningPath.UpdateCourseStatus)
	}

	mentors := r.Group("/mentors")
	{
		mentors.GET("", c.mentor.ListMentors)
		mentors.POST("/:id/link", c.mentor.LinkMentor)
		mentors.POST("/:id/chat", c.mentor.Chat)
	}

	r.GET("/exam", c.question.GetExam)
	r.POST("/exam/submit", c.question.SubmitExam)
}

func (a *App) registerAdminRoutes(admin *gin.RouterGroup, c *controllers) {
	admin.GET("/stats", c.dashboard.GetAdminStats)

	admin.POST("/courses", c.course.CreateCourse)
	admin.DELETE("/courses/:id", c.course.DeleteCourse)

	admin.GET("/questions", c.question.ListQuestions)
	admin.POST("/questions", c.question.CreateQuestion)
	admin.PUT("/questions/:id", c.question.UpdateQuestion)
	admin.DELETE("/questions/:id", c.question.DeleteQuestion)

	admin.POST("/mentors", c.mentor.CreateMentor)
	admin.DELETE("/mentors/:id", c.mentor.DeleteMentor)
	admin.POST("/mentors/:id/avatar", c.mentor.UploadAvatar)

	admin.POST("/paths", c.learningPath.CreatePendingPath)
}
