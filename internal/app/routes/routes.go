package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/controllers"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/signup", authController.Signup)
	}

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.Authenticate())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	students := authenticated.Group("/students")
	{
		students.GET("", studentController.GetAllStudents)
		students.GET("/:id", studentController.GetStudent)
		students.GET("/:id/exams", studentController.GetExams)
		students.GET("/:id/fees", studentController.GetFees)
		students.GET("/:id/full", studentController.GetFull)

		students.POST("", adminOnly, studentController.CreateStudent)
		students.PUT("/:id", adminOnly, studentController.UpdateStudent)
		students.DELETE("/:id", adminOnly, studentController.DeleteStudent)
		students.POST("/full", adminOnly, studentController.CreateFull)
		students.PUT("/:id/full", adminOnly, studentController.UpdateFull)
		students.DELETE("/:id/full", adminOnly, studentController.DeleteFull)
	}

	admin := authenticated.Group("/admin")
	admin.Use(adminOnly)
	{
		admin.GET("/logins", adminController.GetLogins)
	}
}
