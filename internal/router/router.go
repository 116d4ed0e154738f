package router

import (
	"time"

	"github.com/civicfix-dev/civicfix/internal/handlers"
	"github.com/civicfix-dev/civicfix/internal/middleware"
	"github.com/civicfix-dev/civicfix/internal/repository"
	"github.com/civicfix-dev/civicfix/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(store repository.Store) *gin.Engine {
	handlers.Setup(store)

	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthCheck)

	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.GET("/me", middleware.AuthMiddleware(store), handlers.Me)
		auth.POST("/logout", middleware.AuthMiddleware(store), handlers.Logout)
	}

	issues := r.Group("/issues", middleware.AuthMiddleware(store))
	{
		issues.POST("", handlers.CreateIssue)
		issues.GET("", handlers.ListIssues)
		issues.GET("/:id", handlers.GetIssue)
		issues.PUT("/:id", handlers.UpdateIssue)

		issues.POST("/:id/complete", handlers.CompleteIssue)
		issues.POST("/:id/approve-and-pay", middleware.RequireAdmin(), handlers.ApproveAndPay)
	}

	workers := r.Group("/workers", middleware.AuthMiddleware(store))
	{
		workers.GET("", handlers.ListWorkers)
		workers.GET("/available", handlers.AvailableWorkers)
		workers.GET("/status/:status", handlers.WorkersByStatus)
		workers.GET("/tag/:tag", handlers.WorkersByTag)
		workers.GET("/location/:location", handlers.WorkersByLocation)
		workers.GET("/role/:role", handlers.WorkersByRole)
		workers.GET("/issue/:issueId", middleware.RequireAdmin(), handlers.WorkersForIssue)
		workers.GET("/:workerId", handlers.GetWorker)
		workers.PUT("/:workerId", handlers.UpdateWorker)
		workers.DELETE("/:workerId", middleware.RequireAdmin(), handlers.DeleteWorker)

		workers.POST("/:workerId/assign", middleware.RequireAdmin(), handlers.AssignWorker)
		workers.POST("/auto-assign", middleware.RequireAdmin(), handlers.AutoAssignWorker)
	}

	payments := r.Group("/payments", middleware.AuthMiddleware(store))
	{
		// Any authenticated user may inspect a payment and its links.
		payments.GET("/:paymentId", handlers.GetPayment)
		payments.GET("/:paymentId/upi-links", handlers.GetPaymentUPILinks)

		admin := payments.Group("", middleware.RequireAdmin())
		admin.POST("/create", handlers.CreatePayment)
		admin.POST("/:paymentId/complete", handlers.CompletePayment)
		admin.GET("/pending", handlers.PendingPayments)
		admin.GET("", handlers.ListPayments)
	}

	reviews := r.Group("/reviews", middleware.AuthMiddleware(store), middleware.RequireAdmin())
	{
		reviews.POST("", handlers.CreateReview)
		reviews.GET("", handlers.ListReviews)
		reviews.GET("/issue/:issueId", handlers.GetReviewByIssue)
	}

	users := r.Group("/users", middleware.AuthMiddleware(store), middleware.RequireAdmin())
	{
		users.GET("", handlers.ListUsers)
		users.GET("/:id", handlers.GetUser)
		users.PUT("/:id", handlers.UpdateUser)
	}

	return r
}
