package api

import (
	"net/http"

	authdomain "classlink-backend/internal/auth/domain"
	"classlink-backend/internal/auth/delivery"
	authUsecase "classlink-backend/internal/auth/usecase"
	eventDelivery "classlink-backend/internal/event/delivery"
	eventUsecase "classlink-backend/internal/event/usecase"
	schoolDelivery "classlink-backend/internal/school/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, eventUsecase eventUsecase.EventUsecase, schoolHandler *schoolDelivery.SchoolHandler) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	eventHandler := eventDelivery.NewEventHandler(eventUsecase)

	staffOnly := delivery.RequireRole(authdomain.RoleTeacher, authdomain.RoleAdmin)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(delivery.AuthMiddleware(authUsecase))
		{
			fcm.POST("/register", authHandler.RegisterDeviceToken)
			fcm.DELETE("/token", authHandler.UnregisterDeviceToken)
		}

		// School directory routes (protected)
		school := api.Group("/school")
		school.Use(delivery.AuthMiddleware(authUsecase))
		{
			school.GET("/classes", schoolHandler.ListClasses)
			school.GET("/students/mine", schoolHandler.MyStudents)

			school.POST("/classes", staffOnly, schoolHandler.CreateClass)
			school.POST("/students", staffOnly, schoolHandler.CreateStudent)
			school.POST("/links", staffOnly, schoolHandler.LinkParent)
			school.DELETE("/links", staffOnly, schoolHandler.UnlinkParent)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(delivery.AuthMiddleware(authUsecase))
		{
			comments.POST("", staffOnly, eventHandler.CreateComment)
			comments.PATCH("/:id/read", eventHandler.MarkRead)
		}

		// Per-student comment listing
		students := api.Group("/students")
		students.Use(delivery.AuthMiddleware(authUsecase))
		{
			students.GET("/:id/comments", eventHandler.GetCommentsByStudent)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(delivery.AuthMiddleware(authUsecase))
		{
			notifications.GET("", eventHandler.GetNotifications)
			notifications.POST("", staffOnly, eventHandler.CreateNotification)
			notifications.PATCH("/:id/read", eventHandler.MarkRead)
			notifications.DELETE("/:id", delivery.RequireRole(authdomain.RoleAdmin), eventHandler.DeleteNotification)
		}
	}
}
