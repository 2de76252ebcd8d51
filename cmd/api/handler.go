package api

import (
	authUsecase "classlink-backend/internal/auth/usecase"
	eventUsecase "classlink-backend/internal/event/usecase"
	schoolDelivery "classlink-backend/internal/school/delivery"
	"classlink-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase   authUsecase.AuthUsecase
	eventUsecase  eventUsecase.EventUsecase
	schoolHandler *schoolDelivery.SchoolHandler
	config        *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, eventUc eventUsecase.EventUsecase, schoolHandler *schoolDelivery.SchoolHandler, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:   authUc,
		eventUsecase:  eventUc,
		schoolHandler: schoolHandler,
		config:        cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.eventUsecase, h.schoolHandler)

	return r.Run(addr)
}
