package delivery

import (
	"errors"
	"net/http"
	"strconv"

	authdelivery "classlink-backend/internal/auth/delivery"
	eventdto "classlink-backend/internal/event/dto"
	"classlink-backend/internal/event/usecase"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventUsecase usecase.EventUsecase
}

func NewEventHandler(eventUsecase usecase.EventUsecase) *EventHandler {
	return &EventHandler{
		eventUsecase: eventUsecase,
	}
}

func (h *EventHandler) CreateComment(c *gin.Context) {
	var req eventdto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authorID := c.GetString("userID")
	comment, err := h.eventUsecase.CreateComment(authorID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrStudentNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *EventHandler) GetCommentsByStudent(c *gin.Context) {
	studentID := c.Param("id")
	user := authdelivery.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	comments, err := h.eventUsecase.ListCommentsForStudent(user, studentID)
	if err != nil {
		if errors.Is(err, usecase.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "student is not linked to this account"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, eventdto.CommentsResponse{Comments: comments})
}

func (h *EventHandler) CreateNotification(c *gin.Context) {
	var req eventdto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authorID := c.GetString("userID")
	notif, err := h.eventUsecase.CreateNotification(authorID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, notif)
}

func (h *EventHandler) GetNotifications(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	notifications, err := h.eventUsecase.ListNotificationsForUser(user, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, eventdto.NotificationsResponse{Notifications: notifications})
}

func (h *EventHandler) DeleteNotification(c *gin.Context) {
	id := c.Param("id")
	if err := h.eventUsecase.DeleteNotification(id); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}

// MarkRead flips the caller's read state for a comment or notification.
func (h *EventHandler) MarkRead(c *gin.Context) {
	eventID := c.Param("id")
	userID := c.GetString("userID")

	if err := h.eventUsecase.MarkEventRead(eventID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}
