package handler

import (
	"errors"
	"net/http"

	"pintperfect/pkg/logger"
	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, entity.APIResponse{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, entity.APIResponse{Success: true, Message: message})
}

func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, entity.APIResponse{Success: false, Error: message})
}

// respondError переводит ошибку сервиса в HTTP статус.
// Неизвестные ошибки - 500 без деталей, детали только в логе.
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondFail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPubNotFound):
		respondFail(c, http.StatusNotFound, "Pub not found")
	case errors.Is(err, service.ErrRatingNotFound):
		respondFail(c, http.StatusNotFound, "Rating not found")
	case errors.Is(err, service.ErrUserNotFound):
		respondFail(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrPhotoNotFound):
		respondFail(c, http.StatusNotFound, "Photo not found")
	case errors.Is(err, service.ErrForbidden):
		respondFail(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, service.ErrUserExists):
		respondFail(c, http.StatusConflict, "User with this email or username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondFail(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenRevoked):
		respondFail(c, http.StatusUnauthorized, "Invalid or expired token")
	default:
		logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Str("request_id", c.GetString("request_id")).
			Msg(action)
		respondFail(c, http.StatusInternalServerError, action)
	}
}

// currentUserID достает ID пользователя, положенный AuthMiddleware
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondFail(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}

	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		respondFail(c, http.StatusInternalServerError, "Invalid user ID")
		return "", false
	}
	return userIDStr, true
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
