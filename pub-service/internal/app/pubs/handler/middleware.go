package handler

import (
	"errors"
	"net/http"
	"strings"

	"pintperfect/pkg/logger"
	"pintperfect/pub-service/internal/app/pubs/service"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware проверяет Bearer токен и кладет пользователя в контекст Gin
type AuthMiddleware struct {
	userService service.UserServiceInterface
}

func NewAuthMiddleware(userService service.UserServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondFail(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		user, err := m.userService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenRevoked) {
				respondFail(c, http.StatusUnauthorized, "Invalid or expired token")
				c.Abort()
				return
			}
			logger.Error().Err(err).Msg("Failed to authenticate request")
			respondFail(c, http.StatusInternalServerError, "Failed to validate token")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("token", token)

		c.Next()
	}
}

// bearerToken разбирает заголовок формата "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// BodyLimit ограничивает размер тела запроса.
// Заявленный Content-Length сверх лимита отклоняется сразу, остальное обрезает MaxBytesReader.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			respondFail(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
