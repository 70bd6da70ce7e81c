package handler

import (
	"net/http"

	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AuthHandler - регистрация, вход и профиль текущего пользователя
type AuthHandler struct {
	userService service.UserServiceInterface
	validator   *validator.Validate
}

func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondFail(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	resp, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}

	respondData(c, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondFail(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to login")
		return
	}

	respondData(c, http.StatusOK, resp)
}

// Me возвращает пользователя, найденного AuthMiddleware
func (h *AuthHandler) Me(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		respondFail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondData(c, http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	if token == "" {
		respondFail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.userService.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err, "Failed to logout")
		return
	}

	respondMessage(c, http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondFail(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}

	respondData(c, http.StatusOK, user)
}

// DeleteMe удаляет аккаунт и отзывает текущий токен
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}

	if token := c.GetString("token"); token != "" {
		// Токен удаленного пользователя и так отклоняется middleware
		_ = h.userService.Logout(c.Request.Context(), token)
	}

	respondMessage(c, http.StatusOK, "User deleted successfully")
}
