package handler

import (
	"net/http"

	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RatingHandler struct {
	ratingService service.RatingServiceInterface
	validator     *validator.Validate
}

func NewRatingHandler(ratingService service.RatingServiceInterface) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		validator:     validator.New(),
	}
}

func (h *RatingHandler) CreateRating(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondFail(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	rating, err := h.ratingService.CreateRating(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "Failed to create rating")
		return
	}

	respondData(c, http.StatusCreated, rating)
}

func (h *RatingHandler) GetRating(c *gin.Context) {
	rating, err := h.ratingService.GetRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get rating")
		return
	}

	respondData(c, http.StatusOK, rating)
}

func (h *RatingHandler) GetPubRatings(c *gin.Context) {
	ratings, err := h.ratingService.GetPubRatings(c.Request.Context(), c.Param("pubId"))
	if err != nil {
		respondError(c, err, "Failed to get ratings")
		return
	}

	respondData(c, http.StatusOK, ratings)
}

func (h *RatingHandler) GetUserRatings(c *gin.Context) {
	ratings, err := h.ratingService.GetUserRatings(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err, "Failed to get ratings")
		return
	}

	respondData(c, http.StatusOK, ratings)
}

func (h *RatingHandler) UpdateRating(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondFail(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	rating, err := h.ratingService.UpdateRating(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, err, "Failed to update rating")
		return
	}

	respondData(c, http.StatusOK, rating)
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.ratingService.DeleteRating(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to delete rating")
		return
	}

	respondMessage(c, http.StatusOK, "Rating deleted successfully")
}
