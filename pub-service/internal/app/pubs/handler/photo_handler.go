package handler

import (
	"net/http"
	"path/filepath"

	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type PhotoHandler struct {
	photoService service.PhotoServiceInterface
	validator    *validator.Validate
}

func NewPhotoHandler(photoService service.PhotoServiceInterface) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		validator:    validator.New(),
	}
}

// Upload - multipart форма: файл в поле image, опционально pubId и ratingId
func (h *PhotoHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if isBodyTooLarge(err) {
			respondFail(c, http.StatusRequestEntityTooLarge, "Image is too large")
			return
		}
		respondFail(c, http.StatusBadRequest, "No image uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondFail(c, http.StatusBadRequest, "Failed to read uploaded image")
		return
	}
	defer file.Close()

	req := entity.UploadPhotoRequest{
		PubID:    optionalForm(c, "pubId"),
		RatingID: optionalForm(c, "ratingId"),
	}

	photo, err := h.photoService.Upload(c.Request.Context(), userID, filepath.Ext(fileHeader.Filename), file, req)
	if err != nil {
		respondError(c, err, "Failed to upload photo")
		return
	}

	respondData(c, http.StatusCreated, photo)
}

// UploadBase64 - JSON {image: data URL, pubId?, ratingId?}
func (h *PhotoHandler) UploadBase64(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req entity.UploadPhotoBase64Request
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			respondFail(c, http.StatusRequestEntityTooLarge, "Image is too large")
			return
		}
		respondFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondFail(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	photo, err := h.photoService.UploadBase64(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "Failed to upload photo")
		return
	}

	respondData(c, http.StatusCreated, photo)
}

func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.photoService.DeletePhoto(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to delete photo")
		return
	}

	respondMessage(c, http.StatusOK, "Photo deleted successfully")
}

func optionalForm(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok || value == "" {
		return nil
	}
	return &value
}
