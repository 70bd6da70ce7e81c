package handler

import (
	"net/http"
	"strconv"

	"pintperfect/pub-service/internal/app/pubs/service"

	"github.com/gin-gonic/gin"
)

// SeedHandler - демонстрационные данные, маршрут есть только при SEED_ENABLED=true
type SeedHandler struct {
	seedService service.SeedServiceInterface
}

func NewSeedHandler(seedService service.SeedServiceInterface) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// Seed - POST /api/seed[?skipIfPresent=true]
func (h *SeedHandler) Seed(c *gin.Context) {
	skip, _ := strconv.ParseBool(c.Query("skipIfPresent"))

	result, err := h.seedService.Seed(c.Request.Context(), skip)
	if err != nil {
		respondError(c, err, "Failed to seed data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Seed data created successfully",
		"data":    result,
	})
}
