package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/geo"
	"pintperfect/pub-service/internal/app/pubs/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// DefaultNearbyRadiusKm - радиус поиска, если клиент его не передал
const DefaultNearbyRadiusKm = 5.0

type PubHandler struct {
	pubService service.PubServiceInterface
	validator  *validator.Validate
}

func NewPubHandler(pubService service.PubServiceInterface) *PubHandler {
	return &PubHandler{
		pubService: pubService,
		validator:  validator.New(),
	}
}

// ListPubs - GET /api/pubs[?sort=rating]
func (h *PubHandler) ListPubs(c *gin.Context) {
	req := entity.ListPubsRequest{SortByRating: sortByRating(c)}

	pubs, err := h.pubService.ListPubs(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to get pubs")
		return
	}

	respondData(c, http.StatusOK, pubs)
}

func (h *PubHandler) GetPub(c *gin.Context) {
	pub, err := h.pubService.GetPub(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get pub")
		return
	}

	respondData(c, http.StatusOK, pub)
}

// Nearby - GET /api/pubs/nearby?lat=..&lng=..[&radius=5][&strict=true][&sort=rating]
func (h *PubHandler) Nearby(c *gin.Context) {
	h.nearby(c, "lat", "lng")
}

// NearLegacy - GET /api/pubs/near?latitude=..&longitude=..[&radius=5], старые клиенты
func (h *PubHandler) NearLegacy(c *gin.Context) {
	h.nearby(c, "latitude", "longitude")
}

func (h *PubHandler) nearby(c *gin.Context, latParam, lngParam string) {
	req, err := parseNearbyQuery(c, latParam, lngParam)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	pubs, err := h.pubService.FindNearby(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to find nearby pubs")
		return
	}

	respondData(c, http.StatusOK, pubs)
}

func (h *PubHandler) CreatePub(c *gin.Context) {
	var req entity.CreatePubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondFail(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	pub, err := h.pubService.CreatePub(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create pub")
		return
	}

	respondData(c, http.StatusCreated, pub)
}

func (h *PubHandler) UpdatePub(c *gin.Context) {
	var req entity.UpdatePubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondFail(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	pub, err := h.pubService.UpdatePub(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update pub")
		return
	}

	respondData(c, http.StatusOK, pub)
}

func (h *PubHandler) DeletePub(c *gin.Context) {
	if err := h.pubService.DeletePub(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete pub")
		return
	}

	respondMessage(c, http.StatusOK, "Pub deleted successfully")
}

func parseNearbyQuery(c *gin.Context, latParam, lngParam string) (entity.NearbyRequest, error) {
	lat, err := parseFloatParam(c, latParam, nil)
	if err != nil {
		return entity.NearbyRequest{}, err
	}
	lng, err := parseFloatParam(c, lngParam, nil)
	if err != nil {
		return entity.NearbyRequest{}, err
	}
	defaultRadius := DefaultNearbyRadiusKm
	radius, err := parseFloatParam(c, "radius", &defaultRadius)
	if err != nil {
		return entity.NearbyRequest{}, err
	}

	strict := false
	if raw := c.Query("strict"); raw != "" {
		strict, err = strconv.ParseBool(raw)
		if err != nil {
			return entity.NearbyRequest{}, fmt.Errorf("strict must be a boolean")
		}
	}

	return entity.NearbyRequest{
		Center:       geo.Point{Lat: lat, Lng: lng},
		RadiusKm:     radius,
		Strict:       strict,
		SortByRating: sortByRating(c),
	}, nil
}

// parseFloatParam читает число из query; def == nil - параметр обязателен
func parseFloatParam(c *gin.Context, name string, def *float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		if def == nil {
			return 0, fmt.Errorf("%s is required", name)
		}
		return *def, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return value, nil
}

func sortByRating(c *gin.Context) bool {
	return strings.EqualFold(c.Query("sort"), "rating")
}
