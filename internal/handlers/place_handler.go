package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/pagination"
	"centsible/internal/services"
)

// PlaceHandler handles saved-place requests.
type PlaceHandler struct {
	placeService services.PlaceServicer
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(placeService services.PlaceServicer) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

// CreatePlaceRequest represents the request payload for saving a place.
type CreatePlaceRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=100"`
	Latitude  float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Address   string  `json:"address" binding:"max=255"`
}

// UpdatePlaceRequest represents the request payload for updating a place.
type UpdatePlaceRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Address *string `json:"address" binding:"omitempty,max=255"`
}

// CreatePlace handles saving a new place.
// @Summary     Save a place
// @Description Save a new place where expenses happen
// @Tags        places
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePlaceRequest true "Place details"
// @Success     201 {object} models.Place "Place saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /places [post]
func (h *PlaceHandler) CreatePlace(c *gin.Context) {
	var req CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	place, err := h.placeService.CreatePlace(req.Name, req.Latitude, req.Longitude, req.Address)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"place": place})
}

// GetPlaces handles listing places.
// @Summary     Get places
// @Description Get a paginated list of saved places
// @Tags        places
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Place] "Paginated places"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /places [get]
func (h *PlaceHandler) GetPlaces(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.placeService.GetPlaces(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetNearbyPlaces handles nearby place lookup.
// @Summary     Get nearby places
// @Description Get saved places within a radius of the given coordinates, closest first
// @Tags        places
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       lat    query number true  "Latitude"
// @Param       lon    query number true  "Longitude"
// @Param       radius query number false "Radius in meters (default 500)"
// @Success     200 {array} models.Place "Nearby places"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /places/nearby [get]
func (h *PlaceHandler) GetNearbyPlaces(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "lat must be a number"))
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "lon must be a number"))
		return
	}

	radius := 500.0
	if v := c.Query("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "radius must be a positive number"))
			return
		}
	}

	places, err := h.placeService.Nearby(lat, lon, radius)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"places": places})
}

// GetPlace handles fetching a single place.
// @Summary     Get a place
// @Description Get a place by ID
// @Tags        places
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Place ID"
// @Success     200 {object} models.Place "Place"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Place not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /places/{id} [get]
func (h *PlaceHandler) GetPlace(c *gin.Context) {
	placeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	place, err := h.placeService.GetPlaceByID(placeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"place": place})
}

// UpdatePlace handles updating a place's name or address.
// @Summary     Update a place
// @Description Update a place's name or address. Coordinates are immutable.
// @Tags        places
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Place ID"
// @Param       request body UpdatePlaceRequest true "Fields to update"
// @Success     200 {object} models.Place "Place updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Place not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /places/{id} [patch]
func (h *PlaceHandler) UpdatePlace(c *gin.Context) {
	placeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	place, err := h.placeService.UpdatePlace(placeID, req.Name, req.Address)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"place": place})
}

// DeletePlace handles deleting a place.
// @Summary     Delete a place
// @Description Delete a saved place
// @Tags        places
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Place ID"
// @Success     204 "Place deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Place not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /places/{id} [delete]
func (h *PlaceHandler) DeletePlace(c *gin.Context) {
	placeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.placeService.DeletePlace(placeID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
