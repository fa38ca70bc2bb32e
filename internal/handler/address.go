package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"addressbook-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AddressHandler handles address CRUD and proximity requests
type AddressHandler struct {
	service AddressService
}

// Service interface for dependency injection
type AddressService interface {
	Create(context.Context, models.AddressCreate) (models.Address, error)
	Get(context.Context, int64) (models.Address, error)
	List(context.Context) ([]models.Address, error)
	Update(context.Context, int64, models.AddressUpdate) (models.Address, error)
	Delete(context.Context, int64) (models.Address, error)
	ListWithinDistance(ctx context.Context, lat, lon, distanceKm float64) ([]models.Address, error)
}

// CreateAddressRequest is the body of POST /addresses. Every field is required.
type CreateAddressRequest struct {
	Name      *string  `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// UpdateAddressRequest is the body of PUT /addresses/{id}. Omitted or null
// fields keep their stored value.
type UpdateAddressRequest struct {
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(svc AddressService) *AddressHandler {
	return &AddressHandler{service: svc}
}

// Register mounts the address routes on r
func (h *AddressHandler) Register(r gin.IRouter) {
	g := r.Group("/addresses")
	g.POST("", h.CreateAddress)
	g.GET("", h.ListAddresses)
	g.GET("/distance", h.ListWithinDistance)
	g.GET("/:id", h.GetAddress)
	g.PUT("/:id", h.UpdateAddress)
	g.DELETE("/:id", h.DeleteAddress)
}

// CreateAddress handles POST /addresses requests
//
//	@Summary	Create an address
//	@Tags		addresses
//	@Accept		json
//	@Produce	json
//	@Param		address	body		CreateAddressRequest	true	"Address to create"
//	@Success	201		{object}	models.Address
//	@Failure	400		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/addresses [post]
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: name, latitude and longitude are required"})
		return
	}

	address, err := h.service.Create(c.Request.Context(), models.AddressCreate{
		Name:      *req.Name,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, address)
}

// ListAddresses handles GET /addresses requests
//
//	@Summary	List all addresses
//	@Tags		addresses
//	@Produce	json
//	@Success	200	{array}		models.Address
//	@Failure	500	{object}	ErrorResponse
//	@Router		/addresses [get]
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.service.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

// GetAddress handles GET /addresses/{id} requests
//
//	@Summary	Get an address
//	@Tags		addresses
//	@Produce	json
//	@Param		id	path		int	true	"Address ID"
//	@Success	200	{object}	models.Address
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/addresses/{id} [get]
func (h *AddressHandler) GetAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	address, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, address)
}

// UpdateAddress handles PUT /addresses/{id} requests
//
//	@Summary	Update an address
//	@Tags		addresses
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Address ID"
//	@Param		address	body		UpdateAddressRequest	true	"Fields to overwrite"
//	@Success	200		{object}	models.Address
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/addresses/{id} [put]
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	address, err := h.service.Update(c.Request.Context(), id, models.AddressUpdate{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, address)
}

// DeleteAddress handles DELETE /addresses/{id} requests
//
//	@Summary	Delete an address
//	@Tags		addresses
//	@Produce	json
//	@Param		id	path		int	true	"Address ID"
//	@Success	200	{object}	models.Address
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/addresses/{id} [delete]
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	address, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, address)
}

// ListWithinDistance handles GET /addresses/distance requests
//
//	@Summary	List addresses within a geodesic distance of a point
//	@Tags		addresses
//	@Produce	json
//	@Param		latitude	query		number	true	"Latitude of the center point"
//	@Param		longitude	query		number	true	"Longitude of the center point"
//	@Param		distance	query		number	true	"Distance in kilometers"
//	@Success	200			{array}		models.Address
//	@Failure	400			{object}	ErrorResponse
//	@Router		/addresses/distance [get]
func (h *AddressHandler) ListWithinDistance(c *gin.Context) {
	latStr := c.Query("latitude")
	lonStr := c.Query("longitude")
	distStr := c.Query("distance")

	if latStr == "" || lonStr == "" || distStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'latitude', 'longitude' and 'distance'"})
		return
	}

	lat, err := parseFinite(latStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := parseFinite(lonStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	distance, err := parseFinite(distStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid distance format"})
		return
	}

	addresses, err := h.service.ListWithinDistance(c.Request.Context(), lat, lon, distance)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return 0, false
	}
	return id, true
}

var errNotFinite = errors.New("value is not a finite number")

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func serviceError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": models.ErrNotFound.Error()})
		return
	}
	internalError(c, err)
}

func internalError(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
