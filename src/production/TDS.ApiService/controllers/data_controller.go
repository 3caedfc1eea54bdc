package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/middleware"
	logger "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Logger"
	tdsmodels "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models"
	api_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/api"
	interfaces "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Repository/Interfaces"
)

// DataController handles telemetry read and write requests
type DataController struct {
	dataRepo interfaces.DeviceDataRepository
	logger   *logger.Logger
}

// NewDataController creates a new data controller
func NewDataController(dataRepo interfaces.DeviceDataRepository, logger *logger.Logger) *DataController {
	return &DataController{
		dataRepo: dataRepo,
		logger:   logger,
	}
}

// createDataRequest binds the telemetry write body. The numeric fields
// are pointers so a reading of 0 is distinguishable from a missing field.
type createDataRequest struct {
	DeviceID    string   `json:"deviceId"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

// GetLatest returns the most recent readings across all devices
func (h *DataController) GetLatest(c *gin.Context) {
	readings, err := h.dataRepo.GetLatest(c.Request.Context())
	if err != nil {
		h.logger.ErrorWithError(err, "failed to fetch latest device data")
		c.JSON(http.StatusInternalServerError, api_models.Fail("Server error"))
		return
	}

	if readings == nil {
		readings = []tdsmodels.DeviceData{}
	}
	c.JSON(http.StatusOK, api_models.Ok(readings))
}

// GetByDevice returns the most recent readings for one device
func (h *DataController) GetByDevice(c *gin.Context) {
	deviceID := c.Param("deviceId")

	readings, err := h.dataRepo.GetByDevice(c.Request.Context(), deviceID)
	if err != nil {
		h.logger.ErrorWithError(err, "failed to fetch device data")
		c.JSON(http.StatusInternalServerError, api_models.Fail("Server error"))
		return
	}

	if readings == nil {
		readings = []tdsmodels.DeviceData{}
	}
	c.JSON(http.StatusOK, api_models.Ok(readings))
}

// Create persists a new reading. Values are not range-checked; only
// presence of the three fields is enforced.
func (h *DataController) Create(c *gin.Context) {
	var req createDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api_models.Fail("Please provide deviceId, temperature, and humidity"))
		return
	}

	if req.DeviceID == "" || req.Temperature == nil || req.Humidity == nil {
		c.JSON(http.StatusBadRequest, api_models.Fail("Please provide deviceId, temperature, and humidity"))
		return
	}

	reading, err := h.dataRepo.Create(c.Request.Context(), tdsmodels.NewDeviceData(req.DeviceID, *req.Temperature, *req.Humidity))
	if err != nil {
		h.logger.ErrorWithError(err, "failed to create device data")
		c.JSON(http.StatusInternalServerError, api_models.Fail("Server error"))
		return
	}

	c.JSON(http.StatusCreated, api_models.Ok(reading))
}

// Delete removes a reading by its identifier
func (h *DataController) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.dataRepo.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			c.JSON(http.StatusNotFound, api_models.Fail("Device data not found"))
			return
		}
		h.logger.ErrorWithError(err, "failed to delete device data")
		c.JSON(http.StatusInternalServerError, api_models.Fail("Server error"))
		return
	}

	c.JSON(http.StatusOK, api_models.Ok(gin.H{}))
}

// RegisterRoutes registers the data routes with Gin
func (h *DataController) RegisterRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	data := router.Group("/api/data")
	{
		// Public read paths polled by the dashboard
		data.GET("/latest", h.GetLatest)
		data.GET("/device/:deviceId", h.GetByDevice)
	}

	adminOnly := data.Group("", authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
	{
		adminOnly.POST("", h.Create)
		adminOnly.DELETE("/:id", h.Delete)
	}
}
