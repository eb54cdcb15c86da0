package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	portssvc "github.com/SscSPs/vehicle_registry_app/internal/core/ports/services"
	"github.com/SscSPs/vehicle_registry_app/internal/dto"
	"github.com/SscSPs/vehicle_registry_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// vehicleHandler handles HTTP requests for vehicles.
type vehicleHandler struct {
	vehicleService portssvc.VehicleSvcFacade
}

func newVehicleHandler(vs portssvc.VehicleSvcFacade) *vehicleHandler {
	return &vehicleHandler{vehicleService: vs}
}

// registerVehicleRoutes registers the vehicle routes. Reads are open to any
// active user, writes need the ADMIN role.
func registerVehicleRoutes(rg *gin.RouterGroup, vehicleService portssvc.VehicleSvcFacade) {
	h := newVehicleHandler(vehicleService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	vehicles := rg.Group("/veiculos")
	{
		vehicles.GET("", h.listVehicles)
		vehicles.GET("/relatorios/por-marca", h.reportByBrand)
		vehicles.GET("/:id", h.getVehicle)
		vehicles.POST("", adminOnly, h.createVehicle)
		vehicles.PUT("/:id", adminOnly, h.updateVehicle)
		vehicles.PATCH("/:id", adminOnly, h.patchVehicle)
		vehicles.DELETE("/:id", adminOnly, h.deleteVehicle)
	}
}

// vehicleIDParam validates the :id path parameter and writes a 400 when it is not a UUID.
func vehicleIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid vehicle ID"})
		return "", false
	}
	return id, true
}

// listVehicles godoc
// @Summary List vehicles
// @Description Lists non-deleted vehicles with optional filters, sorting and pagination. Price filters are in USD.
// @Description The response is a page envelope {veiculos, page, pageSize, total, totalPages}, not a bare array.
// @Tags vehicles
// @Produce json
// @Param marca query string false "Brand"
// @Param ano query int false "Year"
// @Param cor query string false "Color"
// @Param minPreco query number false "Minimum price (USD)"
// @Param maxPreco query number false "Maximum price (USD)"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param sortBy query string false "Sort field" Enums(preco, ano, marca, created_at, updated_at)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} dto.ListVehiclesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /veiculos [get]
func (h *vehicleHandler) listVehicles(c *gin.Context) {
	var params dto.ListVehiclesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.vehicleService.ListVehicles(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list vehicles")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getVehicle godoc
// @Summary Get a vehicle
// @Tags vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /veiculos/{id} [get]
func (h *vehicleHandler) getVehicle(c *gin.Context) {
	id, ok := vehicleIDParam(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.GetVehicleByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve vehicle")
		return
	}
	c.JSON(http.StatusOK, dto.ToVehicleResponse(vehicle))
}

// createVehicle godoc
// @Summary Register a vehicle
// @Description The price is given in BRL and stored in USD at the current rate.
// @Tags vehicles
// @Accept json
// @Produce json
// @Param vehicle body dto.CreateVehicleRequest true "Vehicle"
// @Success 201 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Plate already registered"
// @Failure 503 {object} ErrorResponse "Exchange rate unavailable"
// @Security BearerAuth
// @Router /veiculos [post]
func (h *vehicleHandler) createVehicle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create vehicle")
		return
	}

	logger.Info("Vehicle registered", slog.String("vehicle_id", vehicle.VehicleID))
	c.JSON(http.StatusCreated, dto.ToVehicleResponse(vehicle))
}

// updateVehicle godoc
// @Summary Replace a vehicle
// @Description Replaces every field. The price is given in BRL.
// @Tags vehicles
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param vehicle body dto.UpdateVehicleRequest true "Vehicle"
// @Success 200 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /veiculos/{id} [put]
func (h *vehicleHandler) updateVehicle(c *gin.Context) {
	id, ok := vehicleIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), id, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update vehicle")
		return
	}
	c.JSON(http.StatusOK, dto.ToVehicleResponse(vehicle))
}

// patchVehicle godoc
// @Summary Partially update a vehicle
// @Description Only the fields present are changed. A price, when sent, is given in BRL.
// @Tags vehicles
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param vehicle body dto.PatchVehicleRequest true "Fields to change"
// @Success 200 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /veiculos/{id} [patch]
func (h *vehicleHandler) patchVehicle(c *gin.Context) {
	id, ok := vehicleIDParam(c)
	if !ok {
		return
	}

	var req dto.PatchVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	vehicle, err := h.vehicleService.PatchVehicle(c.Request.Context(), id, req, userID)
	if err != nil {
		respondError(c, err, "Failed to patch vehicle")
		return
	}
	c.JSON(http.StatusOK, dto.ToVehicleResponse(vehicle))
}

// deleteVehicle godoc
// @Summary Delete a vehicle
// @Description Soft deletes the vehicle; it no longer appears in listings and its plate can be reused.
// @Tags vehicles
// @Param id path string true "Vehicle ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /veiculos/{id} [delete]
func (h *vehicleHandler) deleteVehicle(c *gin.Context) {
	id, ok := vehicleIDParam(c)
	if !ok {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), id, userID); err != nil {
		respondError(c, err, "Failed to delete vehicle")
		return
	}
	c.Status(http.StatusNoContent)
}

// reportByBrand godoc
// @Summary Vehicles per brand
// @Tags vehicles
// @Produce json
// @Success 200 {array} dto.BrandReportEntry
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /veiculos/relatorios/por-marca [get]
func (h *vehicleHandler) reportByBrand(c *gin.Context) {
	rows, err := h.vehicleService.ReportByBrand(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to build brand report")
		return
	}
	c.JSON(http.StatusOK, dto.ToBrandReport(rows))
}
