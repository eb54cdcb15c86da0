package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/vehicle_registry_app/internal/core/ports/services"
	"github.com/SscSPs/vehicle_registry_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: ers}
}

func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("/usd-brl", h.getUSDBRL)
	}
}

// getUSDBRL godoc
// @Summary Current USD/BRL rate
// @Description Returns the rate used to convert vehicle prices and whether it came from the cache, a provider or the fixed override.
// @Tags exchange-rates
// @Produce json
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates/usd-brl [get]
func (h *exchangeRateHandler) getUSDBRL(c *gin.Context) {
	rate, err := h.exchangeRateService.GetUSDBRLRate(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
