package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"CafePull/internal/domain/apperrors"
	"CafePull/internal/domain/models"
	"CafePull/internal/usecase"
	xhttp "CafePull/pkg/http"
	xlogger "CafePull/pkg/logger"
)

// IndicatorHandler exposes the coffee indicator endpoints.
type IndicatorHandler struct {
	coffeePrice *usecase.CoffeePriceUseCase
	liveStats   *usecase.LiveStatisticsUseCase
	logger      *xlogger.Logger
}

func NewIndicatorHandler(
	coffeePrice *usecase.CoffeePriceUseCase,
	liveStats *usecase.LiveStatisticsUseCase,
	logger *xlogger.Logger,
) *IndicatorHandler {
	return &IndicatorHandler{
		coffeePrice: coffeePrice,
		liveStats:   liveStats,
		logger:      logger,
	}
}

// RegisterRoutes wires the handler into the echo instance.
func (h *IndicatorHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/precio-hoy", h.GetCoffeePriceToday)
	g.GET("/estadisticas-en-vivo", h.GetLiveStatistics)

	e.GET("/health", h.Health)
}

// GetCoffeePriceToday handles GET /api/precio-hoy.
func (h *IndicatorHandler) GetCoffeePriceToday(c echo.Context) error {
	indicator, err := h.coffeePrice.Execute(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return xhttp.SuccessResponse(c, "Precio obtenido exitosamente", indicator)
}

type liveStatisticsRequest struct {
	Range string `query:"range" default:"1M" validate:"oneof=1M 3M 6M 1Y"`
}

// GetLiveStatistics handles GET /api/estadisticas-en-vivo?range=1M.
func (h *IndicatorHandler) GetLiveStatistics(c echo.Context) error {
	var req liveStatisticsRequest
	if payload := xhttp.ReadAndValidateRequest(c, &req); payload != nil {
		return xhttp.BadRequestResponse(c, payload)
	}

	history, err := h.liveStats.Execute(c.Request().Context(), models.TimeRange(req.Range))
	if err != nil {
		return h.writeError(c, err)
	}

	message := fmt.Sprintf("Estadísticas en vivo obtenidas exitosamente para período %s", req.Range)
	return xhttp.SuccessResponse(c, message, history)
}

// Health handles GET /health.
func (h *IndicatorHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "cafepull",
		"version": xhttp.Version,
	})
}

func (h *IndicatorHandler) writeError(c echo.Context, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return xhttp.ErrorResponse(c, appErr.Status, appErr.Message, appErr.Code, appErr.Detail)
	}

	h.logger.Error("unhandled error", xlogger.Error(err))
	return xhttp.InternalServerErrorResponse(c)
}
