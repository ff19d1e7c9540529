package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"FinSight/internal/domain/models"
	"FinSight/internal/usecase"
	xhttp "FinSight/pkg/http"
	xlogger "FinSight/pkg/logger"
)

// AdvisorHandler exposes the query pipeline and catalog over HTTP.
type AdvisorHandler struct {
	advisor *usecase.Advisor
	logger  *xlogger.Logger
}

// NewAdvisorHandler creates the advisor HTTP handler.
func NewAdvisorHandler(advisor *usecase.Advisor, logger *xlogger.Logger) *AdvisorHandler {
	return &AdvisorHandler{advisor: advisor, logger: logger}
}

// RegisterRoutes implements xhttp.Handler.
func (h *AdvisorHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/query", h.Query)
	e.GET("/api/symbols", h.Symbols)
	e.GET("/api/suggest", h.Suggest)
	e.GET("/healthz", h.Health)
}

// Query runs one conversation turn through the aggregation pipeline.
func (h *AdvisorHandler) Query(c echo.Context) error {
	req := new(models.QueryRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	class, err := models.ParseAssetClass(req.AssetClass)
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	result, err := h.advisor.Process(c.Request().Context(), req.SessionID, req.Text, class)
	if err != nil {
		h.logger.Error("query turn failed",
			xlogger.String("session_id", req.SessionID),
			xlogger.Error(err),
		)
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, result)
}

// Symbols returns the loaded listing for one asset class.
func (h *AdvisorHandler) Symbols(c echo.Context) error {
	req := new(models.SymbolsRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	class, err := models.ParseAssetClass(req.AssetClass)
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	symbols := h.advisor.Symbols(c.Request().Context(), class)
	return xhttp.ListResponse(c, symbols, int64(len(symbols)))
}

// Suggest returns ranked "did you mean" candidates for a partial input.
func (h *AdvisorHandler) Suggest(c echo.Context) error {
	req := new(models.SuggestRequest)
	if errs := xhttp.ReadAndValidateRequest(c, req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	class, err := models.ParseAssetClass(req.AssetClass)
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	suggestions := h.advisor.Suggest(c.Request().Context(), class, req.Query, req.Limit)
	return xhttp.ListResponse(c, suggestions, int64(len(suggestions)))
}

// Health is the liveness probe.
func (h *AdvisorHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
