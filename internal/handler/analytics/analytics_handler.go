package analytics

import (
	"log/slog"
	"net/http"

	"github.com/ZainyAct/browser-memory/internal/model/response/wrapper"
	service "github.com/ZainyAct/browser-memory/internal/service/analytics"
	"github.com/ZainyAct/browser-memory/middleware"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  *slog.Logger
}

func NewAnalyticsHandler(service service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: logger}
}

// GetCharts godoc
// @Summary      Usage charts
// @Description  Event counts by type, top 20 hosts and per UTC day over the user's oldest events.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Events to aggregate (1-5000, default 1000)"
// @Success      200    {object}  wrapper.ResponseWrapper{data=entity.AnalyticsCharts}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      401    {object}  wrapper.ErrorWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Router       /analytics/charts [get]
func (h *AnalyticsHandler) GetCharts(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	limit, err := utils.ParseLimit(c.Query("limit"), service.DefaultChartsLimit, service.MaxChartsLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	charts, err := h.service.GetCharts(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to build charts", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to build charts", Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: charts, Success: true})
}
