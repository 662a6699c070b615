package workflow

import (
	"log/slog"
	"net/http"

	"github.com/ZainyAct/browser-memory/internal/model/response/wrapper"
	service "github.com/ZainyAct/browser-memory/internal/service/workflow"
	"github.com/ZainyAct/browser-memory/middleware"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gin-gonic/gin"
)

type WorkflowHandler struct {
	service service.WorkflowService
	logger  *slog.Logger
}

func NewWorkflowHandler(service service.WorkflowService, logger *slog.Logger) *WorkflowHandler {
	return &WorkflowHandler{service: service, logger: logger}
}

// GetGraph godoc
// @Summary      Host transition graph
// @Description  Directed graph of consecutive host changes over the user's oldest events.
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Events to walk (1-2000, default 500)"
// @Success      200    {object}  wrapper.ResponseWrapper{data=entity.WorkflowGraph}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      401    {object}  wrapper.ErrorWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Router       /workflow/graph [get]
func (h *WorkflowHandler) GetGraph(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	limit, err := utils.ParseLimit(c.Query("limit"), service.DefaultGraphLimit, service.MaxGraphLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	graph, err := h.service.GetGraph(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to build workflow graph", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to build graph", Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: graph, Success: true})
}
