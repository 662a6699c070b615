package memory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/model/response/wrapper"
	service "github.com/ZainyAct/browser-memory/internal/service/memory"
	"github.com/ZainyAct/browser-memory/middleware"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

type MemoryHandler struct {
	service service.MemoryService
	logger  *slog.Logger
}

func NewMemoryHandler(service service.MemoryService, logger *slog.Logger) *MemoryHandler {
	return &MemoryHandler{
		service: service,
		logger:  logger,
	}
}

// Summarize godoc
// @Summary      Summarize recent activity
// @Description  Turn the last N minutes of events into one memory per host. An empty body uses 20 minutes.
// @Tags         memories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      entity.SummarizeRequest  false  "Window"
// @Success      200      {object}  wrapper.ResponseWrapper{data=entity.SummarizeResult}
// @Failure      400      {object}  wrapper.ErrorWrapper
// @Failure      401      {object}  wrapper.ErrorWrapper
// @Failure      500      {object}  wrapper.ErrorWrapper
// @Router       /summarize/run [post]
func (h *MemoryHandler) Summarize(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	var req entity.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: "Invalid request body: " + err.Error(), Success: false})
		return
	}

	result, err := h.service.SummarizeRecent(c.Request.Context(), userID, req.Minutes)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
			return
		}
		h.logger.Error("summarize failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to summarize events", Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: result, Success: true})
}

// Search godoc
// @Summary      Search memories
// @Description  Full-text search over memory summaries with a substring fallback.
// @Tags         memories
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  true   "Query"
// @Param        limit  query     int     false  "Max results (1-100, default 20)"
// @Success      200    {object}  wrapper.ResponseWrapper{data=[]entity.Memory}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      401    {object}  wrapper.ErrorWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Router       /search [get]
func (h *MemoryHandler) Search(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	limit, err := utils.ParseLimit(c.Query("limit"), defaultSearchLimit, maxSearchLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	memories, err := h.service.Search(c.Request.Context(), entity.MemorySearchFilter{
		UserID: userID,
		Query:  c.Query("q"),
		Limit:  limit,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
			return
		}
		h.logger.Error("memory search failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to search memories", Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: memories, Success: true})
}

// RecentMemories godoc
// @Summary      Recent memories
// @Tags         recent
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max memories (1-200, default 50)"
// @Success      200    {object}  wrapper.ResponseWrapper{data=[]entity.Memory}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      401    {object}  wrapper.ErrorWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Router       /recent/memories [get]
func (h *MemoryHandler) RecentMemories(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	limit, err := utils.ParseLimit(c.Query("limit"), defaultRecentLimit, maxRecentLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	memories, err := h.service.Recent(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to load recent memories", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to load memories", Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: memories, Success: true})
}
