package event

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/model/response/wrapper"
	service "github.com/ZainyAct/browser-memory/internal/service/event"
	"github.com/ZainyAct/browser-memory/middleware"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type EventHandler struct {
	service service.EventService
	logger  *slog.Logger
}

func NewEventHandler(service service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) logIngest(c *gin.Context, userID uuid.UUID, result *entity.IngestResult) {
	attrs := []any{
		slog.String("user_id", userID.String()),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped),
	}
	if keyID, ok := middleware.ExtensionKeyID(c); ok {
		attrs = append(attrs, slog.String("extension_key_id", keyID.String()))
	}
	h.logger.Debug("events ingested", attrs...)
}

func (h *EventHandler) ingestError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrBatchTooLarge) || errors.Is(err, service.ErrMissingType) {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}
	h.logger.Error("ingest failed", slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to store events", Success: false})
}

// IngestEvent godoc
// @Summary      Ingest one browser event
// @Description  Store a single captured interaction. Events on denylisted hosts are dropped and reported as skipped.
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        event  body      entity.CreateEventRequest  true  "Event"
// @Success      200    {object}  wrapper.ResponseWrapper{data=entity.IngestResult}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      401    {object}  wrapper.ErrorWrapper
// @Failure      429    {object}  wrapper.ErrorWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Router       /ingest/event [post]
func (h *EventHandler) IngestEvent(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	var req entity.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: "Invalid request body: " + err.Error(), Success: false})
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), userID, req)
	if err != nil {
		h.ingestError(c, err)
		return
	}
	h.logIngest(c, userID, result)

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: result, Success: true})
}

// IngestBatch godoc
// @Summary      Ingest a batch of browser events
// @Description  Store up to 1000 events in one transaction.
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        batch  body      entity.BatchCreateEventRequest  true  "Events"
// @Success      200    {object}  wrapper.ResponseWrapper{data=entity.IngestResult}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      401    {object}  wrapper.ErrorWrapper
// @Failure      429    {object}  wrapper.ErrorWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Router       /ingest/batch [post]
func (h *EventHandler) IngestBatch(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	var req entity.BatchCreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: "Invalid request body: " + err.Error(), Success: false})
		return
	}

	result, err := h.service.IngestBatch(c.Request.Context(), userID, req)
	if err != nil {
		h.ingestError(c, err)
		return
	}
	h.logIngest(c, userID, result)

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: result, Success: true})
}

// RecentEvents godoc
// @Summary      Recent events
// @Description  Newest events first, optionally only those whose URL host equals host.
// @Tags         recent
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int     false  "Max events (1-500, default 100)"
// @Param        host   query     string  false  "Exact hostname"
// @Success      200    {object}  wrapper.ResponseWrapper{data=[]entity.Event}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      401    {object}  wrapper.ErrorWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Router       /recent/events [get]
func (h *EventHandler) RecentEvents(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	limit, err := utils.ParseLimit(c.Query("limit"), service.DefaultRecentLimit, service.MaxRecentLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	events, err := h.service.Recent(c.Request.Context(), userID, limit, c.Query("host"))
	if err != nil {
		h.logger.Error("failed to load recent events", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to load events", Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: events, Success: true})
}
