package extensionkey

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/model/response/wrapper"
	service "github.com/ZainyAct/browser-memory/internal/service/extensionkey"
	"github.com/ZainyAct/browser-memory/middleware"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type ExtensionKeyHandler struct {
	service service.ExtensionKeyService
	logger  *slog.Logger
}

func NewExtensionKeyHandler(service service.ExtensionKeyService, logger *slog.Logger) *ExtensionKeyHandler {
	return &ExtensionKeyHandler{
		service: service,
		logger:  logger,
	}
}

// CreateKey godoc
// @Summary      Issue an extension API key
// @Description  The returned apiKey is shown once; the extension sends it as X-API-Key.
// @Tags         extension
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key  body      entity.CreateExtensionKeyRequest  true  "Key name"
// @Success      201  {object}  wrapper.ResponseWrapper{data=entity.ExtensionKey}
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Failure      401  {object}  wrapper.ErrorWrapper
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /extension/keys [post]
func (h *ExtensionKeyHandler) CreateKey(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	var req entity.CreateExtensionKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: "Invalid request body: " + err.Error(), Success: false})
		return
	}

	key, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.logger.Error("failed to create extension key", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to create key", Success: false})
		return
	}

	c.JSON(http.StatusCreated, wrapper.ResponseWrapper{Data: key, Success: true})
}

// ListKeys godoc
// @Summary      List extension API keys
// @Tags         extension
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  wrapper.ResponseWrapper{data=[]entity.ExtensionKeyPublic}
// @Failure      401  {object}  wrapper.ErrorWrapper
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /extension/keys [get]
func (h *ExtensionKeyHandler) ListKeys(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	keys, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list extension keys", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to list keys", Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: keys, Success: true})
}

// RevokeKey godoc
// @Summary      Revoke an extension API key
// @Tags         extension
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Key ID"
// @Success      200  {object}  wrapper.SuccessWrapper
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Failure      401  {object}  wrapper.ErrorWrapper
// @Failure      404  {object}  wrapper.ErrorWrapper
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Router       /extension/keys/{id} [delete]
func (h *ExtensionKeyHandler) RevokeKey(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	id := c.Param("id")
	if !utils.ValidateUUID(id) {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: "Invalid UUID format", Success: false})
		return
	}

	if err := h.service.Revoke(c.Request.Context(), userID, uuid.FromStringOrNil(id)); err != nil {
		if errors.Is(err, service.ErrKeyNotFound) {
			c.JSON(http.StatusNotFound, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
			return
		}
		h.logger.Error("failed to revoke extension key", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to revoke key", Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.SuccessWrapper{Message: "Key revoked", Success: true})
}
