package user

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ZainyAct/browser-memory/internal/entity"
	"github.com/ZainyAct/browser-memory/internal/model/request"
	"github.com/ZainyAct/browser-memory/internal/model/response"
	"github.com/ZainyAct/browser-memory/internal/model/response/wrapper"
	"github.com/ZainyAct/browser-memory/internal/service/user"
	"github.com/ZainyAct/browser-memory/middleware"
	"github.com/ZainyAct/browser-memory/pkg/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	srv      user.UserService
	secret   []byte
	tokenTTL time.Duration
	secure   bool
	logger   *slog.Logger
}

// NewUserHandler issues tokens signed with secret. secure marks the token cookie Secure.
func NewUserHandler(srv user.UserService, secret []byte, tokenTTL time.Duration, secure bool, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		srv:      srv,
		secret:   secret,
		tokenTTL: tokenTTL,
		secure:   secure,
		logger:   logger,
	}
}

func toResponseUser(u *entity.User) response.User {
	return response.User{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: &u.CreatedAt,
		UpdatedAt: &u.UpdatedAt,
	}
}

func (h *UserHandler) issueToken(c *gin.Context, u *entity.User) {
	token, err := utils.GenerateToken(h.secret, h.tokenTTL, u.ID, u.Username)
	if err != nil {
		h.logger.Error("failed to sign token", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to issue token", Success: false})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.tokenTTL.Seconds()), "/", "", h.secure, true)
	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    response.AuthToken{Token: token, User: toResponseUser(u)},
		Success: true,
	})
}

// Register godoc
// @Summary Register a user
// @Description Create an account and return a JWT, also set as the token cookie
// @Tags users
// @Accept json
// @Produce json
// @Param user body request.Credentials true "Credentials"
// @Success 200 {object} wrapper.ResponseWrapper{data=response.AuthToken}
// @Failure 400 {object} wrapper.ErrorWrapper
// @Failure 409 {object} wrapper.ErrorWrapper
// @Failure 500 {object} wrapper.ErrorWrapper
// @Router /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var creds request.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	u, err := h.srv.Register(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
			return
		}
		h.logger.Error("failed to register user", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to register user", Success: false})
		return
	}

	h.issueToken(c, u)
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and return a JWT, also set as the token cookie
// @Tags users
// @Accept json
// @Produce json
// @Param user body request.Credentials true "Credentials"
// @Success 200 {object} wrapper.ResponseWrapper{data=response.AuthToken}
// @Failure 400 {object} wrapper.ErrorWrapper
// @Failure 401 {object} wrapper.ErrorWrapper
// @Failure 500 {object} wrapper.ErrorWrapper
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var creds request.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	u, err := h.srv.Authenticate(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
			return
		}
		h.logger.Error("failed to authenticate user", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: "Failed to log in", Success: false})
		return
	}

	h.issueToken(c, u)
}

// Profile godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} wrapper.ResponseWrapper{data=response.User}
// @Failure 401 {object} wrapper.ErrorWrapper
// @Failure 404 {object} wrapper.ErrorWrapper
// @Failure 500 {object} wrapper.ErrorWrapper
// @Router /users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return
	}

	u, err := h.srv.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
			return
		}
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: err.Error(), Success: false})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: toResponseUser(u), Success: true})
}
