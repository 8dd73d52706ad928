package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/peerfact/peerfact/internal/application"
	"github.com/peerfact/peerfact/internal/domain/entity"
	"github.com/peerfact/peerfact/internal/domain/repository"
	"github.com/peerfact/peerfact/pkg/helpers"
	"github.com/peerfact/peerfact/pkg/response"
	"github.com/peerfact/peerfact/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type bootstrapRequest struct {
	DisplayName string `json:"display_name" binding:"omitempty,max=64"`
}

type registerRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=3,max=64"`
	Password    string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"display_name": u.DisplayName,
		"reputation":   u.Reputation,
		"anonymous":    u.IsAnonymous,
		"active":       u.IsActive,
		"created_at":   u.CreatedAt,
	}
}

// Bootstrap creates an anonymous user and opens a session in one call, so a
// fresh client can start posting without registering.
func (h *UserHandler) Bootstrap(c *gin.Context) {
	// The body is optional; an absent or empty one means "pick a handle for me".
	var req bootstrapRequest
	_ = c.ShouldBindJSON(&req)
	u, pair, err := h.Svc.Bootstrap(c.Request.Context(), req.DisplayName)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			response.Error[any](c, http.StatusConflict, "display name already taken", nil)
			return
		}
		h.Logger.WithError(err).Error("bootstrap failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create user", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusCreated, userJSON(u), "anonymous user created", map[string]any{"access_expires_at": pair.AccessTokenExpiry})
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Register(c.Request.Context(), req.DisplayName, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			response.Error[any](c, http.StatusConflict, "display name already taken", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to register", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusCreated, userJSON(u), "registered", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.DisplayName, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, userJSON(u), "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "profile", nil)
}
