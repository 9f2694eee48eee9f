package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/identity"
	"github.com/minddumper/minddumper/services/logging"
	"github.com/minddumper/minddumper/services/profile"
	"github.com/minddumper/minddumper/session"
	"go.uber.org/zap"
)

type AuthHandler struct {
	config   *config.Config
	identity *identity.Service
	profiles *profile.Service
	logger   *logging.Service
}

func NewAuthHandler(cfg *config.Config, identitySvc *identity.Service, profiles *profile.Service, logger *logging.Service) *AuthHandler {
	return &AuthHandler{
		config:   cfg,
		identity: identitySvc,
		profiles: profiles,
		logger:   logger,
	}
}

// ExchangeGrant turns a verified session grant into a real cookie session and
// sends the user on to set a password. Grants are single-exchange in effect:
// the redirect target forces a password set and the grant itself expires
// within minutes.
func (h *AuthHandler) ExchangeGrant(c echo.Context) error {
	grant := c.QueryParam("grant")
	if grant == "" {
		return c.JSON(http.StatusBadRequest, errorBody("grant is required"))
	}

	claims, err := h.identity.VerifyGrant(grant)
	if err != nil {
		if errors.Is(err, identity.ErrGrantExpired) {
			return c.JSON(http.StatusGone, errorBody("grant has expired"))
		}
		return c.JSON(http.StatusUnauthorized, errorBody("invalid grant"))
	}

	p, err := h.profiles.GetByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return c.JSON(http.StatusUnauthorized, errorBody("invalid grant"))
		}
		if h.logger != nil {
			h.logger.Error("grant exchange failed", zap.Error(err))
		}
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}

	if p.PaymentStatus == profile.PaymentDisabled {
		return c.JSON(http.StatusForbidden, errorBody("account is disabled"))
	}

	if err := session.Login(c, p.ID); err != nil {
		if h.logger != nil {
			h.logger.Error("failed to establish session", zap.Error(err), zap.Uint("profile_id", p.ID))
		}
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}

	return c.Redirect(http.StatusFound, h.config.App.URL+"/set-password")
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) SetPassword(c echo.Context) error {
	profileID := session.GetProfileID(c)
	if profileID == 0 {
		return c.JSON(http.StatusUnauthorized, errorBody("authentication required"))
	}

	var req setPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, errorBody("password is required"))
	}

	if err := h.identity.SetPassword(h.profiles, profileID, req.Password); err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return c.JSON(http.StatusUnauthorized, errorBody("authentication required"))
		}
		if errors.Is(err, identity.ErrPasswordHashFailed) {
			return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
		}
		return c.JSON(http.StatusUnprocessableEntity, errorBody(err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]bool{"password_set": true})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	session.Logout(c)
	return c.NoContent(http.StatusOK)
}

func (h *AuthHandler) Me(c echo.Context) error {
	profileID := session.GetProfileID(c)
	if profileID == 0 {
		return c.JSON(http.StatusUnauthorized, errorBody("authentication required"))
	}

	p, err := h.profiles.GetByID(profileID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, errorBody("authentication required"))
	}

	return c.JSON(http.StatusOK, p)
}
