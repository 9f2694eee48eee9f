package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/handoff"
	"github.com/minddumper/minddumper/services/logging"
	"go.uber.org/zap"
)

type HandoffHandler struct {
	config  *config.Config
	handoff *handoff.Service
	logger  *logging.Service
}

func NewHandoffHandler(cfg *config.Config, handoffSvc *handoff.Service, logger *logging.Service) *HandoffHandler {
	return &HandoffHandler{
		config:  cfg,
		handoff: handoffSvc,
		logger:  logger,
	}
}

type redeemTokenRequest struct {
	Token string `json:"token"`
}

// RedeemToken exchanges an explicit login token for a session grant.
func (h *HandoffHandler) RedeemToken(c echo.Context) error {
	var req redeemTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if req.Token == "" {
		return c.JSON(http.StatusBadRequest, errorBody("token is required"))
	}

	grant, err := h.handoff.RedeemByToken(req.Token)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, grant)
}

// RedeemRecentPurchase applies the most-recent-purchase rule. An optional
// `within` query parameter (seconds) narrows the lookup; it can never widen
// it past the configured window.
func (h *HandoffHandler) RedeemRecentPurchase(c echo.Context) error {
	window := h.config.Handoff.RecentPurchaseWindow

	if raw := c.QueryParam("within"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return c.JSON(http.StatusBadRequest, errorBody("within must be a positive number of seconds"))
		}
		if requested := time.Duration(seconds) * time.Second; requested < window {
			window = requested
		}
	}

	grant, err := h.handoff.RedeemMostRecentPurchase(window)
	if err != nil {
		if errors.Is(err, handoff.ErrNoRecentPurchase) {
			return c.JSON(http.StatusNotFound, errorBody("no recent purchase found"))
		}
		return h.respondError(c, err)
	}

	return c.JSON(http.StatusOK, grant)
}

func (h *HandoffHandler) respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, handoff.ErrTokenRequired):
		return c.JSON(http.StatusBadRequest, errorBody("token is required"))
	case errors.Is(err, handoff.ErrTokenNotFound):
		return c.JSON(http.StatusUnauthorized, errorBody("invalid token"))
	case errors.Is(err, handoff.ErrTokenExpired):
		return c.JSON(http.StatusGone, errorBody("token has expired"))
	case errors.Is(err, handoff.ErrTokenUsed):
		return c.JSON(http.StatusGone, errorBody("token has already been used"))
	default:
		if h.logger != nil {
			h.logger.Error("redemption failed", zap.Error(err))
		}
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
