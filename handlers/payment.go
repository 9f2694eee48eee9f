package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/services/logging"
	"github.com/minddumper/minddumper/services/payment"
	"go.uber.org/zap"
)

const webhookSecretHeader = "X-Webhook-Secret"

type WebhookHandler struct {
	config  *config.Config
	payment *payment.Service
	logger  *logging.Service
}

func NewWebhookHandler(cfg *config.Config, paymentSvc *payment.Service, logger *logging.Service) *WebhookHandler {
	return &WebhookHandler{
		config:  cfg,
		payment: paymentSvc,
		logger:  logger,
	}
}

// OrderPaid receives the payment provider's order-paid notification.
func (h *WebhookHandler) OrderPaid(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, errorBody("invalid webhook secret"))
	}

	var event payment.OrderPaidEvent
	if err := c.Bind(&event); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	p, err := h.payment.ProcessOrderPaid(event)
	if err != nil {
		if errors.Is(err, payment.ErrOrderIDRequired) || errors.Is(err, payment.ErrEmailRequired) {
			return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		}
		if h.logger != nil {
			h.logger.Error("order-paid processing failed",
				zap.Error(err), zap.String("order_id", event.OrderID))
		}
		return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"processed":  true,
		"profile_id": p.ID,
	})
}

func (h *WebhookHandler) authorized(c echo.Context) bool {
	secret := h.config.Payment.WebhookSecret
	if secret == "" {
		return false
	}

	provided := c.Request().Header.Get(webhookSecretHeader)
	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}
