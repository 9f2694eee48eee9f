package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/minddumper/minddumper/services/payment"
	"github.com/minddumper/minddumper/services/profile"
	"github.com/minddumper/minddumper/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWebhookHandler(t *testing.T) *WebhookHandler {
	db := testutils.SetupTestDB(t, &profile.Profile{})
	cfg := testutils.GetTestConfig()

	profiles := profile.NewService(db, nil)
	svc := payment.NewService(cfg, db, profiles, nil)
	return NewWebhookHandler(cfg, svc, nil)
}

func postWebhook(h *WebhookHandler, secret, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if secret != "" {
		req.Header.Set(webhookSecretHeader, secret)
	}
	rec := httptest.NewRecorder()
	_ = h.OrderPaid(e.NewContext(req, rec))
	return rec
}

func TestWebhookHandler_OrderPaid(t *testing.T) {
	t.Run("valid event processed", func(t *testing.T) {
		h := setupWebhookHandler(t)

		rec := postWebhook(h, "test-webhook-secret",
			`{"order_id":"ord-1","email":"buyer@example.com","name":"Buyer"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["processed"])
		assert.NotZero(t, body["profile_id"])
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		h := setupWebhookHandler(t)

		rec := postWebhook(h, "wrong-secret",
			`{"order_id":"ord-1","email":"buyer@example.com"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing secret rejected", func(t *testing.T) {
		h := setupWebhookHandler(t)

		rec := postWebhook(h, "", `{"order_id":"ord-1","email":"buyer@example.com"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty configured secret rejects everything", func(t *testing.T) {
		h := setupWebhookHandler(t)
		h.config.Payment.WebhookSecret = ""

		rec := postWebhook(h, "", `{"order_id":"ord-1","email":"buyer@example.com"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		h := setupWebhookHandler(t)

		rec := postWebhook(h, "test-webhook-secret", `{"order_id":"","email":"buyer@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = postWebhook(h, "test-webhook-secret", `{"order_id":"ord-1","email":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
