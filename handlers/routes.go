package handlers

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"
	"github.com/minddumper/minddumper/config"
	"github.com/minddumper/minddumper/middleware/ratelimit"
	"github.com/minddumper/minddumper/server"
	"github.com/minddumper/minddumper/session"
)

var Module = fx.Options(
	fx.Provide(NewHandoffHandler),
	fx.Provide(NewAuthHandler),
	fx.Provide(NewWebhookHandler),
	fx.Provide(NewDumpHandler),
	fx.Invoke(RegisterRoutes),
)

func RegisterRoutes(
	srv *server.Server,
	cfg *config.Config,
	manager *session.Manager,
	sessions session.SessionService,
	limiterStore ratelimit.Store,
	handoffHandler *HandoffHandler,
	authHandler *AuthHandler,
	webhookHandler *WebhookHandler,
	dumpHandler *DumpHandler,
) {
	srv.Use(session.Middleware(manager))
	srv.Use(session.ServiceMiddleware(sessions))

	// The redemption endpoints are the only unauthenticated surface that
	// touches login tokens, so they carry the rate limit.
	var limited []echo.MiddlewareFunc
	if cfg.RateLimit.Enabled {
		limited = append(limited, ratelimit.Middleware(&ratelimit.Config{
			Store:  limiterStore,
			Rate:   cfg.RateLimit.Rate,
			Period: cfg.RateLimit.Period,
		}))
	}

	srv.Post("/api/auth/token", handoffHandler.RedeemToken, limited...)
	srv.Post("/api/auth/recent-purchase", handoffHandler.RedeemRecentPurchase, limited...)

	srv.Get("/auth/session", authHandler.ExchangeGrant)
	srv.Post("/api/webhooks/payment", webhookHandler.OrderPaid)

	authed := srv.Group("/api", session.RequireAuth())
	authed.POST("/auth/password", authHandler.SetPassword)
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)

	paid := srv.Group("/api", session.RequireAuth(), dumpHandler.RequirePaid())
	paid.GET("/categories", dumpHandler.ListCategories)
	paid.GET("/words", dumpHandler.ListTriggerWords)
	paid.GET("/words/custom", dumpHandler.ListCustomWords)
	paid.POST("/words/custom", dumpHandler.AddCustomWord)
	paid.DELETE("/words/custom/:id", dumpHandler.RemoveCustomWord)
	paid.GET("/dumps", dumpHandler.ListDumps)
	paid.POST("/dumps", dumpHandler.StartDump)
	paid.POST("/dumps/:id/entries", dumpHandler.AppendEntry)
	paid.POST("/dumps/:id/finish", dumpHandler.FinishDump)
}
