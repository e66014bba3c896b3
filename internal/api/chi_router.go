// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecomd/ecomd/internal/config"
	"github.com/ecomd/ecomd/internal/middleware"
)

// Router assembles the handler and middleware factories into the route
// table.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter builds a Router with middleware derived from the service
// configuration.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to chi's
// func(http.Handler) http.Handler so the middleware package works with
// r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global stack, applied to every route in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health probes: permissive rate limit for monitoring tools.
	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Product catalog.
	r.Route("/api/products", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chiMiddleware(middleware.Compression))
			r.Get("/", router.handler.ListProducts)
			r.Get("/{pid}", router.handler.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWrite))
			r.Post("/", router.handler.CreateProduct)
			r.Put("/{pid}", router.handler.UpdateProduct)
			r.Delete("/{pid}", router.handler.DeleteProduct)
		})
	})

	// Shopping carts.
	r.Route("/api/carts", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chiMiddleware(middleware.Compression))
			r.Get("/{cid}", router.handler.GetCart)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWrite))
			r.Post("/", router.handler.CreateCart)
			r.Put("/{cid}", router.handler.ReplaceCartProducts)
			r.Delete("/{cid}", router.handler.ClearCart)
			r.Post("/{cid}/products/{pid}", router.handler.AddProductToCart)
			r.Put("/{cid}/products/{pid}", router.handler.UpdateCartProductQuantity)
			r.Delete("/{cid}/products/{pid}", router.handler.RemoveProductFromCart)
			// Older storefront clients use the singular path.
			r.Post("/{cid}/product/{pid}", router.handler.AddProductToCart)
		})
	})

	// Product feed websocket. The bare /ws alias predates the /api
	// prefix and is kept for existing clients.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket))
		r.Get("/api/ws", router.handler.WebSocket)
		r.Get("/ws", router.handler.WebSocket)
	})

	// Prometheus exposition.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
