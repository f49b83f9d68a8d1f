// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/uitext/uitext/app"
	"codeberg.org/uitext/uitext/config"
	"codeberg.org/uitext/uitext/server/middleware"
	"codeberg.org/uitext/uitext/server/middleware/limiter"
	"codeberg.org/uitext/uitext/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain. The locale of each
// request is matched against the locales of a.
func (router *Router) RegisterMiddleware(a *app.App) {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)

	if cfg := config.Global.Limiter; cfg.Enabled {
		router.Use(limiter.New(limiter.Options{
			RequestsPerMinute: cfg.RequestsPerMinute,
			Burst:             cfg.Burst,
			IPv4Prefix:        cfg.IPv4Prefix,
			IPv6Prefix:        cfg.IPv6Prefix,
		}).Middleware)
	}

	router.Use(set_request_context.WithRequestContext(a.Locale)) // needed for everything else
	router.Use(middleware.SetResponseHeaders)
}

// New returns a router with every route and middleware of the sample server.
func New(a *app.App) *Router {
	router := NewRouter()
	router.DefineRoutes(a)
	router.RegisterMiddleware(a)

	return router
}
