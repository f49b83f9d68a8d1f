// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"

	"codeberg.org/uitext/uitext/app"
	"codeberg.org/uitext/uitext/assets"
	"codeberg.org/uitext/uitext/config"
	"codeberg.org/uitext/uitext/server/middleware"
	"codeberg.org/uitext/uitext/server/routes"
)

// DefineRoutes sets up all the routes of the sample server.
func (router *Router) DefineRoutes(a *app.App) {
	rt := routes.Routes{App: a}

	router.Handle("GET /css/", fileServer())

	router.HandleFunc("GET /{$}", middleware.CatchError(rt.IndexPage))
	router.HandleFunc("GET /documents/{name}", middleware.CatchError(rt.DocumentPage))
	router.HandleFunc("GET /api/documents/{name}", middleware.CatchError(rt.DocumentText))

	if config.Global.Development.InDevelopment {
		router.HandleFunc("POST /cache/invalidate", middleware.CatchError(rt.InvalidateCache))
	}

	router.HandleFunc("/", middleware.CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusNotFound)

		return nil
	}))
}

// fileServer serves the embedded assets. Only the /css/ prefix is routed to it.
func fileServer() http.Handler {
	return http.FileServerFS(assets.FS)
}
