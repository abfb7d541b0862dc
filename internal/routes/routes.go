package routes

import (
	"net/http"

	"github.com/dukerupert/thaiaddress/internal/middleware"
	"github.com/dukerupert/thaiaddress/internal/router"
)

// RegisterFormRoutes registers the address form page and its partial
// update endpoint.
func RegisterFormRoutes(r *router.Router, deps FormDeps) {
	r.Get("/{$}", deps.Handler.Index)
	r.Post("/select", deps.Handler.Select, middleware.MaxBodySize(middleware.FormMaxBodySize))
}

// RegisterAPIRoutes registers the read-only JSON lookup API.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	var mw []router.Middleware
	if len(deps.AllowedOrigins) > 0 {
		mw = append(mw, router.CORS(deps.AllowedOrigins))
	}
	if deps.RateLimiter != nil {
		mw = append(mw, deps.RateLimiter.Middleware)
	}
	api := r.Group(mw...)

	api.Get("/api/provinces", deps.Handler.Provinces)
	api.Get("/api/districts", deps.Handler.Districts)
	api.Get("/api/sub-districts", deps.Handler.SubDistricts)
	api.Get("/api/zip-code", deps.Handler.ZipCode)
}

// RegisterOpsRoutes registers health and metrics endpoints.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/health", deps.Health)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		deps.Metrics.ServeHTTP(w, req)
	})
}
