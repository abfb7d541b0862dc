package routes

import (
	"net/http"

	"github.com/dukerupert/thaiaddress/internal/handler/api"
	"github.com/dukerupert/thaiaddress/internal/handler/form"
	"github.com/dukerupert/thaiaddress/internal/middleware"
)

// FormDeps contains dependencies for the server-rendered form routes
type FormDeps struct {
	Handler *form.AddressHandler
}

// APIDeps contains dependencies for the JSON lookup routes
type APIDeps struct {
	Handler *api.AddressHandler

	// RateLimiter is applied to /api/* when non-nil
	RateLimiter *middleware.RateLimiter

	// AllowedOrigins enables CORS on /api/* for the listed origins
	AllowedOrigins []string
}

// OpsDeps contains dependencies for health and metrics endpoints
type OpsDeps struct {
	Health  http.HandlerFunc
	Metrics http.Handler
}
