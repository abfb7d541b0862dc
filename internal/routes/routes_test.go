package routes_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/dukerupert/thaiaddress/internal/handler"
	"github.com/dukerupert/thaiaddress/internal/handler/api"
	"github.com/dukerupert/thaiaddress/internal/handler/form"
	"github.com/dukerupert/thaiaddress/internal/middleware"
	"github.com/dukerupert/thaiaddress/internal/router"
	"github.com/dukerupert/thaiaddress/internal/routes"
	"github.com/dukerupert/thaiaddress/internal/selector"
	"github.com/dukerupert/thaiaddress/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := address.NewStore(address.WithLogger(logger))
	require.NoError(t, store.Load(context.Background(),
		address.FileSource("../address/testdata/thai-address.json")))

	renderer, err := handler.NewRenderer(web.Templates())
	require.NoError(t, err)

	metrics := middleware.NewMetrics("routes_test", nil)
	apiHandler := api.NewAddressHandler(store, logger)

	r := router.New(
		router.Recovery(logger, nil),
		middleware.RequestID,
		metrics.Middleware,
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig()),
		middleware.WithRequestLogger(logger),
	)
	r.Static("/static/", web.Static())
	routes.RegisterOpsRoutes(r, routes.OpsDeps{Health: apiHandler.Health, Metrics: metrics.Handler()})
	routes.RegisterFormRoutes(r, routes.FormDeps{
		Handler: form.NewAddressHandler(store, renderer, selector.Placeholder{}, logger),
	})
	routes.RegisterAPIRoutes(r, routes.APIDeps{
		Handler:     apiHandler,
		RateLimiter: middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig()),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestRoutes(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name     string
		path     string
		status   int
		contains string
	}{
		{"index", "/", http.StatusOK, "<option value=\"ภูเก็ต\""},
		{"unknown path", "/nope", http.StatusNotFound, ""},
		{"unknown api path", "/api/nope", http.StatusNotFound, ""},
		{"form endpoint is post only", "/select", http.StatusMethodNotAllowed, ""},
		{"static", "/static/app.css", http.StatusOK, ".selects"},
		{"health", "/health", http.StatusOK, `"status":"ok"`},
		{"provinces", "/api/provinces", http.StatusOK, "กรุงเทพมหานคร"},
		{"zip", "/api/zip-code?" + url.Values{
			"province": {"นนทบุรี"}, "district": {"ปากเกร็ด"}, "sub_district": {"ปากเกร็ด"},
		}.Encode(), http.StatusOK, "11120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			body := readBody(t, resp)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
			if tt.contains != "" {
				assert.Contains(t, body, tt.contains)
			}
		})
	}

	t.Run("metrics reflect traffic", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		body := readBody(t, resp)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `routes_test_http_requests_total{method="GET",path="/api/provinces",status="200"}`)
	})
}

func TestRoutes_SelectPartial(t *testing.T) {
	srv := newServer(t)

	form := url.Values{
		"changed":  {"province"},
		"province": {"เชียงใหม่"},
	}
	resp, err := http.Post(srv.URL+"/select", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<option value="แม่ริม">`)
	assert.NotContains(t, body, "<html")

	resp, err = http.Get(srv.URL + "/select")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
