package api

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/dukerupert/thaiaddress/internal/domain"
	"github.com/dukerupert/thaiaddress/internal/handler"
	"github.com/dukerupert/thaiaddress/internal/middleware"
)

// Store is the query surface of address.Store used by the API.
type Store interface {
	address.Dataset
	Loaded() bool
	FindProvincesByPrefix(query string) []string
	Stats() address.Stats
}

// AddressHandler serves the address hierarchy as JSON.
type AddressHandler struct {
	store  Store
	logger *slog.Logger
}

// NewAddressHandler creates a new address API handler
func NewAddressHandler(store Store, logger *slog.Logger) *AddressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AddressHandler{
		store:  store,
		logger: logger,
	}
}

// ListResponse wraps a list of names.
type ListResponse struct {
	Items []string `json:"items"`
}

// ZipCodeResponse is returned by /api/zip-code.
type ZipCodeResponse struct {
	Province    string `json:"province"`
	District    string `json:"district"`
	SubDistrict string `json:"sub_district"`
	ZipCode     string `json:"zip_code"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status string        `json:"status"`
	Stats  address.Stats `json:"stats"`
}

// Provinces handles GET /api/provinces[?q=]
//
// Without q every province is listed in collation order; with q only
// provinces containing it.
func (h *AddressHandler) Provinces(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r, "api.provinces") {
		return
	}

	var items []string
	if q := r.URL.Query(); q.Has("q") {
		items = h.store.FindProvincesByPrefix(q.Get("q"))
	} else {
		items = h.store.ListProvinces()
	}

	handler.WriteJSON(w, http.StatusOK, ListResponse{Items: items})
}

// Districts handles GET /api/districts?province=
//
// An unknown province yields an empty list, not an error.
func (h *AddressHandler) Districts(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r, "api.districts") {
		return
	}

	province := r.URL.Query().Get("province")
	if province == "" {
		handler.ErrorResponse(w, r, domain.Invalid("api.districts", "province is required"))
		return
	}

	handler.WriteJSON(w, http.StatusOK, ListResponse{Items: h.store.ListDistricts(province)})
}

// SubDistricts handles GET /api/sub-districts?province=&district=
func (h *AddressHandler) SubDistricts(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r, "api.sub_districts") {
		return
	}

	q := r.URL.Query()
	province, district := q.Get("province"), q.Get("district")
	if province == "" || district == "" {
		handler.ErrorResponse(w, r, domain.Invalid("api.sub_districts", "province and district are required"))
		return
	}

	handler.WriteJSON(w, http.StatusOK, ListResponse{Items: h.store.ListSubDistricts(province, district)})
}

// ZipCode handles GET /api/zip-code?province=&district=&sub_district=
//
// Response codes:
// - 200 OK: the triple resolves to a zip code
// - 400 Bad Request: a parameter is missing
// - 404 Not Found: no zip code is recorded for the triple
// - 503 Service Unavailable: the dataset has not loaded yet
func (h *AddressHandler) ZipCode(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r, "api.zip_code") {
		return
	}

	q := r.URL.Query()
	resp := ZipCodeResponse{
		Province:    q.Get("province"),
		District:    q.Get("district"),
		SubDistrict: q.Get("sub_district"),
	}
	if resp.Province == "" || resp.District == "" || resp.SubDistrict == "" {
		handler.ErrorResponse(w, r, domain.Invalid("api.zip_code", "province, district and sub_district are required"))
		return
	}

	zip, ok := h.store.ZipCodeFor(resp.Province, resp.District, resp.SubDistrict)
	if !ok {
		middleware.GetLogger(r.Context(), h.logger).Debug("zip code not found",
			"province", resp.Province,
			"district", resp.District,
			"sub_district", resp.SubDistrict,
		)
		handler.ErrorResponse(w, r, domain.NotFound("api.zip_code", "zip code",
			resp.Province+"/"+resp.District+"/"+resp.SubDistrict))
		return
	}
	resp.ZipCode = zip

	handler.WriteJSON(w, http.StatusOK, resp)
}

// Health handles GET /health. It reports 503 until the first successful
// load so orchestrators hold traffic back.
func (h *AddressHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.store.Loaded() {
		handler.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "loading"})
		return
	}
	handler.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Stats: h.store.Stats()})
}

func (h *AddressHandler) ready(w http.ResponseWriter, r *http.Request, op string) bool {
	if h.store.Loaded() {
		return true
	}
	handler.ErrorResponse(w, r, domain.Unavailable(op, "address data is not loaded yet"))
	return false
}
