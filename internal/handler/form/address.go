// Package form serves the server-rendered address form. Each request
// rebuilds the three selects at the submitted state and replays the user's
// change through a selector.Controller.
package form

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/dukerupert/thaiaddress/internal/domain"
	"github.com/dukerupert/thaiaddress/internal/events"
	"github.com/dukerupert/thaiaddress/internal/handler"
	"github.com/dukerupert/thaiaddress/internal/middleware"
	"github.com/dukerupert/thaiaddress/internal/selector"
)

// Field names shared by the form, the "changed" parameter and the selects.
const (
	FieldProvince    = "province"
	FieldDistrict    = "district"
	FieldSubDistrict = "sub_district"
)

// Store is the read side of the address store the form needs.
type Store interface {
	address.Dataset
	Loaded() bool
}

// AddressHandler renders the cascading address selects.
type AddressHandler struct {
	store       Store
	renderer    *handler.Renderer
	placeholder selector.Placeholder
	logger      *slog.Logger
}

// NewAddressHandler creates the form handler.
func NewAddressHandler(store Store, renderer *handler.Renderer, placeholder selector.Placeholder, logger *slog.Logger) *AddressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AddressHandler{
		store:       store,
		renderer:    renderer,
		placeholder: placeholder,
		logger:      logger.With("handler", "address_form"),
	}
}

// SelectView is one rendered select.
type SelectView struct {
	Name    string
	Label   string
	Options []selector.Option
}

// PageData is passed to the index page and the selects partial.
type PageData struct {
	Loaded  bool
	Selects []SelectView
	Value   selector.Value
	Events  []events.Event
}

// Index handles GET /. The initial selection is read from the query string.
// Until the dataset is loaded the page carries a notice and a 503 status.
func (h *AddressHandler) Index(w http.ResponseWriter, r *http.Request) {
	initial := valueFromRequest(r)

	page, err := h.build(r, initial, "")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if !page.Loaded {
		w.Header().Set("Retry-After", "5")
		h.renderer.RenderHTTPStatus(w, http.StatusServiceUnavailable, "index", page)
		return
	}
	h.renderer.RenderHTTP(w, "index", page)
}

// Select handles POST /select. The form carries the selects' state before
// the change; "changed" names the field the user just changed and its
// value is the new choice.
func (h *AddressHandler) Select(w http.ResponseWriter, r *http.Request) {
	if !h.store.Loaded() {
		handler.ErrorResponse(w, r, domain.Unavailable("form.select", "address data is not loaded yet"))
		return
	}

	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("form.select", "could not parse form"))
		return
	}

	changed := r.PostForm.Get("changed")
	switch changed {
	case FieldProvince, FieldDistrict, FieldSubDistrict:
	default:
		handler.ErrorResponse(w, r, domain.Invalid("form.select", "changed must be province, district or sub_district"))
		return
	}

	page, err := h.build(r, valueFromRequest(r), changed)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	h.renderer.RenderPartialHTTP(w, "selects", page)
}

// build creates widgets and a controller for one request. With a non-empty
// changed field, the widgets start at the prior state (the changed level
// and those below it cleared down to what the form had) and the new value
// is chosen as a user would.
func (h *AddressHandler) build(r *http.Request, submitted selector.Value, changed string) (*PageData, error) {
	logger := middleware.GetLogger(r.Context(), h.logger)

	province := selector.NewSelect(FieldProvince)
	district := selector.NewSelect(FieldDistrict)
	subDistrict := selector.NewSelect(FieldSubDistrict)

	prior, widget, choice := priorState(submitted, changed, province, district, subDistrict)

	ctrl, err := selector.New(selector.Config{
		Province:    province,
		District:    district,
		SubDistrict: subDistrict,
		Placeholder: h.placeholder,
		Data:        h.store,
		Initial:     prior,
		Logger:      logger,
	})
	if err != nil {
		return nil, domain.Internal(err, "form.build", "failed to create address selector")
	}
	defer ctrl.Destroy()

	var raised []events.Event
	ctrl.On("", func(ev events.Event) {
		raised = append(raised, ev)
		logger.Info("address event",
			"event", string(ev.Kind),
			"province", ev.Province,
			"district", ev.District,
			"sub_district", ev.SubDistrict,
			"zip_code", ev.ZipCode,
		)
	})

	if widget != nil {
		// A stale form may name an option the dataset no longer has.
		if err := widget.Choose(choice); err != nil {
			logger.Warn("ignoring stale selection", "field", widget.Name(), "value", choice, "error", err)
		}
	}

	return &PageData{
		Loaded: h.store.Loaded(),
		Selects: []SelectView{
			{Name: province.Name(), Label: "จังหวัด", Options: province.Options()},
			{Name: district.Name(), Label: "อำเภอ/เขต", Options: district.Options()},
			{Name: subDistrict.Name(), Label: "ตำบล/แขวง", Options: subDistrict.Options()},
		},
		Value:  ctrl.GetValue(),
		Events: raised,
	}, nil
}

// priorState splits a submitted form into the state before the change and
// the widget and value the user chose.
func priorState(v selector.Value, changed string, province, district, subDistrict *selector.Select) (selector.Value, *selector.Select, string) {
	switch changed {
	case FieldProvince:
		return selector.Value{}, province, v.Province
	case FieldDistrict:
		return selector.Value{Province: v.Province}, district, v.District
	case FieldSubDistrict:
		return selector.Value{Province: v.Province, District: v.District}, subDistrict, v.SubDistrict
	default:
		return v, nil, ""
	}
}

func valueFromRequest(r *http.Request) selector.Value {
	return selector.Value{
		Province:    r.FormValue(FieldProvince),
		District:    r.FormValue(FieldDistrict),
		SubDistrict: r.FormValue(FieldSubDistrict),
	}
}
