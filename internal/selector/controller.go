// Package selector keeps three dependent selection widgets (province,
// district, sub-district) consistent with an address dataset and raises
// selection events as the user narrows the choice.
package selector

import (
	"log/slog"
	"reflect"
	"slices"

	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/dukerupert/thaiaddress/internal/events"
)

// Placeholder holds the text of the disabled "nothing chosen" entry shown
// first in each widget. Empty fields take the DefaultPlaceholder text.
type Placeholder struct {
	Province    string
	District    string
	SubDistrict string
}

// DefaultPlaceholder is used for any Placeholder field left empty.
var DefaultPlaceholder = Placeholder{
	Province:    "เลือกจังหวัด",
	District:    "เลือกอำเภอ/เขต",
	SubDistrict: "เลือกตำบล/แขวง",
}

// WithDefaults fills empty fields from DefaultPlaceholder.
func (p Placeholder) WithDefaults() Placeholder {
	if p.Province == "" {
		p.Province = DefaultPlaceholder.Province
	}
	if p.District == "" {
		p.District = DefaultPlaceholder.District
	}
	if p.SubDistrict == "" {
		p.SubDistrict = DefaultPlaceholder.SubDistrict
	}
	return p
}

// Value is a selection triple. Empty strings mean "not chosen".
// ZipCode is derived and ignored by SetValue.
type Value struct {
	Province    string `json:"province,omitempty"`
	District    string `json:"district,omitempty"`
	SubDistrict string `json:"sub_district,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`
}

// Complete reports whether all three levels are chosen.
func (v Value) Complete() bool {
	return v.Province != "" && v.District != "" && v.SubDistrict != ""
}

// Config configures a Controller. The three widgets and one of Data or
// Override are required.
type Config struct {
	Province    Widget
	District    Widget
	SubDistrict Widget

	Placeholder Placeholder

	// Data is queried for options and zip codes, usually an *address.Store.
	Data address.Dataset

	// Override replaces Data when non-nil. Zip codes are then never
	// available.
	Override address.Override

	// Initial is applied with SetValue during New.
	Initial Value

	Logger *slog.Logger
}

type binding struct {
	widget Widget
	id     int
}

// Controller binds the three widgets. It is not safe for concurrent use;
// hosts drive it from a single goroutine.
type Controller struct {
	province    Widget
	district    Widget
	subDistrict Widget

	placeholder  Placeholder
	data         address.Dataset
	zipAvailable bool

	bus      *events.Bus
	bindings []binding
	logger   *slog.Logger
}

// New validates cfg, populates the widgets from cfg.Initial and starts
// listening for widget changes.
func New(cfg Config) (*Controller, error) {
	var missing []string
	if isNil(cfg.Province) {
		missing = append(missing, "province widget")
	}
	if isNil(cfg.District) {
		missing = append(missing, "district widget")
	}
	if isNil(cfg.SubDistrict) {
		missing = append(missing, "sub-district widget")
	}
	if cfg.Override == nil && isNil(cfg.Data) {
		missing = append(missing, "address data")
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}

	c := &Controller{
		province:     cfg.Province,
		district:     cfg.District,
		subDistrict:  cfg.SubDistrict,
		placeholder:  cfg.Placeholder.WithDefaults(),
		data:         cfg.Data,
		zipAvailable: true,
		bus:          events.NewBus(),
		logger:       cfg.Logger,
	}
	if cfg.Override != nil {
		c.data = cfg.Override
		c.zipAvailable = false
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.SetValue(cfg.Initial)

	c.bindings = []binding{
		{widget: c.province, id: c.province.Subscribe(c.onProvinceChange)},
		{widget: c.district, id: c.district.Subscribe(c.onDistrictChange)},
		{widget: c.subDistrict, id: c.subDistrict.Subscribe(c.onSubDistrictChange)},
	}

	return c, nil
}

// On registers fn for events of kind (all events when kind is empty) and
// returns an ID for Off.
func (c *Controller) On(kind events.Kind, fn events.Listener) int {
	return c.bus.Subscribe(kind, fn)
}

// Off removes a listener registered with On.
func (c *Controller) Off(id int) {
	c.bus.Unsubscribe(id)
}

// GetValue reads the current selection from the widgets. ZipCode is set
// only when the triple is complete, resolves in the dataset, and no
// override is active.
func (c *Controller) GetValue() Value {
	v := Value{
		Province:    c.province.Value(),
		District:    c.district.Value(),
		SubDistrict: c.subDistrict.Value(),
	}
	if v.Complete() && c.zipAvailable {
		if zip, ok := c.data.ZipCodeFor(v.Province, v.District, v.SubDistrict); ok {
			v.ZipCode = zip
		}
	}
	return v
}

// SetValue repopulates all three widgets for v without raising events.
// The province list is always rebuilt; each lower list is scoped to its
// ancestors or reset to the placeholder when an ancestor is missing.
func (c *Controller) SetValue(v Value) {
	c.populate(c.province, c.placeholder.Province, c.data.ListProvinces(), v.Province)

	switch {
	case v.Province == "":
		c.resetDistricts()
		c.resetSubDistricts()
	case v.District == "":
		c.populateDistricts(v.Province, "")
		c.resetSubDistricts()
	default:
		c.populateDistricts(v.Province, v.District)
		c.populateSubDistricts(v.Province, v.District, v.SubDistrict)
	}
}

// Destroy detaches the widget change handlers New attached. Widgets keep
// their options. Calling Destroy more than once is harmless.
func (c *Controller) Destroy() {
	for _, b := range c.bindings {
		b.widget.Unsubscribe(b.id)
	}
	c.bindings = nil
}

func (c *Controller) onProvinceChange() {
	province := c.province.Value()

	c.populateDistricts(province, "")
	c.resetSubDistricts()

	c.logger.Debug("province changed", "province", province)
	c.bus.Publish(events.Event{Kind: events.ProvinceChange, Province: province})
	c.emitSelectIfComplete()
}

func (c *Controller) onDistrictChange() {
	province := c.province.Value()
	district := c.district.Value()

	c.populateSubDistricts(province, district, "")

	c.logger.Debug("district changed", "province", province, "district", district)
	c.bus.Publish(events.Event{Kind: events.DistrictChange, Province: province, District: district})
	c.emitSelectIfComplete()
}

func (c *Controller) onSubDistrictChange() {
	v := c.GetValue()

	c.logger.Debug("sub-district changed", "province", v.Province, "district", v.District, "sub_district", v.SubDistrict)
	c.bus.Publish(events.Event{
		Kind:        events.SubDistrictChange,
		Province:    v.Province,
		District:    v.District,
		SubDistrict: v.SubDistrict,
	})
	c.emitSelectIfComplete()
}

func (c *Controller) emitSelectIfComplete() {
	v := c.GetValue()
	if !v.Complete() {
		return
	}
	c.bus.Publish(events.Event{
		Kind:        events.SelectChange,
		Province:    v.Province,
		District:    v.District,
		SubDistrict: v.SubDistrict,
		ZipCode:     v.ZipCode,
	})
}

func (c *Controller) populateDistricts(province, selected string) {
	var names []string
	if province != "" {
		names = c.data.ListDistricts(province)
	}
	c.populate(c.district, c.placeholder.District, names, selected)
}

func (c *Controller) populateSubDistricts(province, district, selected string) {
	var names []string
	if province != "" && district != "" {
		names = c.data.ListSubDistricts(province, district)
	}
	c.populate(c.subDistrict, c.placeholder.SubDistrict, names, selected)
}

func (c *Controller) resetDistricts() {
	c.populate(c.district, c.placeholder.District, nil, "")
}

func (c *Controller) resetSubDistricts() {
	c.populate(c.subDistrict, c.placeholder.SubDistrict, nil, "")
}

// populate replaces w's options with the placeholder followed by names.
// The placeholder stays selected unless selected names a listed option.
func (c *Controller) populate(w Widget, placeholder string, names []string, selected string) {
	chosen := selected != "" && slices.Contains(names, selected)

	opts := make([]Option, 0, len(names)+1)
	opts = append(opts, Option{Value: "", Label: placeholder, Disabled: true, Selected: !chosen})
	for _, n := range names {
		opts = append(opts, Option{Value: n, Label: n, Selected: chosen && n == selected})
	}
	w.SetOptions(opts)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
