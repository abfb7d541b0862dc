package selector

// Option is one entry of a selection widget.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// Widget is the capability the controller needs from a host selection
// control: replace its options, read its chosen value, and observe changes
// made by the user.
type Widget interface {
	// SetOptions replaces the whole option list. The chosen value becomes
	// the option marked Selected, or "" when none is.
	SetOptions(opts []Option)

	// Value returns the chosen option's value; "" means nothing chosen.
	Value() string

	// Subscribe registers fn to run after the user changes the value and
	// returns an ID for Unsubscribe. SetOptions does not notify.
	Subscribe(fn func()) int

	// Unsubscribe removes a registration. Unknown IDs are ignored.
	Unsubscribe(id int)
}
