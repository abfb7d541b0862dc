package selector

import (
	"fmt"
	"slices"
)

// Select is an in-memory Widget. Hosts that render their own controls
// (HTML forms, terminals) keep one per level and replay user input through
// Choose.
type Select struct {
	name    string
	options []Option
	value   string

	next int
	subs map[int]func()
}

// NewSelect creates an empty widget. name is used in error messages and as
// the form field name by renderers.
func NewSelect(name string) *Select {
	return &Select{
		name: name,
		subs: make(map[int]func()),
	}
}

// Name returns the widget name.
func (s *Select) Name() string {
	return s.name
}

// SetOptions replaces the options. When several are marked Selected the
// last one wins, as in an HTML select.
func (s *Select) SetOptions(opts []Option) {
	s.options = slices.Clone(opts)
	s.value = ""
	for _, o := range s.options {
		if o.Selected {
			s.value = o.Value
		}
	}
}

// Options returns a copy of the current options.
func (s *Select) Options() []Option {
	return slices.Clone(s.options)
}

// Value returns the chosen value.
func (s *Select) Value() string {
	return s.value
}

// Choose selects value as a user would and notifies subscribers. An empty
// value resets the widget to its placeholder. Choosing a value that is not
// offered, or is disabled, fails without notifying.
func (s *Select) Choose(value string) error {
	idx := slices.IndexFunc(s.options, func(o Option) bool { return o.Value == value })
	if value != "" {
		if idx < 0 {
			return fmt.Errorf("%s: %q is not an option", s.name, value)
		}
		if s.options[idx].Disabled {
			return fmt.Errorf("%s: %q is disabled", s.name, value)
		}
	}

	for i := range s.options {
		s.options[i].Selected = i == idx
	}
	s.value = value

	s.notify()
	return nil
}

// Subscribe registers fn for user changes.
func (s *Select) Subscribe(fn func()) int {
	s.next++
	s.subs[s.next] = fn
	return s.next
}

// Unsubscribe removes a registration.
func (s *Select) Unsubscribe(id int) {
	delete(s.subs, id)
}

// Subscribers returns the number of registered change handlers.
func (s *Select) Subscribers() int {
	return len(s.subs)
}

func (s *Select) notify() {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn()
		}
	}
}
