package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_SetOptionsTakesLastSelected(t *testing.T) {
	s := NewSelect("province")

	s.SetOptions([]Option{
		{Value: "", Label: "เลือกจังหวัด", Disabled: true, Selected: true},
		{Value: "ภูเก็ต", Label: "ภูเก็ต", Selected: true},
	})

	assert.Equal(t, "ภูเก็ต", s.Value())
}

func TestSelect_Choose(t *testing.T) {
	s := NewSelect("district")
	s.SetOptions([]Option{
		{Value: "", Label: "placeholder", Disabled: true, Selected: true},
		{Value: "a", Label: "A"},
		{Value: "b", Label: "B", Disabled: true},
	})

	calls := 0
	s.Subscribe(func() { calls++ })

	require.NoError(t, s.Choose("a"))
	assert.Equal(t, "a", s.Value())
	assert.False(t, s.Options()[0].Selected)
	assert.True(t, s.Options()[1].Selected)

	assert.Error(t, s.Choose("b"))
	assert.Error(t, s.Choose("zzz"))
	assert.Equal(t, "a", s.Value())
	assert.Equal(t, 1, calls)

	require.NoError(t, s.Choose(""))
	assert.Empty(t, s.Value())
	assert.True(t, s.Options()[0].Selected)
	assert.Equal(t, 2, calls)
}

func TestSelect_SetOptionsDoesNotNotify(t *testing.T) {
	s := NewSelect("sub_district")
	calls := 0
	s.Subscribe(func() { calls++ })

	s.SetOptions([]Option{{Value: "x", Label: "x", Selected: true}})

	assert.Equal(t, 0, calls)
	assert.Equal(t, "x", s.Value())
}

func TestSelect_OptionsAreCopied(t *testing.T) {
	s := NewSelect("province")
	opts := []Option{{Value: "x", Label: "x"}}
	s.SetOptions(opts)

	opts[0].Value = "mutated"
	got := s.Options()
	got[0].Label = "mutated"

	assert.Equal(t, []Option{{Value: "x", Label: "x"}}, s.Options())
}

func TestSelect_Unsubscribe(t *testing.T) {
	s := NewSelect("province")
	s.SetOptions([]Option{{Value: "x", Label: "x"}})

	calls := 0
	id := s.Subscribe(func() { calls++ })
	s.Unsubscribe(id)
	s.Unsubscribe(id)

	require.NoError(t, s.Choose("x"))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, s.Subscribers())
}
