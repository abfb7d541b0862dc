package interactive

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/dukerupert/thaiaddress/internal/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	store := address.NewStore()
	require.NoError(t, store.Load(context.Background(),
		address.FileSource("../../../internal/address/testdata/thai-address.json")))

	var out bytes.Buffer
	s, err := NewSession(selector.Config{Data: store}, store, &out)
	require.NoError(t, err)
	return s, &out
}

func TestSession_ChooseCascade(t *testing.T) {
	s, out := newSession(t)

	assert.True(t, s.Exec("p กรุงเทพมหานคร"))
	assert.Contains(t, out.String(), "[event] provinceChange province=กรุงเทพมหานคร")

	out.Reset()
	assert.True(t, s.Exec("d บางรัก"))
	assert.Contains(t, out.String(), "[event] districtChange")

	out.Reset()
	assert.True(t, s.Exec("s สีลม"))
	assert.Contains(t, out.String(), "[event] subDistrictChange")
	assert.Contains(t, out.String(), "[event] selectChange province=กรุงเทพมหานคร district=บางรัก sub_district=สีลม zip_code=10500")

	out.Reset()
	s.Exec("value")
	assert.Contains(t, out.String(), "zip code:     10500")
}

func TestSession_ChooseByNumber(t *testing.T) {
	s, out := newSession(t)

	s.Exec("province 1")
	assert.Equal(t, "กรุงเทพมหานคร", s.province.Value())

	out.Reset()
	s.Exec("province 99")
	assert.Contains(t, out.String(), "has no option 99")
	assert.Equal(t, "กรุงเทพมหานคร", s.province.Value())
}

func TestSession_Errors(t *testing.T) {
	s, out := newSession(t)

	s.Exec("d บางรัก")
	assert.Contains(t, out.String(), "Error:")

	out.Reset()
	s.Exec("frobnicate")
	assert.Contains(t, out.String(), "Unknown command: frobnicate")

	out.Reset()
	s.Exec("p")
	assert.Contains(t, out.String(), "Usage:")
}

func TestSession_SetRaisesNoEvents(t *testing.T) {
	s, out := newSession(t)

	s.Exec("set ภูเก็ต กะทู้ ป่าตอง")
	assert.NotContains(t, out.String(), "[event]")
	assert.Contains(t, out.String(), "zip code:     83150")
}

func TestSession_ResetWithDash(t *testing.T) {
	s, out := newSession(t)

	s.Exec("set ภูเก็ต กะทู้")
	out.Reset()
	s.Exec("p -")

	assert.Equal(t, "", s.province.Value())
	assert.Contains(t, out.String(), "[event] provinceChange\n")
	assert.Len(t, s.district.Options(), 1, "only the placeholder remains")
}

func TestSession_Options(t *testing.T) {
	s, out := newSession(t)

	s.Exec("set เชียงใหม่")
	out.Reset()
	s.Exec("o")

	text := out.String()
	assert.Contains(t, text, "province:")
	assert.Contains(t, text, "*  2 เชียงใหม่")
	assert.Contains(t, text, "แม่ริม")
	assert.Contains(t, text, selector.DefaultPlaceholder.SubDistrict)
}

func TestSession_Find(t *testing.T) {
	s, out := newSession(t)

	s.Exec("find บุรี")
	assert.Contains(t, out.String(), "นนทบุรี")

	out.Reset()
	s.Exec("f zzz")
	assert.Contains(t, out.String(), "No provinces found.")
}

func TestSession_Destroy(t *testing.T) {
	s, out := newSession(t)

	s.Exec("destroy")
	out.Reset()
	s.Exec("p ภูเก็ต")

	assert.NotContains(t, out.String(), "[event]")
	assert.Len(t, s.district.Options(), 1, "districts no longer follow the province")
}

func TestSession_Quit(t *testing.T) {
	s, _ := newSession(t)
	assert.False(t, s.Exec("quit"))
	assert.True(t, s.Exec("   "))
}

func TestSession_Override(t *testing.T) {
	var out bytes.Buffer
	s, err := NewSession(selector.Config{
		Override: address.Override{
			"ภูเก็ต": {"กะทู้": {"ป่าตอง", "กมลา"}},
		},
	}, nil, &out)
	require.NoError(t, err)

	s.Exec("set ภูเก็ต กะทู้ ป่าตอง")
	assert.Contains(t, out.String(), "zip code:     -")

	out.Reset()
	s.Exec("find ภู")
	assert.True(t, strings.Contains(out.String(), "not available"))
}
