package address_test

import (
	"testing"

	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/stretchr/testify/assert"
)

func TestOverride_Dataset(t *testing.T) {
	o := address.Override{
		"เชียงใหม่": {
			"แม่ริม": {"ริมใต้", "แม่แรม"},
		},
		"กรุงเทพมหานคร": {
			"ปทุมวัน": {"ลุมพินี"},
			"บางรัก":  {"สีลม", "มหาพฤฒาราม"},
		},
	}

	var ds address.Dataset = o

	assert.Equal(t, []string{"กรุงเทพมหานคร", "เชียงใหม่"}, ds.ListProvinces())
	assert.Equal(t, []string{"บางรัก", "ปทุมวัน"}, ds.ListDistricts("กรุงเทพมหานคร"))
	assert.Equal(t, []string{"สีลม", "มหาพฤฒาราม"}, ds.ListSubDistricts("กรุงเทพมหานคร", "บางรัก"))

	assert.Empty(t, ds.ListDistricts("ภูเก็ต"))
	assert.Empty(t, ds.ListDistricts(""))
	assert.Empty(t, ds.ListSubDistricts("กรุงเทพมหานคร", "แม่ริม"))
	assert.Empty(t, ds.ListSubDistricts("", "บางรัก"))

	zip, ok := ds.ZipCodeFor("กรุงเทพมหานคร", "บางรัก", "สีลม")
	assert.False(t, ok)
	assert.Empty(t, zip)
}

func TestOverride_SubDistrictsAreCopied(t *testing.T) {
	o := address.Override{"ก": {"ข": {"ค", "ง"}}}

	subs := o.ListSubDistricts("ก", "ข")
	subs[0] = "mutated"

	assert.Equal(t, []string{"ค", "ง"}, o["ก"]["ข"])
}
