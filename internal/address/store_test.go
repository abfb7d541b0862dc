package address_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *address.Store {
	t.Helper()
	store := address.NewStore()
	require.NoError(t, store.Load(context.Background(), address.FileSource("testdata/thai-address.json")))
	return store
}

func TestStore_EmptyBeforeLoad(t *testing.T) {
	store := address.NewStore()

	assert.False(t, store.Loaded())
	assert.Empty(t, store.ListProvinces())
	assert.Empty(t, store.ListDistricts("กรุงเทพมหานคร"))
	assert.Empty(t, store.ListSubDistricts("กรุงเทพมหานคร", "บางรัก"))
	assert.Empty(t, store.FindProvincesByPrefix("กรุง"))
	assert.Equal(t, address.Stats{}, store.Stats())

	_, ok := store.ZipCodeFor("กรุงเทพมหานคร", "บางรัก", "มหาพฤฒาราม")
	assert.False(t, ok)
}

func TestStore_ListProvinces_ThaiCollation(t *testing.T) {
	store := loadFixture(t)

	// เชียงใหม่ starts with a leading vowel and sorts under ช, not after ภ.
	assert.Equal(t, []string{
		"กรุงเทพมหานคร",
		"เชียงใหม่",
		"นนทบุรี",
		"บึงกาฬ",
		"ภูเก็ต",
	}, store.ListProvinces())
}

func TestStore_ListProvinces_ReturnsCopy(t *testing.T) {
	store := loadFixture(t)

	provinces := store.ListProvinces()
	provinces[0] = "mutated"

	assert.Equal(t, "กรุงเทพมหานคร", store.ListProvinces()[0])
}

func TestStore_ListDistricts(t *testing.T) {
	store := loadFixture(t)

	tests := []struct {
		name     string
		province string
		want     []string
	}{
		{name: "bangkok", province: "กรุงเทพมหานคร", want: []string{"บางรัก", "ปทุมวัน"}},
		{name: "duplicate province records are merged", province: "นนทบุรี", want: []string{"ปากเกร็ด", "เมืองนนทบุรี"}},
		{name: "province without districts", province: "บึงกาฬ", want: []string{}},
		{name: "unknown province", province: "Atlantis", want: []string{}},
		{name: "empty province", province: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.ListDistricts(tt.province))
		})
	}
}

func TestStore_ListDistricts_OnlyFromProvince(t *testing.T) {
	store := loadFixture(t)

	for _, p := range store.ListProvinces() {
		districts := store.ListDistricts(p)
		seen := map[string]bool{}
		for _, d := range districts {
			assert.False(t, seen[d], "duplicate district %s in %s", d, p)
			seen[d] = true
			// Every listed district must resolve back under its province.
			assert.NotEmpty(t, store.ListSubDistricts(p, d))
		}
	}

	assert.NotContains(t, store.ListDistricts("กรุงเทพมหานคร"), "เมืองเชียงใหม่")
}

func TestStore_ListSubDistricts(t *testing.T) {
	store := loadFixture(t)

	got := store.ListSubDistricts("กรุงเทพมหานคร", "บางรัก")
	assert.ElementsMatch(t, []string{"มหาพฤฒาราม", "สีลม", "สุริยวงศ์", "บางรัก", "สี่พระยา"}, got)
	assert.Equal(t, "บางรัก", got[0])

	// The second นนทบุรี record repeats สวนใหญ่; it must appear once.
	assert.ElementsMatch(t, []string{"สวนใหญ่", "บางกระสอ", "ตลาดขวัญ"},
		store.ListSubDistricts("นนทบุรี", "เมืองนนทบุรี"))

	assert.Empty(t, store.ListSubDistricts("กรุงเทพมหานคร", "เมืองเชียงใหม่"))
	assert.Empty(t, store.ListSubDistricts("Atlantis", "บางรัก"))
	assert.Empty(t, store.ListSubDistricts("กรุงเทพมหานคร", ""))
	assert.Empty(t, store.ListSubDistricts("", "บางรัก"))
}

func TestStore_ZipCodeFor(t *testing.T) {
	store := loadFixture(t)

	tests := []struct {
		name                           string
		province, district, subDistrict string
		want                           string
		wantOK                         bool
	}{
		{name: "string code", province: "กรุงเทพมหานคร", district: "บางรัก", subDistrict: "มหาพฤฒาราม", want: "10500", wantOK: true},
		{name: "numeric code normalized", province: "ภูเก็ต", district: "กะทู้", subDistrict: "ป่าตอง", want: "83150", wantOK: true},
		{name: "merged record", province: "นนทบุรี", district: "ปากเกร็ด", subDistrict: "ปากเกร็ด", want: "11120", wantOK: true},
		{name: "sub-district without code", province: "เชียงใหม่", district: "แม่ริม", subDistrict: "แม่แรม"},
		{name: "sub-district under wrong district", province: "กรุงเทพมหานคร", district: "ปทุมวัน", subDistrict: "สีลม"},
		{name: "district under wrong province", province: "เชียงใหม่", district: "บางรัก", subDistrict: "สีลม"},
		{name: "unknown province", province: "Atlantis", district: "บางรัก", subDistrict: "สีลม"},
		{name: "empty triple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := store.ZipCodeFor(tt.province, tt.district, tt.subDistrict)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_ZipCodeFor_ValidChainsOnly(t *testing.T) {
	store := loadFixture(t)

	for _, p := range store.ListProvinces() {
		for _, d := range store.ListDistricts(p) {
			for _, s := range store.ListSubDistricts(p, d) {
				if s == "แม่แรม" {
					continue
				}
				_, ok := store.ZipCodeFor(p, d, s)
				assert.True(t, ok, "%s/%s/%s should resolve", p, d, s)
			}
		}
	}
}

func TestStore_FindProvincesByPrefix(t *testing.T) {
	store := loadFixture(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query", query: "", want: []string{}},
		{name: "whitespace query", query: "   ", want: []string{}},
		{name: "leading substring", query: "กรุง", want: []string{"กรุงเทพมหานคร"}},
		{name: "inner substring", query: "บุรี", want: []string{"นนทบุรี"}},
		{name: "query is trimmed", query: " เชียง ", want: []string{"เชียงใหม่"}},
		{name: "no match", query: "Bangkok", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.FindProvincesByPrefix(tt.query)
			assert.Equal(t, tt.want, got)
			for _, p := range got {
				assert.True(t, strings.Contains(p, strings.TrimSpace(tt.query)))
			}
		})
	}
}

func TestStore_Stats(t *testing.T) {
	store := loadFixture(t)

	assert.Equal(t, address.Stats{
		Provinces:    5,
		Districts:    8,
		SubDistricts: 21,
		ZipCodes:     20,
	}, store.Stats())
}

func TestStore_Load_Formats(t *testing.T) {
	t.Run("nested mapping has no zip codes", func(t *testing.T) {
		store := address.NewStore()
		require.NoError(t, store.Load(context.Background(), address.FileSource("testdata/nested.json")))

		assert.Equal(t, []string{"กรุงเทพมหานคร", "เชียงใหม่"}, store.ListProvinces())
		assert.ElementsMatch(t, []string{"สีลม", "มหาพฤฒาราม"}, store.ListSubDistricts("กรุงเทพมหานคร", "บางรัก"))

		_, ok := store.ZipCodeFor("กรุงเทพมหานคร", "บางรัก", "สีลม")
		assert.False(t, ok)
	})

	t.Run("yaml records", func(t *testing.T) {
		store := address.NewStore()
		require.NoError(t, store.Load(context.Background(), address.FileSource("testdata/thai-address.yaml")))

		zip, ok := store.ZipCodeFor("กรุงเทพมหานคร", "บางรัก", "มหาพฤฒาราม")
		assert.True(t, ok)
		assert.Equal(t, "10500", zip)

		zip, ok = store.ZipCodeFor("ภูเก็ต", "กะทู้", "ป่าตอง")
		assert.True(t, ok)
		assert.Equal(t, "83150", zip)

		_, ok = store.ZipCodeFor("ภูเก็ต", "กะทู้", "กะรน")
		assert.False(t, ok)
	})

	t.Run("forced format overrides sniffing", func(t *testing.T) {
		store := address.NewStore(address.WithFormat(address.FormatJSONNested))
		err := store.Load(context.Background(), address.FileSource("testdata/thai-address.json"))

		var loadErr *address.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "invalid", loadErr.Code)
	})
}

func TestStore_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      address.Source
		wantCode string
	}{
		{
			name:     "missing file",
			src:      address.FileSource(filepath.Join(t.TempDir(), "missing.json")),
			wantCode: "unavailable",
		},
		{
			name:     "malformed json",
			src:      address.ReaderSource("broken.json", strings.NewReader(`[{"name_th": `)),
			wantCode: "invalid",
		},
		{
			name:     "empty list",
			src:      address.ReaderSource("empty.json", strings.NewReader(`[]`)),
			wantCode: "invalid",
		},
		{
			name:     "non-numeric zip code",
			src:      address.ReaderSource("zip.json", strings.NewReader(`[{"name_th":"ก","districts":[{"name_th":"ข","sub_districts":[{"name_th":"ค","zip_code":true}]}]}]`)),
			wantCode: "invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := address.NewStore()
			err := store.Load(context.Background(), tt.src)

			var loadErr *address.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.wantCode, loadErr.Code)
			assert.Equal(t, tt.wantCode, loadErr.ErrorCode())
			assert.False(t, store.Loaded())
		})
	}
}

func TestStore_Load_FailureKeepsPreviousData(t *testing.T) {
	store := loadFixture(t)

	sources := map[string]string{
		"broken.json":   "{",
		"empty.json":    "[]",
		"nameless.json": `[{"name_th":""},null]`,
	}

	for name, data := range sources {
		t.Run(name, func(t *testing.T) {
			err := store.Load(context.Background(), address.ReaderSource(name, strings.NewReader(data)))
			require.Error(t, err)

			var loadErr *address.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "invalid", loadErr.Code)

			assert.True(t, store.Loaded())
			assert.Len(t, store.ListProvinces(), 5)
		})
	}
}

func TestStore_Load_LastLoadWins(t *testing.T) {
	store := loadFixture(t)

	require.NoError(t, store.Load(context.Background(), address.FileSource("testdata/nested.json")))

	assert.Equal(t, []string{"กรุงเทพมหานคร", "เชียงใหม่"}, store.ListProvinces())
	assert.Empty(t, store.ListDistricts("ภูเก็ต"))
}

func TestStore_Load_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := address.NewStore()
	err := store.Load(ctx, address.FileSource("testdata/thai-address.json"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, store.Loaded())
}

func TestReaderSource_Reusable(t *testing.T) {
	data, err := os.ReadFile("testdata/thai-address.json")
	require.NoError(t, err)

	src := address.ReaderSource("bundled.json", strings.NewReader(string(data)))
	store := address.NewStore()

	require.NoError(t, store.Load(context.Background(), src))
	require.NoError(t, store.Load(context.Background(), src))
	assert.Len(t, store.ListProvinces(), 5)
}
