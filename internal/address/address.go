// Package address holds the Thai administrative address hierarchy
// (province → district → sub-district) and answers read-only lookups
// against it.
package address

// Province is the outermost level of the hierarchy, keyed by its Thai name.
type Province struct {
	Name      string     `json:"name_th" yaml:"name_th"`
	Districts []District `json:"districts" yaml:"districts"`
}

// District (amphoe/khet) is unique by name within its province.
type District struct {
	Name         string        `json:"name_th" yaml:"name_th"`
	SubDistricts []SubDistrict `json:"sub_districts" yaml:"sub_districts"`
}

// SubDistrict (tambon/khwaeng) is unique by name within its district and
// carries the postal code, which may be absent.
type SubDistrict struct {
	Name    string  `json:"name_th" yaml:"name_th"`
	ZipCode ZipCode `json:"zip_code" yaml:"zip_code"`
}

// Dataset is the read-only view the selector controller queries.
// Unknown or empty keys yield empty results, never errors.
type Dataset interface {
	ListProvinces() []string
	ListDistricts(province string) []string
	ListSubDistricts(province, district string) []string
	// ZipCodeFor reports the postal code of a fully qualified triple.
	ZipCodeFor(province, district, subDistrict string) (string, bool)
}

// Stats summarises a loaded hierarchy.
type Stats struct {
	Provinces    int `json:"provinces"`
	Districts    int `json:"districts"`
	SubDistricts int `json:"sub_districts"`
	ZipCodes     int `json:"zip_codes"`
}
