package address

import (
	"maps"
	"slices"
)

// Override is a caller-supplied hierarchy of names without zip codes:
// province → district → sub-districts. It satisfies Dataset so the selector
// can use it in place of a Store.
type Override map[string]map[string][]string

// ListProvinces returns the override's provinces in Thai collation order.
func (o Override) ListProvinces() []string {
	return sortNames(DefaultLanguage, slices.Collect(maps.Keys(o)))
}

// ListDistricts returns the districts under province, or an empty slice.
func (o Override) ListDistricts(province string) []string {
	districts, ok := o[province]
	if province == "" || !ok {
		return []string{}
	}
	return sortNames(DefaultLanguage, slices.Collect(maps.Keys(districts)))
}

// ListSubDistricts returns sub-districts in the order they were supplied.
func (o Override) ListSubDistricts(province, district string) []string {
	if province == "" || district == "" {
		return []string{}
	}
	subs, ok := o[province][district]
	if !ok {
		return []string{}
	}
	return slices.Clone(subs)
}

// ZipCodeFor always reports not found; overrides carry no postal codes.
func (o Override) ZipCodeFor(province, district, subDistrict string) (string, bool) {
	return "", false
}

// records converts the nested mapping into province records with empty
// zip codes, for loading into a Store.
func (o Override) records() []Province {
	provinces := make([]Province, 0, len(o))
	for _, pName := range slices.Sorted(maps.Keys(o)) {
		p := Province{Name: pName}
		for _, dName := range slices.Sorted(maps.Keys(o[pName])) {
			d := District{Name: dName}
			for _, sName := range o[pName][dName] {
				d.SubDistricts = append(d.SubDistricts, SubDistrict{Name: sName})
			}
			p.Districts = append(p.Districts, d)
		}
		provinces = append(provinces, p)
	}
	return provinces
}
