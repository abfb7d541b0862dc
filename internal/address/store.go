package address

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/text/language"
)

// Store owns the loaded address hierarchy. It starts empty; every query
// returns an empty result until Load succeeds. Load swaps in a complete new
// snapshot, so readers never observe a partially loaded dataset.
type Store struct {
	loadMu sync.Mutex
	snap   atomic.Pointer[snapshot]

	logger *slog.Logger
	lang   language.Tag
	format Format
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used to report loads.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLanguage sets the collation language used to order names.
func WithLanguage(tag language.Tag) StoreOption {
	return func(s *Store) {
		s.lang = tag
	}
}

// WithFormat forces a dataset format instead of sniffing it per source.
func WithFormat(f Format) StoreOption {
	return func(s *Store) {
		s.format = f
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		logger: slog.Default(),
		lang:   DefaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and parses the dataset from src and replaces the current
// hierarchy with it. On failure it returns a *LoadError and the previous
// hierarchy stays in place.
func (s *Store) Load(ctx context.Context, src Source) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	rc, err := src.Open(ctx)
	if err != nil {
		return unreachable(src.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return unreachable(src.Name(), err)
	}
	if err := ctx.Err(); err != nil {
		return unreachable(src.Name(), err)
	}

	provinces, err := Decode(data, src.Name(), s.format)
	if err != nil {
		return malformed(src.Name(), err)
	}

	snap := buildSnapshot(s.lang, provinces)
	if snap.stats.Provinces == 0 {
		return malformed(src.Name(), errEmptyDataset)
	}
	s.snap.Store(snap)

	s.logger.Info("address dataset loaded",
		"source", src.Name(),
		"provinces", snap.stats.Provinces,
		"districts", snap.stats.Districts,
		"sub_districts", snap.stats.SubDistricts,
		"zip_codes", snap.stats.ZipCodes,
	)
	return nil
}

// Loaded reports whether a dataset has been loaded successfully.
func (s *Store) Loaded() bool {
	return s.snap.Load() != nil
}

// Stats returns counts for the current hierarchy; zero before Load.
func (s *Store) Stats() Stats {
	snap := s.snap.Load()
	if snap == nil {
		return Stats{}
	}
	return snap.stats
}

// ListProvinces returns every province name in collation order.
func (s *Store) ListProvinces() []string {
	snap := s.snap.Load()
	if snap == nil {
		return []string{}
	}
	return slices.Clone(snap.provinces)
}

// ListDistricts returns the districts of province in collation order, or an
// empty slice when province is empty or unknown.
func (s *Store) ListDistricts(province string) []string {
	p := s.province(province)
	if p == nil {
		return []string{}
	}
	return slices.Clone(p.districts)
}

// ListSubDistricts returns the sub-districts of province/district in
// collation order, or an empty slice when either key is unknown.
func (s *Store) ListSubDistricts(province, district string) []string {
	d := s.district(province, district)
	if d == nil {
		return []string{}
	}
	return slices.Clone(d.subDistricts)
}

// ZipCodeFor returns the postal code of the exact triple. ok is false when
// any segment does not resolve or the sub-district has no code.
func (s *Store) ZipCodeFor(province, district, subDistrict string) (string, bool) {
	d := s.district(province, district)
	if d == nil {
		return "", false
	}
	zip, ok := d.zipCodes[subDistrict]
	if !ok || zip == "" {
		return "", false
	}
	return string(zip), true
}

// FindProvincesByPrefix returns provinces whose name contains query.
// Despite the name this is a substring match; an empty query matches nothing.
func (s *Store) FindProvincesByPrefix(query string) []string {
	q := strings.TrimSpace(query)
	if q == "" {
		return []string{}
	}

	matches := []string{}
	for _, p := range s.ListProvinces() {
		if strings.Contains(p, q) {
			matches = append(matches, p)
		}
	}
	return matches
}

func (s *Store) province(name string) *provinceNode {
	snap := s.snap.Load()
	if snap == nil || name == "" {
		return nil
	}
	return snap.byProvince[name]
}

func (s *Store) district(province, district string) *districtNode {
	p := s.province(province)
	if p == nil || district == "" {
		return nil
	}
	return p.byDistrict[district]
}

type snapshot struct {
	provinces  []string
	byProvince map[string]*provinceNode
	stats      Stats
}

type provinceNode struct {
	districts  []string
	byDistrict map[string]*districtNode
}

type districtNode struct {
	subDistricts []string
	zipCodes     map[string]ZipCode
}

// buildSnapshot indexes the records. Repeated names under the same parent
// are merged; the first non-empty zip code for a sub-district wins.
func buildSnapshot(tag language.Tag, records []Province) *snapshot {
	snap := &snapshot{byProvince: make(map[string]*provinceNode)}

	for _, rp := range records {
		if rp.Name == "" {
			continue
		}
		p, ok := snap.byProvince[rp.Name]
		if !ok {
			p = &provinceNode{byDistrict: make(map[string]*districtNode)}
			snap.byProvince[rp.Name] = p
			snap.provinces = append(snap.provinces, rp.Name)
		}

		for _, rd := range rp.Districts {
			if rd.Name == "" {
				continue
			}
			d, ok := p.byDistrict[rd.Name]
			if !ok {
				d = &districtNode{zipCodes: make(map[string]ZipCode)}
				p.byDistrict[rd.Name] = d
				p.districts = append(p.districts, rd.Name)
			}

			for _, rs := range rd.SubDistricts {
				if rs.Name == "" {
					continue
				}
				zip, seen := d.zipCodes[rs.Name]
				if !seen {
					d.subDistricts = append(d.subDistricts, rs.Name)
				}
				if zip == "" {
					d.zipCodes[rs.Name] = rs.ZipCode
				}
			}
		}
	}

	snap.provinces = sortNames(tag, snap.provinces)
	snap.stats.Provinces = len(snap.provinces)
	for _, p := range snap.byProvince {
		p.districts = sortNames(tag, p.districts)
		snap.stats.Districts += len(p.districts)
		for _, d := range p.byDistrict {
			d.subDistricts = sortNames(tag, d.subDistricts)
			snap.stats.SubDistricts += len(d.subDistricts)
			for _, zip := range d.zipCodes {
				if zip != "" {
					snap.stats.ZipCodes++
				}
			}
		}
	}

	return snap
}
