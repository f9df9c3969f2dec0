// Building catalog: read-only, loaded once at startup from buildings.csv.
// Every row gets its address slug materialized at load time; the slug is the
// primary lookup key for the public API.
package repo

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/viabcheck/eco-backend/internal/address"
	"github.com/viabcheck/eco-backend/internal/domain"
)

// DefaultSearchLimit caps substring search results when the caller does not
// pass a limit.
const DefaultSearchLimit = 20

// BuildingStore is the in-memory building catalog. It is immutable after
// construction and safe for concurrent readers.
//
// Slug collisions (two rows with identical postal code, street, and house
// number) resolve to the last-loaded row; earlier rows stay reachable via
// search but not via slug lookup.
type BuildingStore struct {
	buildings []domain.Building
	bySlug    map[string]int
	byID      map[string]int
}

// NewBuildingStore loads the catalog from the CSV at path. A missing or
// unreadable file yields an empty store and a warning log; lookups on an
// empty store simply miss.
func NewBuildingStore(path string) *BuildingStore {
	s := &BuildingStore{
		bySlug: make(map[string]int),
		byID:   make(map[string]int),
	}
	t, err := readTable(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("buildings catalog unavailable, starting empty")
		return s
	}
	for _, row := range t.rows {
		b := domain.Building{
			ID:                     fieldStr(row, "building_id"),
			PostalCode:             fieldStr(row, "postal_code"),
			Street:                 fieldStr(row, "street"),
			HouseNum:               fieldStr(row, "house_num"),
			Address:                fieldStr(row, "address"),
			District:               fieldStr(row, "district"),
			BuildingType:           fieldStr(row, "building_type"),
			NumUnits:               fieldInt(row, "num_units"),
			NumFloors:              fieldInt(row, "num_floors"),
			TotalAreaM2:            fieldFloat(row, "total_area_m2"),
			WindowType:             fieldStr(row, "window_type"),
			InsulationRoof:         fieldStr(row, "insulation_roof"),
			InsulationWalls:        fieldStr(row, "insulation_walls"),
			InsulationBasement:     fieldStr(row, "insulation_basement"),
			EnergyConsumptionKWhM2: fieldOptFloat(row, "energy_consumption_kwh_m2"),
			Latitude:               fieldOptFloat(row, "latitude"),
			Longitude:              fieldOptFloat(row, "longitude"),
		}
		b.AddressSlug = address.Slug(b.PostalCode, b.Street, b.HouseNum)
		s.buildings = append(s.buildings, b)
		i := len(s.buildings) - 1
		s.bySlug[b.AddressSlug] = i
		if b.ID != "" {
			s.byID[b.ID] = i
		}
	}
	log.Info().Int("count", len(s.buildings)).Str("path", path).Msg("buildings catalog loaded")
	return s
}

// Len returns the number of loaded buildings.
func (s *BuildingStore) Len() int { return len(s.buildings) }

// GetBySlug returns the building for an address slug (case-insensitive),
// or ErrNotFound.
func (s *BuildingStore) GetBySlug(slug string) (*domain.Building, error) {
	i, ok := s.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return nil, ErrNotFound
	}
	b := s.buildings[i]
	return &b, nil
}

// GetByID returns the building with the given catalog identifier,
// or ErrNotFound.
func (s *BuildingStore) GetByID(buildingID string) (*domain.Building, error) {
	i, ok := s.byID[strings.TrimSpace(buildingID)]
	if !ok {
		return nil, ErrNotFound
	}
	b := s.buildings[i]
	return &b, nil
}

// Search returns summaries for buildings whose address, street, postal code,
// or slug contains query (case-insensitive), capped at limit. A blank query
// returns nothing.
func (s *BuildingStore) Search(query string, limit int) []domain.BuildingSummary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.BuildingSummary{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	out := make([]domain.BuildingSummary, 0, limit)
	for i := range s.buildings {
		b := &s.buildings[i]
		if strings.Contains(strings.ToLower(b.Address), q) ||
			strings.Contains(strings.ToLower(b.Street), q) ||
			strings.Contains(b.PostalCode, q) ||
			strings.Contains(b.AddressSlug, q) {
			out = append(out, summary(b))
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// StreetsByPostalCode returns the distinct street names for a postal code,
// sorted with German collation so umlauts order naturally. Blank streets are
// excluded.
func (s *BuildingStore) StreetsByPostalCode(postalCode string) []string {
	pc := strings.TrimSpace(postalCode)
	if pc == "" {
		return []string{}
	}
	seen := make(map[string]struct{})
	streets := []string{}
	for i := range s.buildings {
		b := &s.buildings[i]
		if b.PostalCode != pc || b.Street == "" {
			continue
		}
		if _, dup := seen[b.Street]; dup {
			continue
		}
		seen[b.Street] = struct{}{}
		streets = append(streets, b.Street)
	}
	collate.New(language.German).SortStrings(streets)
	return streets
}

// HouseNumbersByStreet returns the distinct house numbers for a postal code
// and street (case-insensitive street match), sorted numerically.
func (s *BuildingStore) HouseNumbersByStreet(postalCode, street string) []string {
	pc := strings.TrimSpace(postalCode)
	st := strings.TrimSpace(street)
	seen := make(map[string]struct{})
	numbers := []string{}
	for i := range s.buildings {
		b := &s.buildings[i]
		if b.PostalCode != pc || !strings.EqualFold(b.Street, st) || b.HouseNum == "" {
			continue
		}
		if _, dup := seen[b.HouseNum]; dup {
			continue
		}
		seen[b.HouseNum] = struct{}{}
		numbers = append(numbers, b.HouseNum)
	}
	sortHouseNumbers(numbers)
	return numbers
}

// ListByPostalCodeAndStreet returns summaries for every building at the
// given postal code and street (case-insensitive street match).
func (s *BuildingStore) ListByPostalCodeAndStreet(postalCode, street string) []domain.BuildingSummary {
	pc := strings.TrimSpace(postalCode)
	st := strings.TrimSpace(street)
	out := []domain.BuildingSummary{}
	for i := range s.buildings {
		b := &s.buildings[i]
		if b.PostalCode == pc && strings.EqualFold(b.Street, st) {
			out = append(out, summary(b))
		}
	}
	return out
}

func summary(b *domain.Building) domain.BuildingSummary {
	display := b.Address
	if display == "" {
		display = strings.TrimSpace(b.Street + " " + b.HouseNum)
	}
	return domain.BuildingSummary{
		ID:             b.ID,
		BuildingID:     b.ID,
		AddressSlug:    b.AddressSlug,
		DisplayAddress: display,
		Latitude:       b.Latitude,
		Longitude:      b.Longitude,
	}
}

func sortHouseNumbers(nums []string) {
	sort.Slice(nums, func(i, j int) bool { return address.HouseNumberLess(nums[i], nums[j]) })
}
