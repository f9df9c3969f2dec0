// Package domain defines the data model of the retrofit economics backend:
// the read-only building and measure catalogs, the computed per-measure
// economics results, and the mutable user/request/recommendation records
// persisted as flat CSV files.
package domain

import "time"

// Building is one row of the buildings catalog, loaded once at startup.
// AddressSlug is materialized at load time from (postal code, street,
// house number); it is not a column of the backing file.
//
// Pointer fields are nil when the source column is blank or non-numeric.
type Building struct {
	ID                 string  `json:"building_id"`
	PostalCode         string  `json:"postal_code"`
	Street             string  `json:"street"`
	HouseNum           string  `json:"house_num"`
	Address            string  `json:"address"`
	District           string  `json:"district,omitempty"`
	AddressSlug        string  `json:"address_slug"`
	BuildingType       string  `json:"building_type"`
	NumUnits           int     `json:"num_units"`
	NumFloors          int     `json:"num_floors"`
	TotalAreaM2        float64 `json:"total_area_m2"`
	WindowType         string  `json:"window_type"`
	InsulationRoof     string  `json:"insulation_roof"`
	InsulationWalls    string  `json:"insulation_walls"`
	InsulationBasement string  `json:"insulation_basement"`

	// EnergyConsumptionKWhM2 is the per-area yearly consumption used as a
	// fallback when no metered time series exists for the building.
	EnergyConsumptionKWhM2 *float64 `json:"energy_consumption_kwh_m2,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// BuildingSummary is the compact shape returned by search and cascade
// lookups (autocomplete, map pins).
type BuildingSummary struct {
	ID             string   `json:"id"`
	BuildingID     string   `json:"building_id"`
	AddressSlug    string   `json:"address_slug"`
	DisplayAddress string   `json:"display_address"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

// Measure is one row of the retrofit measure catalog.
//
// TypicalCostEURM2 is interpreted by the economics calculator: values below
// the per-m² threshold scale with building area, values at or above it are
// one-time costs.
type Measure struct {
	ID                 string  `json:"measure_id"`
	Name               string  `json:"measure_name"`
	Category           string  `json:"category"`
	TypicalCostEURM2   float64 `json:"typical_cost_eur_m2"`
	ExpectedSavingsPct float64 `json:"expected_savings_pct"`
	KfWEligible        bool    `json:"kfw_eligible"`
	BafaEligible       bool    `json:"bafa_eligible"`
	Prerequisites      string  `json:"prerequisites,omitempty"`
}

// MeasureResult is the computed economics for a single applicable measure.
// It is ephemeral: computed per request, never persisted.
//
// PaybackYears and PaybackYearsAfterSubsidy are nil when yearly savings are
// zero or negative (payback is undefined, not infinite).
type MeasureResult struct {
	MeasureID                  string   `json:"measure_id"`
	MeasureName                string   `json:"measure_name"`
	Category                   string   `json:"category"`
	EstimatedCost              float64  `json:"estimated_cost"`
	CostAfterSubsidyEUR        float64  `json:"cost_after_subsidy_eur"`
	SubsidyEUR                 float64  `json:"subsidy_eur"`
	SubsidyPct                 float64  `json:"subsidy_pct"`
	EstimatedSavingsPct        float64  `json:"estimated_savings_pct"`
	EstimatedSavingsEURPerYear float64  `json:"estimated_savings_eur_per_year"`
	PaybackYears               *float64 `json:"payback_years"`
	PaybackYearsAfterSubsidy   *float64 `json:"payback_years_after_subsidy"`
	SubsidyInfo                string   `json:"subsidy_info"`

	// RequiresWholeBuildingLandlord marks measures a single tenant cannot
	// carry out alone (envelope and heating work).
	RequiresWholeBuildingLandlord bool `json:"requires_whole_building_landlord"`
}

// EnergyRecord is one row of the metered energy-consumption time series.
type EnergyRecord struct {
	BuildingID   string  `json:"building_id"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	HeatingKWh   float64 `json:"heating_kwh"`
	TotalCostEUR float64 `json:"total_cost_eur"`
}

// Financial is one row of the per-building financials catalog.
type Financial struct {
	BuildingID   string  `json:"building_id"`
	AvgRentEURM2 float64 `json:"avg_rent_eur_m2"`
}

// User is a registered resident. Profile fields (Warmmiete, Kaltmiete,
// ApartmentAreaM2) are optional and updated in place; ProfileUpdatedAt is
// only touched when an update actually changes a value.
type User struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	BuildingID         string     `json:"building_id"`
	SubscriptionStatus string     `json:"subscription_status"`
	Warmmiete          *float64   `json:"warmmiete"`
	Kaltmiete          *float64   `json:"kaltmiete"`
	ApartmentAreaM2    *float64   `json:"apartment_area_m2"`
	ProfileUpdatedAt   *time.Time `json:"profile_updated_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Request is a retrofit interest request. There is at most one per user:
// a second submission overwrites building ID, status, and UpdatedAt in place.
type Request struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BuildingID string    `json:"building_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SelectedMeasure is one entry of a recommendation payload: a measure picked
// for the DIY or whole-building track, with its computed economics snapshot.
type SelectedMeasure struct {
	MeasureID                string  `json:"measure_id"`
	MeasureName              string  `json:"measure_name"`
	EstimatedCostEUR         float64 `json:"estimated_cost_eur"`
	ExpectedSavingsPct       float64 `json:"expected_savings_pct"`
	NoteLandlordIfApplicable string  `json:"note_landlord_if_applicable"`
}

// RecommendationPayload is the structured recommendation stored (JSON-encoded)
// in the append-only recommendations file.
type RecommendationPayload struct {
	DIYMeasures           []SelectedMeasure `json:"diy_measures"`
	WholeBuildingMeasures []SelectedMeasure `json:"whole_building_measures"`
	BuildingID            string            `json:"building_id"`
}

// Recommendation is one appended row of the recommendations history.
// Retrieval by building returns the most recently appended row; older rows
// are kept and never compacted.
type Recommendation struct {
	BuildingID     string                `json:"building_id"`
	Payload        RecommendationPayload `json:"payload"`
	EstimatedCost  *float64              `json:"estimated_cost"`
	MonthlySavings *float64              `json:"monthly_savings"`
	CreatedAt      time.Time             `json:"created_at"`
}

// CalculatorResult is the outcome of the whole-building window retrofit
// calculation. Field names mirror the planning spreadsheet the formulas were
// lifted from, which is why they deviate from the usual JSON naming.
type CalculatorResult struct {
	TotalSqm                        float64 `json:"TotalSqm"`
	NrUnits                         int     `json:"NrUnits"`
	WindowType                      string  `json:"WindowType"`
	EnergyCostsPerMonth             float64 `json:"EnergyCostsPerMonth"`
	RentPerUnit                     float64 `json:"RentPerUnit"`
	SubTypeOfRetrofit               string  `json:"SubTypeOfRetrofit"`
	RetrofitCostTotal               float64 `json:"RetrofitCostTotal"`
	RetrofitCostTotalAfterSubsidy   float64 `json:"RetrofitCostTotalAfterSubsidy"`
	EnergySavingsPerMonth           float64 `json:"EnergySavingsPerMonth"`
	YearUntilBreakeven              float64 `json:"YearUntilBreakeven"`
	SavingsPerUnit                  float64 `json:"SavingsPerUnit"`
	RentIncreasePerUnit             float64 `json:"RentIncreasePerUnit"`
	TenantSavingsPerUnit            float64 `json:"TenantSavingsPerUnit"`
	YearlyExtraIncome               float64 `json:"YearlyExtraIncome"`
	YearsUntilBreakevenRentIncrease float64 `json:"YearsUntilBreakevenRentIncrease"`
	EnergySavingsPct                float64 `json:"EnergySavingsPct"`

	// Break-even against the rent increase, split into whole years and
	// remaining months for display.
	YearsUntilBreakEven  int `json:"years_until_break_even"`
	MonthsUntilBreakEven int `json:"months_until_break_even"`
}
