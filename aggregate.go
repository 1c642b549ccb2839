package realaddress

import "sort"

// Summary holds aggregate counts over a dataset.
type Summary struct {
	TotalAddresses    int `json:"totalAddresses"`
	UniqueStates      int `json:"uniqueStates"`
	UniqueCities      int `json:"uniqueCities"`
	UniquePostalCodes int `json:"uniquePostalCodes"`
}

// field extracts one string field from an address.
type field func(Address) string

func stateOf(a Address) string  { return a.State }
func postalOf(a Address) string { return a.PostalCode }
func cityOf(a Address) string   { return a.City }

// uniqueSorted returns the sorted set of non-empty values of f.
func (d *Dataset) uniqueSorted(f field) []string {
	seen := make(map[string]struct{})
	for _, a := range d.addresses {
		if v := f(a); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// counts returns the frequency of every value of f, empty values included,
// so the counts always sum to Len().
func (d *Dataset) counts(f field) map[string]int {
	m := make(map[string]int)
	for _, a := range d.addresses {
		m[f(a)]++
	}
	return m
}

// ListStates returns the sorted, de-duplicated state codes in the dataset.
func (d *Dataset) ListStates() []string { return d.uniqueSorted(stateOf) }

// ListPostalCodes returns the sorted, de-duplicated postal codes in the dataset.
func (d *Dataset) ListPostalCodes() []string { return d.uniqueSorted(postalOf) }

// ListCities returns the sorted, de-duplicated city names in the dataset.
func (d *Dataset) ListCities() []string { return d.uniqueSorted(cityOf) }

// StatesWithCounts maps each state code to its number of addresses.
func (d *Dataset) StatesWithCounts() map[string]int { return d.counts(stateOf) }

// PostalCodesWithCounts maps each postal code to its number of addresses.
func (d *Dataset) PostalCodesWithCounts() map[string]int { return d.counts(postalOf) }

// CitiesWithCounts maps each city name to its number of addresses.
func (d *Dataset) CitiesWithCounts() map[string]int { return d.counts(cityOf) }

// Summary computes aggregate counts in a single pass.
func (d *Dataset) Summary() Summary {
	states := make(map[string]struct{})
	cities := make(map[string]struct{})
	postal := make(map[string]struct{})
	for _, a := range d.addresses {
		if a.State != "" {
			states[a.State] = struct{}{}
		}
		if a.City != "" {
			cities[a.City] = struct{}{}
		}
		if a.PostalCode != "" {
			postal[a.PostalCode] = struct{}{}
		}
	}
	return Summary{
		TotalAddresses:    len(d.addresses),
		UniqueStates:      len(states),
		UniqueCities:      len(cities),
		UniquePostalCodes: len(postal),
	}
}

// ListStates returns the state codes present in the bundled dataset.
func ListStates() []string { return defaultDS().ListStates() }

// ListPostalCodes returns the postal codes present in the bundled dataset.
func ListPostalCodes() []string { return defaultDS().ListPostalCodes() }

// ListCities returns the city names present in the bundled dataset.
func ListCities() []string { return defaultDS().ListCities() }

// StatesWithCounts returns per-state address counts for the bundled dataset.
func StatesWithCounts() map[string]int { return defaultDS().StatesWithCounts() }

// PostalCodesWithCounts returns per-postal-code address counts for the bundled dataset.
func PostalCodesWithCounts() map[string]int { return defaultDS().PostalCodesWithCounts() }

// CitiesWithCounts returns per-city address counts for the bundled dataset.
func CitiesWithCounts() map[string]int { return defaultDS().CitiesWithCounts() }

// GetSummary returns aggregate counts for the bundled dataset.
func GetSummary() Summary { return defaultDS().Summary() }
