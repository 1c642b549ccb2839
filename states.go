package realaddress

import (
	"sort"
	"sync"
)

// UsStateCodes maps the two-letter codes accepted in an address's state
// field to their full names. Territories and military codes are included
// because USPS addresses use them.
var UsStateCodes = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming",
	// Territories
	"AS": "American Samoa", "DC": "District of Columbia",
	"FM": "Federated States of Micronesia", "GU": "Guam",
	"MH": "Marshall Islands", "MP": "Northern Mariana Islands",
	"PW": "Palau", "PR": "Puerto Rico", "VI": "Virgin Islands",
	// Armed Forces
	"AA": "Armed Forces Americas", "AE": "Armed Forces Europe", "AP": "Armed Forces Pacific",
}

// sortedUsStateCodes is the order MissingStates reports codes in.
var sortedUsStateCodes = sync.OnceValue(func() []string {
	codes := make([]string, 0, len(UsStateCodes))
	for sc := range UsStateCodes {
		codes = append(codes, sc)
	}
	sort.Strings(codes)
	return codes
})

// StateName returns the full name for a two-letter US state or territory
// code. The lookup is case-insensitive.
func StateName(code string) (string, bool) {
	name, ok := UsStateCodes[toUpper(code)]
	return name, ok
}

// IsStateCode reports whether code is a known US state or territory code,
// in the canonical upper-case form the dataset uses.
func IsStateCode(code string) bool {
	_, ok := UsStateCodes[code]
	return ok
}

// MissingStates returns the known state codes with no address in d.
func (d *Dataset) MissingStates() []string {
	var out []string
	for _, sc := range sortedUsStateCodes() {
		if len(d.stateIndex[sc]) == 0 {
			out = append(out, sc)
		}
	}
	return out
}
