package leave

import "sort"

// countries is the static code to display-name table offered by the
// settings screen. Holidays are only ever filtered by these codes.
var countries = map[string]string{
	"US": "United States",
	"UK": "United Kingdom",
	"CA": "Canada",
	"AU": "Australia",
	"DE": "Germany",
	"FR": "France",
	"JP": "Japan",
	"IN": "India",
}

type Country struct {
	Code string
	Name string
}

// Countries returns the supported countries ordered by code.
func Countries() []Country {
	out := make([]Country, 0, len(countries))
	for code, name := range countries {
		out = append(out, Country{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// CountryName falls back to the code itself for unknown countries.
func CountryName(code string) string {
	if name, ok := countries[code]; ok {
		return name
	}
	return code
}

// KnownCountry reports whether code is in the country table.
func KnownCountry(code string) bool {
	_, ok := countries[code]
	return ok
}
