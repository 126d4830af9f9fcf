package calendar

import "strings"

// ObservanceKeywords mark feed entries that are not national holidays:
// optional observances (ponto facultativo) and Easter Sunday
var ObservanceKeywords = []string{"CARNAVAL", "CINZAS", "CORPUS CHRISTI", "PONTO FACULTATIVO", "PÁSCOA", "PASCOA"}

// IsObservance reports whether a holiday name is an optional observance
func IsObservance(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range ObservanceKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// WithoutObservances returns a copy of s with observances removed
func (s HolidaySet) WithoutObservances() HolidaySet {
	out := NewHolidaySet()
	for _, h := range s.Holidays() {
		if IsObservance(h.Name) {
			continue
		}
		out.Add(h.Date, h.Name)
	}
	return out
}
