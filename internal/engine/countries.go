package engine

import (
	"sort"
	"worldstats/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UniqueCountries returns one entry per code, sorted by display name.
// When a code appears with different names the last one seen wins.
func UniqueCountries(records []models.Record) []models.Country {
	names := make(map[string]string)
	var order []string
	for _, r := range records {
		if _, ok := names[r.Code]; !ok {
			order = append(order, r.Code)
		}
		names[r.Code] = r.Country
	}

	out := make([]models.Country, 0, len(order))
	for _, code := range order {
		out = append(out, models.Country{
			Code:  code,
			Name:  names[code],
			Label: code + " - " + names[code],
		})
	}

	// Collator keeps state between comparisons, one per call.
	c := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := c.CompareString(out[i].Name, out[j].Name); cmp != 0 {
			return cmp < 0
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// AvailableYears returns the distinct years, ascending.
func AvailableYears(records []models.Record) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, r := range records {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}
