package engine

import (
	"errors"
	"sort"
	"worldstats/internal/models"
)

const (
	// BarLimit caps every bar chart selection.
	BarLimit = 5
	// DefaultTrendWindow is the number of trailing years in a trend chart.
	DefaultTrendWindow = 5
)

// ErrNoData means nothing qualifies for the request; callers draw an empty
// view instead of failing.
var ErrNoData = errors.New("no data")

// MetricDomain returns the extent of the positive values of metric in year.
func MetricDomain(ix *YearIndex, year int, metric models.Metric) (models.Domain, error) {
	var d models.Domain
	found := false
	for _, r := range ix.Year(year) {
		v := metric.Value(r)
		if v <= 0 {
			continue
		}
		if !found {
			d = models.Domain{Min: v, Max: v}
			found = true
			continue
		}
		if v < d.Min {
			d.Min = v
		}
		if v > d.Max {
			d.Max = v
		}
	}
	if !found {
		return models.Domain{}, ErrNoData
	}
	return d, nil
}

// BarEntries selects at most BarLimit records of year for the bar chart.
// Top and bottom keep only positive GDP and are stable on the year's
// iteration order; custom keeps the year's iteration order, not the order of
// codes.
func BarEntries(ix *YearIndex, year int, mode models.BarMode, codes []string) []models.Record {
	entries := ix.Year(year)

	switch mode {
	case models.BarTop, models.BarBottom:
		filtered := entries[:0]
		for _, r := range entries {
			if r.GDP > 0 {
				filtered = append(filtered, r)
			}
		}
		entries = filtered
		if mode == models.BarTop {
			sort.SliceStable(entries, func(i, j int) bool { return entries[i].GDP > entries[j].GDP })
		} else {
			sort.SliceStable(entries, func(i, j int) bool { return entries[i].GDP < entries[j].GDP })
		}
	case models.BarCustom:
		want := make(map[string]struct{}, len(codes))
		for _, c := range codes {
			want[c] = struct{}{}
		}
		filtered := entries[:0]
		for _, r := range entries {
			if _, ok := want[r.Code]; ok {
				filtered = append(filtered, r)
			}
		}
		entries = filtered
	default:
		return []models.Record{}
	}

	if len(entries) > BarLimit {
		entries = entries[:BarLimit]
	}
	if entries == nil {
		return []models.Record{}
	}
	return entries
}

// TrendSeries returns code's values for the last window dataset years up to
// and including upto, ascending. Fewer points come back when the dataset
// starts later. Years without a record for code are zero-filled and flagged
// Missing.
func TrendSeries(ix *YearIndex, code string, upto, window int) []models.TrendPoint {
	if window <= 0 {
		window = DefaultTrendWindow
	}

	var years []int
	for _, y := range ix.Years() {
		if y <= upto {
			years = append(years, y)
		}
	}
	if len(years) > window {
		years = years[len(years)-window:]
	}

	series := make([]models.TrendPoint, 0, len(years))
	for _, y := range years {
		r, ok := ix.Lookup(y, code)
		if !ok {
			series = append(series, models.TrendPoint{Year: y, Missing: true})
			continue
		}
		series = append(series, models.TrendPoint{
			Year:         y,
			Population:   r.Population,
			GDP:          r.GDP,
			GDPPerCapita: r.GDPPerCapita,
		})
	}
	return series
}

// MaxOf returns the [0, max] axis domain of metric over records.
func MaxOf(records []models.Record, metric models.Metric) models.Domain {
	var d models.Domain
	for _, r := range records {
		if v := metric.Value(r); v > d.Max {
			d.Max = v
		}
	}
	return d
}

// SeriesMax is MaxOf for trend points.
func SeriesMax(series []models.TrendPoint, metric models.Metric) models.Domain {
	var d models.Domain
	for _, p := range series {
		if v := p.Value(metric); v > d.Max {
			d.Max = v
		}
	}
	return d
}
