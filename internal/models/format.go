package models

import (
	"fmt"
	"math"

	"github.com/valyala/fasttemplate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	tooltipTemplate    = "{country}\n{label}: {value}"
	popBarTemplate     = "Population: {population}\nGDP per Capita: {perCapita}"
	gdpBarTemplate     = "GDP: {gdp}\nGDP per Capita: {perCapita}"
	trendPointTemplate = "Year: {year}\n{label}: {value}"
)

var printer = message.NewPrinter(language.English)

// FormatValue renders v the way the map tooltip shows it for metric m.
func FormatValue(m Metric, v float64) string {
	switch m {
	case MetricGDP:
		switch {
		case v > 1e12:
			return fmt.Sprintf("$%.2fT", v/1e12)
		case v > 1e9:
			return fmt.Sprintf("$%.1fB", v/1e9)
		}
		return fmt.Sprintf("$%d", int64(math.Round(v)))
	case MetricPopulation:
		switch {
		case v > 1e9:
			return fmt.Sprintf("%.2fB", v/1e9)
		case v > 1e6:
			return fmt.Sprintf("%.1fM", v/1e6)
		}
		return printer.Sprintf("%d", int64(math.Round(v)))
	}
	return printer.Sprintf("$%d", int64(math.Round(v)))
}

func Tooltip(country string, m Metric, v float64) string {
	return execute(tooltipTemplate, map[string]interface{}{
		"country": country,
		"label":   m.Label(),
		"value":   FormatValue(m, v),
	})
}

func execute(tpl string, m map[string]interface{}) string {
	return fasttemplate.ExecuteString(tpl, "{", "}", m)
}

// BarTooltips returns the hover text of the population bar and the GDP bar
// of r. Numbers are whole and ungrouped, as the bar chart prints them.
func BarTooltips(r Record) (population, gdp string) {
	perCapita := fmt.Sprintf("$%d", int64(math.Round(r.GDPPerCapita)))
	population = execute(popBarTemplate, map[string]interface{}{
		"population": fmt.Sprintf("%d", int64(math.Round(r.Population))),
		"perCapita":  perCapita,
	})
	gdp = execute(gdpBarTemplate, map[string]interface{}{
		"gdp":       fmt.Sprintf("$%d", int64(math.Round(r.GDP))),
		"perCapita": perCapita,
	})
	return population, gdp
}

// PointTooltip is the hover text of one trend point of metric m.
func PointTooltip(year int, m Metric, v float64) string {
	label, value := m.Label(), printer.Sprintf("$%d", int64(math.Round(v)))
	switch m {
	case MetricPopulation:
		value = printer.Sprintf("%d", int64(math.Round(v)))
	case MetricGDP:
		label = "GDP"
	}
	return execute(trendPointTemplate, map[string]interface{}{
		"year":  fmt.Sprintf("%d", year),
		"label": label,
		"value": value,
	})
}
