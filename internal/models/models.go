package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMetric  = errors.New("unknown metric")
	ErrUnknownBarMode = errors.New("unknown bar mode")
)

// Record is one row of the merged GDP/population dataset.
// A zero numeric field means "no data".
type Record struct {
	Year         int     `json:"year"`
	Code         string  `json:"code"`
	Country      string  `json:"country"`
	Population   float64 `json:"population"`
	GDP          float64 `json:"gdp"`
	GDPPerCapita float64 `json:"gdpPerCapita"`
}

// Country is a picker entry.
type Country struct {
	Code  string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"text"`
}

type Metric string

const (
	MetricGDP          Metric = "gdp"
	MetricPopulation   Metric = "population"
	MetricGDPPerCapita Metric = "gdpPerCapita"
)

var Metrics = []Metric{MetricGDP, MetricPopulation, MetricGDPPerCapita}

func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Value returns the field of r selected by m.
func (m Metric) Value(r Record) float64 {
	switch m {
	case MetricGDP:
		return r.GDP
	case MetricPopulation:
		return r.Population
	case MetricGDPPerCapita:
		return r.GDPPerCapita
	}
	return 0
}

func (m Metric) Label() string {
	switch m {
	case MetricGDP:
		return "Total GDP"
	case MetricPopulation:
		return "Population"
	case MetricGDPPerCapita:
		return "GDP per Capita"
	}
	return string(m)
}

type BarMode string

const (
	BarTop    BarMode = "top"
	BarBottom BarMode = "bottom"
	BarCustom BarMode = "custom"
)

func ParseBarMode(s string) (BarMode, error) {
	switch BarMode(s) {
	case BarTop, BarBottom, BarCustom:
		return BarMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBarMode, s)
}

// TrendPoint is one year of a country's trend window. Missing is set when the
// dataset has no record for that year; the numbers are then zero.
type TrendPoint struct {
	Year         int     `json:"year"`
	Population   float64 `json:"population"`
	GDP          float64 `json:"gdp"`
	GDPPerCapita float64 `json:"gdpPerCapita"`
	Missing      bool    `json:"missing,omitempty"`
}

func (p TrendPoint) Value(m Metric) float64 {
	switch m {
	case MetricGDP:
		return p.GDP
	case MetricPopulation:
		return p.Population
	case MetricGDPPerCapita:
		return p.GDPPerCapita
	}
	return 0
}

// Domain is a closed [Min, Max] interval.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Accessor names a value the renderer plots and the axis it goes on.
type Accessor struct {
	Metric Metric `json:"metric"`
	Label  string `json:"label"`
	Axis   string `json:"axis"`
}
