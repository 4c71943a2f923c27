package view

import "worldstats/internal/models"

// MaxCustomCodes is the size limit of a custom bar selection.
const MaxCustomCodes = 5

// State is the user's current selection. Only actions change it.
type State struct {
	Metric      models.Metric  `json:"metric"`
	Year        int            `json:"year"`
	BarMode     models.BarMode `json:"barMode"`
	CustomCodes []string       `json:"customCodes"`
	// FocusCode is the country of the open trend view, empty when closed.
	FocusCode string `json:"focusCode,omitempty"`
	TrendYear int    `json:"trendYear"`
}

func NewState(year int) State {
	return State{
		Metric:      models.MetricGDPPerCapita,
		Year:        year,
		BarMode:     models.BarTop,
		CustomCodes: []string{},
		TrendYear:   year,
	}
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State {
	s.CustomCodes = append([]string(nil), s.CustomCodes...)
	if s.CustomCodes == nil {
		s.CustomCodes = []string{}
	}
	return s
}
