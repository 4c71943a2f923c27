package view

import (
	"errors"
	"fmt"
	"strings"
	"worldstats/internal/models"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidAction = errors.New("invalid action")
)

// Scope says which views an action invalidates.
type Scope int

const (
	ScopeOverview Scope = iota // map and bar chart
	ScopeTrend
)

func (s Scope) String() string {
	if s == ScopeTrend {
		return "trend"
	}
	return "overview"
}

// Result describes what an applied action did.
type Result struct {
	Scope   Scope `json:"-"`
	Clipped bool  `json:"clipped,omitempty"`
}

// Action is one user input. Apply mutates s and reports what to recompute.
type Action interface {
	Name() string
	Apply(s *State) (Result, error)
}

type SetMetric struct{ Metric models.Metric }

func (SetMetric) Name() string { return "setMetric" }

func (a SetMetric) Apply(s *State) (Result, error) {
	if _, err := models.ParseMetric(string(a.Metric)); err != nil {
		return Result{}, err
	}
	s.Metric = a.Metric
	return Result{Scope: ScopeOverview}, nil
}

// SetYear accepts any year; a year missing from the dataset renders as no data.
type SetYear struct{ Year int }

func (SetYear) Name() string { return "setYear" }

func (a SetYear) Apply(s *State) (Result, error) {
	s.Year = a.Year
	return Result{Scope: ScopeOverview}, nil
}

type SetBarMode struct{ Mode models.BarMode }

func (SetBarMode) Name() string { return "setBarMode" }

func (a SetBarMode) Apply(s *State) (Result, error) {
	if _, err := models.ParseBarMode(string(a.Mode)); err != nil {
		return Result{}, err
	}
	s.BarMode = a.Mode
	return Result{Scope: ScopeOverview}, nil
}

// SetCustomCodes replaces the custom selection. Blank and repeated codes are
// dropped and the rest is clipped to the first MaxCustomCodes.
type SetCustomCodes struct{ Codes []string }

func (SetCustomCodes) Name() string { return "setCustomCodes" }

func (a SetCustomCodes) Apply(s *State) (Result, error) {
	seen := make(map[string]struct{}, len(a.Codes))
	codes := make([]string, 0, MaxCustomCodes)
	clipped := false
	for _, c := range a.Codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if len(codes) == MaxCustomCodes {
			clipped = true
			break
		}
		codes = append(codes, c)
	}
	s.CustomCodes = codes
	return Result{Scope: ScopeOverview, Clipped: clipped}, nil
}

// FocusCountry opens the trend view of Code ending at Year, or at the
// selected year when Year is nil.
type FocusCountry struct {
	Code string
	Year *int
}

func (FocusCountry) Name() string { return "focusCountry" }

func (a FocusCountry) Apply(s *State) (Result, error) {
	if a.Code == "" {
		return Result{}, fmt.Errorf("%w: focusCountry needs a code", ErrInvalidAction)
	}
	s.FocusCode = a.Code
	s.TrendYear = s.Year
	if a.Year != nil {
		s.TrendYear = *a.Year
	}
	return Result{Scope: ScopeTrend}, nil
}

type SetTrendYear struct{ Year int }

func (SetTrendYear) Name() string { return "setTrendYear" }

func (a SetTrendYear) Apply(s *State) (Result, error) {
	s.TrendYear = a.Year
	return Result{Scope: ScopeTrend}, nil
}

// ClearFocus closes the trend view.
type ClearFocus struct{}

func (ClearFocus) Name() string { return "clearFocus" }

func (ClearFocus) Apply(s *State) (Result, error) {
	s.FocusCode = ""
	return Result{Scope: ScopeTrend}, nil
}

// Request is the wire form of an action.
type Request struct {
	Action string   `json:"action"`
	Metric string   `json:"metric,omitempty"`
	Mode   string   `json:"mode,omitempty"`
	Year   *int     `json:"year,omitempty"`
	Codes  []string `json:"codes,omitempty"`
	Code   string   `json:"code,omitempty"`
}

// ToAction maps the request to its transition.
func (r Request) ToAction() (Action, error) {
	needYear := func() (int, error) {
		if r.Year == nil {
			return 0, fmt.Errorf("%w: %s needs a year", ErrInvalidAction, r.Action)
		}
		return *r.Year, nil
	}

	switch r.Action {
	case "setMetric":
		m, err := models.ParseMetric(r.Metric)
		if err != nil {
			return nil, err
		}
		return SetMetric{Metric: m}, nil
	case "setYear":
		y, err := needYear()
		if err != nil {
			return nil, err
		}
		return SetYear{Year: y}, nil
	case "setBarMode":
		m, err := models.ParseBarMode(r.Mode)
		if err != nil {
			return nil, err
		}
		return SetBarMode{Mode: m}, nil
	case "setCustomCodes":
		return SetCustomCodes{Codes: r.Codes}, nil
	case "focusCountry":
		return FocusCountry{Code: r.Code, Year: r.Year}, nil
	case "setTrendYear":
		y, err := needYear()
		if err != nil {
			return nil, err
		}
		return SetTrendYear{Year: y}, nil
	case "clearFocus":
		return ClearFocus{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, r.Action)
}
