package view

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"worldstats/internal/engine"
	"worldstats/internal/models"
)

// Renderer draws already computed frames. RenderTrend(nil) closes the trend
// view.
type Renderer interface {
	RenderMap(f *models.MapFrame)
	RenderBars(f *models.BarFrame)
	RenderTrend(f *models.TrendFrame)
}

// Observer is told about every dispatched action.
type Observer interface {
	Dispatched(action string, scope Scope, took time.Duration, err error)
}

var (
	barAccessors = []models.Accessor{
		{Metric: models.MetricPopulation, Label: "Population", Axis: "left"},
		{Metric: models.MetricGDP, Label: "GDP (USD)", Axis: "right"},
	}
	trendAccessors = []models.Accessor{
		{Metric: models.MetricPopulation, Label: "Population", Axis: "left"},
		{Metric: models.MetricGDP, Label: "GDP (USD)", Axis: "right"},
	}
	perCapitaAccessors = []models.Accessor{
		{Metric: models.MetricGDPPerCapita, Label: "GDP per Cap (USD)", Axis: "left"},
	}
)

// Session owns the view state of one dashboard. Dispatch runs an action and
// its recomputation under one lock, so renders never interleave and always
// see the state that triggered them.
type Session struct {
	mu       sync.Mutex
	ds       *engine.Dataset
	names    map[string]string
	state    State
	renderer Renderer
	observer Observer
}

func NewSession(ds *engine.Dataset, initial State, r Renderer) *Session {
	names := make(map[string]string, len(ds.Countries))
	for _, c := range ds.Countries {
		names[c.Code] = c.Name
	}
	return &Session{ds: ds, names: names, state: initial.Clone(), renderer: r}
}

func (s *Session) SetObserver(o Observer) {
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Read calls fn with the current state while no dispatch can run, so
// whatever fn reads from the renderer belongs to that state. fn must not call
// back into the session.
func (s *Session) Read(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state.Clone())
}

// Dispatch applies a and recomputes the views it invalidates. A rejected
// action leaves the state untouched and renders nothing.
func (s *Session) Dispatch(a Action) (Result, error) {
	return s.DispatchAndRead(a, nil)
}

// DispatchAndRead is Dispatch followed by Read, without letting another
// dispatch in between. fn also runs when a is rejected.
func (s *Session) DispatchAndRead(a Action, fn func(State)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	next := s.state.Clone()
	res, err := a.Apply(&next)
	if err == nil {
		s.state = next
		s.recompute(res.Scope)
	}
	if s.observer != nil {
		s.observer.Dispatched(a.Name(), res.Scope, time.Since(start), err)
	}
	if fn != nil {
		fn(s.state.Clone())
	}
	return res, err
}

// Render redraws every open view from the current state.
func (s *Session) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recompute(ScopeOverview)
	if s.state.FocusCode != "" {
		s.recompute(ScopeTrend)
	}
}

func (s *Session) recompute(scope Scope) {
	switch scope {
	case ScopeOverview:
		s.renderer.RenderMap(MapFrame(s.ds.Index, s.state.Year, s.state.Metric, s.names))
		s.renderer.RenderBars(BarFrame(s.ds.Index, s.state.Year, s.state.BarMode, s.state.CustomCodes))
	case ScopeTrend:
		if s.state.FocusCode == "" {
			s.renderer.RenderTrend(nil)
			return
		}
		s.renderer.RenderTrend(TrendFrame(s.ds.Index, s.state.FocusCode, s.names[s.state.FocusCode], s.state.TrendYear, engine.DefaultTrendWindow))
	}
}

// MapFrame computes the choropleth data of (year, metric). Every country of
// the year gets a value and a tooltip; zero values are marked as no data.
func MapFrame(ix *engine.YearIndex, year int, metric models.Metric, names map[string]string) *models.MapFrame {
	f := &models.MapFrame{
		Year:   year,
		Metric: metric,
		Label:  metric.Label(),
		Values: []models.MapValue{},
	}

	domain, err := engine.MetricDomain(ix, year, metric)
	if errors.Is(err, engine.ErrNoData) {
		f.NoData = true
		return f
	}
	f.Domain = &domain

	for _, r := range ix.Year(year) {
		v := metric.Value(r)
		name := r.Country
		if n, ok := names[r.Code]; ok && name == "" {
			name = n
		}
		f.Values = append(f.Values, models.MapValue{
			Code:    r.Code,
			Value:   v,
			HasData: v > 0,
			Tooltip: models.Tooltip(name, metric, v),
		})
	}
	return f
}

// BarFrame computes the grouped bar chart: population on the left axis, GDP
// on the right.
func BarFrame(ix *engine.YearIndex, year int, mode models.BarMode, codes []string) *models.BarFrame {
	records := engine.BarEntries(ix, year, mode, codes)
	entries := make([]models.BarEntry, len(records))
	for i, r := range records {
		pop, gdp := models.BarTooltips(r)
		entries[i] = models.BarEntry{Record: r, PopulationTooltip: pop, GDPTooltip: gdp}
	}
	return &models.BarFrame{
		Year:      year,
		Mode:      mode,
		Entries:   entries,
		Accessors: barAccessors,
		Left:      engine.MaxOf(records, models.MetricPopulation),
		Right:     engine.MaxOf(records, models.MetricGDP),
	}
}

// TrendFrame computes the two trend charts of code: population with GDP, and
// GDP per capita.
func TrendFrame(ix *engine.YearIndex, code, country string, upto, window int) *models.TrendFrame {
	if window <= 0 {
		window = engine.DefaultTrendWindow
	}
	series := engine.TrendSeries(ix, code, upto, window)
	samples := make([]models.TrendSample, len(series))
	for i, p := range series {
		samples[i] = models.TrendSample{
			TrendPoint:          p,
			PopulationTooltip:   models.PointTooltip(p.Year, models.MetricPopulation, p.Population),
			GDPTooltip:          models.PointTooltip(p.Year, models.MetricGDP, p.GDP),
			GDPPerCapitaTooltip: models.PointTooltip(p.Year, models.MetricGDPPerCapita, p.GDPPerCapita),
		}
	}
	gdp := engine.SeriesMax(series, models.MetricGDP)
	return &models.TrendFrame{
		Code:    code,
		Country: country,
		Title:   fmt.Sprintf("%d-Year Trend - %s", window, country),
		Year:    upto,
		Series:  samples,
		Charts: []models.TrendChart{
			{
				Fields: trendAccessors,
				Left:   engine.SeriesMax(series, models.MetricPopulation),
				Right:  &gdp,
			},
			{
				Fields: perCapitaAccessors,
				Left:   engine.SeriesMax(series, models.MetricGDPPerCapita),
			},
		},
	}
}
