package models

// MapFrame is what the choropleth needs for one (year, metric).
// NoData means no positive value exists; the renderer uses its neutral fill
// everywhere and Domain is nil.
type MapFrame struct {
	Year   int        `json:"year"`
	Metric Metric     `json:"metric"`
	Label  string     `json:"label"`
	NoData bool       `json:"noData"`
	Domain *Domain    `json:"domain,omitempty"`
	Values []MapValue `json:"values"`
}

// MapValue is the metric value of one country of the year. HasData is false
// for a zero value; the country keeps its tooltip but gets the neutral fill.
type MapValue struct {
	Code    string  `json:"code"`
	Value   float64 `json:"value"`
	HasData bool    `json:"hasData"`
	Tooltip string  `json:"tooltip"`
}

type BarFrame struct {
	Year      int        `json:"year"`
	Mode      BarMode    `json:"mode"`
	Entries   []BarEntry `json:"entries"`
	Accessors []Accessor `json:"accessors"`
	// Axis domains, always starting at zero.
	Left  Domain `json:"left"`
	Right Domain `json:"right"`
}

// BarEntry is one bar group with the hover text of its population and GDP
// bars.
type BarEntry struct {
	Record
	PopulationTooltip string `json:"populationTooltip"`
	GDPTooltip        string `json:"gdpTooltip"`
}

type TrendChart struct {
	Fields []Accessor `json:"fields"`
	Left   Domain     `json:"left"`
	Right  *Domain    `json:"right,omitempty"`
}

type TrendFrame struct {
	Code    string        `json:"code"`
	Country string        `json:"country"`
	Title   string        `json:"title"`
	Year    int           `json:"year"`
	Series  []TrendSample `json:"series"`
	Charts  []TrendChart  `json:"charts"`
}

// TrendSample is a trend point with the hover text of each plotted field.
type TrendSample struct {
	TrendPoint
	PopulationTooltip   string `json:"populationTooltip"`
	GDPTooltip          string `json:"gdpTooltip"`
	GDPPerCapitaTooltip string `json:"gdpPerCapitaTooltip"`
}

// Frames is the last output sent to the renderer for each view.
type Frames struct {
	Map   *MapFrame   `json:"map,omitempty"`
	Bars  *BarFrame   `json:"bars,omitempty"`
	Trend *TrendFrame `json:"trend,omitempty"`
}
