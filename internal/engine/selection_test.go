package engine

import (
	"errors"
	"reflect"
	"testing"
	"worldstats/internal/models"
)

func codes(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Code
	}
	return out
}

func TestMetricDomain(t *testing.T) {
	ix := mustLoad(t, sampleRecords())

	d, err := MetricDomain(ix, 2022, models.MetricPopulation)
	if err != nil {
		t.Fatal(err)
	}
	if d.Min != 11e3 || d.Max != 1400e6 {
		t.Errorf("Expected [11e3, 1400e6], got [%v, %v]", d.Min, d.Max)
	}

	// Zero record (ZZZ) is ignored, so min is still a real value.
	d, err = MetricDomain(ix, 2022, models.MetricGDP)
	if err != nil {
		t.Fatal(err)
	}
	if d.Min != 300e6 || d.Max != 100e12 {
		t.Errorf("Expected [300e6, 100e12], got [%v, %v]", d.Min, d.Max)
	}
	if d.Min > d.Max {
		t.Error("min > max")
	}
}

func TestMetricDomainNoData(t *testing.T) {
	ix := mustLoad(t, []models.Record{
		{Year: 2020, Code: "AAA", Country: "A"},
		{Year: 2020, Code: "BBB", Country: "B", GDP: 10},
	})

	if _, err := MetricDomain(ix, 2020, models.MetricPopulation); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData for all-zero population, got %v", err)
	}
	if _, err := MetricDomain(ix, 1999, models.MetricGDP); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData for absent year, got %v", err)
	}
	d, err := MetricDomain(ix, 2020, models.MetricGDP)
	if err != nil || d.Min != 10 || d.Max != 10 {
		t.Errorf("Expected [10, 10], got %+v, %v", d, err)
	}
}

func TestBarEntriesTop(t *testing.T) {
	ix := mustLoad(t, sampleRecords())

	got := BarEntries(ix, 2022, models.BarTop, nil)
	// IND and FRA tie on GDP; IND comes first in the year's order.
	want := []string{"USA", "CHN", "JPN", "DEU", "IND"}
	if !reflect.DeepEqual(codes(got), want) {
		t.Errorf("Expected %v, got %v", want, codes(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].GDP > got[i-1].GDP {
			t.Errorf("Not descending at %d", i)
		}
	}

	// Fewer positive entries than the limit.
	small := mustLoad(t, []models.Record{
		{Year: 2020, Code: "AAA", GDP: 1},
		{Year: 2020, Code: "BBB"},
		{Year: 2020, Code: "CCC", GDP: 3},
	})
	if got := codes(BarEntries(small, 2020, models.BarTop, nil)); !reflect.DeepEqual(got, []string{"CCC", "AAA"}) {
		t.Errorf("Expected [CCC AAA], got %v", got)
	}
}

func TestBarEntriesBottom(t *testing.T) {
	ix := mustLoad(t, sampleRecords())

	got := codes(BarEntries(ix, 2022, models.BarBottom, nil))
	want := []string{"TUV", "BRA", "IND", "FRA", "DEU"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestBarEntriesCustom(t *testing.T) {
	ix := mustLoad(t, sampleRecords())

	// Index order, not selection order; unknown codes are ignored.
	got := codes(BarEntries(ix, 2022, models.BarCustom, []string{"JPN", "ZZZ", "USA", "XXX"}))
	want := []string{"USA", "JPN", "ZZZ"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Capped even when more codes are passed in.
	all := []string{"BRA", "JPN", "DEU", "IND", "CHN", "USA", "FRA"}
	got = codes(BarEntries(ix, 2022, models.BarCustom, all))
	want = []string{"USA", "CHN", "IND", "DEU", "JPN"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if got := BarEntries(ix, 2022, models.BarCustom, nil); len(got) != 0 {
		t.Errorf("Expected empty selection, got %v", codes(got))
	}
}

func TestBarEntriesAbsentYear(t *testing.T) {
	ix := mustLoad(t, sampleRecords())
	got := BarEntries(ix, 1999, models.BarTop, nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}

func TestBarEntriesIdempotent(t *testing.T) {
	ix := mustLoad(t, sampleRecords())
	for _, mode := range []models.BarMode{models.BarTop, models.BarBottom, models.BarCustom} {
		a := BarEntries(ix, 2021, mode, []string{"FRA", "USA"})
		b := BarEntries(ix, 2021, mode, []string{"FRA", "USA"})
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: results differ between calls", mode)
		}
	}
	// The index itself is untouched by sorting.
	if first := ix.Year(2021)[0]; first.Code != "USA" {
		t.Errorf("Index order changed, first is %s", first.Code)
	}
}

func TestTrendSeries(t *testing.T) {
	ix := mustLoad(t, sampleRecords())

	// 1. FRA has no 2018 record: zero-filled, not skipped
	series := TrendSeries(ix, "FRA", 2020, DefaultTrendWindow)
	if len(series) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(series))
	}
	if series[0].Year != 2018 || !series[0].Missing {
		t.Errorf("Expected missing 2018 point, got %+v", series[0])
	}
	if series[0].Population != 0 || series[0].GDP != 0 || series[0].GDPPerCapita != 0 {
		t.Errorf("Expected zero-filled point, got %+v", series[0])
	}
	if series[2].Year != 2020 || series[2].GDP != 9e12 {
		t.Errorf("Unexpected 2020 point %+v", series[2])
	}

	// 2. Window bound and ordering
	series = TrendSeries(ix, "USA", 2030, DefaultTrendWindow)
	if len(series) != 5 {
		t.Fatalf("Expected 5 points, got %d", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i].Year <= series[i-1].Year {
			t.Errorf("Years not strictly ascending at %d", i)
		}
	}

	series = TrendSeries(ix, "USA", 2022, 2)
	if len(series) != 2 || series[0].Year != 2021 || series[1].Year != 2022 {
		t.Errorf("Expected [2021 2022], got %+v", series)
	}

	// 3. Non-positive window falls back to the default
	if got := TrendSeries(ix, "USA", 2022, 0); len(got) != DefaultTrendWindow {
		t.Errorf("Expected default window, got %d points", len(got))
	}

	// 4. Nothing at or before upto
	if got := TrendSeries(ix, "USA", 2000, 5); len(got) != 0 {
		t.Errorf("Expected empty series, got %+v", got)
	}
}

func TestTrendSeriesTrailingWindow(t *testing.T) {
	var records []models.Record
	for y := 2010; y <= 2022; y++ {
		records = append(records, rec(y, "FRA", "France", 67e6, float64(y)))
	}
	ix := mustLoad(t, records)

	series := TrendSeries(ix, "FRA", 2020, DefaultTrendWindow)
	var years []int
	for _, p := range series {
		years = append(years, p.Year)
		if p.Year > 2020 {
			t.Errorf("Year %d beyond upper bound", p.Year)
		}
	}
	if !reflect.DeepEqual(years, []int{2016, 2017, 2018, 2019, 2020}) {
		t.Errorf("Unexpected window %v", years)
	}
}

func TestAxisMax(t *testing.T) {
	entries := []models.Record{rec(2020, "A", "A", 5, 10), rec(2020, "B", "B", 7, 3)}
	if d := MaxOf(entries, models.MetricPopulation); d.Min != 0 || d.Max != 7 {
		t.Errorf("Expected [0, 7], got %+v", d)
	}
	series := []models.TrendPoint{{Year: 2020, GDP: 4}, {Year: 2021, GDP: 9}}
	if d := SeriesMax(series, models.MetricGDP); d.Max != 9 {
		t.Errorf("Expected max 9, got %+v", d)
	}
}
