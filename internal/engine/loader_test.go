package engine

import (
	"errors"
	"testing"
	"worldstats/internal/models"
)

func TestDecodeRecords(t *testing.T) {
	data := []byte(`[
  {"year":2021,"code":"DEU","country":"Germany","population":83100000,"gdp":4.26e12,"gdpPerCapita":51203},
  {"year":2021,"code":"FRA","country":"France","population":67700000},
  {"year":2022,"code":"DEU","country":"Germany","population":-1,"gdp":4.08e12,"gdpPerCapita":48718}
]`)

	records, err := DecodeRecords(data)
	if err != nil {
		t.Fatal(err)
	}

	// 1. Shape
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	// 2. Values
	if records[0].Year != 2021 || records[0].Code != "DEU" || records[0].GDP != 4.26e12 {
		t.Errorf("Row 0 decoded wrong: %+v", records[0])
	}
	// Absent numbers are zero
	if records[1].GDP != 0 || records[1].GDPPerCapita != 0 {
		t.Errorf("Row 1: expected zero GDP fields, got %+v", records[1])
	}
	// Negative numbers are no data
	if records[2].Population != 0 {
		t.Errorf("Row 2: expected zero population, got %v", records[2].Population)
	}
}

func TestDecodeRecordsMalformed(t *testing.T) {
	cases := map[string]string{
		"year": `[{"code":"DEU","country":"Germany"}]`,
		"code": `[{"year":2020,"country":"Germany"}]`,
	}
	for field, data := range cases {
		_, err := DecodeRecords([]byte(data))
		var dfe *DataFormatError
		if !errors.As(err, &dfe) || dfe.Field != field || dfe.Index != 0 {
			t.Errorf("%s: expected DataFormatError, got %v", field, err)
		}
	}

	if _, err := DecodeRecords([]byte(`[{"year":2020.5,"code":"DEU"}]`)); !errors.Is(err, ErrDataFormat) {
		t.Errorf("Expected fractional year to be rejected, got %v", err)
	}
	if _, err := DecodeRecords([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("Expected error for non-array input")
	}
}

func TestBuildDataset(t *testing.T) {
	data := []byte(`[
  {"year":2020,"code":"DEU","country":"Germany","population":83,"gdp":3.9e12,"gdpPerCapita":1},
  {"year":2021,"code":"DEU","country":"Germany","population":83,"gdp":4.2e12,"gdpPerCapita":1},
  {"year":2021,"code":"AUT","country":"Austria","population":9,"gdp":4.8e11,"gdpPerCapita":1}
]`)

	ds, err := BuildDataset(data)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Index.Len() != 3 {
		t.Errorf("Expected 3 slots, got %d", ds.Index.Len())
	}
	if len(ds.Years) != 2 || ds.Years[0] != 2020 {
		t.Errorf("Unexpected years %v", ds.Years)
	}
	if len(ds.Countries) != 2 || ds.Countries[0].Code != "AUT" {
		t.Errorf("Unexpected countries %+v", ds.Countries)
	}
	if ds.Columns.Len() != 3 {
		t.Errorf("Expected 3 column rows, got %d", ds.Columns.Len())
	}

	if _, err := BuildDataset([]byte(`[{"code":"DEU"}]`)); !errors.Is(err, ErrDataFormat) {
		t.Errorf("Expected ErrDataFormat, got %v", err)
	}
}

func TestNegativeValuesCounted(t *testing.T) {
	data := []byte(`[
  {"year":2021,"code":"DEU","country":"Germany","population":83,"gdp":-1,"gdpPerCapita":-5},
  {"year":2021,"code":"AUT","country":"Austria","population":9,"gdp":4.8e11}
]`)

	// 1. Negatives read as no data
	records, n, err := decodeRecords(data)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Expected 2 negatives, got %d", n)
	}
	if r := records[0]; r.GDP != 0 || r.GDPPerCapita != 0 || r.Population != 83 {
		t.Errorf("Unexpected record %+v", r)
	}

	// 2. The dataset keeps the count; absent fields are not counted
	ds, err := BuildDataset(data)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Negatives != 2 {
		t.Errorf("Expected Negatives 2, got %d", ds.Negatives)
	}
	if _, err := MetricDomain(ds.Index, 2021, models.MetricGDP); err != nil {
		t.Errorf("Expected AUT to carry the domain, got %v", err)
	}
}
