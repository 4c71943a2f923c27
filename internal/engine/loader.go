package engine

import (
	"fmt"
	"time"
	"worldstats/internal/models"

	"github.com/goccy/go-json"
	"github.com/labstack/gommon/log"
)

// rawRecord mirrors the dataset JSON. Pointers tell an absent field from a
// zero one.
type rawRecord struct {
	Year         *float64 `json:"year"`
	Code         *string  `json:"code"`
	Country      string   `json:"country"`
	Population   *float64 `json:"population"`
	GDP          *float64 `json:"gdp"`
	GDPPerCapita *float64 `json:"gdpPerCapita"`
}

// orZero reads a numeric field. Absent and negative values are no data;
// negatives are counted.
func orZero(p *float64, negatives *int) float64 {
	if p == nil {
		return 0
	}
	if *p < 0 {
		*negatives++
		return 0
	}
	return *p
}

// DecodeRecords parses the dataset JSON array. Absent or negative numeric
// fields become zero; an absent or non-integral year, or an absent code, is a
// DataFormatError.
func DecodeRecords(data []byte) ([]models.Record, error) {
	records, _, err := decodeRecords(data)
	return records, err
}

// decodeRecords is DecodeRecords that also reports how many negative values
// were read as zero.
func decodeRecords(data []byte) ([]models.Record, int, error) {
	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode dataset: %w", err)
	}

	negatives := 0
	records := make([]models.Record, len(raw))
	for i, r := range raw {
		if r.Year == nil || *r.Year != float64(int(*r.Year)) || *r.Year == 0 {
			return nil, 0, &DataFormatError{Index: i, Field: "year"}
		}
		if r.Code == nil || *r.Code == "" {
			return nil, 0, &DataFormatError{Index: i, Field: "code"}
		}
		records[i] = models.Record{
			Year:         int(*r.Year),
			Code:         *r.Code,
			Country:      r.Country,
			Population:   orZero(r.Population, &negatives),
			GDP:          orZero(r.GDP, &negatives),
			GDPPerCapita: orZero(r.GDPPerCapita, &negatives),
		}
	}
	return records, negatives, nil
}

// Dataset is everything derived from the dataset at startup. Immutable.
type Dataset struct {
	Records   []models.Record
	Index     *YearIndex
	Countries []models.Country
	Years     []int
	Columns   *ColumnStore
	// Negatives counts negative numeric fields read as zero.
	Negatives int
}

// BuildDataset decodes and indexes the raw dataset.
func BuildDataset(data []byte) (*Dataset, error) {
	start := time.Now()

	records, negatives, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}
	if negatives > 0 {
		log.Warnf("dataset: %d negative values read as no data", negatives)
	}
	ix, err := Load(records)
	if err != nil {
		return nil, err
	}
	if n := ix.Overwritten(); n > 0 {
		log.Warnf("dataset: %d duplicate (year, code) records, last occurrence kept", n)
	}

	ds := &Dataset{
		Records:   records,
		Index:     ix,
		Countries: UniqueCountries(records),
		Years:     AvailableYears(records),
		Columns:   NewColumnStore(records),
		Negatives: negatives,
	}
	log.Infof("Load Complete. Records: %d. Years: %d. Countries: %d. Time: %v",
		len(records), len(ds.Years), len(ds.Countries), time.Since(start))
	return ds, nil
}
