package engine

import (
	"errors"
	"fmt"
	"sort"
	"worldstats/internal/models"

	"golang.org/x/exp/maps"
)

var ErrDataFormat = errors.New("malformed record")

// DataFormatError reports a record that cannot be indexed.
type DataFormatError struct {
	Index int    // position in the input sequence
	Field string // missing field
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("%v: record %d has no %s", ErrDataFormat, e.Index, e.Field)
}

func (e *DataFormatError) Unwrap() error { return ErrDataFormat }

// yearSlot keeps the records of one year. codes is the iteration order of the
// year: first-insertion order, unchanged by later overwrites.
type yearSlot struct {
	codes  []string
	byCode map[string]models.Record
}

// YearIndex maps year -> code -> record. It is read-only once built and safe
// for concurrent readers.
type YearIndex struct {
	years       map[int]*yearSlot
	size        int
	overwritten int
}

// Load builds the index. When the input holds more than one record for a
// (year, code) pair the last one wins. A record without year or code fails
// the whole load.
func Load(records []models.Record) (*YearIndex, error) {
	ix := &YearIndex{years: make(map[int]*yearSlot)}

	for i, r := range records {
		if r.Year == 0 {
			return nil, &DataFormatError{Index: i, Field: "year"}
		}
		if r.Code == "" {
			return nil, &DataFormatError{Index: i, Field: "code"}
		}

		slot, ok := ix.years[r.Year]
		if !ok {
			slot = &yearSlot{byCode: make(map[string]models.Record)}
			ix.years[r.Year] = slot
		}
		if _, dup := slot.byCode[r.Code]; dup {
			ix.overwritten++
		} else {
			slot.codes = append(slot.codes, r.Code)
			ix.size++
		}
		slot.byCode[r.Code] = r
	}
	return ix, nil
}

// Lookup returns the record for (year, code).
func (ix *YearIndex) Lookup(year int, code string) (models.Record, bool) {
	slot, ok := ix.years[year]
	if !ok {
		return models.Record{}, false
	}
	r, ok := slot.byCode[code]
	return r, ok
}

func (ix *YearIndex) HasYear(year int) bool {
	_, ok := ix.years[year]
	return ok
}

// Year returns a copy of the year's records in iteration order, or nil when
// the year is not in the dataset.
func (ix *YearIndex) Year(year int) []models.Record {
	slot, ok := ix.years[year]
	if !ok {
		return nil
	}
	out := make([]models.Record, 0, len(slot.codes))
	for _, code := range slot.codes {
		out = append(out, slot.byCode[code])
	}
	return out
}

// Years returns every year present in the index, ascending.
func (ix *YearIndex) Years() []int {
	years := maps.Keys(ix.years)
	sort.Ints(years)
	return years
}

// Len is the number of (year, code) slots.
func (ix *YearIndex) Len() int { return ix.size }

// Overwritten counts input records that replaced an earlier record with the
// same (year, code).
func (ix *YearIndex) Overwritten() int { return ix.overwritten }
