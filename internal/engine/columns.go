package engine

import (
	"fmt"
	"io"
	"worldstats/internal/models"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// ColumnStore holds the dataset in Struct-of-Arrays form for export.
type ColumnStore struct {
	Years        []int32
	Populations  []float64
	GDPs         []float64
	GDPPerCapita []float64

	// Dictionary encoded country codes (0..N)
	CodeIDs  []int32
	CodeDict []string
	NameDict []string
}

func NewColumnStore(records []models.Record) *ColumnStore {
	n := len(records)
	cs := &ColumnStore{
		Years:        make([]int32, n),
		Populations:  make([]float64, n),
		GDPs:         make([]float64, n),
		GDPPerCapita: make([]float64, n),
		CodeIDs:      make([]int32, n),
	}

	ids := make(map[string]int32)
	for i, r := range records {
		cs.Years[i] = int32(r.Year)
		cs.Populations[i] = r.Population
		cs.GDPs[i] = r.GDP
		cs.GDPPerCapita[i] = r.GDPPerCapita

		id, ok := ids[r.Code]
		if !ok {
			id = int32(len(cs.CodeDict))
			ids[r.Code] = id
			cs.CodeDict = append(cs.CodeDict, r.Code)
			cs.NameDict = append(cs.NameDict, r.Country)
		}
		// Last name seen wins, as in UniqueCountries.
		cs.NameDict[id] = r.Country
		cs.CodeIDs[i] = id
	}
	return cs
}

func (cs *ColumnStore) Len() int { return len(cs.Years) }

var exportSchema = arrow.NewSchema([]arrow.Field{
	{Name: "year", Type: arrow.PrimitiveTypes.Int32},
	{Name: "code", Type: arrow.BinaryTypes.String},
	{Name: "country", Type: arrow.BinaryTypes.String},
	{Name: "population", Type: arrow.PrimitiveTypes.Float64},
	{Name: "gdp", Type: arrow.PrimitiveTypes.Float64},
	{Name: "gdpPerCapita", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// Record builds an Arrow record batch of the store. The caller releases it.
func (cs *ColumnStore) Record(mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, exportSchema)
	defer b.Release()

	codes := make([]string, cs.Len())
	names := make([]string, cs.Len())
	for i, id := range cs.CodeIDs {
		codes[i] = cs.CodeDict[id]
		names[i] = cs.NameDict[id]
	}

	b.Field(0).(*array.Int32Builder).AppendValues(cs.Years, nil)
	b.Field(1).(*array.StringBuilder).AppendValues(codes, nil)
	b.Field(2).(*array.StringBuilder).AppendValues(names, nil)
	b.Field(3).(*array.Float64Builder).AppendValues(cs.Populations, nil)
	b.Field(4).(*array.Float64Builder).AppendValues(cs.GDPs, nil)
	b.Field(5).(*array.Float64Builder).AppendValues(cs.GDPPerCapita, nil)

	return b.NewRecord()
}

// WriteIPC writes the store to w as an Arrow IPC stream.
func (cs *ColumnStore) WriteIPC(w io.Writer) error {
	mem := memory.NewGoAllocator()
	rec := cs.Record(mem)
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(exportSchema), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	return wr.Close()
}
