package netperf

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/afero"

	perferrors "virtperf/internal/errors"
)

// RoundPlaces is the number of decimals kept for float KPIs
const RoundPlaces = 4

// Columns are the report headers in output order
var Columns = []string{
	"Driver",
	"Test",
	"MSize",
	"RRSize",
	"Round",
	"Throughput(10^6bits/s)",
	"TransRate(per sec)",
	"Latency(ms)",
}

// Row is one report line. Index is dense and zero based after sorting.
type Row struct {
	Index int
	Cells [8]Value
}

// Table is the sorted report
type Table struct {
	Rows []Row
}

func rowCells(k *KPI) [8]Value {
	return [8]Value{k.Driver, k.Test, k.MSize, k.RRSize, k.Round, k.Throughput, k.TransRate, k.Latency}
}

// sortKey are the cell positions compared, in priority order:
// Driver, Test, MSize, RRSize, Round
var sortKey = []int{0, 1, 2, 3, 4}

// NewTable sorts kpis by (Driver, Test, MSize, RRSize, Round), reindexes
// the rows from zero and rounds float cells. Equal keys keep input order.
func NewTable(kpis []*KPI) *Table {
	rows := make([]Row, len(kpis))
	for i, k := range kpis {
		rows[i] = Row{Cells: rowCells(k)}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, col := range sortKey {
			if c := compareValues(rows[i].Cells[col], rows[j].Cells[col]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	for i := range rows {
		rows[i].Index = i
		for c := range rows[i].Cells {
			rows[i].Cells[c] = rows[i].Cells[c].Round(RoundPlaces)
		}
	}
	return &Table{Rows: rows}
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.Rows) }

// Records renders the table as CSV records, header first. The header's
// first field is empty because the first column is the row index.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, append([]string{""}, Columns...))
	for _, row := range t.Rows {
		rec := make([]string, 0, len(row.Cells)+1)
		rec = append(rec, strconv.Itoa(row.Index))
		for _, cell := range row.Cells {
			rec = append(rec, cell.String())
		}
		records = append(records, rec)
	}
	return records
}

// WriteCSV writes the table to w
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// WriteCSVFile writes the table to path on afs. Errors name the path.
func (t *Table) WriteCSVFile(afs afero.Fs, path string) error {
	f, err := afs.Create(path)
	if err != nil {
		return perferrors.WriteFailed(path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return perferrors.WriteFailed(path, err)
	}
	if err := f.Close(); err != nil {
		return perferrors.WriteFailed(path, err)
	}
	return nil
}
