package storage

import (
	"encoding/json"
	"io"

	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/output"
	"github.com/jondo2010/fmusim/internal/series"
)

// ExportData is the JSON shape of an exported run: the metadata plus the
// time axis and one value array per output column.
type ExportData struct {
	Metadata *RunMetadata     `json:"metadata"`
	Times    []float64        `json:"times"`
	Columns  map[string][]any `json:"columns"`
}

// ExportJSON writes a loaded run as indented JSON. Numeric cells come out as
// numbers, booleans as booleans, strings and binary as strings.
func ExportJSON(out io.Writer, meta *RunMetadata, tbl *series.Table) error {
	data := ExportData{
		Metadata: meta,
		Times:    tbl.Times(),
		Columns:  make(map[string][]any, len(tbl.Columns())),
	}
	for _, c := range tbl.Columns() {
		cells := make([]any, c.Len())
		for i := range cells {
			cells[i] = jsonCell(c.Value(i))
		}
		data.Columns[c.Name] = cells
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV re-emits a loaded run in the input CSV dialect, so an exported
// run can directly feed another run's inputs.
func ExportCSV(out io.Writer, tbl *series.Table) error {
	res := tableResult(tbl)
	return WriteCSV(out, res)
}

func tableResult(tbl *series.Table) *output.Result {
	res := &output.Result{Times: tbl.Times()}
	for _, c := range tbl.Columns() {
		col := output.ResultColumn{Name: c.Name, Kind: c.Kind}
		for i := 0; i < c.Len(); i++ {
			col.Values = append(col.Values, c.Value(i))
		}
		res.Columns = append(res.Columns, col)
	}
	return res
}

func jsonCell(v fmi.Value) any {
	switch v.Kind {
	case fmi.KindFloat32, fmi.KindFloat64:
		return v.Float
	case fmi.KindInt8, fmi.KindInt16, fmi.KindInt32, fmi.KindInt64:
		return v.Int
	case fmi.KindUInt8, fmi.KindUInt16, fmi.KindUInt32, fmi.KindUInt64:
		return v.Uint
	case fmi.KindBoolean:
		return v.Bool
	default:
		return v.String()
	}
}
