package series

import (
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/jondo2010/fmusim/internal/fmi"
)

// Column is one typed value column of a table.
type Column struct {
	Name string
	Kind fmi.Kind

	floats []float64
	ints   []int64
	uints  []uint64
	bools  []bool
	strs   []string
	bins   [][]byte
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case fmi.KindFloat32, fmi.KindFloat64:
		return len(c.floats)
	case fmi.KindInt8, fmi.KindInt16, fmi.KindInt32, fmi.KindInt64:
		return len(c.ints)
	case fmi.KindUInt8, fmi.KindUInt16, fmi.KindUInt32, fmi.KindUInt64:
		return len(c.uints)
	case fmi.KindBoolean:
		return len(c.bools)
	case fmi.KindString:
		return len(c.strs)
	case fmi.KindBinary:
		return len(c.bins)
	default:
		return 0
	}
}

// Value returns the sample at row i as a tagged value.
func (c *Column) Value(i int) fmi.Value {
	switch c.Kind {
	case fmi.KindFloat32:
		return fmi.Float32Value(float32(c.floats[i]))
	case fmi.KindFloat64:
		return fmi.Float64Value(c.floats[i])
	case fmi.KindInt8:
		return fmi.Int8Value(int8(c.ints[i]))
	case fmi.KindInt16:
		return fmi.Int16Value(int16(c.ints[i]))
	case fmi.KindInt32:
		return fmi.Int32Value(int32(c.ints[i]))
	case fmi.KindInt64:
		return fmi.Int64Value(c.ints[i])
	case fmi.KindUInt8:
		return fmi.UInt8Value(uint8(c.uints[i]))
	case fmi.KindUInt16:
		return fmi.UInt16Value(uint16(c.uints[i]))
	case fmi.KindUInt32:
		return fmi.UInt32Value(uint32(c.uints[i]))
	case fmi.KindUInt64:
		return fmi.UInt64Value(c.uints[i])
	case fmi.KindBoolean:
		return fmi.BoolValue(c.bools[i])
	case fmi.KindString:
		return fmi.StringValue(c.strs[i])
	case fmi.KindBinary:
		return fmi.BinaryValue(c.bins[i])
	default:
		return fmi.Value{}
	}
}

// Float returns the sample at row i as float64. Numeric columns only.
func (c *Column) Float(i int) float64 {
	return c.Value(i).AsFloat64()
}

func (c *Column) appendCell(raw string) error {
	switch c.Kind {
	case fmi.KindFloat32, fmi.KindFloat64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		c.floats = append(c.floats, v)
	case fmi.KindInt8, fmi.KindInt16, fmi.KindInt32, fmi.KindInt64:
		bits := map[fmi.Kind]int{fmi.KindInt8: 8, fmi.KindInt16: 16, fmi.KindInt32: 32, fmi.KindInt64: 64}[c.Kind]
		v, err := strconv.ParseInt(raw, 10, bits)
		if err != nil {
			return err
		}
		c.ints = append(c.ints, v)
	case fmi.KindUInt8, fmi.KindUInt16, fmi.KindUInt32, fmi.KindUInt64:
		bits := map[fmi.Kind]int{fmi.KindUInt8: 8, fmi.KindUInt16: 16, fmi.KindUInt32: 32, fmi.KindUInt64: 64}[c.Kind]
		v, err := strconv.ParseUint(raw, 10, bits)
		if err != nil {
			return err
		}
		c.uints = append(c.uints, v)
	case fmi.KindBoolean:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		c.bools = append(c.bools, v)
	case fmi.KindString:
		c.strs = append(c.strs, raw)
	case fmi.KindBinary:
		v, err := hex.DecodeString(raw)
		if err != nil {
			return err
		}
		c.bins = append(c.bins, v)
	default:
		return fmt.Errorf("series: unsupported column kind %v", c.Kind)
	}
	return nil
}

// Table is an immutable time-indexed sample table. The time axis is
// non-decreasing; duplicate adjacent timestamps encode an instantaneous
// jump in the columns that change across them.
type Table struct {
	times []float64
	cols  []*Column
}

// Times returns the shared time axis.
func (t *Table) Times() []float64 { return t.times }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.times) }

// Column finds a value column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Columns returns all value columns in file order.
func (t *Table) Columns() []*Column { return t.cols }

// LoadCSV reads a table from a CSV file. The first column must be named
// "time" and hold non-decreasing float64 timestamps. Remaining columns are
// parsed with the kind given in kinds, defaulting to Float64.
func LoadCSV(path string, kinds map[string]fmi.Kind) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, kinds)
}

// ReadCSV is LoadCSV over an already-open reader.
func ReadCSV(r io.Reader, kinds map[string]fmi.Kind) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("series: reading header: %w", err)
	}
	if len(header) == 0 || header[0] != "time" {
		return nil, fmt.Errorf("series: first column must be \"time\"")
	}

	tbl := &Table{}
	for _, name := range header[1:] {
		kind := fmi.KindFloat64
		if k, ok := kinds[name]; ok {
			kind = k
		}
		tbl.cols = append(tbl.cols, &Column{Name: name, Kind: kind})
	}

	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("series: row %d: %w", row, err)
		}
		if len(rec) != len(header) {
			return nil, fmt.Errorf("series: row %d: %d fields, want %d", row, len(rec), len(header))
		}

		ts, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("series: row %d: bad time %q", row, rec[0])
		}
		if math.IsNaN(ts) {
			return nil, fmt.Errorf("series: row %d: time is NaN", row)
		}
		if n := len(tbl.times); n > 0 && ts < tbl.times[n-1] {
			return nil, fmt.Errorf("series: row %d: time %g decreases below %g", row, ts, tbl.times[n-1])
		}
		tbl.times = append(tbl.times, ts)

		for i, c := range tbl.cols {
			if err := c.appendCell(rec[i+1]); err != nil {
				return nil, fmt.Errorf("series: row %d, column %q: %w", row, c.Name, err)
			}
		}
	}

	if len(tbl.times) == 0 {
		return nil, fmt.Errorf("series: table has no rows")
	}
	return tbl, nil
}
