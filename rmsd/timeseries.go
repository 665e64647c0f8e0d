package rmsd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Save writes the timeseries of the last successful run to filename as
// whitespace-delimited plain text, one row per frame, no header. An
// empty filename falls back to Options.Filename. Calling Save before a
// successful Run fails with ErrNoData.
func (a *Analysis) Save(filename string) error {
	if filename == "" {
		filename = a.opts.Filename
	}
	if filename == "" {
		return fmt.Errorf("rmsd: no filename given and none configured")
	}
	if a.rmsd == nil {
		return ErrNoData
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := a.SaveTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveTo writes the timeseries of the last successful run to w.
func (a *Analysis) SaveTo(w io.Writer) error {
	if a.rmsd == nil {
		return ErrNoData
	}
	return WriteTimeseries(w, a.rmsd)
}

// WriteTimeseries writes rows as whitespace-delimited plain text, one
// row per line, full float64 precision.
func WriteTimeseries(w io.Writer, rows [][]float64) error {
	buf := bufio.NewWriter(w)
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				if err := buf.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := buf.WriteString(
				strconv.FormatFloat(v, 'e', 17, 64)); err != nil {
				return err
			}
		}
		if err := buf.WriteByte('\n'); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// ReadTimeseries reads rows in the format produced by WriteTimeseries.
// Blank lines are skipped; all non-blank rows must have the same
// number of columns.
func ReadTimeseries(r io.Reader) ([][]float64, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("rmsd: timeseries line %d: %w", line, err)
			}
			row[i] = v
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("rmsd: timeseries line %d: %d columns, "+
				"want %d", line, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadTimeseries reads a timeseries file written by Save.
func LoadTimeseries(filename string) ([][]float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTimeseries(f)
}
