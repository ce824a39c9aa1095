// Package storage reads and writes race tables as flat files.
package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"

	"github.com/mpapenbr/racegap-go/log"
	"github.com/mpapenbr/racegap-go/pkg/model"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const sheetName = "race"

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// FileName returns the file name used for name and format
func FileName(name string, format Format) string {
	return name + "." + string(format)
}

// Save writes the rows of t to name.format
func Save(t *model.Table, name string, format Format) error {
	records := make([]record, len(t.Rows))
	for i := range t.Rows {
		records[i] = toRecord(&t.Rows[i])
	}
	fn := FileName(name, format)
	var err error
	switch format {
	case FormatCSV:
		err = saveCSV(fn, records)
	case FormatXLSX:
		err = saveXLSX(fn, records)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", fn, err)
	}
	log.Debug("saved table", log.String("file", fn), log.Int("rows", len(records)))
	return nil
}

// Load reads the table stored in name.format.
// Errors are logged and an empty table with ModeUnknown is returned.
func Load(name string, format Format) *model.Table {
	fn := FileName(name, format)
	var records []record
	var err error
	switch format {
	case FormatCSV:
		records, err = loadCSV(fn)
	case FormatXLSX:
		records, err = loadXLSX(fn)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		log.Error("could not load table", log.String("file", fn), log.ErrorField(err))
		return model.NewTable(model.ModeUnknown, []model.Row{})
	}
	rows := make([]model.Row, len(records))
	for i := range records {
		rows[i] = records[i].toRow()
	}
	return model.NewTable(model.DetectMode(rows), rows)
}

func encode(w csvutil.Writer, records []record) error {
	enc := csvutil.NewEncoder(w)
	if err := enc.EncodeHeader(record{}); err != nil {
		return err
	}
	return enc.Encode(records)
}

func decode(r csvutil.Reader) ([]record, error) {
	dec, err := csvutil.NewDecoder(r)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("no header found")
		}
		return nil, err
	}
	records := make([]record, 0)
	if err := dec.Decode(&records); err != nil && err != io.EOF {
		return nil, err
	}
	return records, nil
}

func saveCSV(fn string, records []record) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := encode(w, records); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func loadCSV(fn string) ([]record, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(csv.NewReader(f))
}

func saveXLSX(fn string, records []record) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := encode(&sheetWriter{f: f, sheet: sheetName}, records); err != nil {
		return err
	}
	return f.SaveAs(fn)
}

func loadXLSX(fn string) ([]record, error) {
	f, err := excelize.OpenFile(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	return decode(&rowsReader{rows: rows})
}

// sheetWriter writes csv records into consecutive sheet rows.
// Numeric columns are stored as numbers.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	row    int
	header []string
}

func (w *sheetWriter) Write(rec []string) error {
	w.row++
	if w.header == nil {
		w.header = rec
	}
	values := make([]any, len(rec))
	for i, s := range rec {
		values[i] = s
		if w.row == 1 || s == "" || textColumns[w.header[i]] {
			continue
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			values[i] = v
		}
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(w.sheet, cell, &values)
}

// rowsReader provides sheet rows as csv records.
// Rows are padded to the header width since trailing empty cells are omitted.
type rowsReader struct {
	rows [][]string
	idx  int
}

func (r *rowsReader) Read() ([]string, error) {
	if r.idx >= len(r.rows) {
		return nil, io.EOF
	}
	rec := r.rows[r.idx]
	r.idx++
	if width := len(r.rows[0]); len(rec) < width {
		padded := make([]string, width)
		copy(padded, rec)
		rec = padded
	}
	return rec, nil
}
