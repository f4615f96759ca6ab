package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RowSource yields the header and the data rows of an uploaded override file,
// one ordered field slice at a time. Implementations exist for delimited text
// and for Excel workbooks; the pipeline does not care which it is reading.
type RowSource interface {
	// Columns returns the header row exactly as found in the file.
	Columns() []string
	// Next returns the following data row, or io.EOF when exhausted.
	Next() ([]string, error)
}

// ===== CSV SOURCE =====

type csvRowSource struct {
	reader  *csv.Reader
	columns []string
}

// NewCSVRowSource reads the header row eagerly so Columns is available before
// any data row is consumed. A file without a header is unreadable.
func NewCSVRowSource(r io.Reader, delimiter rune) (RowSource, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1 // ragged rows surface as field errors, not read errors

	columns, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyImportFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	return &csvRowSource{reader: reader, columns: columns}, nil
}

func (s *csvRowSource) Columns() []string {
	return s.columns
}

func (s *csvRowSource) Next() ([]string, error) {
	return s.reader.Read()
}

// ===== EXCEL SOURCE =====

type excelRowSource struct {
	rows    [][]string
	columns []string
	cursor  int
}

// NewExcelRowSource reads the first sheet of an xlsx workbook as the override
// table, header row first.
func NewExcelRowSource(r io.Reader) (RowSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyImportFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImportFile
	}

	return &excelRowSource{
		rows:    rows[1:],
		columns: rows[0],
	}, nil
}

func (s *excelRowSource) Columns() []string {
	return s.columns
}

func (s *excelRowSource) Next() ([]string, error) {
	if s.cursor >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.cursor]
	s.cursor++
	return row, nil
}

// NewRowSource picks the source implementation from the uploaded file name.
func NewRowSource(r io.Reader, filename string, delimiter rune) (RowSource, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt":
		return NewCSVRowSource(r, delimiter)
	case ".xlsx":
		return NewExcelRowSource(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
}
