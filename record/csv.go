package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Columns of the observation log, in file order.
const (
	colDate = iota
	colName
	colMajor
	colMinor
	colFact
	colKeywords
	colImpact
	colMemo
	numColumns
)

var headerAliases = map[string]int{
	"날짜":            colDate,
	"이름":            colName,
	"대분류(상황)":       colMajor,
	"대분류":           colMajor,
	"소분류(활동)":       colMinor,
	"소분류":           colMinor,
	"구체적 행동(Fact)":  colFact,
	"핵심 키워드":        colKeywords,
	"영향/반응":         colImpact,
	"교사 메모":         colMemo,
	"교사 메모(추후 종합용)": colMemo,
}

// CSVSource reads observation rows from a UTF-8 CSV file with an optional BOM.
type CSVSource struct {
	fs   afero.Fs
	path string
}

// NewCSVSource returns a source reading path from fs.
func NewCSVSource(fs afero.Fs, path string) *CSVSource {
	return &CSVSource{fs: fs, path: path}
}

// Path returns the file the source reads.
func (s *CSVSource) Path() string { return s.path }

// Records reads every data row. A missing file surfaces as an error
// satisfying errors.Is(err, fs.ErrNotExist).
func (s *CSVSource) Records() ([]ObservationRecord, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV decodes an observation log. Columns are located by header name;
// unknown headers fall back to the fixed column order.
func ParseCSV(r io.Reader) ([]ObservationRecord, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := columnIndex(header)

	var out []ObservationRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(out)+2, err)
		}
		cell := func(col int) string {
			i := index[col]
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		out = append(out, ObservationRecord{
			Date:          cell(colDate),
			Name:          NormalizeName(cell(colName)),
			CategoryMajor: cell(colMajor),
			CategoryMinor: cell(colMinor),
			Fact:          cell(colFact),
			Keywords:      cell(colKeywords),
			Impact:        cell(colImpact),
			Memo:          cell(colMemo),
		})
	}
	return out, nil
}

func columnIndex(header []string) [numColumns]int {
	var idx [numColumns]int
	for i := range idx {
		idx[i] = -1
	}
	matched := 0
	for i, h := range header {
		col, ok := headerAliases[strings.TrimSpace(h)]
		if !ok || idx[col] >= 0 {
			continue
		}
		idx[col] = i
		matched++
	}
	if matched == 0 {
		for i := range idx {
			idx[i] = i
		}
	}
	return idx
}
