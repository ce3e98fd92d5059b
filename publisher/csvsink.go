package publisher

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/spf13/afero"
)

var a1StartRe = regexp.MustCompile(`^[A-Z]+([0-9]+)`)

// CSVSink keeps one worksheet in memory and mirrors it to a UTF-8 CSV file
// (with BOM, so spreadsheet programs detect the encoding) after every write.
// The worksheet name is not part of the file.
type CSVSink struct {
	fs   afero.Fs
	path string
	rows [][]string
}

// NewCSVSink returns a sink writing to path on fs.
func NewCSVSink(fs afero.Fs, path string) *CSVSink {
	return &CSVSink{fs: fs, path: path}
}

var _ TabularSink = (*CSVSink)(nil)

func (c *CSVSink) Reset(_ context.Context, _ string, _, _ int) error {
	c.rows = nil
	return c.flush()
}

func (c *CSVSink) Update(_ context.Context, _ string, rng string, values [][]string) error {
	m := a1StartRe.FindStringSubmatch(rng)
	if m == nil {
		return fmt.Errorf("csv sink: unsupported range %q", rng)
	}
	start, err := strconv.Atoi(m[1])
	if err != nil || start < 1 {
		return fmt.Errorf("csv sink: bad start row in %q", rng)
	}
	for i, row := range values {
		at := start - 1 + i
		for len(c.rows) <= at {
			c.rows = append(c.rows, nil)
		}
		c.rows[at] = append([]string(nil), row...)
	}
	return c.flush()
}

// Format is a no-op; CSV carries no layout.
func (c *CSVSink) Format(context.Context, string, Format) error { return nil }

func (c *CSVSink) flush() error {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(c.rows); err != nil {
		return err
	}
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(c.fs, c.path, buf.Bytes(), 0o644)
}
