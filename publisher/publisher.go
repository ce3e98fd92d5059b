package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

// DefaultWorksheet is the tab receiving the final results.
const DefaultWorksheet = "세특최종결과물"

// A new result tab gets at least resultRows rows, more when the header and
// records need them.
const (
	resultRows = 100
	resultCols = 6
)

// TabularSink is a row-oriented spreadsheet-like destination addressed by
// worksheet name.
type TabularSink interface {
	// Reset clears the worksheet, creating it with rows×cols cells when absent.
	Reset(ctx context.Context, sheet string, rows, cols int) error
	// Update writes values into an A1 range such as "A2:F11".
	Update(ctx context.Context, sheet, rng string, values [][]string) error
	Format(ctx context.Context, sheet string, f Format) error
}

// Format describes column widths and wrapping for a worksheet. Indexes are
// zero-based; EndColumn is exclusive.
type Format struct {
	FirstColumn  int
	EndColumn    int
	ColumnWidth  int
	Wrap         bool
	FirstDataRow int
}

// Publisher writes integrated records to a sink in the fixed six-column layout.
type Publisher struct {
	sink      TabularSink
	worksheet string
	terms     generator.TermSet
	logger    *zap.Logger
}

// New creates a Publisher. worksheet defaults to DefaultWorksheet.
func New(sink TabularSink, worksheet string, terms generator.TermSet, logger *zap.Logger) (*Publisher, error) {
	if sink == nil {
		return nil, errors.New("sink is required")
	}
	if strings.TrimSpace(worksheet) == "" {
		worksheet = DefaultWorksheet
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{sink: sink, worksheet: worksheet, terms: terms, logger: logger}, nil
}

// Header returns the header row of the result sheet.
func Header() []string {
	h := []string{"성명"}
	for _, a := range record.Areas {
		h = append(h, a.Label())
	}
	return append(h, "최종 검증 상태")
}

// Rows renders records as sheet rows: name, four area texts and the
// combined validation status.
func Rows(records []record.IntegratedRecord, terms generator.TermSet) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{rec.Name}
		for _, a := range record.Areas {
			row = append(row, rec.Text(a))
		}
		rows = append(rows, append(row, generator.RecordStatus(rec, terms)))
	}
	return rows
}

// Sync replaces the worksheet content with records and returns the number
// of data rows written.
func (p *Publisher) Sync(ctx context.Context, records []record.IntegratedRecord) (int, error) {
	rows := Rows(records, p.terms)
	if err := p.sink.Reset(ctx, p.worksheet, max(resultRows, len(rows)+1), resultCols); err != nil {
		return 0, fmt.Errorf("failed to reset %s: %w", p.worksheet, err)
	}
	if err := p.sink.Update(ctx, p.worksheet, "A1:F1", [][]string{Header()}); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}
	if len(rows) == 0 {
		p.logger.Info("no records to sync", zap.String("worksheet", p.worksheet))
		return 0, nil
	}
	rng := fmt.Sprintf("A2:F%d", len(rows)+1)
	if err := p.sink.Update(ctx, p.worksheet, rng, rows); err != nil {
		return 0, fmt.Errorf("failed to write rows: %w", err)
	}
	err := p.sink.Format(ctx, p.worksheet, Format{
		FirstColumn:  1,
		EndColumn:    5,
		ColumnWidth:  450,
		Wrap:         true,
		FirstDataRow: 1,
	})
	if err != nil {
		return len(rows), fmt.Errorf("failed to format %s: %w", p.worksheet, err)
	}

	flagged := 0
	for _, r := range rows {
		if generator.IsWarning(r[len(r)-1]) {
			flagged++
		}
	}
	p.logger.Info("synced results",
		zap.String("worksheet", p.worksheet),
		zap.Int("rows", len(rows)),
		zap.Int("flagged", flagged))
	return len(rows), nil
}

func isUnavailable(err error) bool {
	return errors.Is(err, record.ErrSourceUnavailable)
}
