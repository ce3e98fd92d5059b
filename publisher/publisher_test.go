package publisher

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/generator"
	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

type recordingSink struct {
	calls     []string
	updates   map[string][][]string
	format    *Format
	resetErr  error
	resetRows int
	resetCols int
}

func (s *recordingSink) Reset(_ context.Context, sheet string, rows, cols int) error {
	s.calls = append(s.calls, "reset "+sheet)
	s.resetRows, s.resetCols = rows, cols
	return s.resetErr
}

func (s *recordingSink) Update(_ context.Context, sheet, rng string, values [][]string) error {
	s.calls = append(s.calls, "update "+rng)
	if s.updates == nil {
		s.updates = map[string][][]string{}
	}
	s.updates[rng] = values
	return nil
}

func (s *recordingSink) Format(_ context.Context, sheet string, f Format) error {
	s.calls = append(s.calls, "format "+sheet)
	s.format = &f
	return nil
}

func testTerms() generator.TermSet { return generator.NewTermSet(generator.DefaultProhibitedTerms) }

func TestNew(t *testing.T) {
	_, err := New(nil, "x", testTerms(), nil)
	assert.Error(t, err)

	p, err := New(&recordingSink{}, " ", testTerms(), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultWorksheet, p.worksheet)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, []string{
		"성명",
		"1) 교과 세부능력(질적분석)",
		"2) 진로활동",
		"3) 자율활동",
		"4) 행동특성/종합",
		"최종 검증 상태",
	}, Header())
}

func TestPublisher_Sync(t *testing.T) {
	sink := &recordingSink{}
	p, err := New(sink, "결과", testTerms(), nil)
	require.NoError(t, err)

	records := record.Integrate(
		map[string]string{"Kim": "실험을 설계하였음."},
		map[string]record.HomeroomResult{"Lee": {Career: "c", Autonomous: "학원 홍보 활동을 하였음.", Behavior: "b"}},
	)
	n, err := p.Sync(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"reset 결과", "update A1:F1", "update A2:F3", "format 결과"}, sink.calls)

	rows := sink.updates["A2:F3"]
	assert.Equal(t, []string{"Kim", "실험을 설계하였음.", "", "", "", generator.StatusAllClean}, rows[0])
	assert.Equal(t, "⚠️금지어주의(학원)", rows[1][5])
	assert.Equal(t, Format{FirstColumn: 1, EndColumn: 5, ColumnWidth: 450, Wrap: true, FirstDataRow: 1}, *sink.format)
}

func TestPublisher_SyncSizesNewTab(t *testing.T) {
	tests := []struct {
		name     string
		students int
		wantRows int
	}{
		{"empty", 0, 100},
		{"small batch", 3, 100},
		{"exactly fills", 99, 100},
		{"one over", 100, 101},
		{"large class", 150, 151},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]record.IntegratedRecord, tt.students)
			for i := range records {
				records[i] = record.IntegratedRecord{Name: fmt.Sprintf("학생%03d", i+1)}
			}
			sink := &recordingSink{}
			p, err := New(sink, "결과", testTerms(), nil)
			require.NoError(t, err)

			n, err := p.Sync(context.Background(), records)
			require.NoError(t, err)
			assert.Equal(t, tt.students, n)
			assert.Equal(t, tt.wantRows, sink.resetRows)
			assert.Equal(t, 6, sink.resetCols)
			if tt.students > 0 {
				assert.Len(t, sink.updates[fmt.Sprintf("A2:F%d", tt.students+1)], tt.students)
			}
		})
	}
}

func TestPublisher_SyncEmpty(t *testing.T) {
	sink := &recordingSink{}
	p, err := New(sink, "결과", testTerms(), nil)
	require.NoError(t, err)

	n, err := p.Sync(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"reset 결과", "update A1:F1"}, sink.calls)
}

func TestPublisher_SyncResetError(t *testing.T) {
	boom := errors.New("boom")
	p, err := New(&recordingSink{resetErr: boom}, "결과", testTerms(), nil)
	require.NoError(t, err)

	_, err = p.Sync(context.Background(), []record.IntegratedRecord{{Name: "Kim"}})
	assert.ErrorIs(t, err, boom)
}

func TestCSVSink(t *testing.T) {
	fsys := afero.NewMemMapFs()
	sink := NewCSVSink(fsys, "out/results.csv")
	p, err := New(sink, "", testTerms(), nil)
	require.NoError(t, err)

	_, err = p.Sync(context.Background(), []record.IntegratedRecord{
		{Name: "Kim", Course: "쉼표, 포함\n두 줄"},
		{Name: "Lee"},
	})
	require.NoError(t, err)

	raw, err := afero.ReadFile(fsys, "out/results.csv")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte("\ufeff")))

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header(), rows[0])
	assert.Equal(t, "쉼표, 포함\n두 줄", rows[1][1])
	assert.Equal(t, "Lee", rows[2][0])

	// A second sync replaces the previous content.
	_, err = p.Sync(context.Background(), []record.IntegratedRecord{{Name: "Park"}})
	require.NoError(t, err)
	raw, err = afero.ReadFile(fsys, "out/results.csv")
	require.NoError(t, err)
	rows, err = csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Park", rows[1][0])
}

func TestCSVSink_BadRange(t *testing.T) {
	sink := NewCSVSink(afero.NewMemMapFs(), "r.csv")
	assert.Error(t, sink.Update(context.Background(), "s", "bad", nil))
	assert.Error(t, sink.Update(context.Background(), "s", "A0:B0", nil))
}
