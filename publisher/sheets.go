package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

// DefaultSheetsURL is the Sheets API v4 spreadsheets collection.
const DefaultSheetsURL = "https://sheets.googleapis.com/v4/spreadsheets"

var sheetsScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

// Sheets is a minimal Google Sheets client. It reads tabs as a
// record.TabularSource and writes results as a TabularSink.
type Sheets struct {
	client  *http.Client
	baseURL string
	id      string
	logger  *zap.Logger
}

// NewSheets wraps an authorized HTTP client. baseURL may be empty.
func NewSheets(client *http.Client, baseURL, spreadsheetID string, logger *zap.Logger) (*Sheets, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultSheetsURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sheets{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		id:      spreadsheetID,
		logger:  logger,
	}, nil
}

// NewSheetsFromServiceAccount builds a client authorized by a service
// account key file.
func NewSheetsFromServiceAccount(ctx context.Context, fs afero.Fs, keyPath, baseURL, spreadsheetID string, logger *zap.Logger) (*Sheets, error) {
	key, err := afero.ReadFile(fs, keyPath)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, key, sheetsScopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = 60 * time.Second
	return NewSheets(client, baseURL, spreadsheetID, logger)
}

var _ record.TabularSource = (*Sheets)(nil)
var _ TabularSink = (*Sheets)(nil)

type sheetProperties struct {
	SheetID int64  `json:"sheetId"`
	Title   string `json:"title"`
}

type spreadsheetResp struct {
	Sheets []struct {
		Properties sheetProperties `json:"properties"`
	} `json:"sheets"`
}

type valueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type batchUpdateResp struct {
	Replies []struct {
		AddSheet *struct {
			Properties sheetProperties `json:"properties"`
		} `json:"addSheet,omitempty"`
	} `json:"replies"`
}

// sheetID resolves a tab title to its numeric id.
func (s *Sheets) sheetID(ctx context.Context, title string) (int64, error) {
	q := url.Values{"fields": {"sheets.properties(sheetId,title)"}}
	var data spreadsheetResp
	if err := s.do(ctx, http.MethodGet, s.spreadsheetURL("", q), nil, &data); err != nil {
		return 0, err
	}
	for _, sh := range data.Sheets {
		if sh.Properties.Title == title {
			return sh.Properties.SheetID, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", record.ErrSourceUnavailable, title)
}

// Rows returns every value of the tab. Rows are padded to the widest row so
// that fixed column offsets stay addressable.
func (s *Sheets) Rows(ctx context.Context, tab string) ([][]string, error) {
	if _, err := s.sheetID(ctx, tab); err != nil {
		return nil, err
	}
	q := url.Values{"majorDimension": {"ROWS"}}
	var data valueRange
	if err := s.do(ctx, http.MethodGet, s.valuesURL(quoteSheet(tab), "", q), nil, &data); err != nil {
		return nil, err
	}
	width := 0
	for _, row := range data.Values {
		width = max(width, len(row))
	}
	for i, row := range data.Values {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			data.Values[i] = padded
		}
	}
	s.logger.Debug("read tab", zap.String("tab", tab), zap.Int("rows", len(data.Values)))
	return data.Values, nil
}

// Reset clears the tab, creating it with the given grid size when absent.
func (s *Sheets) Reset(ctx context.Context, sheet string, rows, cols int) error {
	_, err := s.sheetID(ctx, sheet)
	switch {
	case err == nil:
		return s.do(ctx, http.MethodPost, s.valuesURL(quoteSheet(sheet), ":clear", nil), struct{}{}, nil)
	case isUnavailable(err):
		req := map[string]any{"addSheet": map[string]any{"properties": map[string]any{
			"title":          sheet,
			"gridProperties": map[string]int{"rowCount": rows, "columnCount": cols},
		}}}
		var resp batchUpdateResp
		if err := s.batchUpdate(ctx, []map[string]any{req}, &resp); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
		s.logger.Info("created tab", zap.String("tab", sheet))
		return nil
	default:
		return err
	}
}

// Update writes values into an A1 range of the tab, e.g. "A2:F11".
func (s *Sheets) Update(ctx context.Context, sheet, rng string, values [][]string) error {
	full := quoteSheet(sheet) + "!" + rng
	q := url.Values{"valueInputOption": {"RAW"}}
	body := valueRange{Range: full, MajorDimension: "ROWS", Values: values}
	return s.do(ctx, http.MethodPut, s.valuesURL(full, "", q), body, nil)
}

// Format applies column widths and cell wrapping.
func (s *Sheets) Format(ctx context.Context, sheet string, f Format) error {
	id, err := s.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	reqs := []map[string]any{
		{"updateDimensionProperties": map[string]any{
			"range": map[string]any{
				"sheetId":    id,
				"dimension":  "COLUMNS",
				"startIndex": f.FirstColumn,
				"endIndex":   f.EndColumn,
			},
			"properties": map[string]int{"pixelSize": f.ColumnWidth},
			"fields":     "pixelSize",
		}},
	}
	if f.Wrap {
		reqs = append(reqs, map[string]any{"repeatCell": map[string]any{
			"range": map[string]any{"sheetId": id, "startRowIndex": f.FirstDataRow},
			"cell": map[string]any{"userEnteredFormat": map[string]string{
				"wrapStrategy":      "WRAP",
				"verticalAlignment": "TOP",
			}},
			"fields": "userEnteredFormat(wrapStrategy,verticalAlignment)",
		}})
	}
	return s.batchUpdate(ctx, reqs, nil)
}

func (s *Sheets) batchUpdate(ctx context.Context, reqs []map[string]any, out any) error {
	return s.do(ctx, http.MethodPost, s.spreadsheetURL(":batchUpdate", nil), map[string]any{"requests": reqs}, out)
}

func (s *Sheets) spreadsheetURL(suffix string, q url.Values) string {
	u := s.baseURL + "/" + url.PathEscape(s.id) + suffix
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (s *Sheets) valuesURL(rng, suffix string, q url.Values) string {
	return s.spreadsheetURL("/values/"+url.PathEscape(rng)+suffix, q)
}

func (s *Sheets) do(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var data apiError
		_ = json.NewDecoder(resp.Body).Decode(&data)
		return fmt.Errorf("sheets %s %s: %d %s", method, req.URL.Path, resp.StatusCode, data.Error.Message)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// quoteSheet renders a tab title for A1 notation.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
