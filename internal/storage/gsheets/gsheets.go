// Package gsheets implements storage.Sheets on the Google
// spreadsheet the household edits by hand.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mmynk/kas/internal/storage"
)

var (
	_ storage.Sheets      = (*Store)(nil)
	_ storage.Provisioner = (*Store)(nil)
)

// Config holds the spreadsheet location and credentials.
type Config struct {
	SpreadsheetID   string // ID from the spreadsheet URL
	CredentialsPath string // Service account key JSON from Google Cloud Console
	APIEndpoint     string // Custom API endpoint (for emulator, e.g., "http://localhost:8081/")
}

// Store wraps the Sheets API service for one spreadsheet.
type Store struct {
	service       *sheets.Service
	spreadsheetID string
}

// New creates a Store authenticated with a service account key.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is required", storage.ErrBackendUnavailable)
	}

	// If custom endpoint is specified (emulator mode), use unauthenticated client
	if cfg.APIEndpoint != "" {
		return newEmulatorStore(ctx, cfg)
	}

	credBytes, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read credentials file: %v", storage.ErrBackendUnavailable, err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credBytes, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse credentials: %v", storage.ErrBackendUnavailable, err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create Sheets service: %v", storage.ErrBackendUnavailable, err)
	}

	return &Store{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

// newEmulatorStore creates a Store for a Sheets emulator (no OAuth required).
func newEmulatorStore(ctx context.Context, cfg Config) (*Store, error) {
	service, err := sheets.NewService(ctx,
		option.WithEndpoint(cfg.APIEndpoint),
		option.WithHTTPClient(&http.Client{}),
		option.WithoutAuthentication(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create Sheets service: %v", storage.ErrBackendUnavailable, err)
	}
	return &Store{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

// ReadAllRows returns the formatted values of the whole sheet.
func (s *Store) ReadAllRows(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(sheet)).Context(ctx).Do()
	if err != nil {
		return nil, mapError(err, sheet, "read")
	}

	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		rows[i] = toStrings(r)
	}
	return rows, nil
}

// AppendRow inserts a row after the sheet's data. Values are stored raw so
// they read back exactly as written.
func (s *Store) AppendRow(ctx context.Context, sheet string, values []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(values)}}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, quoteSheet(sheet), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return mapError(err, sheet, "append row")
	}
	return nil
}

// UpdateCell writes a single cell addressed in A1 notation.
func (s *Store) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell address R%dC%d", row, col)
	}
	a1 := fmt.Sprintf("%s!%s%d", quoteSheet(sheet), columnLetter(col), row)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, a1, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return mapError(err, sheet, "update cell")
	}
	return nil
}

// FindCells reads one column and returns the rows equal to value.
func (s *Store) FindCells(ctx context.Context, sheet, value string, col int) ([]int, error) {
	if col < 1 {
		return nil, fmt.Errorf("invalid column %d", col)
	}
	letter := columnLetter(col)
	rng := fmt.Sprintf("%s!%s:%s", quoteSheet(sheet), letter, letter)
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapError(err, sheet, "find cells")
	}

	var found []int
	for i, r := range resp.Values {
		if len(r) > 0 && cellString(r[0]) == value {
			found = append(found, i+1)
		}
	}
	return found, nil
}

// EnsureSheet adds the sheet and its header row if the spreadsheet lacks it.
func (s *Store) EnsureSheet(ctx context.Context, sheet string, header []string) error {
	ss, err := s.service.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return mapError(err, sheet, "get spreadsheet")
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheet {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: sheet}},
		}},
	}
	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return mapError(err, sheet, "add sheet")
	}
	if len(header) == 0 {
		return nil
	}
	return s.AppendRow(ctx, sheet, header)
}

// mapError translates API errors into the storage error taxonomy.
func mapError(err error, sheet, op string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: spreadsheet not found while trying to %s %q", storage.ErrSheetNotFound, op, sheet)
		case gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range"):
			return fmt.Errorf("%w: %q", storage.ErrSheetNotFound, sheet)
		case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %s", storage.ErrBackendUnavailable, gerr.Message)
		}
	}
	return fmt.Errorf("failed to %s in sheet %q: %w", op, sheet, err)
}

// quoteSheet quotes a sheet name for A1 notation when required.
func quoteSheet(name string) string {
	plain := name != ""
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// columnLetter converts a 1-based column index to its A1 letters.
func columnLetter(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = cellString(v)
	}
	return out
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
