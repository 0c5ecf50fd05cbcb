package gsheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/sheets/v4"

	"github.com/mmynk/kas/internal/storage"
)

// fakeSheetsAPI serves the subset of the Sheets v4 REST API the store uses.
type fakeSheetsAPI struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	id, rest, _ := strings.Cut(path, "/")

	if rest == "" {
		f.serveSpreadsheet(w, r, id)
		return
	}

	rng := strings.TrimPrefix(rest, "values/")
	isAppend := strings.HasSuffix(rng, ":append")
	rng = strings.TrimSuffix(rng, ":append")
	name, a1 := splitRange(rng)

	rows, ok := f.sheets[name]
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "Unable to parse range: "+rng)
		return
	}

	switch {
	case r.Method == http.MethodGet:
		values := rows
		if a1 != "" {
			col := columnIndex(strings.Split(a1, ":")[0])
			values = nil
			for _, row := range rows {
				if col < len(row) {
					values = append(values, []string{row[col]})
				} else {
					values = append(values, []string{})
				}
			}
		}
		writeJSON(w, &sheets.ValueRange{Range: rng, MajorDimension: "ROWS", Values: toValues(values)})

	case r.Method == http.MethodPost && isAppend:
		var vr sheets.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}
		for _, v := range vr.Values {
			f.sheets[name] = append(f.sheets[name], toStrings(v))
		}
		writeJSON(w, &sheets.AppendValuesResponse{SpreadsheetId: id})

	case r.Method == http.MethodPut:
		var vr sheets.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}
		letters := strings.TrimRight(a1, "0123456789")
		rowNum, _ := strconv.Atoi(a1[len(letters):])
		col := columnIndex(letters)
		for len(f.sheets[name]) < rowNum {
			f.sheets[name] = append(f.sheets[name], []string{})
		}
		row := f.sheets[name][rowNum-1]
		for len(row) <= col {
			row = append(row, "")
		}
		row[col] = cellString(vr.Values[0][0])
		f.sheets[name][rowNum-1] = row
		writeJSON(w, &sheets.UpdateValuesResponse{SpreadsheetId: id, UpdatedCells: 1})

	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "unsupported")
	}
}

func (f *fakeSheetsAPI) serveSpreadsheet(w http.ResponseWriter, r *http.Request, id string) {
	if strings.HasSuffix(id, ":batchUpdate") {
		var req sheets.BatchUpdateSpreadsheetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}
		for _, rq := range req.Requests {
			if rq.AddSheet != nil {
				f.sheets[rq.AddSheet.Properties.Title] = nil
			}
		}
		writeJSON(w, &sheets.BatchUpdateSpreadsheetResponse{SpreadsheetId: strings.TrimSuffix(id, ":batchUpdate")})
		return
	}

	ss := &sheets.Spreadsheet{SpreadsheetId: id}
	for name := range f.sheets {
		ss.Sheets = append(ss.Sheets, &sheets.Sheet{Properties: &sheets.SheetProperties{Title: name}})
	}
	writeJSON(w, ss)
}

func splitRange(rng string) (name, a1 string) {
	if strings.HasPrefix(rng, "'") {
		end := strings.LastIndex(rng, "'")
		name = strings.ReplaceAll(rng[1:end], "''", "'")
		return name, strings.TrimPrefix(rng[end+1:], "!")
	}
	name, a1, _ = strings.Cut(rng, "!")
	return name, a1
}

func columnIndex(letters string) int {
	n := 0
	for _, c := range letters {
		n = n*26 + int(c-'A'+1)
	}
	return n - 1
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = toInterfaces(r)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": msg, "status": "INVALID_ARGUMENT"},
	})
}

func setupFakeStore(t *testing.T) (*Store, *fakeSheetsAPI) {
	t.Helper()

	api := &fakeSheetsAPI{sheets: map[string][][]string{
		"StatusIuran2025": {
			{"Bulan", "Nama", "Status"},
			{"Juni2025", "Yopha", "LUNAS"},
			{"Juni2025", "Degus", "BELUM LUNAS"},
			{"Juli2025", "Yopha", "LUNAS"},
		},
	}}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	store, err := New(context.Background(), Config{
		SpreadsheetID: "test-spreadsheet",
		APIEndpoint:   server.URL + "/",
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store, api
}

func TestStore(t *testing.T) {
	store, api := setupFakeStore(t)
	ctx := context.Background()

	t.Run("ReadAllRows", func(t *testing.T) {
		rows, err := store.ReadAllRows(ctx, "StatusIuran2025")
		if err != nil {
			t.Fatalf("ReadAllRows failed: %v", err)
		}
		if len(rows) != 4 || rows[1][1] != "Yopha" {
			t.Errorf("unexpected rows: %v", rows)
		}
	})

	t.Run("missing sheet", func(t *testing.T) {
		_, err := store.ReadAllRows(ctx, "Juni2025")
		if !errors.Is(err, storage.ErrSheetNotFound) {
			t.Errorf("expected ErrSheetNotFound, got %v", err)
		}
	})

	t.Run("FindCells", func(t *testing.T) {
		got, err := store.FindCells(ctx, "StatusIuran2025", "Yopha", 2)
		if err != nil {
			t.Fatalf("FindCells failed: %v", err)
		}
		if !reflect.DeepEqual(got, []int{2, 4}) {
			t.Errorf("FindCells = %v, want [2 4]", got)
		}
	})

	t.Run("UpdateCell", func(t *testing.T) {
		if err := store.UpdateCell(ctx, "StatusIuran2025", 3, 3, "LUNAS"); err != nil {
			t.Fatalf("UpdateCell failed: %v", err)
		}
		if got := api.sheets["StatusIuran2025"][2][2]; got != "LUNAS" {
			t.Errorf("cell = %q, want LUNAS", got)
		}
	})

	t.Run("EnsureSheet then AppendRow", func(t *testing.T) {
		header := []string{"Tanggal", "Keperluan", "Jumlah", "Yang Bayar", "Sudah Diganti?"}
		if err := store.EnsureSheet(ctx, "Juni2025", header); err != nil {
			t.Fatalf("EnsureSheet failed: %v", err)
		}
		if err := store.EnsureSheet(ctx, "Juni2025", header); err != nil {
			t.Fatalf("second EnsureSheet failed: %v", err)
		}

		row := []string{"2025-06-02", "Wifi", "Rp 100.000", "Dipta", "BELUM"}
		if err := store.AppendRow(ctx, "Juni2025", row); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}

		rows, err := store.ReadAllRows(ctx, "Juni2025")
		if err != nil {
			t.Fatalf("ReadAllRows failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected header plus one row, got %v", rows)
		}
		if !reflect.DeepEqual(rows[1], row) {
			t.Errorf("got %v, want %v", rows[1], row)
		}
	})
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{APIEndpoint: "http://localhost:1/"})
	if !errors.Is(err, storage.ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestColumnLetter(t *testing.T) {
	tests := map[int]string{1: "A", 3: "C", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"}
	for col, want := range tests {
		if got := columnLetter(col); got != want {
			t.Errorf("columnLetter(%d) = %q, want %q", col, got, want)
		}
	}
}

func TestQuoteSheet(t *testing.T) {
	tests := map[string]string{
		"Juni2025":    "Juni2025",
		"Kas Bersama": "'Kas Bersama'",
		"Bob's sheet": "'Bob''s sheet'",
	}
	for in, want := range tests {
		if got := quoteSheet(in); got != want {
			t.Errorf("quoteSheet(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCellString(t *testing.T) {
	if got := cellString(float64(1250000)); got != "1250000" {
		t.Errorf("cellString(float) = %q", got)
	}
	if got := cellString(nil); got != "" {
		t.Errorf("cellString(nil) = %q", got)
	}
}
