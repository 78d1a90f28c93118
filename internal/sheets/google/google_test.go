package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"selada/internal/export"
)

// fakeSheets records the Sheets API calls made by the client.
type fakeSheets struct {
	mu       sync.Mutex
	titles   []string
	calls    []string
	added    []string
	cleared  []string
	written  map[string][][]interface{}
	failPath string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.calls = append(f.calls, r.Method+" "+path)
	if f.failPath != "" && strings.HasSuffix(path, f.failPath) {
		http.Error(w, `{"error":{"code":500,"message":"boom"}}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet:
		var sheets []map[string]any
		for _, t := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case strings.HasSuffix(path, ":batchUpdate") && !strings.Contains(path, "/values"):
		var req struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			f.added = append(f.added, rq.AddSheet.Properties.Title)
			f.titles = append(f.titles, rq.AddSheet.Properties.Title)
		}
		w.Write([]byte(`{}`))
	case strings.HasSuffix(path, "values:batchClear"):
		var req struct {
			Ranges []string `json:"ranges"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.cleared = append(f.cleared, req.Ranges...)
		w.Write([]byte(`{}`))
	case strings.HasSuffix(path, "values:batchUpdate"):
		var req struct {
			ValueInputOption string `json:"valueInputOption"`
			Data             []struct {
				Range  string          `json:"range"`
				Values [][]interface{} `json:"values"`
			} `json:"data"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if f.written == nil {
			f.written = map[string][][]interface{}{}
		}
		for _, d := range req.Data {
			f.written[d.Range] = d.Values
		}
		w.Write([]byte(`{}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewWithEndpoint(context.Background(), "sheet-123", srv.URL+"/")
	if err != nil {
		t.Fatalf("NewWithEndpoint: %v", err)
	}
	return c
}

func reportSheets() []export.Sheet {
	return []export.Sheet{
		{Name: "Laba Rugi", Table: export.Table{
			Columns: []string{"Kategori", "Total (Rp)"},
			Rows:    [][]any{{"Pendapatan", 320000.0}, {"Beban", 50000.0}},
		}},
		{Name: "Neraca", Table: export.Table{Columns: []string{"Aset"}}},
	}
}

func TestPublishReportsCreatesMissingTabs(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Sheet1", "Neraca"}}
	c := newTestClient(t, fake)

	if err := c.PublishReports(context.Background(), reportSheets()); err != nil {
		t.Fatalf("PublishReports: %v", err)
	}

	if len(fake.added) != 1 || fake.added[0] != "Laba Rugi" {
		t.Fatalf("expected only the missing tab to be created, got %v", fake.added)
	}
	if strings.Join(fake.cleared, ",") != "'Laba Rugi','Neraca'" {
		t.Fatalf("unexpected cleared ranges %v", fake.cleared)
	}

	rows := fake.written["'Laba Rugi'!A1"]
	if len(rows) != 3 || rows[0][0] != "Kategori" || rows[1][1] != 320000.0 {
		t.Fatalf("unexpected written values %v", rows)
	}
	if header := fake.written["'Neraca'!A1"]; len(header) != 1 {
		t.Fatalf("empty table should publish just its header, got %v", header)
	}
}

func TestPublishReportsSkipsTabCreationWhenPresent(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Laba Rugi", "Neraca"}}
	c := newTestClient(t, fake)

	if err := c.PublishReports(context.Background(), reportSheets()); err != nil {
		t.Fatalf("PublishReports: %v", err)
	}
	for _, call := range fake.calls {
		if strings.HasSuffix(call, ":batchUpdate") && !strings.Contains(call, "/values") {
			t.Fatalf("unexpected spreadsheet batchUpdate: %v", fake.calls)
		}
	}
}

func TestPublishReportsReportsClearFailure(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Laba Rugi", "Neraca"}, failPath: "values:batchClear"}
	c := newTestClient(t, fake)

	err := c.PublishReports(context.Background(), reportSheets())
	if err == nil || !strings.Contains(err.Error(), "clear report tabs") {
		t.Fatalf("expected clear failure, got %v", err)
	}
	if len(fake.written) != 0 {
		t.Fatalf("values must not be written after a failed clear")
	}
}

func TestPublishReportsNoSheets(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	if err := c.PublishReports(context.Background(), nil); err != nil {
		t.Fatalf("PublishReports: %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no API calls, got %v", fake.calls)
	}
}

func TestPublishReportsWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if err := c.PublishReports(context.Background(), reportSheets()); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{CredentialsJSON: "{}"})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	ctx := context.Background()

	dir := t.TempDir()
	file := filepath.Join(dir, "sa.json")
	if err := os.WriteFile(file, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{"inline wins", Options{CredentialsJSON: `{"from":"env"}`, CredentialsFile: file}, `{"from":"env"}`, false},
		{"file", Options{CredentialsFile: file}, `{"from":"file"}`, false},
		{"missing file", Options{CredentialsFile: filepath.Join(dir, "nope.json")}, "", true},
		{"nothing", Options{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadCredentials(ctx, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil || string(got) != tt.want {
				t.Fatalf("expected %s, got %s (err=%v)", tt.want, got, err)
			}
		})
	}
}

func TestQuoteSheet(t *testing.T) {
	cases := map[string]string{
		"Neraca":      "'Neraca'",
		"Jurnal Umum": "'Jurnal Umum'",
		"Pak's":       "'Pak''s'",
	}
	for in, want := range cases {
		if got := quoteSheet(in); got != want {
			t.Errorf("quoteSheet(%q) = %q, want %q", in, got, want)
		}
	}
}
