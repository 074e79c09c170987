package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"financas/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type recordedCall struct {
	Method string
	Path   string
	Body   string
}

// fakeSheets serves canned column values and records every call.
type fakeSheets struct {
	mu     sync.Mutex
	values map[string][][]any // keyed by requested range
	calls  []recordedCall
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
		rng := r.URL.Path[strings.Index(r.URL.Path, "/values/")+len("/values/"):]
		json.NewEncoder(w).Encode(map[string]any{"range": rng, "values": f.values[rng]})
	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{
			"sheets": []any{
				map[string]any{"properties": map[string]any{"title": "Entradas", "sheetId": 11}},
				map[string]any{"properties": map[string]any{"title": "Saidas", "sheetId": 22}},
			},
		})
	default:
		w.Write([]byte(`{}`))
	}
}

func (f *fakeSheets) find(method, pathPart string) *recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.calls {
		if f.calls[i].Method == method && strings.Contains(f.calls[i].Path, pathPart) {
			return &f.calls[i]
		}
	}
	return nil
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("create sheets service: %v", err)
	}
	return newClient(svc, Options{SpreadsheetID: "sheet-1"})
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpsertPayable_UpdatesExistingRow(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]any{
		"Saidas!A:A": {{"id"}, {"5"}, {"7"}},
	}}
	c := newTestClient(t, fake)

	group := int64(3)
	p := core.Payable{
		ID: 7, Name: "tv (2/3)", Amount: core.Money{Cents: 3333},
		Tags: core.ParseTags("parc3"), InstallmentIndex: 2, InstallmentCount: 3,
		GroupID: &group, DueDate: core.NewDate(2025, 2, 28),
	}
	if err := c.UpsertPayable(context.Background(), p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	call := fake.find(http.MethodPut, "Saidas!A3:G3")
	if call == nil {
		t.Fatalf("expected an update of row 3, calls: %+v", fake.calls)
	}
	for _, want := range []string{`"tv (2/3)"`, `"33.33"`, `"2/3"`, `"2025-02-28"`} {
		if !strings.Contains(call.Body, want) {
			t.Errorf("update body %s missing %s", call.Body, want)
		}
	}
}

func TestUpsertReceivable_AppendsWithHeaderOnEmptySheet(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]any{}}
	c := newTestClient(t, fake)

	r := core.Receivable{ID: 1, Name: "salario", Amount: core.Money{Cents: 900000}, Status: core.StatusReceived, Date: core.NewDate(2025, 1, 5)}
	if err := c.UpsertReceivable(context.Background(), r); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	call := fake.find(http.MethodPost, ":append")
	if call == nil {
		t.Fatalf("expected an append, calls: %+v", fake.calls)
	}
	if !strings.Contains(call.Body, `"nome"`) || !strings.Contains(call.Body, `"9000.00"`) {
		t.Errorf("append body should carry the header and the row: %s", call.Body)
	}
}

func TestDeleteGroup_RemovesRowsBottomUp(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]any{
		"Saidas!A:G": {
			{"id", "nome", "valor", "flags", "data_vencimento", "parcela", "id_grupo_parcela"},
			{"1", "tv (1/2)", "50.00", "parc2", "2025-01-01", "1/2", "9"},
			{"2", "luz", "80.00", "", "2025-01-10", "", ""},
			{"3", "tv (2/2)", "50.00", "parc2", "2025-02-01", "2/2", "9"},
		},
	}}
	c := newTestClient(t, fake)

	if err := c.DeleteGroup(context.Background(), 9); err != nil {
		t.Fatalf("delete group: %v", err)
	}
	call := fake.find(http.MethodPost, ":batchUpdate")
	if call == nil {
		t.Fatalf("expected a batch update, calls: %+v", fake.calls)
	}
	var req gsheet.BatchUpdateSpreadsheetRequest
	if err := json.Unmarshal([]byte(call.Body), &req); err != nil {
		t.Fatalf("decode batch body: %v", err)
	}
	if len(req.Requests) != 2 {
		t.Fatalf("expected 2 row deletions, got %d", len(req.Requests))
	}
	first := req.Requests[0].DeleteDimension.Range
	if first.SheetId != 22 || first.StartIndex != 3 || first.EndIndex != 4 {
		t.Fatalf("first deletion should target the last group row, got %+v", first)
	}
}

func TestDelete_MissingRowIsNoop(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]any{"Entradas!A:A": {{"id"}, {"4"}}}}
	c := newTestClient(t, fake)

	if err := c.Delete(context.Background(), core.KindReceivable, 99); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if call := fake.find(http.MethodPost, ":batchUpdate"); call != nil {
		t.Fatalf("no rows should be deleted")
	}
	if err := c.Delete(context.Background(), "invoice", 1); err == nil {
		t.Fatalf("unknown kind should fail")
	}
}

func TestRowHelpers(t *testing.T) {
	values := [][]any{{"id"}, {"12"}, {12.0}, {""}, {"x"}}
	if got := findRow(values, 12); got != 2 {
		t.Errorf("findRow = %d, want 2", got)
	}
	if got := findRow(values, 99); got != 0 {
		t.Errorf("findRow for missing id = %d, want 0", got)
	}

	row := payableRow(core.Payable{ID: 4, Name: "luz", Amount: core.Money{Cents: 8000}, InstallmentIndex: 1, InstallmentCount: 1, DueDate: core.NewDate(2025, 1, 10)})
	if row[5] != "" || row[6] != "" {
		t.Errorf("standalone payable should have empty installment columns: %v", row)
	}
	if columnLetter(6) != "G" {
		t.Errorf("columnLetter(6) = %q", columnLetter(6))
	}
}
