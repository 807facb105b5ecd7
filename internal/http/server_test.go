package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"networth/internal/core"
	"networth/internal/log"
	"networth/internal/services"
)

// fakeService keeps line items in memory and validates like the store does.
type fakeService struct {
	items    map[int64]core.LineItem
	nextID   int64
	readyErr error
	snapErr  error
}

func newFakeService() *fakeService {
	return &fakeService{items: map[int64]core.LineItem{}, nextID: 1}
}

func (f *fakeService) ListAll(context.Context) ([]core.LineItem, error) {
	out := make([]core.LineItem, 0, len(f.items))
	for id := int64(1); id < f.nextID; id++ {
		if li, ok := f.items[id]; ok {
			out = append(out, li)
		}
	}
	return out, nil
}

func (f *fakeService) Get(_ context.Context, id int64) (core.LineItem, error) {
	li, ok := f.items[id]
	if !ok {
		return core.LineItem{}, &core.NotFoundError{ID: id}
	}
	return li, nil
}

func (f *fakeService) Create(_ context.Context, in core.LineItemInput) (core.LineItem, error) {
	n, err := in.Normalize()
	if err != nil {
		return core.LineItem{}, err
	}
	li := core.LineItem{ID: f.nextID, Name: n.Name, Type: n.Type, Status: n.Status, Amount: n.Amount}
	f.items[li.ID] = li
	f.nextID++
	return li, nil
}

func (f *fakeService) Update(_ context.Context, id int64, in core.LineItemInput) error {
	n, err := in.Normalize()
	if err != nil {
		return err
	}
	if _, ok := f.items[id]; !ok {
		return &core.NotFoundError{ID: id}
	}
	f.items[id] = core.LineItem{ID: id, Name: n.Name, Type: n.Type, Status: n.Status, Amount: n.Amount}
	return nil
}

func (f *fakeService) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return &core.NotFoundError{ID: id}
	}
	delete(f.items, id)
	return nil
}

func (f *fakeService) Summary(ctx context.Context) (services.Summary, error) {
	if f.snapErr != nil {
		return services.Summary{}, f.snapErr
	}
	items, _ := f.ListAll(ctx)
	var snap core.Snapshot
	for _, li := range items {
		row, err := core.ToSnapshotRow(li)
		if err != nil {
			return services.Summary{}, err
		}
		snap = append(snap, row)
	}
	return services.Summary{Totals: core.ComputeTotals(snap), Shares: core.ComputeShares(snap)}, nil
}

func (f *fakeService) Ready(context.Context) error { return f.readyErr }

func newTestServer(t *testing.T, svc LineItemService) *Server {
	t.Helper()
	return NewServer(":0", svc,
		WithLogger(log.New(log.Config{Output: &bytes.Buffer{}})),
		WithCurrency("USD"))
}

func do(srv *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

var (
	formHeaders = map[string]string{"Content-Type": "application/x-www-form-urlencoded", "HX-Request": "true"}
	jsonHeaders = map[string]string{"Content-Type": "application/json", "Accept": "application/json"}
)

func TestIndexAndHealth(t *testing.T) {
	svc := newFakeService()
	svc.Create(context.Background(), core.LineItemInput{Name: "Savings", Status: core.Asset, Amount: "1000"})
	srv := newTestServer(t, svc)

	rr := do(srv, http.MethodGet, "/", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Net Worth", "Savings", "$1,000.00", `hx-post="/items"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("security headers missing on index")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("request id missing on index")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(srv, http.MethodGet, path, "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestReadyzReportsStoreFailure(t *testing.T) {
	svc := newFakeService()
	svc.readyErr = &core.StorageError{Op: "ping", Err: errors.New("database is closed")}
	srv := newTestServer(t, svc)

	rr := do(srv, http.MethodGet, "/readyz", "", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not_ready") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t, newFakeService())
	rr := do(srv, http.MethodGet, "/static/app.css", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("static status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Cache-Control"), "max-age=3600") {
		t.Fatalf("static cache header missing: %q", rr.Header().Get("Cache-Control"))
	}
}

func TestCreateFormValidationAndSuccess(t *testing.T) {
	svc := newFakeService()
	srv := newTestServer(t, svc)

	// Wrong method
	rr := do(srv, http.MethodGet, "/items", "", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr = do(srv, http.MethodPost, "/items", "name=Cash&status=Asset&amount=abc", formHeaders)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid amount") {
		t.Fatalf("expected amount message, got %s", rr.Body.String())
	}

	// Missing name
	rr = do(srv, http.MethodPost, "/items", "name=&status=Asset&amount=1", formHeaders)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	// Unknown status
	rr = do(srv, http.MethodPost, "/items", "name=x&status=Equity&amount=1", formHeaders)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	if len(svc.items) != 0 {
		t.Fatalf("failed creates must not store anything, got %d", len(svc.items))
	}

	// Success
	rr = do(srv, http.MethodPost, "/items", "name=Cash&type=Bank&status=asset&amount=100", formHeaders)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "success") {
		t.Fatalf("expected success in body: %s", rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, EventLineItemsChanged) || !strings.Contains(trigger, EventNotification) {
		t.Fatalf("expected refresh triggers, got %q", trigger)
	}
	if got := svc.items[1]; got.Status != core.Asset || got.Amount != "100.00" {
		t.Fatalf("unexpected stored item %+v", got)
	}
}

func TestCreateJSON(t *testing.T) {
	srv := newTestServer(t, newFakeService())

	rr := do(srv, http.MethodPost, "/items", `{"name":"Loan","type":"Debt","status":"Liability","amount":40.10}`, jsonHeaders)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var got lineItemResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 1 || got.Amount != "40.10" || got.Status != "Liability" {
		t.Fatalf("unexpected response %+v", got)
	}
	if rr.Header().Get("Location") != "/items/1" {
		t.Fatalf("Location = %q", rr.Header().Get("Location"))
	}

	rr = do(srv, http.MethodPost, "/items", `{"name":"Loan",`, jsonHeaders)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/items", `{"name":"Loan","status":"Liability","amount":"-5"}`, jsonHeaders)
	if rr.Code != http.StatusUnprocessableEntity || !strings.Contains(rr.Body.String(), `"error"`) {
		t.Fatalf("expected json 422, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestGetUpdateDeleteByID(t *testing.T) {
	svc := newFakeService()
	ctx := context.Background()
	car, _ := svc.Create(ctx, core.LineItemInput{Name: "Car", Status: core.Asset, Amount: "8000"})
	// Same visible fields as car, different id
	twin, _ := svc.Create(ctx, core.LineItemInput{Name: "Car", Status: core.Asset, Amount: "8000"})
	srv := newTestServer(t, svc)

	rr := do(srv, http.MethodGet, "/items/1", "", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"name":"Car"`) {
		t.Fatalf("get: %d %s", rr.Code, rr.Body.String())
	}
	if rr := do(srv, http.MethodGet, "/items/99", "", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr := do(srv, http.MethodGet, "/items/abc", "", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPut, "/items/1", "name=Car&status=Liability&amount=8000", formHeaders)
	if rr.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rr.Code, rr.Body.String())
	}
	if svc.items[car.ID].Status != core.Liability || svc.items[twin.ID].Status != core.Asset {
		t.Fatalf("update must only touch the addressed id: %+v", svc.items)
	}

	rr = do(srv, http.MethodPost, "/items/1", `{"name":"Car","status":"Liability","amount":"7500.5"}`, jsonHeaders)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"amount":"7500.50"`) {
		t.Fatalf("json update: %d %s", rr.Code, rr.Body.String())
	}

	if rr := do(srv, http.MethodPut, "/items/99", "name=x&status=Asset&amount=1", formHeaders); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on update, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/items/2/delete", "", map[string]string{"HX-Request": "true"})
	if rr.Code != http.StatusOK || !strings.Contains(rr.Header().Get("HX-Trigger"), EventLineItemsChanged) {
		t.Fatalf("delete: %d %q", rr.Code, rr.Header().Get("HX-Trigger"))
	}
	if _, ok := svc.items[twin.ID]; ok {
		t.Fatal("twin should be deleted")
	}
	if _, ok := svc.items[car.ID]; !ok {
		t.Fatal("car should remain")
	}

	rr = do(srv, http.MethodDelete, "/items/1", "", map[string]string{"Accept": "application/json"})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr := do(srv, http.MethodDelete, "/items/1", "", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rr.Code)
	}
}

func TestAPITotalsAndComposition(t *testing.T) {
	svc := newFakeService()
	ctx := context.Background()
	svc.Create(ctx, core.LineItemInput{Name: "Cash", Status: core.Asset, Amount: "100"})
	svc.Create(ctx, core.LineItemInput{Name: "Loan", Status: core.Liability, Amount: "40"})
	srv := newTestServer(t, svc)

	rr := do(srv, http.MethodGet, "/api/totals", "", nil)
	var totals totalsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}
	want := totalsResponse{TotalAssets: "100.00", TotalLiabilities: "40.00", NetWorth: "60.00", Currency: "USD"}
	if totals != want {
		t.Fatalf("totals = %+v, want %+v", totals, want)
	}

	rr = do(srv, http.MethodGet, "/api/composition", "", nil)
	var shares []shareResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &shares); err != nil {
		t.Fatalf("decode shares: %v", err)
	}
	if len(shares) != 2 || shares[1].Name != "Loan" || shares[1].Amount != "40.00" {
		t.Fatalf("unexpected shares %+v", shares)
	}

	rr = do(srv, http.MethodGet, "/api/items", "", nil)
	var items []lineItemResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Cash" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestAPIEmptyStore(t *testing.T) {
	srv := newTestServer(t, newFakeService())

	rr := do(srv, http.MethodGet, "/api/items", "", nil)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rr.Body.String())
	}
	rr = do(srv, http.MethodGet, "/api/totals", "", nil)
	if !strings.Contains(rr.Body.String(), `"net_worth":"0.00"`) {
		t.Fatalf("expected zero totals, got %s", rr.Body.String())
	}
}

func TestPartials(t *testing.T) {
	svc := newFakeService()
	ctx := context.Background()
	svc.Create(ctx, core.LineItemInput{Name: "Zeta Fund", Status: core.Asset, Amount: "1"})
	svc.Create(ctx, core.LineItemInput{Name: "Alpha Loan", Status: core.Liability, Amount: "3"})
	srv := newTestServer(t, svc)

	rr := do(srv, http.MethodGet, "/ui/items", "", nil)
	body := rr.Body.String()
	if rr.Code != http.StatusOK || strings.Index(body, "Alpha Loan") > strings.Index(body, "Zeta Fund") {
		t.Fatalf("items partial should be sorted by name: %s", body)
	}

	rr = do(srv, http.MethodGet, "/ui/summary", "", nil)
	body = rr.Body.String()
	if !strings.Contains(body, "-$2.00") || !strings.Contains(body, "75.0%") {
		t.Fatalf("summary partial missing net worth or share: %s", body)
	}

	rr = do(srv, http.MethodGet, "/ui/items/2/edit", "", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `hx-put="/items/2"`) {
		t.Fatalf("edit partial: %d %s", rr.Code, rr.Body.String())
	}
}

func TestIntegrityErrorIsServerError(t *testing.T) {
	svc := newFakeService()
	svc.snapErr = &core.DataIntegrityError{ID: 1, Field: "amount", Value: "ten"}
	srv := newTestServer(t, svc)

	rr := do(srv, http.MethodGet, "/api/totals", "", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "ten") {
		t.Fatalf("internal details leaked: %s", rr.Body.String())
	}

	rr = do(srv, http.MethodGet, "/ui/summary", "", nil)
	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Header().Get("HX-Trigger"), "error") {
		t.Fatalf("expected error fragment with notification, got %d %q", rr.Code, rr.Header().Get("HX-Trigger"))
	}
}
