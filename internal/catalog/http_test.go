package catalog_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"GardenRosas/internal/catalog"
)

func newCatalogTS(t *testing.T, floor int64) *httptest.Server {
	t.Helper()

	s := &catalog.Server{Store: catalog.NewMemStore(floor), Log: zap.NewNop()}
	h := catalog.NewHandler(s, nil, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})
	return httptest.NewServer(h)
}

var adminHeaders = map[string]string{
	"X-User-Id":   "u_test",
	"X-User-Role": "admin",
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestCatalogAPI_CreateThenGet(t *testing.T) {
	ts := newCatalogTS(t, 0)
	t.Cleanup(ts.Close)

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]any{
		"name":        "Rosa Branca",
		"category":    "flores",
		"price_cents": 2490,
		"description": "Rosa em tecido",
	}, adminHeaders)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", resp.StatusCode, raw)
	}

	var created catalog.Product
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("decode: %v body=%s", err, raw)
	}
	if created.ID == 0 || created.Quantity != 1 {
		t.Fatalf("created=%+v", created)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/1", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status=%d body=%s", resp.StatusCode, raw)
	}
	var got catalog.Product
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Rosa Branca" || got.PriceCents != 2490 {
		t.Fatalf("got=%+v", got)
	}
}

func TestCatalogAPI_DeleteThenNotFound(t *testing.T) {
	ts := newCatalogTS(t, 0)
	t.Cleanup(ts.Close)

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]any{
		"name":        "Vela",
		"category":    "velas",
		"price_cents": 1890,
		"description": "Vela de lavanda",
	}, adminHeaders)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, http.MethodDelete, ts.URL+"/api/products/1", nil, adminHeaders)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status=%d body=%s", resp.StatusCode, raw)
	}
	var removed catalog.Product
	if err := json.Unmarshal(raw, &removed); err != nil || removed.Name != "Vela" {
		t.Fatalf("removed=%+v err=%v", removed, err)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/products/1", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status=%d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/products/1", nil, adminHeaders)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status=%d", resp.StatusCode)
	}
}

func TestCatalogAPI_BulkPrice(t *testing.T) {
	ts := newCatalogTS(t, 0)
	t.Cleanup(ts.Close)

	for _, name := range []string{"Rosa", "Orquídea"} {
		resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]any{
			"name":        name,
			"category":    "flores",
			"price_cents": 10000,
			"description": name,
		}, adminHeaders)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create status=%d body=%s", resp.StatusCode, raw)
		}
	}

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/products/bulk-price", map[string]any{
		"scope": "flores",
		"mode":  "percentage",
		"delta": -25,
	}, adminHeaders)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bulk status=%d body=%s", resp.StatusCode, raw)
	}

	var br struct {
		Affected int64 `json:"affected"`
	}
	if err := json.Unmarshal(raw, &br); err != nil || br.Affected != 2 {
		t.Fatalf("affected=%d err=%v body=%s", br.Affected, err, raw)
	}

	_, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/1", nil, nil)
	var p catalog.Product
	if err := json.Unmarshal(raw, &p); err != nil || p.PriceCents != 7500 {
		t.Fatalf("price=%d err=%v", p.PriceCents, err)
	}
}

func TestCatalogAPI_AdminGate(t *testing.T) {
	ts := newCatalogTS(t, 0)
	t.Cleanup(ts.Close)

	body := map[string]any{
		"name":        "Rosa",
		"category":    "flores",
		"price_cents": 1000,
		"description": "Rosa",
	}

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/products", body, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no identity status=%d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/products", body, map[string]string{
		"X-User-Id":   "u_test",
		"X-User-Role": "user",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin status=%d", resp.StatusCode)
	}

	// Public reads stay open.
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/products", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public list status=%d", resp.StatusCode)
	}
}

func TestCatalogAPI_Validation(t *testing.T) {
	ts := newCatalogTS(t, 0)
	t.Cleanup(ts.Close)

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]any{
		"name":        "",
		"category":    "plantas",
		"price_cents": -1,
		"description": "",
	}, adminHeaders)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", resp.StatusCode, raw)
	}

	var er struct {
		Details struct {
			Problems []string `json:"problems"`
		} `json:"details"`
	}
	if err := json.Unmarshal(raw, &er); err != nil {
		t.Fatalf("decode: %v body=%s", err, raw)
	}
	if len(er.Details.Problems) != 4 {
		t.Fatalf("problems=%v", er.Details.Problems)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/products/abc", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad id status=%d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/products", map[string]any{
		"name":        "Rosa",
		"category":    "flores",
		"price_cents": 100,
		"description": "Rosa",
		"extra":       true,
	}, adminHeaders)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field status=%d", resp.StatusCode)
	}
}
