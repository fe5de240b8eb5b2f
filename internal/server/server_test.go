package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/veilware/veil/internal/config"
	"github.com/veilware/veil/internal/logger"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()

	cfg := config.GetDefaults()
	cfg.WebSocket.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	log := &logger.Logger{Logger: zap.NewNop()}
	srv, err := New(cfg, log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestAnonymizeEndpoint(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/v1/anonymize", AnonymizeRequest{
		Text: "Contact john@example.com now",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, readBody(t, resp))
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	var out AnonymizeResponse
	decodeInto(t, resp, &out)

	if strings.Contains(out.AnonymizedText, "john@example.com") {
		t.Errorf("original value survived: %q", out.AnonymizedText)
	}
	found := false
	for _, rec := range out.Entities {
		if rec.Type == "EMAIL_ADDRESS" && rec.Value == "john@example.com" {
			found = true
			if rec.FakeValue == "" {
				t.Error("empty fake value in entity map")
			}
		}
	}
	if !found {
		t.Errorf("email record missing from entity map: %+v", out.Entities)
	}
	if out.Metadata.Language != "en" {
		t.Errorf("language = %q, want en", out.Metadata.Language)
	}
	if out.SessionID != "" {
		t.Errorf("unexpected session id %q without persist", out.SessionID)
	}

	if got := srv.monitor.Snapshot().TotalProcessed; got != 1 {
		t.Errorf("monitor TotalProcessed = %d, want 1", got)
	}
}

func TestAnonymizeDeanonymizeRoundTrip(t *testing.T) {
	_, ts := newTestServer(t, nil)

	original := "Contact john@example.com or visit 10.0.0.1 now"
	deterministic := true

	resp := postJSON(t, ts.URL+"/v1/anonymize", AnonymizeRequest{
		Text:          original,
		Deterministic: &deterministic,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymize status = %d, body %s", resp.StatusCode, readBody(t, resp))
	}
	var anon AnonymizeResponse
	decodeInto(t, resp, &anon)

	resp = postJSON(t, ts.URL+"/v1/deanonymize", DeanonymizeRequest{
		Text:      anon.AnonymizedText,
		EntityMap: anon.Entities,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deanonymize status = %d, body %s", resp.StatusCode, readBody(t, resp))
	}
	var restored AnonymizeResponse
	decodeInto(t, resp, &restored)

	if restored.AnonymizedText != original {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", restored.AnonymizedText, original)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	text := "Contact john@example.com now"
	resp := postJSON(t, ts.URL+"/v1/analyze", AnalyzeRequest{Text: text})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, readBody(t, resp))
	}

	var out AnalyzeResponse
	decodeInto(t, resp, &out)

	if out.Count == 0 || len(out.Matches) != out.Count {
		t.Fatalf("count = %d, matches = %d", out.Count, len(out.Matches))
	}
	for _, m := range out.Matches {
		if m.Text != text[m.Start:m.End] {
			t.Errorf("span misaligned: %+v", m)
		}
	}
}

func TestEntitiesEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/entities")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var out EntitiesResponse
	decodeInto(t, resp, &out)

	if out.Language != "en" {
		t.Errorf("language = %q", out.Language)
	}
	found := false
	for _, e := range out.Entities {
		if e == "EMAIL_ADDRESS" {
			found = true
		}
	}
	if !found {
		t.Errorf("EMAIL_ADDRESS missing from %v", out.Entities)
	}

	resp, err = http.Get(ts.URL + "/v1/entities?language=tlh")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unsupported language status = %d, want 400", resp.StatusCode)
	}
}

func TestLanguagesEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/languages")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var out LanguagesResponse
	decodeInto(t, resp, &out)

	if out.Default != "en" {
		t.Errorf("default = %q", out.Default)
	}
	if len(out.Languages) < 2 {
		t.Errorf("languages = %v", out.Languages)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var out HealthResponse
	decodeInto(t, resp, &out)

	if out.Status != "healthy" {
		t.Errorf("status = %q", out.Status)
	}
	if out.Components["store"] != "disabled" {
		t.Errorf("store component = %q", out.Components["store"])
	}
}

func TestInfoEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	postJSON(t, ts.URL+"/v1/anonymize", AnonymizeRequest{Text: "mail me at a@b.io now"}).Body.Close()

	resp, err := http.Get(ts.URL + "/info")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var out InfoResponse
	decodeInto(t, resp, &out)

	if out.Name != "veil" || out.Version == "" {
		t.Errorf("name = %q, version = %q", out.Name, out.Version)
	}
	if out.Processing.TotalProcessed < 1 {
		t.Errorf("TotalProcessed = %d, want at least 1", out.Processing.TotalProcessed)
	}
	if out.Sessions != nil {
		t.Error("sessions reported with store disabled")
	}
}

func TestRequestValidation(t *testing.T) {
	_, ts := newTestServer(t, nil)

	t.Run("malformed json", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/v1/anonymize", "application/json", strings.NewReader("{not json"))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("unsupported language", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/v1/anonymize", AnonymizeRequest{Text: "hi", Language: "tlh"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("threshold out of range", func(t *testing.T) {
		bad := 1.5
		resp := postJSON(t, ts.URL+"/v1/anonymize", AnonymizeRequest{Text: "hi", ConfidenceThreshold: &bad})
		var out ErrorResponse
		decodeInto(t, resp, &out)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		if out.Kind != "configuration" {
			t.Errorf("kind = %q", out.Kind)
		}
	})

	t.Run("session without store", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/v1/deanonymize", DeanonymizeRequest{Text: "hi", SessionID: "0190cafe-0000-0000-0000-000000000000"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("persist without store", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/v1/anonymize", AnonymizeRequest{Text: "hi", Persist: true})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestBodyLimit(t *testing.T) {
	_, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.MaxBodyBytes = 64
	})

	resp := postJSON(t, ts.URL+"/v1/anonymize", AnonymizeRequest{
		Text: strings.Repeat("long text ", 50),
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	_, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimit.RPS = 1
		cfg.RateLimit.Burst = 1
	})

	do := func() int {
		req, err := http.NewRequest("GET", ts.URL+"/v1/languages", nil)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		req.Header.Set("X-Forwarded-For", "10.1.2.3")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := do(); got != http.StatusOK {
		t.Fatalf("first request status = %d", got)
	}
	if got := do(); got != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", got)
	}

	// Health stays reachable regardless of API rate limiting.
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	cfg := config.GetDefaults()
	cfg.WebSocket.Enabled = false
	log := &logger.Logger{Logger: zap.NewNop()}
	srv, err := New(cfg, log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	srv.router.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/boom")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}
