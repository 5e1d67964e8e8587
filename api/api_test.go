package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

type fakeProcessor struct {
	result any
	err    error
	calls  atomic.Int32
	last   atomic.Value
}

func (f *fakeProcessor) ProcessInquiry(ctx context.Context, customer, person, inquiry string) (any, error) {
	f.calls.Add(1)
	f.last.Store(contractx.InquiryRequest{Customer: customer, Person: person, Inquiry: inquiry})
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type rawResult struct{}

func (rawResult) Raw() string     { return "raw text" }
func (rawResult) Content() string { return "content text" }

type contentResult struct{}

func (contentResult) Content() string { return "content text" }

type plainResult struct{ N int }

func (p plainResult) String() string { return "plain result" }

func newTestServer(t *testing.T, processor contractx.Processor, mutate ...func(*Config)) *Server {
	t.Helper()

	cfg := Config{
		Host:      "127.0.0.1",
		Port:      8000,
		StaticDir: filepath.Join(t.TempDir(), "missing"),
	}
	for _, m := range mutate {
		m(&cfg)
	}

	s, err := NewServer(cfg, processor, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

const acmeInquiry = `{"customer":"Acme","person":"Bo","inquiry":"How do I reset my password?"}`

func TestNewServerRequiresProcessor(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{Port: 8000}, nil); err == nil {
		t.Fatal("expected error for nil processor")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := (&Config{Port: 8000}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := (&Config{Port: 0}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for port 0, got %v", err)
	}
	if err := (&Config{Port: 8000, InquiryTimeout: -time.Second}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative timeout, got %v", err)
	}
	if got := (Config{Host: "0.0.0.0", Port: 8000}).Addr(); got != "0.0.0.0:8000" {
		t.Fatalf("Addr() = %q", got)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeProcessor{err: errors.New("processor down")})
	rec := do(t, s, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[contractx.Health](t, rec)
	if got.Status != "healthy" || got.Service != "customer-support-crewai" {
		t.Fatalf("unexpected health: %#v", got)
	}
}

func TestAPIInfo(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeProcessor{})
	rec := do(t, s, http.MethodGet, "/api", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[contractx.APIInfo](t, rec)
	if got != contractx.NewAPIInfo() {
		t.Fatalf("unexpected api info: %#v", got)
	}
	if got.Endpoints.Health != "/health" || got.Endpoints.Support != "/support/inquiry" {
		t.Fatalf("unexpected endpoints: %#v", got.Endpoints)
	}
}

func TestRootFallsBackToAPIInfo(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeProcessor{})
	rec := do(t, s, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[contractx.APIInfo](t, rec); got.Message != "Customer Support CrewAI API" {
		t.Fatalf("unexpected root payload: %#v", got)
	}
}

func TestRootServesIndexAndStaticFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>support ui</html>"), 0o600); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('hi')"), 0o600); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	s := newTestServer(t, &fakeProcessor{}, func(c *Config) { c.StaticDir = dir })

	rec := do(t, s, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("root status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "support ui") {
		t.Fatalf("expected index.html, got %q", rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/static/app.js", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("static status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "console.log") {
		t.Fatalf("unexpected static body %q", rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/static/missing.css", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing static status = %d", rec.Code)
	}
}

func TestStaticDirWithoutIndexFallsBack(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeProcessor{}, func(c *Config) { c.StaticDir = t.TempDir() })
	rec := do(t, s, http.MethodGet, "/", "")

	if got := decode[contractx.APIInfo](t, rec); got.Version != "1.0.0" {
		t.Fatalf("unexpected root payload: %#v", got)
	}
}

func TestUnknownPathNotFound(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeProcessor{})
	if rec := do(t, s, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInquiryPlainString(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{result: "Visit settings > security."}
	s := newTestServer(t, processor)
	rec := do(t, s, http.MethodPost, "/support/inquiry", acmeInquiry)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[contractx.InquiryResponse](t, rec)
	if !got.Success || got.Text() != "Visit settings > security." {
		t.Fatalf("unexpected response: %#v", got)
	}
	if got.Error != nil {
		t.Fatalf("error must be null, got %q", *got.Error)
	}

	last := processor.last.Load().(contractx.InquiryRequest)
	want := contractx.InquiryRequest{Customer: "Acme", Person: "Bo", Inquiry: "How do I reset my password?"}
	if last != want {
		t.Fatalf("processor got %#v, want %#v", last, want)
	}
}

func TestInquiryWireShape(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeProcessor{result: "ok"})
	rec := do(t, s, http.MethodPost, "/support/inquiry", acmeInquiry)

	got := decode[map[string]any](t, rec)
	if got["success"] != true || got["response"] != "ok" {
		t.Fatalf("unexpected body: %v", got)
	}
	if v, ok := got["error"]; !ok || v != nil {
		t.Fatalf("expected error:null, got %v (present=%v)", v, ok)
	}
}

func TestInquiryNormalizesResults(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		result any
		want   string
	}{
		{name: "raw wins over content", result: rawResult{}, want: "raw text"},
		{name: "content", result: contentResult{}, want: "content text"},
		{name: "string form", result: plainResult{N: 1}, want: "plain result"},
		{name: "number", result: 7, want: "7"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t, &fakeProcessor{result: tc.result})
			rec := do(t, s, http.MethodPost, "/support/inquiry", acmeInquiry)

			got := decode[contractx.InquiryResponse](t, rec)
			if !got.Success || got.Text() != tc.want {
				t.Fatalf("response = %#v, want %q", got, tc.want)
			}
		})
	}
}

func TestInquiryProcessorFailure(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{err: errors.New("timeout")}
	s := newTestServer(t, processor)

	rec := do(t, s, http.MethodPost, "/support/inquiry", acmeInquiry)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[map[string]any](t, rec)
	detail, _ := got["detail"].(string)
	if detail != "Error processing inquiry: timeout" {
		t.Fatalf("unexpected detail: %v", got["detail"])
	}

	if rec := do(t, s, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health after failure status = %d", rec.Code)
	}

	processor.err = nil
	processor.result = "recovered"
	rec = do(t, s, http.MethodPost, "/support/inquiry", acmeInquiry)
	if got := decode[contractx.InquiryResponse](t, rec); got.Text() != "recovered" {
		t.Fatalf("subsequent request response = %#v", got)
	}
}

func TestInquiryMissingFieldRejected(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{result: "unused"}
	s := newTestServer(t, processor)

	rec := do(t, s, http.MethodPost, "/support/inquiry", `{"customer":"Acme","person":"Bo"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if processor.calls.Load() != 0 {
		t.Fatalf("processor must not be invoked, calls=%d", processor.calls.Load())
	}

	var body struct {
		Detail []contractx.FieldError `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Detail) != 1 {
		t.Fatalf("expected 1 field error, got %#v", body.Detail)
	}
	fe := body.Detail[0]
	if len(fe.Loc) != 2 || fe.Loc[0] != "body" || fe.Loc[1] != "inquiry" || fe.Type != "missing" {
		t.Fatalf("unexpected field error: %#v", fe)
	}
}

func TestInquiryMalformedBodies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		body     string
		wantLoc  string
		wantType string
	}{
		{name: "empty body", body: "", wantLoc: "body", wantType: "missing"},
		{name: "invalid json", body: `{"customer":`, wantLoc: "body", wantType: "json_invalid"},
		{name: "not an object", body: `["Acme"]`, wantLoc: "body", wantType: "model_attributes_type"},
		{name: "wrong type", body: `{"customer":"Acme","person":"Bo","inquiry":42}`, wantLoc: "inquiry", wantType: "string_type"},
		{name: "null field", body: `{"customer":null,"person":"Bo","inquiry":"hi"}`, wantLoc: "customer", wantType: "missing"},
		{name: "keys differ in case", body: `{"CUSTOMER":"Acme","Person":"Bo","INQUIRY":"hi"}`, wantLoc: "customer", wantType: "missing"},
		{name: "trailing data", body: acmeInquiry + ` trailing garbage`, wantLoc: "body", wantType: "json_invalid"},
		{name: "second object", body: acmeInquiry + acmeInquiry, wantLoc: "body", wantType: "json_invalid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			processor := &fakeProcessor{result: "unused"}
			s := newTestServer(t, processor)
			rec := do(t, s, http.MethodPost, "/support/inquiry", tc.body)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
			if processor.calls.Load() != 0 {
				t.Fatal("processor must not be invoked")
			}

			var body struct {
				Detail []contractx.FieldError `json:"detail"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Detail) == 0 {
				t.Fatal("expected field errors")
			}
			fe := body.Detail[0]
			if fe.Loc[len(fe.Loc)-1] != tc.wantLoc || fe.Type != tc.wantType {
				t.Fatalf("unexpected field error: %#v", fe)
			}
		})
	}
}

func TestInquiryKeysMatchedExactly(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{result: "unused"}
	s := newTestServer(t, processor)
	rec := do(t, s, http.MethodPost, "/support/inquiry", `{"Customer":"Acme","PERSON":"Bo","Inquiry":"hi"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if processor.calls.Load() != 0 {
		t.Fatalf("processor must not be invoked, calls=%d", processor.calls.Load())
	}

	var body struct {
		Detail []contractx.FieldError `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"customer", "person", "inquiry"}
	if len(body.Detail) != len(want) {
		t.Fatalf("expected %d field errors, got %#v", len(want), body.Detail)
	}
	for i, fe := range body.Detail {
		if fe.Loc[len(fe.Loc)-1] != want[i] || fe.Type != "missing" {
			t.Fatalf("detail[%d] = %#v, want missing %s", i, fe, want[i])
		}
	}
}

func TestInquiryEmptyStringsAccepted(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{result: "ok"}
	s := newTestServer(t, processor)
	rec := do(t, s, http.MethodPost, "/support/inquiry", `{"customer":"","person":"","inquiry":""}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if processor.calls.Load() != 1 {
		t.Fatalf("expected 1 processor call, got %d", processor.calls.Load())
	}
}

func TestInquiryMethodNotAllowed(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeProcessor{})
	if rec := do(t, s, http.MethodGet, "/support/inquiry", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInquiryTimeout(t *testing.T) {
	t.Parallel()

	blocking := contractx.ProcessorFunc(func(ctx context.Context, _, _, _ string) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := newTestServer(t, blocking, func(c *Config) { c.InquiryTimeout = 20 * time.Millisecond })

	rec := do(t, s, http.MethodPost, "/support/inquiry", acmeInquiry)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "deadline exceeded") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestInquiryIgnoresClientCancellation(t *testing.T) {
	t.Parallel()

	var sawCancel atomic.Bool
	processor := contractx.ProcessorFunc(func(ctx context.Context, _, _, _ string) (any, error) {
		if ctx.Err() != nil {
			sawCancel.Store(true)
		}
		return "finished", nil
	})
	s := newTestServer(t, processor)

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/support/inquiry", strings.NewReader(acmeInquiry)).WithContext(reqCtx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if sawCancel.Load() {
		t.Fatal("processor context must not inherit client cancellation")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	resp := decode[contractx.InquiryResponse](t, rec)
	if resp.Text() != "finished" {
		t.Fatalf("response = %q", resp.Text())
	}
}

func TestPanicRecovered(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	processor := contractx.ProcessorFunc(func(ctx context.Context, _, _, _ string) (any, error) {
		if calls.Add(1) == 1 {
			panic("agent crashed")
		}
		return "fine", nil
	})
	s := newTestServer(t, processor)

	rec := do(t, s, http.MethodPost, "/support/inquiry", acmeInquiry)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/support/inquiry", acmeInquiry)
	if got := decode[contractx.InquiryResponse](t, rec); got.Text() != "fine" {
		t.Fatalf("unexpected response after panic: %#v", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeProcessor{})

	rec := do(t, s, http.MethodGet, "/health", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeProcessor{result: "ok"})
	do(t, s, http.MethodPost, "/support/inquiry", acmeInquiry)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"support_inquiries_total", "support_http_requests_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}
