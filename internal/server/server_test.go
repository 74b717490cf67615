package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flamelink/pkg/cache"
	"github.com/matzehuels/flamelink/pkg/observability"
	"github.com/matzehuels/flamelink/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(c, nil, nil)
	ts := httptest.NewServer(New(runner, Options{MaxBodyBytes: 64 << 10}).Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return ts
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func readFlame(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../examples/flames/" + name)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	var body healthResponse
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		t.Errorf("status %d body %+v", resp.StatusCode, body)
	}
	if body.Variations == 0 || body.Library == 0 {
		t.Errorf("empty catalog reported: %+v", body)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q is not a UUID", resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("malformed request id was echoed")
	}
}

func TestVariations(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query  string
		status int
		check  func(t *testing.T, vs []variationJSON)
	}{
		{"", http.StatusOK, func(t *testing.T, vs []variationJSON) {
			if len(vs) < 50 {
				t.Errorf("only %d variations listed", len(vs))
			}
		}},
		{"?kind=3d", http.StatusOK, func(t *testing.T, vs []variationJSON) {
			for _, v := range vs {
				if !strings.Contains(v.Kinds, "3d") {
					t.Errorf("%s (%s) listed under 3d", v.Name, v.Kinds)
				}
			}
		}},
		{"?kind=post", http.StatusOK, func(t *testing.T, vs []variationJSON) {
			for _, v := range vs {
				if v.Pass != "post" {
					t.Errorf("%s pass = %s", v.Name, v.Pass)
				}
			}
		}},
		{"?kind=4d", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/v1/variations" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body struct {
				Variations []variationJSON `json:"variations"`
				Count      int             `json:"count"`
			}
			decode(t, resp, &body)
			if tt.check != nil {
				if body.Count != len(body.Variations) {
					t.Errorf("count %d for %d variations", body.Count, len(body.Variations))
				}
				tt.check(t, body.Variations)
			}
		})
	}
}

func TestVariation(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/variations/crackle")
	if err != nil {
		t.Fatal(err)
	}
	var v variationJSON
	decode(t, resp, &v)
	if v.Name != "crackle" || !strings.Contains(v.Template, "noise_cellular2") {
		t.Errorf("variation = %+v", v)
	}
	var distance *paramJSON
	for i := range v.Params {
		if v.Params[i].Name == "distance" {
			distance = &v.Params[i]
		}
	}
	if distance == nil || len(distance.Choices) != 3 {
		t.Errorf("distance param = %+v", distance)
	}

	resp, err = http.Get(ts.URL + "/v1/variations/nope")
	if err != nil {
		t.Fatal(err)
	}
	var e errorResponse
	decode(t, resp, &e)
	if resp.StatusCode != http.StatusNotFound || e.Error.Code != "UNKNOWN_VARIATION" {
		t.Errorf("status %d error %+v", resp.StatusCode, e)
	}
}

func TestLibrary(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/library")
	if err != nil {
		t.Fatal(err)
	}
	var list struct {
		Functions []functionJSON `json:"functions"`
	}
	decode(t, resp, &list)
	found := false
	for _, fn := range list.Functions {
		if fn.Source != "" {
			t.Errorf("%s: listing includes source", fn.ID)
		}
		if fn.ID == "noise_base" && fn.Init == "noise_init();" {
			found = true
		}
	}
	if !found {
		t.Error("noise_base with its initializer not listed")
	}

	resp, err = http.Get(ts.URL + "/v1/library/lib_spread")
	if err != nil {
		t.Fatal(err)
	}
	var fn functionJSON
	decode(t, resp, &fn)
	if fn.Source == "" || len(fn.Requires) != 1 || fn.Requires[0] != "lib_hypot" {
		t.Errorf("function = %+v", fn)
	}

	resp, err = http.Get(ts.URL + "/v1/library/lib_nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCompose(t *testing.T) {
	ts := newTestServer(t)
	src := readFlame(t, "sierpinski.toml")

	post := func() composeResponse {
		resp, err := http.Post(ts.URL+"/v1/compose?validate=true", "application/toml", strings.NewReader(src))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var body composeResponse
		decode(t, resp, &body)
		return body
	}

	first := post()
	if first.Name != "sierpinski" || first.Kernel == nil || first.Cached {
		t.Fatalf("first response = %+v", first)
	}
	if !strings.Contains(first.Kernel.Source, "fn xform_2(") || first.Kernel.EntryPoint != "main" {
		t.Error("kernel incomplete")
	}
	if first.Stats.Transforms != 3 || first.RequestID == "" {
		t.Errorf("stats = %+v request id %q", first.Stats, first.RequestID)
	}
	if second := post(); !second.Cached || second.Kernel.Source != first.Kernel.Source {
		t.Error("second compose not served from cache")
	}
}

func TestComposeXMLAndOptions(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/compose?mode=buffer&kernel=false", "application/xml", strings.NewReader(readFlame(t, "electric.flame")))
	if err != nil {
		t.Fatal(err)
	}
	var body composeResponse
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body.Kernel.EntryPoint != "" || len(body.Kernel.Params) == 0 || body.Kernel.Mode != "buffer" {
		t.Errorf("kernel = entry %q mode %q params %d", body.Kernel.EntryPoint, body.Kernel.Mode, len(body.Kernel.Params))
	}
	if len(body.Warnings) != 1 || body.Warnings[0].Variation != "noise_swirl" {
		t.Errorf("warnings = %+v", body.Warnings)
	}
	if len(body.Libraries) == 0 {
		t.Error("libraries missing from fresh composition")
	}
}

func TestComposeErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"empty body", "", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad toml", "", "name = ", http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad flag", "?strict=maybe", "name = \"x\"", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad mode", "?mode=uniform", "name = \"x\"", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown variation", "?skip_unknown=false", "[[xform]]\n[[xform.variation]]\nname = \"nope\"\nweight = 1.0\n",
			http.StatusBadRequest, "UNKNOWN_VARIATION"},
		{"invalid parameter", "", "[[xform]]\n[[xform.variation]]\nname = \"crackle\"\nweight = 1.0\nparams = { distance = \"taxicab\" }\n",
			http.StatusBadRequest, "INVALID_PARAMETER"},
		{"too large", "", strings.Repeat("#", 65<<10), http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/compose"+tt.query, "application/toml", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			var body errorResponse
			decode(t, resp, &body)
			if resp.StatusCode != tt.status || body.Error.Code != tt.code {
				t.Errorf("status %d code %s (%s), want %d %s", resp.StatusCode, body.Error.Code, body.Error.Message, tt.status, tt.code)
			}
			if body.RequestID == "" {
				t.Error("error response lacks request id")
			}
		})
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v2/anything")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	resp, err = http.Get(ts.URL + "/v1/compose")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestRecoverer(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), Options{})
	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("recovered response = %d %s", rec.Code, rec.Body.String())
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
	errors   int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	h := &recordingHTTPHooks{}
	observability.SetHTTPHooks(h)
	defer observability.Reset()

	ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/v1/variations/nope"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}
	resp, err := http.Post(ts.URL+"/v1/compose", "application/toml", strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.statuses) != 3 || h.statuses[0] != 200 || h.statuses[1] != 404 || h.statuses[2] != 400 {
		t.Errorf("statuses = %v", h.statuses)
	}
	if h.errors != 1 {
		t.Errorf("errors = %d, want 1", h.errors)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
