package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/famtree/internal/config"
	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

const treeJSON = `{
  "id": "ada", "name": "Ada Lovelace", "status": "linked",
  "parents": [{"id": "byron", "name": "Lord Byron"}, {"id": "annabella", "name": "Anne Isabella"}],
  "spouse": {"id": "william", "name": "William King"},
  "children": [{"id": "ralph", "name": "Ralph"}, {"id": "anne", "name": "Anne", "status": "invite_pending"}]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		HTTPAddr:     ":0",
		CacheTTL:     time.Hour,
		Preset:       connector.PresetDefault,
		MaxBodyBytes: 1 << 16,
	}
	runner := pipeline.NewRunner(c, cache.NewScopedKeyer(nil, "api:"), nil)
	ts := httptest.NewServer(New(runner, cfg, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q: %v", resp.Header.Get(RequestIDHeader), err)
	}
	var body struct {
		Status  string `json:"status"`
		Version struct {
			Version string `json:"version"`
		} `json:"version"`
	}
	decode(t, resp, &body)
	if body.Status != "ok" || body.Version.Version == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	ts := newTestServer(t)
	want := uuid.NewString()

	tests := []struct {
		name   string
		header string
		same   bool
	}{
		{"valid id kept", want, true},
		{"garbage replaced", "not-a-uuid", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
			req.Header.Set(RequestIDHeader, tt.header)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			got := resp.Header.Get(RequestIDHeader)
			if (got == tt.header) != tt.same {
				t.Errorf("X-Request-ID = %q (sent %q)", got, tt.header)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("X-Request-ID %q is not a uuid", got)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/presets")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Presets []string `json:"presets"`
		Default string   `json:"default"`
	}
	decode(t, resp, &body)
	if len(body.Presets) != 3 || body.Default != "default" {
		t.Errorf("body = %+v", body)
	}
}

func TestStyle(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/styles/compact")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Errorf("first X-Cache = %q", resp.Header.Get("X-Cache"))
	}
	var cfg connector.Config
	decode(t, resp, &cfg)
	if cfg != connector.Preset(connector.PresetCompact) {
		t.Errorf("compact style = %+v", cfg)
	}

	resp, _ = http.Get(ts.URL + "/v1/styles/compact")
	resp.Body.Close()
	if resp.Header.Get("X-Cache") != "hit" {
		t.Errorf("second X-Cache = %q", resp.Header.Get("X-Cache"))
	}

	resp = post(t, ts.URL+"/v1/styles/default", `{"trunk":{"color":"stroke-rose-500"}}`)
	decode(t, resp, &cfg)
	if cfg.Trunk.Color != "stroke-rose-500" {
		t.Errorf("override trunk color = %q", cfg.Trunk.Color)
	}
}

func TestStyleErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := http.Get(ts.URL + "/v1/styles/neon")
	var body map[string]string
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusBadRequest || body["code"] != "INVALID_STYLE" {
		t.Errorf("unknown preset: %d %v", resp.StatusCode, body)
	}

	resp = post(t, ts.URL+"/v1/styles/default", `{"glow":true}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown override key: status %d", resp.StatusCode)
	}
}

func TestRenderSVG(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/render?format=svg&preset=contrast", treeJSON)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id")
	}
	if len(resp.Header.Get("X-Tree-Hash")) != 64 {
		t.Errorf("X-Tree-Hash = %q", resp.Header.Get("X-Tree-Hash"))
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), `id="connectors"`) {
		t.Error("svg missing connector overlay")
	}

	again := post(t, ts.URL+"/v1/render?format=svg&preset=contrast", treeJSON)
	again.Body.Close()
	if again.Header.Get("X-Cache") != "hit" {
		t.Errorf("second render X-Cache = %q", again.Header.Get("X-Cache"))
	}
}

func TestRenderFormats(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		query string
		ct    string
	}{
		{"format=json", "application/json"},
		{"format=png&scale=1", "image/png"},
		{"format=dot&viz=nodelink", "text/vnd.graphviz"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render?"+tt.query, treeJSON)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.ct {
				t.Errorf("Content-Type = %q, want %q", ct, tt.ct)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"bad format", "format=pdf", treeJSON, 400, "INVALID_FORMAT"},
		{"bad preset", "preset=neon", treeJSON, 400, "INVALID_STYLE"},
		{"bad width", "width=wide", treeJSON, 400, "INVALID_INPUT"},
		{"bad json", "", "{", 400, "INVALID_TREE"},
		{"too large", "", `{"id":"a","name":"` + strings.Repeat("x", 1<<16) + `"}`, 400, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render?"+tt.query, tt.body)
			var body map[string]string
			decode(t, resp, &body)
			if resp.StatusCode != tt.status || body["code"] != tt.code {
				t.Errorf("got %d %v, want %d %s", resp.StatusCode, body, tt.status, tt.code)
			}
		})
	}
}

func TestRenderRepeatedMember(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/v1/render", `{"id":"a","name":"A","children":[{"id":"k","name":"K"},{"id":"k","name":"K"}]}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAddMember(t *testing.T) {
	ts := newTestServer(t)
	req := `{"tree":` + treeJSON + `,"payload":{"type":"manual","relation":"sibling","anchor_id":"ada","name":"Elizabeth Medora"}}`

	resp := post(t, ts.URL+"/v1/members", req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Tree   *family.Member `json:"tree"`
		Member *family.Member `json:"member"`
	}
	decode(t, resp, &body)
	if len(body.Tree.Siblings) != 1 || body.Tree.Siblings[0].Name != "Elizabeth Medora" {
		t.Errorf("siblings = %+v", body.Tree.Siblings)
	}
	if body.Member.Status != family.StatusManual || body.Member.ID == "" {
		t.Errorf("member = %+v", body.Member)
	}

	missing := `{"tree":` + treeJSON + `,"payload":{"type":"manual","relation":"child","anchor_id":"nobody","name":"X"}}`
	resp = post(t, ts.URL+"/v1/members", missing)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown anchor status = %d", resp.StatusCode)
	}
}

type routeHooks struct {
	observability.NoopServerHooks
	routes chan string
}

func (h routeHooks) OnResponse(_ context.Context, method, route string, _ int, _ time.Duration) {
	h.routes <- method + " " + route
}

func TestServerHooksSeeRoutePattern(t *testing.T) {
	h := routeHooks{routes: make(chan string, 1)}
	observability.SetServerHooks(h)
	defer observability.Reset()

	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/styles/compact")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := <-h.routes; got != "GET /v1/styles/{preset}" {
		t.Errorf("route = %q", got)
	}
}
