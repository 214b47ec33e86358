package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/chomsky"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	handler, err := NewHandler(chomsky.New(), opts...)
	require.NoError(t, err)
	return handler
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotNil(t, doc.Paths.Find("/convert"))
}

func TestConvertAndFetch(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/convert", ConvertRequest{Grammar: "S -> aS | b"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var conv domain.Conversion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))
	assert.Equal(t, domain.Symbol("S0"), conv.Start)
	assert.Equal(t, "S0 → T_a S | b\nS → T_a S | b\nT_a → a", conv.CNF)
	assert.Len(t, conv.Steps, 7)

	w = get(h, "/conversions/"+conv.ID)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched domain.Conversion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, conv.CNF, fetched.CNF)

	w = get(h, "/conversions/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConvert_Start(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/convert", ConvertRequest{Grammar: "S -> a B\nB -> b B | b", Start: "B"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var conv domain.Conversion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))
	assert.Equal(t, "S0 → T_b B | b\nB → T_b B | b\nT_b → b", conv.CNF)

	w = post(t, h, "/convert", ConvertRequest{Grammar: "S -> a", Start: "Q"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConvert_TooManyNullable(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/convert", ConvertRequest{Grammar: "S -> AAAAAAAAAAAAAAAAAAAAAAAAAA\nA -> a | ε"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), domain.ErrGrammarTooLarge.Error())
}

func TestConvert_BadInput(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body any
	}{
		{"malformed rule", ConvertRequest{Grammar: "S a b"}},
		{"blank grammar", ConvertRequest{Grammar: "   "}},
		{"missing grammar", map[string]string{}},
		{"empty grammar field", ConvertRequest{Grammar: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, "/convert", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGenerate(t *testing.T) {
	h := newTestHandler(t, WithDefaults(3, 10))

	w := post(t, h, "/generate", GenerateRequest{Grammar: "S -> aS | b"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"b", "ab", "aab"}, resp.Words)
	assert.Equal(t, 3, resp.Count)

	w = post(t, h, "/generate", GenerateRequest{Grammar: "S -> aS | b", MaxLength: 5, MaxWords: 2})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"b", "ab"}, resp.Words)

	w = post(t, h, "/generate", GenerateRequest{Grammar: "S -> a", Start: "Q"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, h, "/generate", map[string]any{"grammar": "S -> a", "max_length": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_Limits(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"at limits", map[string]any{"grammar": "S -> aS | b", "max_length": 10, "max_words": 50}, http.StatusOK},
		{"length over limit", map[string]any{"grammar": "S -> aS | b", "max_length": 11}, http.StatusBadRequest},
		{"words over limit", map[string]any{"grammar": "S -> aS | b", "max_words": 51}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, "/generate", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestGenerate_CustomLimits(t *testing.T) {
	h := newTestHandler(t, WithDefaults(2, 5), WithLimits(3, 5))

	w := post(t, h, "/generate", GenerateRequest{Grammar: "S -> aS | b", MaxLength: 3})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = post(t, h, "/generate", GenerateRequest{Grammar: "S -> aS | b", MaxLength: 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err := NewHandler(chomsky.New(), WithDefaults(4, 10), WithLimits(3, 50))
	assert.Error(t, err)
}

func TestApplyLimits(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, applyLimits(doc, 7, 9))

	props := doc.Components.Schemas["GenerateRequest"].Value.Properties
	assert.Equal(t, 7.0, *props["max_length"].Value.Max)
	assert.Equal(t, 9.0, *props["max_words"].Value.Max)
}

func TestCheck(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/check", CheckRequest{Grammar: "S -> A B\nA -> a\nB -> b"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp CheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Strict)
	assert.Empty(t, resp.Violations)

	w = post(t, h, "/check", CheckRequest{Grammar: "S -> a B\nB -> b"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Strict)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, domain.Symbol("S"), resp.Violations[0].Nonterminal)
}

func TestInfoHealthOpenAPI(t *testing.T) {
	h := newTestHandler(t)

	w := get(h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = get(h, "/info")
	assert.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "chomsky-http", info["app"])
	assert.Equal(t, strings.TrimSpace(chomsky.Version), info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = get(h, "/openapi.yaml")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestGetInfo_UsesLoadedDocument(t *testing.T) {
	s := &Server{apiVersion: "9.9.9"}

	w := httptest.NewRecorder()
	s.GetInfo(w, httptest.NewRequest(http.MethodGet, "/info", nil))

	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "9.9.9", info["api_version"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	handler, err := NewHandler(
		chomsky.New(chomsky.WithMetrics(metrics)),
		WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	require.NoError(t, err)

	w := post(t, handler, "/convert", ConvertRequest{Grammar: "S -> a"})
	require.Equal(t, http.StatusOK, w.Code)

	w = get(handler, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `chomsky_conversions_total{result="ok"} 1`)
	assert.Contains(t, w.Body.String(), "chomsky_stage_runs_total")
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/convert", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
