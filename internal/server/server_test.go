package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-postgen/internal/metrics"
	"github.com/goliatone/go-postgen/pkg/client"
	"github.com/goliatone/go-postgen/pkg/content"
	"github.com/goliatone/go-postgen/pkg/orchestrator"
	"github.com/goliatone/go-postgen/pkg/render"
)

type stubGenerator struct {
	mu       sync.Mutex
	requests []content.Request
	resp     content.Response
	err      error
}

func (s *stubGenerator) Generate(_ context.Context, req content.Request) (content.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.resp, s.err
}

func (s *stubGenerator) calls() []content.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]content.Request(nil), s.requests...)
}

type stubHealth struct {
	health content.Health
	err    error
}

func (s stubHealth) Health(context.Context) (content.Health, error) {
	return s.health, s.err
}

func newTestServer(t *testing.T, gen client.Generator, options ...Option) *Server {
	t.Helper()
	srv, err := New(Config{Mode: gin.TestMode}, orchestrator.New(), gen, options...)
	require.NoError(t, err)
	return srv
}

func postForm(t *testing.T, srv *Server, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_IndexRendersIdlePage(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(client.RequestIDHeader))
	body := rec.Body.String()
	assert.Contains(t, body, "AI Social Media Generator")
	assert.Contains(t, body, render.IdleMessage)
	assert.Contains(t, body, `<option value="`+string(content.ToneFun)+`" selected>`)
}

func TestServer_SubmitSuccess(t *testing.T) {
	gen := &stubGenerator{resp: content.Response{
		Success:     true,
		Content:     "Fresh bread daily #bakery",
		ImagePrompt: "warm loaves",
		Metadata:    &content.Metadata{ProcessingTime: "1.5s", ModelType: "cloud"},
	}}
	m := metrics.New("")
	srv := newTestServer(t, gen, WithMetrics(m))

	rec := postForm(t, srv, url.Values{
		content.FieldDescription: {"Bakery launch"},
		content.FieldTone:        {string(content.ToneProfessional)},
		content.FieldStyle:       {string(content.StyleLongForm)},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	want := []content.Request{{
		UserInstruction: "Bakery launch",
		Tone:            string(content.ToneProfessional),
		Style:           string(content.StyleLongForm),
	}}
	assert.Equal(t, want, gen.calls())

	body := rec.Body.String()
	assert.Contains(t, body, "Fresh bread daily #bakery")
	assert.Contains(t, body, "warm loaves")
	assert.Contains(t, body, "Time: 1.5s")
	assert.Contains(t, body, ">Bakery launch</textarea>")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues("success")))
}

func TestServer_SubmitUpstreamError(t *testing.T) {
	gen := &stubGenerator{err: &client.APIError{StatusCode: 400, Detail: "bad input"}}
	srv := newTestServer(t, gen)

	rec := postForm(t, srv, url.Values{content.FieldDescription: {"x"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-panel="error" role="alert">bad input</div>`)
}

func TestServer_SubmitNetworkErrorUsesFallback(t *testing.T) {
	gen := &stubGenerator{err: &client.NetworkError{Err: errors.New("refused")}}
	srv := newTestServer(t, gen)

	rec := postForm(t, srv, url.Values{content.FieldDescription: {"x"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), client.FallbackMessage)
}

func TestServer_SubmitMissingDescription(t *testing.T) {
	gen := &stubGenerator{}
	srv := newTestServer(t, gen)

	rec := postForm(t, srv, url.Values{content.FieldDescription: {""}})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gen.calls())
	body := rec.Body.String()
	assert.Contains(t, body, `data-panel="error" role="alert">`+DescriptionRequiredMessage)
	assert.Contains(t, body, `<p class="postgen-field-error" role="alert">`+DescriptionRequiredMessage+`</p>`)
}

func TestServer_SubmitWhitespaceDescriptionIsSent(t *testing.T) {
	gen := &stubGenerator{resp: content.Response{Success: true, Content: "ok"}}
	srv := newTestServer(t, gen)

	rec := postForm(t, srv, url.Values{content.FieldDescription: {"   "}})

	require.Equal(t, http.StatusOK, rec.Code)
	calls := gen.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "   ", calls[0].UserInstruction)
}

func TestServer_SubmitUnbindableBody(t *testing.T) {
	gen := &stubGenerator{}
	srv := newTestServer(t, gen)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not a multipart body"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=postgen")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gen.calls())
	body := rec.Body.String()
	assert.Contains(t, body, `data-panel="error" role="alert">`+InvalidSubmissionMessage)
	assert.Contains(t, body, `<p class="postgen-form-error" role="alert">`+InvalidSubmissionMessage+`</p>`)
}

func TestServer_SubmitUnknownTone(t *testing.T) {
	gen := &stubGenerator{}
	srv := newTestServer(t, gen)

	rec := postForm(t, srv, url.Values{
		content.FieldDescription: {"x"},
		content.FieldTone:        {"Sarcastic"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gen.calls())
	assert.Contains(t, rec.Body.String(), "Choose a valid tone")
}

func TestServer_Healthz(t *testing.T) {
	cases := map[string]struct {
		checker  HealthChecker
		upstream string
	}{
		"no checker": {},
		"healthy":    {checker: stubHealth{health: content.Health{Status: "healthy"}}, upstream: "healthy"},
		"down":       {checker: stubHealth{err: errors.New("refused")}, upstream: "unavailable"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var options []Option
			if tc.checker != nil {
				options = append(options, WithHealthChecker(tc.checker))
			}
			srv := newTestServer(t, &stubGenerator{}, options...)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var payload struct {
				Status   string `json:"status"`
				Upstream *struct {
					Status string `json:"status"`
				} `json:"upstream"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, "ok", payload.Status)
			if tc.upstream == "" {
				assert.Nil(t, payload.Upstream)
				return
			}
			require.NotNil(t, payload.Upstream)
			assert.Equal(t, tc.upstream, payload.Upstream.Status)
			assert.NotContains(t, rec.Body.String(), "refused")
		})
	}
}

func TestServer_MetricsAndAssets(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{}, WithMetrics(metrics.New("")))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `postgen_http_requests_total{method="GET",path="/",status="200"} 1`)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/postgen.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "--brand-start")
}

func TestNew_Validates(t *testing.T) {
	_, err := New(Config{}, nil, &stubGenerator{})
	assert.Error(t, err)
	_, err = New(Config{}, orchestrator.New(), nil)
	assert.Error(t, err)
	_, err = New(Config{Mode: gin.TestMode}, orchestrator.New(), &stubGenerator{}, WithDocument(nil, "missingOperation"))
	assert.Error(t, err)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv, err := New(Config{Address: "127.0.0.1:0", Mode: gin.TestMode}, orchestrator.New(), &stubGenerator{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
