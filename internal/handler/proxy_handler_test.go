package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/handler"
)

type upstreamCall struct {
	method string
	path   string
	query  string
	token  string
	body   string
}

func newUpstream(t *testing.T) (*httptest.Server, *[]upstreamCall) {
	t.Helper()
	var calls []upstreamCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, upstreamCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			token:  r.Header.Get("access_token"),
			body:   string(body),
		})
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"cus_1"}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func proxyRouter(allowed ...string) http.Handler {
	return handler.NewRouter(handler.Dependencies{
		Proxy:  handler.NewProxyHandler(http.DefaultClient, allowed, zap.NewNop()),
		Logger: zap.NewNop(),
	})
}

func TestProxy_QueryTarget(t *testing.T) {
	upstream, calls := newUpstream(t)
	router := proxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodPost,
		"/api/proxy?url="+url.QueryEscape(upstream.URL+"/v3/customers?limit=1"),
		strings.NewReader(`{"name":"Ana"}`))
	req.Header.Set("access_token", "$aact_key")
	req.Header.Set("Cookie", "session=abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"cus_1"}`, rec.Body.String())

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/v3/customers", got.path)
	assert.Equal(t, "limit=1", got.query)
	assert.Equal(t, "$aact_key", got.token)
	assert.Equal(t, `{"name":"Ana"}`, got.body)
}

func TestProxy_Envelope(t *testing.T) {
	upstream, calls := newUpstream(t)
	router := proxyRouter(upstream.URL)

	envelope := `{"url":"` + upstream.URL + `/v3/payments/pay_1/refund","method":"post","data":{"value":10},"headers":{"access_token":"$aact_env"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(envelope))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/v3/payments/pay_1/refund", got.path)
	assert.Equal(t, "$aact_env", got.token)
	assert.JSONEq(t, `{"value":10}`, got.body)
}

func TestProxy_EnvelopeGetDropsBody(t *testing.T) {
	upstream, calls := newUpstream(t)
	router := proxyRouter(upstream.URL)

	envelope := `{"url":"` + upstream.URL + `/v3/payments/pay_1","method":"GET","data":{"ignored":true}}`
	req := httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(envelope))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodGet, (*calls)[0].method)
	assert.Empty(t, (*calls)[0].body)
}

func TestProxy_TargetHeader(t *testing.T) {
	upstream, calls := newUpstream(t)
	router := proxyRouter(upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/proxy?cpfCnpj=11122233344", nil)
	req.Header.Set("X-Target-URL", upstream.URL+"/v3/customers/")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/v3/customers", (*calls)[0].path)
	assert.Equal(t, "cpfCnpj=11122233344", (*calls)[0].query)
}

func TestProxy_Rejections(t *testing.T) {
	upstream, calls := newUpstream(t)
	router := proxyRouter(upstream.URL)

	tests := []struct {
		name   string
		target string
		body   string
		want   string
	}{
		{"no target", "/api/proxy", "", "target URL not specified"},
		{"host not allowed", "/api/proxy?url=" + url.QueryEscape("https://evil.example.com/v3/customers"), "", "target host not allowed"},
		{"bad scheme", "/api/proxy?url=" + url.QueryEscape("ftp://"+strings.TrimPrefix(upstream.URL, "http://")+"/x"), "", "unsupported target scheme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
	assert.Empty(t, *calls)
}

func TestProxy_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	target := upstream.URL
	upstream.Close()

	router := proxyRouter(target)
	req := httptest.NewRequest(http.MethodGet, "/api/proxy?url="+url.QueryEscape(target+"/v3/payments"), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Proxy Error")
}

func TestProxy_Options(t *testing.T) {
	router := proxyRouter("https://api.asaas.com")

	req := httptest.NewRequest(http.MethodOptions, "/api/proxy", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
