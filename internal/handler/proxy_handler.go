package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

// maxRelayBytes bounds relayed request and response bodies.
const maxRelayBytes = 4 << 20

// Request headers never forwarded upstream.
var droppedRelayHeaders = map[string]bool{
	"Host":            true,
	"Content-Length":  true,
	"X-Target-Url":    true,
	"Origin":          true,
	"Referer":         true,
	"Cookie":          true,
	"Accept-Encoding": true,
	"Connection":      true,
}

// ProxyHandler relays browser calls to the payment gateway. The target comes
// from ?url=, from a POST envelope {url, method, data, headers} or from the
// X-Target-URL header, and must live on one of the allowed hosts.
type ProxyHandler struct {
	client  *http.Client
	allowed map[string]bool
	logger  *zap.Logger
}

// NewProxyHandler creates the relay. allowedBaseURLs are the gateway base
// URLs whose hosts may be targeted.
func NewProxyHandler(client *http.Client, allowedBaseURLs []string, logger *zap.Logger) *ProxyHandler {
	allowed := make(map[string]bool, len(allowedBaseURLs))
	for _, raw := range allowedBaseURLs {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			allowed[strings.ToLower(u.Host)] = true
		}
	}
	return &ProxyHandler{client: client, allowed: allowed, logger: logger}
}

// relayRequest is one resolved upstream call.
type relayRequest struct {
	target  string
	method  string
	body    []byte
	headers http.Header
}

func (p *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "ANY /api/proxy")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	rr, err := p.resolve(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := p.checkTarget(rr.target); err != nil {
		p.logger.Warn("proxy: target rejected", zap.String("target", rr.target), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body io.Reader
	if len(rr.body) > 0 && carriesBody(rr.method) {
		body = bytes.NewReader(rr.body)
	}
	req, err := http.NewRequestWithContext(ctx, rr.method, rr.target, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target request")
		return
	}
	req.Header = rr.headers

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("proxy: upstream failed",
			zap.String("method", rr.method),
			zap.String("target", rr.target),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "Proxy Error: "+err.Error())
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, io.LimitReader(resp.Body, maxRelayBytes)); err != nil {
		p.logger.Warn("proxy: response copy interrupted", zap.Error(err))
	}
}

// resolve reads the target, method, body and headers from whichever shape
// the caller used.
func (p *ProxyHandler) resolve(r *http.Request) (*relayRequest, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRelayBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	rr := &relayRequest{
		method:  r.Method,
		body:    raw,
		headers: forwardHeaders(r.Header),
	}

	if target := r.URL.Query().Get("url"); target != "" {
		rr.target = target
		return rr, nil
	}

	var env domain.ProxyEnvelope
	if len(raw) > 0 && json.Unmarshal(raw, &env) == nil && env.URL != "" {
		rr.target = env.URL
		if env.Method != "" {
			rr.method = strings.ToUpper(env.Method)
		}
		rr.body = nil
		if len(env.Data) > 0 && string(env.Data) != "null" {
			rr.body = env.Data
		}
		for k, v := range env.Headers {
			rr.headers[k] = []string{v}
		}
		return rr, nil
	}

	if base := r.Header.Get("X-Target-URL"); base != "" {
		rr.target = strings.TrimRight(base, "/")
		if r.URL.RawQuery != "" {
			rr.target += "?" + r.URL.RawQuery
		}
		return rr, nil
	}

	return nil, errors.New("target URL not specified")
}

func (p *ProxyHandler) checkTarget(target string) error {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return errors.New("invalid target URL")
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("unsupported target scheme %q", u.Scheme)
	}
	if !p.allowed[strings.ToLower(u.Host)] {
		return fmt.Errorf("target host not allowed: %s", u.Host)
	}
	return nil
}

// forwardHeaders copies the caller's headers minus the ones tied to this
// hop. Keys are copied verbatim so non-canonical names like access_token
// survive.
func forwardHeaders(in http.Header) http.Header {
	out := make(http.Header, len(in))
	for k, v := range in {
		if droppedRelayHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
