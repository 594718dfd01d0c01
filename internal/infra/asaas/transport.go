package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

// Strategy is how a request reaches the gateway.
//
//	Direct                       proxy disabled; terminal
//	ProxyQuery --404/405/501-->  ProxyEnvelope; any other outcome is terminal
//	ProxyEnvelope                terminal
type Strategy int

const (
	StrategyDirect Strategy = iota
	StrategyProxyQuery
	StrategyProxyEnvelope
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyProxyQuery:
		return "proxy_query"
	case StrategyProxyEnvelope:
		return "proxy_envelope"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// initialStrategy picks the first strategy for a call.
func initialStrategy(useProxy bool) Strategy {
	if useProxy {
		return StrategyProxyQuery
	}
	return StrategyDirect
}

// nextStrategy returns the strategy to try after s answered with status, and
// false when the outcome is terminal.
func nextStrategy(s Strategy, status int) (Strategy, bool) {
	if s == StrategyProxyQuery && notFoundClass(status) {
		return StrategyProxyEnvelope, true
	}
	return s, false
}

// notFoundClass reports the statuses a relay answers when it does not
// understand the query shape.
func notFoundClass(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	}
	return false
}

// newRequest builds the HTTP request for one strategy. target is the full
// gateway URL; payload is the JSON body or nil.
func (c *Client) newRequest(ctx context.Context, s Strategy, method, target, apiKey string, payload []byte) (*http.Request, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"access_token": apiKey,
	}

	var (
		reqURL    = target
		reqMethod = method
		body      []byte
	)

	switch s {
	case StrategyDirect:
		body = payload
	case StrategyProxyQuery:
		reqURL = c.opts.ProxyURL + "?url=" + url.QueryEscape(target)
		body = payload
	case StrategyProxyEnvelope:
		env := domain.ProxyEnvelope{
			URL:     target,
			Method:  method,
			Headers: headers,
		}
		if len(payload) > 0 {
			env.Data = json.RawMessage(payload)
		}
		raw, err := json.Marshal(env)
		if err != nil {
			return nil, err
		}
		reqURL = c.opts.ProxyURL
		reqMethod = http.MethodPost
		body = raw
	default:
		return nil, fmt.Errorf("unknown transport strategy %s", s)
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, reqMethod, reqURL, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, reqMethod, reqURL, nil)
	}
	if err != nil {
		return nil, err
	}

	if s == StrategyProxyEnvelope {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}
