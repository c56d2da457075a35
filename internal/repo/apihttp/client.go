// Package apihttp talks to the CRM administration REST API. All requests
// funnel through Client.DoJSON, which attaches the bearer token, maps
// non-2xx responses to typed errors and reports an invalidated session to
// the owner of the token.
package apihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiPrefix       = "/api/v1"
	maxResponseSize = 2 * 1024 * 1024
)

// TokenSource hands out the current bearer token, or an empty string when
// no session is active. The session manager implements it.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	tokens           TokenSource
	onSessionInvalid func()
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, &RequestError{
			Op:   "create api client",
			Kind: KindServer,
			Err:  errors.New("api base url is empty"),
		}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, &RequestError{
			Op:   "parse api base url",
			Kind: KindServer,
			Err:  err,
		}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &RequestError{
			Op:   "validate api base url",
			Kind: KindServer,
			Err:  fmt.Errorf("invalid api base url: %s", trimmed),
		}
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(trimmed, "/") + apiPrefix,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// SetTokenSource wires the session manager in after construction; the
// manager needs the auth repo (and therefore this client) to exist first.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// OnSessionInvalid registers the hook fired when any authenticated request
// comes back 401 or 403. The hook must be idempotent; it runs on the
// calling goroutine.
func (c *Client) OnSessionInvalid(fn func()) {
	c.onSessionInvalid = fn
}

// DoJSON performs one round-trip. A nil requestBody sends no payload, a nil
// responseBody discards the response. withAuth controls whether the bearer
// token is attached; callers must gate on the session state first, the
// client never silently sends an unauthenticated request.
func (c *Client) DoJSON(ctx context.Context, method, path string, requestBody, responseBody any, withAuth bool) error {
	if c == nil || c.httpClient == nil {
		return &RequestError{
			Op:   "do json request",
			Kind: KindServer,
			Err:  errors.New("api client is not initialized"),
		}
	}

	var payload []byte
	if requestBody != nil {
		raw, err := json.Marshal(requestBody)
		if err != nil {
			return &RequestError{
				Op:   "marshal request body",
				Kind: KindServer,
				Err:  err,
			}
		}
		payload = raw
	}

	statusCode, responseBytes, err := c.do(ctx, method, path, payload, withAuth)
	if err != nil {
		return err
	}
	if responseBody == nil || len(responseBytes) == 0 {
		return nil
	}

	if err := json.Unmarshal(responseBytes, responseBody); err != nil {
		return &RequestError{
			Op:         "decode http response",
			Kind:       KindServer,
			StatusCode: statusCode,
			Err:        err,
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, withAuth bool) (int, []byte, error) {
	if strings.TrimSpace(method) == "" {
		method = http.MethodGet
	}

	fullURL := c.baseURL + ensureLeadingSlash(path)

	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return 0, nil, &RequestError{
			Op:   "create http request",
			Kind: KindServer,
			Err:  err,
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	tokenAttached := false
	if withAuth && c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			tokenAttached = true
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &RequestError{
			Op:   "execute http request",
			Kind: KindNetwork,
			Err:  err,
		}
	}
	defer resp.Body.Close()

	responseBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if readErr != nil {
		return resp.StatusCode, nil, &RequestError{
			Op:         "read http response",
			Kind:       KindNetwork,
			StatusCode: resp.StatusCode,
			Err:        readErr,
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, responseBytes, nil
	}

	reqErr := c.classify(resp.StatusCode, responseBytes, tokenAttached)
	if reqErr.Kind == KindSessionExpired && c.onSessionInvalid != nil {
		// A revoked or expired token must not linger client-side.
		c.onSessionInvalid()
	}
	return resp.StatusCode, responseBytes, reqErr
}

// classify maps a non-2xx response to the error taxonomy. A 401/403 on an
// authenticated call means the session is gone; the same statuses on an
// unauthenticated call (login) mean the credentials were rejected.
func (c *Client) classify(statusCode int, body []byte, tokenAttached bool) *RequestError {
	detail, fields := parseErrorDetail(body)
	message := detail
	if message == "" {
		message = http.StatusText(statusCode)
	}

	kind := KindServer
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		if tokenAttached {
			kind = KindSessionExpired
		} else {
			kind = KindInvalidCredentials
		}
	case statusCode >= 400 && statusCode < 500:
		kind = KindValidation
	}

	return &RequestError{
		Op:         "unexpected http status",
		Kind:       kind,
		StatusCode: statusCode,
		Detail:     message,
		Fields:     fields,
		Err:        errors.New(message),
	}
}

func ensureLeadingSlash(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "/"
	}
	if strings.HasPrefix(trimmed, "/") {
		return trimmed
	}
	return "/" + trimmed
}
