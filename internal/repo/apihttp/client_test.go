package apihttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token() string { return s.token }

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	for _, badURL := range []string{"", "   ", "not a url", "localhost:8000"} {
		if _, err := NewClient(badURL, time.Second); err == nil {
			t.Errorf("expected error for base url %q", badURL)
		}
	}
}

func TestDoJSONAttachesBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	client.SetTokenSource(staticTokens{token: "tok1"})

	if err := client.DoJSON(context.Background(), http.MethodGet, "/auth/me", nil, nil, true); err != nil {
		t.Fatalf("do json: %v", err)
	}
	if gotAuth != "Bearer tok1" {
		t.Fatalf("authorization header = %q, want %q", gotAuth, "Bearer tok1")
	}
}

func TestDoJSONSkipsTokenWhenUnauthenticatedCall(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	client.SetTokenSource(staticTokens{token: "tok1"})

	if err := client.DoJSON(context.Background(), http.MethodPost, "/auth/login", nil, nil, false); err != nil {
		t.Fatalf("do json: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("login must not carry a token, got %q", gotAuth)
	}
}

func TestDoJSONPrefixesAPIPath(t *testing.T) {
	t.Parallel()

	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))

	if err := client.DoJSON(context.Background(), http.MethodGet, "roles/", nil, nil, false); err != nil {
		t.Fatalf("do json: %v", err)
	}
	if gotPath != "/api/v1/roles/" {
		t.Fatalf("path = %q, want /api/v1/roles/", gotPath)
	}
}

func TestClassifyErrorKinds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		statusCode int
		body       string
		withToken  bool
		wantKind   ErrorKind
		wantDetail string
	}{
		{
			name:       "401 with token is an expired session",
			statusCode: http.StatusUnauthorized,
			body:       `{"detail":"Could not validate credentials"}`,
			withToken:  true,
			wantKind:   KindSessionExpired,
			wantDetail: "Could not validate credentials",
		},
		{
			name:       "403 with token is an expired session",
			statusCode: http.StatusForbidden,
			body:       `{"detail":"Not enough permissions"}`,
			withToken:  true,
			wantKind:   KindSessionExpired,
			wantDetail: "Not enough permissions",
		},
		{
			name:       "401 without token is rejected credentials",
			statusCode: http.StatusUnauthorized,
			body:       `{"detail":"Incorrect email or password"}`,
			withToken:  false,
			wantKind:   KindInvalidCredentials,
			wantDetail: "Incorrect email or password",
		},
		{
			name:       "400 carries the detail verbatim",
			statusCode: http.StatusBadRequest,
			body:       `{"detail":"Email already registered"}`,
			withToken:  true,
			wantKind:   KindValidation,
			wantDetail: "Email already registered",
		},
		{
			name:       "500 is a server error",
			statusCode: http.StatusInternalServerError,
			body:       `{"detail":"Internal Server Error"}`,
			withToken:  true,
			wantKind:   KindServer,
			wantDetail: "Internal Server Error",
		},
		{
			name:       "empty body falls back to status text",
			statusCode: http.StatusNotFound,
			body:       "",
			withToken:  true,
			wantKind:   KindValidation,
			wantDetail: "Not Found",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte(tc.body))
			}))
			if tc.withToken {
				client.SetTokenSource(staticTokens{token: "tok1"})
			}

			err := client.DoJSON(context.Background(), http.MethodGet, "/users/", nil, nil, tc.withToken)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !IsKind(err, tc.wantKind) {
				t.Fatalf("kind mismatch: got %v, want %s", err, tc.wantKind)
			}
			if got := ErrorDetail(err); got != tc.wantDetail {
				t.Fatalf("detail = %q, want %q", got, tc.wantDetail)
			}

			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected *RequestError, got %T", err)
			}
			if reqErr.StatusCode != tc.statusCode {
				t.Fatalf("status = %d, want %d", reqErr.StatusCode, tc.statusCode)
			}
		})
	}
}

func TestValidationListDetail(t *testing.T) {
	t.Parallel()

	body := `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address","type":"value_error"},{"loc":["body","password"],"msg":"ensure this value has at least 8 characters","type":"value_error"}]}`
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(body))
	}))

	err := client.DoJSON(context.Background(), http.MethodPost, "/auth/register", nil, nil, false)
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	fields := FieldErrors(err)
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %+v", len(fields), fields)
	}
	if fields[0].Field != "email" || fields[0].Message != "value is not a valid email address" {
		t.Fatalf("unexpected first field error: %+v", fields[0])
	}
	if fields[1].Field != "password" {
		t.Fatalf("unexpected second field error: %+v", fields[1])
	}
}

func TestSessionInvalidHookFiresOnlyForAuthenticatedCalls(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	client.SetTokenSource(staticTokens{token: "tok1"})

	fired := 0
	client.OnSessionInvalid(func() { fired++ })

	_ = client.DoJSON(context.Background(), http.MethodGet, "/stats/dashboard", nil, nil, true)
	if fired != 1 {
		t.Fatalf("hook fired %d times for an authenticated 401, want 1", fired)
	}

	// A rejected login does not tear down anything.
	_ = client.DoJSON(context.Background(), http.MethodPost, "/auth/login", nil, nil, false)
	if fired != 1 {
		t.Fatalf("hook fired on an unauthenticated 401, count now %d", fired)
	}
}

func TestDoJSONNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	server.Close()

	err = client.DoJSON(context.Background(), http.MethodGet, "/users/", nil, nil, false)
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestDoJSONDecodesResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":42}`))
	}))

	var out struct {
		Value int `json:"value"`
	}
	if err := client.DoJSON(context.Background(), http.MethodGet, "/stats/dashboard", nil, &out, false); err != nil {
		t.Fatalf("do json: %v", err)
	}
	if out.Value != 42 {
		t.Fatalf("value = %d, want 42", out.Value)
	}
}
