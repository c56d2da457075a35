package apihttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	// KindInvalidCredentials: login rejected, user-correctable.
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	// KindSessionExpired: an authenticated call returned 401/403.
	KindSessionExpired ErrorKind = "session_expired"
	// KindNetwork: transport failure, retryable.
	KindNetwork ErrorKind = "network"
	// KindValidation: 4xx carrying a field-level detail payload.
	KindValidation ErrorKind = "validation"
	// KindServer: 5xx or a malformed response.
	KindServer ErrorKind = "server"
)

type FieldDetail struct {
	Field   string
	Message string
}

type RequestError struct {
	Op         string
	Kind       ErrorKind
	StatusCode int
	Detail     string
	Fields     []FieldDetail
	Err        error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Err != nil && e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d", e.Op, e.StatusCode)
	default:
		return e.Op
	}
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsKind(err error, kind ErrorKind) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind == kind
	}
	return false
}

// ErrorDetail returns the backend detail payload verbatim, or "" when the
// error carries none.
func ErrorDetail(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Detail
	}
	return ""
}

func FieldErrors(err error) []FieldDetail {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Fields
	}
	return nil
}

// parseErrorDetail understands both backend error shapes: a plain
// {"detail": "message"} and the validation form where detail is a list of
// {loc, msg, type} entries.
func parseErrorDetail(body []byte) (string, []FieldDetail) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", nil
	}

	var plain struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &plain); err == nil && plain.Detail != "" {
		return plain.Detail, nil
	}

	var listed struct {
		Detail []struct {
			Loc []json.RawMessage `json:"loc"`
			Msg string            `json:"msg"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &listed); err == nil && len(listed.Detail) > 0 {
		fields := make([]FieldDetail, 0, len(listed.Detail))
		messages := make([]string, 0, len(listed.Detail))
		for _, entry := range listed.Detail {
			field := lastLocString(entry.Loc)
			fields = append(fields, FieldDetail{Field: field, Message: entry.Msg})
			if field != "" {
				messages = append(messages, field+": "+entry.Msg)
			} else {
				messages = append(messages, entry.Msg)
			}
		}
		return strings.Join(messages, "; "), fields
	}

	return trimmed, nil
}

func lastLocString(loc []json.RawMessage) string {
	for i := len(loc) - 1; i >= 0; i-- {
		var s string
		if err := json.Unmarshal(loc[i], &s); err == nil && s != "body" {
			return s
		}
	}
	return ""
}
