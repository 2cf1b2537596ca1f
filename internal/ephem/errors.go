package ephem

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ServiceError is a structured rejection from the chart service. Detail
// is ready to show to the user.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	return e.Detail
}

// StatusError is a non-2xx response without a usable detail.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP status %d", e.StatusCode)
}

// TransportError wraps network and decode failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// detailItem covers both list shapes the service has used:
// {loc: [...], msg} and {field, message}.
type detailItem struct {
	Loc     []any  `json:"loc"`
	Msg     string `json:"msg"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// decodeErrorBody turns a non-2xx body into an error. Anything that is not
// a recognisable detail payload becomes a StatusError.
func decodeErrorBody(status int, body []byte) error {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return &StatusError{StatusCode: status}
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return &StatusError{StatusCode: status}
		}
		return &ServiceError{StatusCode: status, Detail: s}
	}

	var items []detailItem
	if err := json.Unmarshal(envelope.Detail, &items); err != nil || len(items) == 0 {
		return &StatusError{StatusCode: status}
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		field := it.Field
		if field == "" {
			field = locField(it.Loc)
		}
		msg := it.Message
		if msg == "" {
			msg = it.Msg
		}
		switch {
		case field != "" && msg != "":
			parts = append(parts, field+": "+msg)
		case msg != "":
			parts = append(parts, msg)
		case field != "":
			parts = append(parts, field)
		}
	}
	if len(parts) == 0 {
		return &StatusError{StatusCode: status}
	}
	return &ServiceError{StatusCode: status, Detail: strings.Join(parts, "; ")}
}

// locField renders a validation location, dropping the leading "body".
func locField(loc []any) string {
	var parts []string
	for i, p := range loc {
		s := fmt.Sprint(p)
		if i == 0 && s == "body" && len(loc) > 1 {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}
