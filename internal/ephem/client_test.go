package ephem

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-natal/internal/chart"
)

const sampleChart = `{
  "planets": [
    {"name": "Sun", "sign": "Aries", "degree": 15, "minute": 45, "longitude": 15.75, "house": 1},
    {"name": "Moon", "sign": "Taurus", "degree": 22, "minute": 18, "house": 2}
  ],
  "points": [
    {"name": "Ascendant", "sign": "Aries", "degree": 10, "minute": 30, "longitude": 10.5}
  ],
  "houses": [
    {"number": 1, "sign": "Aries", "longitude": 10.5}
  ],
  "aspects": [
    {"type": "conjunction", "planet1": "Sun", "planet2": "Mercury", "orb": 5.25}
  ]
}`

func TestClientGenerateChart(t *testing.T) {
	var gotReq ChartRequest
	var gotID, gotCT string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chart" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotID = r.Header.Get("X-Request-ID")
		gotCT = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, sampleChart)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL+"/"), WithTimeout(time.Second))
	req := ChartRequest{Date: "1990-06-15", Time: "14:30:00", Country: "USA", City: "New York"}
	p, err := c.GenerateChart(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateChart: %v", err)
	}

	if gotReq != req {
		t.Errorf("server saw %+v, want %+v", gotReq, req)
	}
	if gotID == "" {
		t.Error("X-Request-ID not set")
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q", gotCT)
	}

	var want chart.Payload
	if err := json.Unmarshal([]byte(sampleChart), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*p, want) {
		t.Errorf("payload = %+v, want %+v", *p, want)
	}
	if p.Planets[1].Longitude != nil {
		t.Error("absent longitude should stay nil")
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string // ServiceError detail, or "" for StatusError
		wantMsg    string
	}{
		{
			name:       "string detail",
			status:     http.StatusBadRequest,
			body:       `{"detail": "City not found"}`,
			wantDetail: "City not found",
			wantMsg:    "City not found",
		},
		{
			name:       "loc list",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail": [{"loc": ["body", "date"], "msg": "invalid"}]}`,
			wantDetail: "date: invalid",
			wantMsg:    "date: invalid",
		},
		{
			name:       "field list",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail": [{"field": "date", "message": "bad"}, {"field": "city", "message": "required"}]}`,
			wantDetail: "date: bad; city: required",
			wantMsg:    "date: bad; city: required",
		},
		{
			name:    "html body",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantMsg: "HTTP status 502",
		},
		{
			name:    "no detail",
			status:  http.StatusInternalServerError,
			body:    `{"error": "boom"}`,
			wantMsg: "HTTP status 500",
		},
		{
			name:    "empty body",
			status:  http.StatusServiceUnavailable,
			body:    ``,
			wantMsg: "HTTP status 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(WithBaseURL(srv.URL)).GenerateChart(context.Background(), ChartRequest{})
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}

			var se *ServiceError
			var st *StatusError
			switch {
			case tt.wantDetail != "":
				if !errors.As(err, &se) || se.Detail != tt.wantDetail || se.StatusCode != tt.status {
					t.Errorf("want ServiceError %q, got %#v", tt.wantDetail, err)
				}
			default:
				if !errors.As(err, &st) || st.StatusCode != tt.status {
					t.Errorf("want StatusError %d, got %#v", tt.status, err)
				}
			}
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(WithBaseURL(url)).GenerateChart(context.Background(), ChartRequest{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("want TransportError, got %#v", err)
	}
}

func TestClientBadSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "not json")
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).GenerateChart(context.Background(), ChartRequest{})
	var te *TransportError
	if !errors.As(err, &te) || te.Op != "decode chart" {
		t.Fatalf("want decode TransportError, got %#v", err)
	}
}

func TestClientHealth(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{"object", `{"status": "ok"}`, map[string]any{"status": "ok"}},
		{"empty", ``, map[string]any{}},
		{"string", `"ok"`, map[string]any{"body": "ok"}},
		{"array", `[]`, map[string]any{"body": []any{}}},
		{"bool", `true`, map[string]any{"body": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/health" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			h, err := NewClient(WithBaseURL(srv.URL)).Health(context.Background())
			if err != nil {
				t.Fatalf("Health: %v", err)
			}
			if !reflect.DeepEqual(h, tt.want) {
				t.Errorf("Health = %#v, want %#v", h, tt.want)
			}
		})
	}
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(0.001, 1))
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Health(ctx)
	var te *TransportError
	if !errors.As(err, &te) || !strings.Contains(te.Op, "rate limit") {
		t.Fatalf("want rate limit TransportError, got %v", err)
	}
}
