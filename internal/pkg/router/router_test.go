package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/phoneotp/internal/pkg/config"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type created struct {
	Phone string `json:"phone"`
}

func (created) StatusCode() int { return http.StatusCreated }
func (created) Message() string { return "created" }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()
	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("NewViperFromBytes: %v", err)
	}
	return NewRouter(Config{Config: cfg, UUID: fixedID("cid-1")})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, "app: {}")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRouter_SuccessEnvelope(t *testing.T) {
	r := newTestRouter(t, "app: {}")
	r.POST("/things", func(req *Request) (any, error) {
		var in struct {
			Phone string `json:"phone"`
		}
		if err := req.DecodeBody(&in); err != nil {
			return nil, err
		}
		return created{Phone: in.Phone}, nil
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(`{"phone":"9876543210"}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if got := rec.Header().Get(HeaderCorrelationID); got != "cid-1" {
		t.Errorf("correlation header = %q", got)
	}
	body := decode(t, rec)
	if body["message"] != "created" {
		t.Errorf("message = %v", body["message"])
	}
	if data, _ := body["data"].(map[string]any); data["phone"] != "9876543210" {
		t.Errorf("data = %v", body["data"])
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	r := newTestRouter(t, "app: {}")
	r.POST("/strict", func(req *Request) (any, error) {
		var in struct{}
		return nil, req.DecodeBody(&in)
	})
	r.GET("/gone", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("expired", goerror.CodeGone)
	})
	r.GET("/raw", func(*Request) (any, error) {
		return nil, errors.New("boom")
	})
	r.GET("/fields", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(nil, "code", "must be 6 digits")
	})

	tests := []struct {
		method, path, body string
		wantStatus         int
	}{
		{http.MethodPost, "/strict", `{"unknown":1}`, http.StatusBadRequest},
		{http.MethodPost, "/strict", `{}{}`, http.StatusBadRequest},
		{http.MethodGet, "/gone", "", http.StatusGone},
		{http.MethodGet, "/raw", "", http.StatusInternalServerError},
		{http.MethodGet, "/fields", "", http.StatusUnprocessableEntity},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
		{http.MethodDelete, "/gone", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouter_NoContent(t *testing.T) {
	r := newTestRouter(t, "app: {}")
	r.POST("/revoke", func(*Request) (any, error) { return nil, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/revoke", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestRouter_RecoversPanic(t *testing.T) {
	r := newTestRouter(t, "app: {}")
	r.GET("/panic", func(*Request) (any, error) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRouter_Maintenance(t *testing.T) {
	r := newTestRouter(t, "app:\n  maintenance:\n    endpoints: /api/v1/down,/api/v1/other\n")
	r.GET("/api/v1/down", func(*Request) (any, error) { return map[string]string{}, nil })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/down", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRouter_KeepsIncomingCorrelationID(t *testing.T) {
	r := newTestRouter(t, "app: {}")
	r.GET("/x", func(*Request) (any, error) { return map[string]string{}, nil })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "  upstream-7 ")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderCorrelationID); got != "upstream-7" {
		t.Errorf("correlation header = %q, want upstream-7", got)
	}
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")

	if got := realIP(req); got != "203.0.113.9" {
		t.Errorf("realIP = %q", got)
	}

	req.Header.Del("X-Forwarded-For")
	if got := realIP(req); got != "10.0.0.1" {
		t.Errorf("realIP fallback = %q", got)
	}
}
