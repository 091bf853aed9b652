package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerKeyAccepts(t *testing.T) {
	mw := BearerKey("tool-key")
	req := httptest.NewRequest(http.MethodPost, "/tool-call", nil)
	req.Header.Set("Authorization", "Bearer tool-key")
	rec := httptest.NewRecorder()

	called := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })).ServeHTTP(rec, req)

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected handler to run, code=%d called=%v", rec.Code, called)
	}
}

func TestBearerKeyRejectsWrongKey(t *testing.T) {
	mw := BearerKey("tool-key")
	req := httptest.NewRequest(http.MethodPost, "/tool-call", nil)
	req.Header.Set("Authorization", "Bearer other-key")
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestBearerKeyDisabledWhenUnset(t *testing.T) {
	mw := BearerKey("")
	req := httptest.NewRequest(http.MethodPost, "/tool-call", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}
