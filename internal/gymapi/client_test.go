package gymapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetClassSchedule(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			t.Fatalf("missing api key header")
		}
		if got := r.URL.Query().Get("week"); got != "1" {
			t.Fatalf("unexpected week: %q", got)
		}
		if got := r.URL.Query().Get("branchId"); got != "branch_1" {
			t.Fatalf("unexpected branch: %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"classes": []map[string]any{
				{"classId": "cls_1", "name": "Spin", "instructor": "Ana", "startsAt": "2026-09-01T18:00:00Z", "capacity": 20},
			},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "key", "user", "pass", "branch_1", nil)
	classes, err := c.GetClassSchedule(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("GetClassSchedule error: %v", err)
	}
	if len(classes) != 1 || classes[0].ClassID != "cls_1" {
		t.Fatalf("unexpected classes: %+v", classes)
	}
}

func TestGetClassScheduleRejectsNegativeWeek(t *testing.T) {
	c := NewClient("http://localhost", "key", "user", "pass", "", nil)
	if _, err := c.GetClassSchedule(context.Background(), -1, ""); err == nil {
		t.Fatal("expected error for negative week offset")
	}
}

func TestBookClass_LogsInFirst(t *testing.T) {
	calls := make([]string, 0, 2)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok_1"})
		case "/bookings":
			if got := r.Header.Get("Authorization"); got != "Bearer tok_1" {
				t.Fatalf("unexpected auth header: %q", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"bookingId": "bk_1", "classId": "cls_1", "memberId": "mem_1", "status": "confirmed"})
		default:
			http.Error(w, "unknown path", http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "key", "user", "pass", "", nil)
	booking, err := c.BookClass(context.Background(), BookingRequest{ClassID: "cls_1", MemberID: "mem_1"})
	if err != nil {
		t.Fatalf("BookClass error: %v", err)
	}
	if booking.BookingID != "bk_1" {
		t.Fatalf("unexpected booking: %+v", booking)
	}
	if len(calls) != 2 || calls[0] != "POST /auth/login" {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestBookClassReusesCachedToken(t *testing.T) {
	logins := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			logins++
			_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok_1"})
		case "/bookings":
			_ = json.NewEncoder(w).Encode(map[string]any{"bookingId": "bk_1", "status": "confirmed"})
		default:
			http.Error(w, "unknown path", http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "key", "user", "pass", "", nil)
	for i := 0; i < 3; i++ {
		if _, err := c.BookClass(context.Background(), BookingRequest{ClassID: "cls_1", MemberID: "mem_1"}); err != nil {
			t.Fatalf("BookClass error: %v", err)
		}
	}
	if logins != 1 {
		t.Fatalf("expected exactly one login, got %d", logins)
	}
}

func TestUpstreamErrorSurfacesStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "schedule backend down", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "key", "user", "pass", "", nil)
	if _, err := c.GetSeatCount(context.Background(), "cls_1"); err == nil {
		t.Fatal("expected error from 502 response")
	}
}

func TestCancelBookingEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok_1"})
		default:
			if r.Method != http.MethodDelete {
				t.Fatalf("unexpected method %s", r.Method)
			}
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "key", "user", "pass", "", nil)
	if err := c.CancelBooking(context.Background(), "bk_1"); err != nil {
		t.Fatalf("CancelBooking error: %v", err)
	}
}
