package geocapture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"TimeTrackBackend/models"
)

func testResolver(endpoint string) *Resolver {
	return &Resolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Second},
		cache:    make(map[string]cachedAddress),
	}
}

func TestCaptureNilFix(t *testing.T) {
	r := testResolver("http://127.0.0.1:0")
	if got := r.Capture(context.Background(), nil); got != nil {
		t.Fatalf("nil fix should stay nil, got %+v", got)
	}
}

func TestCaptureExistingAddressPassesThrough(t *testing.T) {
	// An address from the device is trusted; no lookup happens.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected geocoder call")
	}))
	defer srv.Close()

	r := testResolver(srv.URL)
	fix := &models.GPSLocation{Latitude: 51.5, Longitude: -0.12, Address: "12 High Street"}
	got := r.Capture(context.Background(), fix)
	if got.Address != "12 High Street" {
		t.Fatalf("Address = %q", got.Address)
	}
}

func TestCaptureResolvesAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "jsonv2" {
			t.Errorf("format = %q, want jsonv2", got)
		}
		w.Write([]byte(`{"display_name": "10 Downing Street, London"}`))
	}))
	defer srv.Close()

	r := testResolver(srv.URL)
	fix := &models.GPSLocation{Latitude: 51.5034, Longitude: -0.1276}
	got := r.Capture(context.Background(), fix)
	if got.Address != "10 Downing Street, London" {
		t.Fatalf("Address = %q", got.Address)
	}
	if got.Latitude != 51.5034 || got.Longitude != -0.1276 {
		t.Fatal("coordinates must not change")
	}
}

func TestCaptureFailureKeepsRawFix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over capacity", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := testResolver(srv.URL)
	fix := &models.GPSLocation{Latitude: 51.5, Longitude: -0.12}
	got := r.Capture(context.Background(), fix)
	if got == nil {
		t.Fatal("failed lookup must still return the raw fix")
	}
	if got.Address != "" {
		t.Fatalf("Address = %q, want empty", got.Address)
	}
}

func TestCaptureEmptyDisplayNameKeepsRawFix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	r := testResolver(srv.URL)
	got := r.Capture(context.Background(), &models.GPSLocation{Latitude: 51.5, Longitude: -0.12})
	if got.Address != "" {
		t.Fatalf("Address = %q, want empty", got.Address)
	}
}

func TestCaptureCachesNearbyFixes(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"display_name": "12 High Street"}`))
	}))
	defer srv.Close()

	r := testResolver(srv.URL)

	// Same spot to four decimal places resolves once.
	first := r.Capture(context.Background(), &models.GPSLocation{Latitude: 51.50341, Longitude: -0.12762})
	second := r.Capture(context.Background(), &models.GPSLocation{Latitude: 51.50339, Longitude: -0.12758})

	if first.Address != "12 High Street" || second.Address != "12 High Street" {
		t.Fatalf("addresses = %q, %q", first.Address, second.Address)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("geocoder calls = %d, want 1", n)
	}
}
