// Package geocapture enriches device GPS fixes with a reverse-geocoded
// address. Strictly best-effort: a slow or failed lookup degrades to the
// raw fix (or nil) and never blocks or fails a clock event.
package geocapture

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"TimeTrackBackend/models"
)

const (
	defaultEndpoint = "https://nominatim.openstreetmap.org/reverse"

	// Bounded wait for the lookup; beyond this the raw fix is used as-is.
	lookupTimeout = 10 * time.Second

	// Recent readings for the same spot are reused instead of re-queried.
	cacheTTL = 60 * time.Second
)

type cachedAddress struct {
	address  string
	resolved time.Time
}

type Resolver struct {
	endpoint string
	client   *http.Client

	mu    sync.Mutex
	cache map[string]cachedAddress
}

// New builds a resolver against GEOCODE_URL, defaulting to the public
// Nominatim reverse endpoint.
func New() *Resolver {
	endpoint := os.Getenv("GEOCODE_URL")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Resolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: lookupTimeout},
		cache:    make(map[string]cachedAddress),
	}
}

// Capture resolves a fix into a display-ready location. A nil fix stays
// nil, a fix that already carries an address passes through, and any
// lookup failure is logged and swallowed.
func (r *Resolver) Capture(ctx context.Context, fix *models.GPSLocation) *models.GPSLocation {
	if fix == nil {
		return nil
	}
	if fix.Address != "" {
		return fix
	}

	key := fmt.Sprintf("%.4f,%.4f", fix.Latitude, fix.Longitude)
	if addr, ok := r.cached(key); ok {
		fix.Address = addr
		return fix
	}

	addr, err := r.lookup(ctx, fix.Latitude, fix.Longitude)
	if err != nil {
		log.Printf("Warning: reverse geocode failed for %s: %v", key, err)
		return fix
	}

	r.store(key, addr)
	fix.Address = addr
	return fix
}

func (r *Resolver) cached(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cache[key]
	if !ok || time.Since(c.resolved) > cacheTTL {
		return "", false
	}
	return c.address, true
}

func (r *Resolver) store(key, address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = cachedAddress{address: address, resolved: time.Now()}
}

func (r *Resolver) lookup(ctx context.Context, lat, lng float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "TimeTrackBackend/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.DisplayName == "" {
		return "", fmt.Errorf("geocoder returned no address")
	}
	return body.DisplayName, nil
}
