package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Location is a resolved coordinate pair. Approximate marks IP-derived
// positions as opposed to device-reported ones.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Approximate bool    `json:"approximate"`
}

// Locator resolves an approximate location for a client IP. Used as the
// fallback when device geolocation is denied or unavailable.
type Locator interface {
	Lookup(ctx context.Context, ip string) (Location, error)
}

// IPAPILocator queries an ipapi.co-compatible JSON endpoint.
type IPAPILocator struct {
	BaseURL string
	Client  *http.Client
}

func NewIPAPILocator(baseURL string) *IPAPILocator {
	return &IPAPILocator{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (l *IPAPILocator) Lookup(ctx context.Context, ip string) (Location, error) {
	url := l.BaseURL + "/json/"
	if ip != "" {
		url = l.BaseURL + "/" + ip + "/json/"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Location{}, err
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("location lookup failed with status %d", resp.StatusCode)
	}

	var body struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, err
	}
	if body.Latitude == 0 && body.Longitude == 0 {
		return Location{}, fmt.Errorf("location lookup returned no coordinates")
	}

	return Location{Latitude: body.Latitude, Longitude: body.Longitude, Approximate: true}, nil
}
