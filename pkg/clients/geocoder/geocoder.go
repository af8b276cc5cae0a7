package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://dapi.kakao.com"

// ErrAddressNotFound is returned when a search yields no documents
var ErrAddressNotFound = errors.New("address not found")

// Location is a resolved address
type Location struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// Geocoder resolves free-text addresses through the Kakao Local API
type Geocoder struct {
	baseURL    string
	restKey    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a Geocoder; an empty baseURL uses the public Kakao endpoint
func New(restKey, baseURL string, logger *zap.Logger) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Geocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		restKey:    restKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type searchResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"documents"`
}

// Search returns the first match for query
func (g *Geocoder) Search(ctx context.Context, query string) (*Location, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("address query is required")
	}
	if g.restKey == "" {
		return nil, fmt.Errorf("kakao REST key is not configured")
	}

	reqURL := g.baseURL + "/v2/local/search/address.json?" + url.Values{"query": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+g.restKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geocode request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if len(result.Documents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAddressNotFound, query)
	}

	doc := result.Documents[0]
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", doc.Y, err)
	}
	lng, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", doc.X, err)
	}

	g.logger.Debug("Geocoded address",
		zap.String("query", query),
		zap.String("address", doc.AddressName),
		zap.Float64("lat", lat),
		zap.Float64("lng", lng))

	return &Location{Address: doc.AddressName, Latitude: lat, Longitude: lng}, nil
}

// Pick resolves query and hands the first match to cb
func (g *Geocoder) Pick(ctx context.Context, query string, cb func(address string, lat, lng float64)) error {
	loc, err := g.Search(ctx, query)
	if err != nil {
		return err
	}
	cb(loc.Address, loc.Latitude, loc.Longitude)
	return nil
}
