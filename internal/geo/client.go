// Package geo resolves coordinates to short display addresses and place queries to
// coordinates, falling back across free providers.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBigDataCloudURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"
	DefaultNominatimURL    = "https://nominatim.openstreetmap.org"
	DefaultPhotonURL       = "https://photon.komoot.io/api/"
	DefaultLanguage        = "ko"
)

var errNoAddress = errors.New("no address in response")

// Options configures the provider endpoints. Zero values fall back to the public services.
type Options struct {
	BigDataCloudURL string
	NominatimURL    string
	PhotonURL       string
	Language        string
	UserAgent       string
	Timeout         time.Duration
}

type Client struct {
	opts Options
	http *http.Client
	log  *zap.Logger
}

func New(opts Options, log *zap.Logger) *Client {
	if opts.BigDataCloudURL == "" {
		opts.BigDataCloudURL = DefaultBigDataCloudURL
	}
	if opts.NominatimURL == "" {
		opts.NominatimURL = DefaultNominatimURL
	}
	if opts.PhotonURL == "" {
		opts.PhotonURL = DefaultPhotonURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "ecoquest"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{opts: opts, http: &http.Client{Timeout: opts.Timeout}, log: log}
}

// Coordinates is the last-resort address.
func Coordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// Reverse returns a short address for the coordinate. It never fails: when both
// providers come back empty the coordinates themselves are returned.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) string {
	addr, err := c.reverseBigDataCloud(ctx, lat, lon)
	if err == nil {
		return addr
	}
	c.log.Debug("bigdatacloud reverse failed", zap.Error(err))

	addr, err = c.reverseNominatim(ctx, lat, lon)
	if err == nil {
		return addr
	}
	c.log.Warn("reverse geocoding failed, using coordinates", zap.Error(err))
	return Coordinates(lat, lon)
}

type bdcResponse struct {
	PrincipalSubdivision string `json:"principalSubdivision"`
	Locality             string `json:"locality"`
	City                 string `json:"city"`
}

func (c *Client) reverseBigDataCloud(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("latitude", formatCoord(lat))
	q.Set("longitude", formatCoord(lon))
	q.Set("localityLanguage", c.opts.Language)

	var resp bdcResponse
	if err := c.getJSON(ctx, c.opts.BigDataCloudURL, q, &resp); err != nil {
		return "", err
	}
	district := firstNonEmpty(resp.Locality, resp.City)
	addr := strings.TrimSpace(resp.PrincipalSubdivision + " " + district)
	if addr == "" {
		return "", errNoAddress
	}
	return addr, nil
}

type nominatimReverse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Borough       string `json:"borough"`
		District      string `json:"district"`
		City          string `json:"city"`
		Quarter       string `json:"quarter"`
		Neighbourhood string `json:"neighbourhood"`
		Suburb        string `json:"suburb"`
	} `json:"address"`
}

func (c *Client) reverseNominatim(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", formatCoord(lat))
	q.Set("lon", formatCoord(lon))
	q.Set("zoom", "14")
	q.Set("addressdetails", "1")
	q.Set("accept-language", c.opts.Language)

	var resp nominatimReverse
	if err := c.getJSON(ctx, strings.TrimRight(c.opts.NominatimURL, "/")+"/reverse", q, &resp); err != nil {
		return "", err
	}
	a := resp.Address
	district := firstNonEmpty(a.Borough, a.District, a.City)
	neighborhood := firstNonEmpty(a.Quarter, a.Neighbourhood, a.Suburb)
	if addr := strings.TrimSpace(district + " " + neighborhood); addr != "" {
		return addr, nil
	}
	if resp.DisplayName == "" {
		return "", errNoAddress
	}
	parts := strings.Split(resp.DisplayName, ",")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, " "), nil
}

// Search looks up query, biased toward the given center. found is false when neither
// provider has a match; err is set only when the fallback provider itself failed.
func (c *Client) Search(ctx context.Context, query string, nearLat, nearLon float64) (lat, lon float64, found bool, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, 0, false, errors.New("search query is required")
	}

	lat, lon, found, err = c.searchPhoton(ctx, query, nearLat, nearLon)
	if err != nil {
		c.log.Warn("photon search failed, falling back", zap.Error(err))
	}
	if found {
		return lat, lon, true, nil
	}
	return c.searchNominatim(ctx, query)
}

type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (c *Client) searchPhoton(ctx context.Context, query string, nearLat, nearLon float64) (float64, float64, bool, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("lang", c.opts.Language)
	q.Set("limit", "1")
	q.Set("lat", formatCoord(nearLat))
	q.Set("lon", formatCoord(nearLon))

	var resp photonResponse
	if err := c.getJSON(ctx, c.opts.PhotonURL, q, &resp); err != nil {
		return 0, 0, false, err
	}
	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) < 2 {
		return 0, 0, false, nil
	}
	// GeoJSON order is lon, lat.
	coords := resp.Features[0].Geometry.Coordinates
	return coords[1], coords[0], true, nil
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) searchNominatim(ctx context.Context, query string) (float64, float64, bool, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("accept-language", c.opts.Language)
	q.Set("limit", "1")

	var resp []nominatimPlace
	if err := c.getJSON(ctx, strings.TrimRight(c.opts.NominatimURL, "/")+"/search", q, &resp); err != nil {
		return 0, 0, false, fmt.Errorf("nominatim search: %w", err)
	}
	if len(resp) == 0 {
		return 0, 0, false, nil
	}
	lat, err := strconv.ParseFloat(resp[0].Lat, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("nominatim lat: %w", err)
	}
	lon, err := strconv.ParseFloat(resp[0].Lon, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("nominatim lon: %w", err)
	}
	return lat, lon, true, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse %s: %w", endpoint, err)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", u.Host, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", u.Host, err)
	}
	return nil
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
