// Package weather reads current conditions from Open-Meteo.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ecoquest/internal/engine"
)

const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       *zap.Logger
}

func New(baseURL, userAgent string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
		log:       log,
	}
}

type forecast struct {
	Current *struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// Current implements engine.WeatherProvider.
func (c *Client) Current(ctx context.Context, lat, lon float64) (engine.Weather, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return engine.Weather{}, fmt.Errorf("parse weather url: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,weather_code")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return engine.Weather{}, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return engine.Weather{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return engine.Weather{}, fmt.Errorf("weather request: status %d", resp.StatusCode)
	}

	var f forecast
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return engine.Weather{}, fmt.Errorf("decode weather: %w", err)
	}
	if f.Current == nil {
		return engine.Weather{}, fmt.Errorf("decode weather: no current block")
	}
	w := engine.Weather{
		TemperatureC: f.Current.Temperature,
		Condition:    ConditionForCode(f.Current.WeatherCode),
	}
	c.log.Debug("weather fetched",
		zap.Float64("temperature", w.TemperatureC),
		zap.Int("code", f.Current.WeatherCode),
		zap.String("condition", string(w.Condition)))
	return w, nil
}

// ConditionForCode maps a WMO weather interpretation code to a coarse condition.
func ConditionForCode(code int) engine.Condition {
	switch {
	case code <= 1:
		return engine.ConditionSunny
	case code <= 48:
		return engine.ConditionClouds
	case code >= 71 && code <= 77, code == 85, code == 86:
		return engine.ConditionSnow
	default:
		// drizzle, rain, showers, thunderstorms
		return engine.ConditionRain
	}
}
