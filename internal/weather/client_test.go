package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"ecoquest/internal/engine"
)

func TestCurrent(t *testing.T) {
	var gotCurrent, gotLat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCurrent = r.URL.Query().Get("current")
		gotLat = r.URL.Query().Get("latitude")
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":3.5,"weather_code":73}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "ecoquest-test", time.Second, zaptest.NewLogger(t))
	w, err := c.Current(context.Background(), 37.5642, 127.0016)
	assert.NoError(t, err)
	assert.Equal(t, 3.5, w.TemperatureC)
	assert.Equal(t, engine.ConditionSnow, w.Condition)
	assert.Equal(t, "temperature_2m,weather_code", gotCurrent)
	assert.Equal(t, "37.5642", gotLat)
}

func TestCurrentErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") == "1" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"hourly":{}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second, zaptest.NewLogger(t))
	_, err := c.Current(context.Background(), 1, 1)
	assert.Error(t, err)
	_, err = c.Current(context.Background(), 2, 2)
	assert.Error(t, err)
}

func TestConditionForCode(t *testing.T) {
	cases := map[int]engine.Condition{
		0:  engine.ConditionSunny,
		1:  engine.ConditionSunny,
		2:  engine.ConditionClouds,
		45: engine.ConditionClouds,
		51: engine.ConditionRain,
		63: engine.ConditionRain,
		71: engine.ConditionSnow,
		77: engine.ConditionSnow,
		81: engine.ConditionRain,
		86: engine.ConditionSnow,
		95: engine.ConditionRain,
	}
	for code, want := range cases {
		assert.Equal(t, want, ConditionForCode(code), "code %d", code)
	}
}
