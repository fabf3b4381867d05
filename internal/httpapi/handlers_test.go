package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ecoquest/internal/backup"
	"ecoquest/internal/engine"
	"ecoquest/internal/storage"
)

type fakeBackup struct {
	pushed  []backup.PushEvent
	rows    []backup.Row
	pushErr error
	pullErr error
}

func (f *fakeBackup) Push(_ context.Context, ev backup.PushEvent) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed = append(f.pushed, ev)
	return nil
}

func (f *fakeBackup) FetchRows(context.Context) ([]backup.Row, error) {
	return f.rows, f.pullErr
}

type fixedWeather struct{ w engine.Weather }

func (f fixedWeather) Current(context.Context, float64, float64) (engine.Weather, error) {
	return f.w, nil
}

type fixedGeo struct{}

func (fixedGeo) Reverse(context.Context, float64, float64) string { return "Seoul Jung-gu" }

func newTestAPI(t *testing.T) (*API, *fakeBackup, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := engine.NewService(storage.NewStore(storage.NewMemoryBackend(), log), log).
		WithClock(func() time.Time { return now })
	fb := &fakeBackup{}
	return &API{
		Service:     svc,
		Backup:      fb,
		Geo:         fixedGeo{},
		Weather:     fixedWeather{engine.Weather{TemperatureC: 12, Condition: engine.ConditionRain}},
		Log:         log,
		DefaultLat:  37.5665,
		DefaultLon:  126.978,
		DefaultMode: engine.ModeOutdoor,
	}, fb, logs
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	api, _, logs := newTestAPI(t)
	rec := do(t, api.Router(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("request").Len())
}

func TestCompleteMissionPushesAndAwards(t *testing.T) {
	api, fb, _ := newTestAPI(t)
	h := api.Router()

	rec := do(t, h, http.MethodPost, "/api/missions/complete", `{"missionId":"tumbler"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp completeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 50, resp.User.Points)
	assert.Equal(t, 1, resp.Streak)
	assert.True(t, resp.BackedUp)
	if assert.Len(t, fb.pushed, 1) {
		assert.Equal(t, backup.PushEvent{User: "Earth Keeper", Mission: "Bring a tumbler", Points: 50, Level: "sprout"}, fb.pushed[0])
	}
}

func TestCompleteMissionAdHocValidation(t *testing.T) {
	api, fb, _ := newTestAPI(t)
	h := api.Router()

	rec := do(t, h, http.MethodPost, "/api/missions/complete", `{"mission":{"id":"","title":"Compost","points":-3}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"error":{"code":"VALIDATION_ERROR","message":"invalid request","fields":[{"id":"is required"},{"points":"must not be negative"}]}}`,
		rec.Body.String())
	assert.Empty(t, fb.pushed)

	rec = do(t, h, http.MethodPost, "/api/missions/complete", `{"missionId":"teleport"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/missions/complete", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteMissionPushFailureStillSucceeds(t *testing.T) {
	api, fb, logs := newTestAPI(t)
	fb.pushErr = errors.New("connection refused")

	rec := do(t, api.Router(), http.MethodPost, "/api/missions/complete", `{"mission":{"id":"compost","title":"Compost scraps","points":40,"type":"waste"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backedUp":false`)
	assert.Equal(t, 1, logs.FilterMessage("backup push failed").Len())
}

func TestSuggestMissions(t *testing.T) {
	api, _, _ := newTestAPI(t)
	rec := do(t, api.Router(), http.MethodGet, "/api/missions?mode=outdoor", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp suggestResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, engine.ConditionRain, resp.Weather.Condition)
	assert.Equal(t, "Seoul Jung-gu", resp.Location.Address)
	assert.Equal(t, 37.5665, resp.Location.Lat)
	assert.Len(t, resp.Missions, 3)

	rec = do(t, api.Router(), http.MethodGet, "/api/missions?lat=north", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuyInsufficientPointsIsConflict(t *testing.T) {
	api, _, _ := newTestAPI(t)
	rec := do(t, api.Router(), http.MethodPost, "/api/shop/buy", `{"itemId":"watering_can"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_POINTS")
}

func TestBuyRequiresItemID(t *testing.T) {
	api, _, _ := newTestAPI(t)
	rec := do(t, api.Router(), http.MethodPost, "/api/shop/buy", `{"itemId":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code   string              `json:"code"`
			Fields []map[string]string `json:"fields"`
		} `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, []map[string]string{{"itemId": "is required"}}, body.Error.Fields)
}

func TestBuyLockedAndUnknown(t *testing.T) {
	api, _, _ := newTestAPI(t)
	_, _ = api.Service.AwardPoints(context.Background(), 400)
	h := api.Router()

	rec := do(t, h, http.MethodPost, "/api/shop/buy", `{"itemId":"birdhouse"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/shop/buy", `{"itemId":"spaceship"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/shop/buy", `{"itemId":"butterfly"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, api.Service.User(context.Background()).Points)

	rec = do(t, h, http.MethodGet, "/api/shop", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"butterfly"`)
	assert.Contains(t, rec.Body.String(), `"owned":true`)
}

func TestAddPlace(t *testing.T) {
	api, _, _ := newTestAPI(t)
	h := api.Router()

	rec := do(t, h, http.MethodPost, "/api/places", `{"name":"Library","type":"indoor","lat":37.5,"lon":127}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var place storage.SavedPlace
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &place))
	assert.Equal(t, "Seoul Jung-gu", place.Address)

	rec = do(t, h, http.MethodPost, "/api/places", `{"name":"","type":"cave","lat":0,"lon":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"error":{"code":"VALIDATION_ERROR","message":"invalid request","fields":[{"name":"is required"},{"type":"must be indoor or outdoor"}]}}`,
		rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/places", "")
	var places []storage.SavedPlace
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &places))
	assert.Len(t, places, len(storage.DefaultPlaces())+1)
}

func TestRestore(t *testing.T) {
	api, fb, _ := newTestAPI(t)
	fb.rows = []backup.Row{
		{User: "Earth Keeper", Mission: "Take the stairs", Points: "100P"},
		{User: "Earth Keeper", Points: "50"},
		{User: "Someone", Points: "999"},
	}
	h := api.Router()

	rec := do(t, h, http.MethodPost, "/api/backup/restore", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":150`)
	assert.Equal(t, 150, api.Service.User(context.Background()).LifetimePoints)

	rec = do(t, h, http.MethodPost, "/api/backup/restore", `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	var miss map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &miss))
	assert.Equal(t, false, miss["found"])
	assert.Equal(t, "no records found for 'Ghost'", miss["message"])
	assert.NotContains(t, miss, "user")
	assert.NotContains(t, miss, "logs")
	assert.NotContains(t, miss, "error")
	assert.Equal(t, 150, api.Service.User(context.Background()).LifetimePoints)
}

func TestRestoreBackupErrors(t *testing.T) {
	api, fb, _ := newTestAPI(t)
	h := api.Router()

	fb.pullErr = backup.ErrNotConfigured
	rec := do(t, h, http.MethodPost, "/api/backup/restore", `{"name":"A"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	fb.pullErr = backup.StatusError{Code: 500}
	rec = do(t, h, http.MethodGet, "/api/leaderboard", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestLeaderboard(t *testing.T) {
	api, fb, _ := newTestAPI(t)
	fb.rows = []backup.Row{
		{User: "A", Points: "10"},
		{User: "B", Points: "30"},
		{User: "A", Points: "25"},
	}
	rec := do(t, api.Router(), http.MethodGet, "/api/leaderboard?limit=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"rank":1,"user":"A","points":35,"missions":2}]`, rec.Body.String())
}

func TestSummaryAndLogs(t *testing.T) {
	api, _, _ := newTestAPI(t)
	h := api.Router()
	_ = do(t, h, http.MethodPost, "/api/missions/complete", `{"missionId":"stairs"}`)

	rec := do(t, h, http.MethodGet, "/api/summary", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var sum engine.Summary
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 30, sum.User.Points)
	assert.Equal(t, 1, sum.LogCount)
	assert.Equal(t, engine.StageFlower, sum.NextStage)

	rec = do(t, h, http.MethodGet, "/api/logs", "")
	assert.Contains(t, rec.Body.String(), `"missionId":"stairs"`)
}
