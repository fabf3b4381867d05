// Package httpapi exposes the eco-mission core as a small local JSON API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"ecoquest/internal/backup"
	"ecoquest/internal/engine"
)

// Backup is the remote sheet used for push, restore and the leaderboard.
type Backup interface {
	Push(ctx context.Context, ev backup.PushEvent) error
	FetchRows(ctx context.Context) ([]backup.Row, error)
}

type API struct {
	Service   *engine.Service
	Backup    Backup
	Generator engine.MissionGenerator
	Geo       engine.Geocoder
	Weather   engine.WeatherProvider
	Log       *zap.Logger

	DefaultLat  float64
	DefaultLon  float64
	DefaultMode engine.Mode
}

func (a *API) Router() http.Handler {
	if a.Log == nil {
		a.Log = zap.NewNop()
	}
	if a.Generator == nil {
		a.Generator = engine.CatalogGenerator{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(a.loggingMiddleware)

	r.Get("/healthz", a.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", a.handleSummary)
		r.Get("/logs", a.handleLogs)

		r.Route("/missions", func(r chi.Router) {
			r.Get("/", a.handleSuggestMissions)
			r.Post("/complete", a.handleCompleteMission)
		})
		r.Route("/shop", func(r chi.Router) {
			r.Get("/", a.handleShop)
			r.Post("/buy", a.handleBuy)
		})
		r.Route("/places", func(r chi.Router) {
			r.Get("/", a.handleListPlaces)
			r.Post("/", a.handleAddPlace)
		})
		r.Post("/backup/restore", a.handleRestore)
		r.Get("/leaderboard", a.handleLeaderboard)
	})

	return r
}

func (a *API) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.Log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
