package root

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ecoquest/internal/backup"
	"ecoquest/internal/config"
	"ecoquest/internal/engine"
	"ecoquest/internal/geo"
	"ecoquest/internal/logger"
	"ecoquest/internal/storage"
	"ecoquest/internal/weather"
)

// app bundles everything a command needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	svc     *engine.Service
	backup  *backup.Client
	geo     *geo.Client
	weather *weather.Client
}

func openApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.Env, flags.verbose)

	var (
		backend storage.Backend
		db      *sql.DB
	)
	if flags.ephemeral {
		backend = storage.NewMemoryBackend()
	} else {
		dbPath := flags.dbPath
		if dbPath == "" {
			dbPath = cfg.DBPath
		}
		path, err := storage.ResolveDBPath(dbPath)
		if err != nil {
			return nil, nil, err
		}
		db, err = storage.Open(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		backend = storage.NewSQLiteBackend(db)
		log.Debug("database opened", zap.String("path", path))
	}

	geoClient := geo.New(geo.Options{
		BigDataCloudURL: cfg.Geo.BigDataCloudURL,
		NominatimURL:    cfg.Geo.NominatimURL,
		PhotonURL:       cfg.Geo.PhotonURL,
		Language:        cfg.Geo.Language,
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.HTTPTimeout,
	}, log)

	a := &app{
		cfg:     cfg,
		log:     log,
		svc:     engine.NewService(storage.NewStore(backend, log), log),
		backup:  backup.New(cfg.BackupURL, cfg.HTTPTimeout, log),
		geo:     geoClient,
		weather: weather.New(cfg.WeatherURL, cfg.UserAgent, cfg.HTTPTimeout, log),
	}
	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
		_ = log.Sync()
	}
	return a, cleanup, nil
}

// location resolves where missions are generated for: a saved place by name, explicit
// coordinates, or the configured default.
func (a *app) location(ctx context.Context, place string, lat, lon *float64, mode string) (float64, float64, engine.Mode, error) {
	outLat, outLon := a.cfg.DefaultLat, a.cfg.DefaultLon
	outMode := engine.ParseMode(a.cfg.Mode)

	if place != "" {
		p, ok := a.svc.FindPlace(ctx, place)
		if !ok {
			return 0, 0, "", fmt.Errorf("no saved place named %q", place)
		}
		outLat, outLon, outMode = p.Lat, p.Lon, p.Type
	}
	if lat != nil {
		outLat = *lat
	}
	if lon != nil {
		outLon = *lon
	}
	if mode != "" {
		outMode = engine.ParseMode(mode)
	}
	return outLat, outLon, outMode, nil
}

// push sends a completed mission to the backup and reports what happened in one line.
func (a *app) push(ctx context.Context, res *engine.CompleteResult) string {
	err := a.backup.Push(ctx, res.PushEvent())
	switch {
	case err == nil:
		return "backed up"
	case errors.Is(err, backup.ErrNotConfigured):
		return "backup not configured"
	default:
		return "backup failed: " + err.Error()
	}
}
