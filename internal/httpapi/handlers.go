package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ecoquest/internal/backup"
	"ecoquest/internal/engine"
	"ecoquest/internal/storage"
)

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Service.Summary(r.Context()))
}

func (a *API) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Service.Logs(r.Context()))
}

type suggestResponse struct {
	Weather  engine.Weather   `json:"weather"`
	Location engine.Location  `json:"location"`
	Mode     engine.Mode      `json:"mode"`
	Missions []engine.Mission `json:"missions"`
}

func (a *API) handleSuggestMissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := floatParam(q.Get("lat"), a.DefaultLat)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", "lat must be a number")
		return
	}
	lon, err := floatParam(q.Get("lon"), a.DefaultLon)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", "lon must be a number")
		return
	}
	mode := a.DefaultMode
	if m := q.Get("mode"); m != "" || mode == "" {
		mode = engine.ParseMode(m)
	}

	wx, loc, missions, err := a.Service.SuggestMissions(r.Context(), a.Generator, a.Geo, a.Weather, lat, lon, mode)
	if err != nil {
		a.Log.Error("mission generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "GENERATOR_ERROR", "Failed to generate missions")
		return
	}
	if missions == nil {
		missions = []engine.Mission{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Weather: wx, Location: loc, Mode: mode, Missions: missions})
}

type completeRequest struct {
	MissionID string          `json:"missionId"`
	Mission   *engine.Mission `json:"mission"`
}

type completeResponse struct {
	User     storage.User       `json:"user"`
	Log      storage.MissionLog `json:"log"`
	StageUp  bool               `json:"stageUp"`
	Stage    engine.Stage       `json:"stage"`
	Streak   int                `json:"streak"`
	BackedUp bool               `json:"backedUp"`
}

func (a *API) handleCompleteMission(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var m engine.Mission
	switch {
	case req.MissionID != "":
		found, err := engine.FindMission(req.MissionID)
		if err != nil {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Mission not found")
			return
		}
		m = found
	case req.Mission != nil:
		m = *req.Mission
	default:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "missionId or mission required")
		return
	}

	res, err := a.Service.CompleteMission(r.Context(), m)
	if err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			writeValidationError(w, err)
			return
		}
		a.Log.Error("complete mission failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to complete mission")
		return
	}

	backedUp := false
	if a.Backup != nil {
		err := a.Backup.Push(r.Context(), res.PushEvent())
		switch {
		case err == nil:
			backedUp = true
		case errors.Is(err, backup.ErrNotConfigured):
		default:
			a.Log.Warn("backup push failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, completeResponse{
		User:     res.User,
		Log:      res.Log,
		StageUp:  res.StageUp,
		Stage:    res.StageAfter,
		Streak:   res.Streak,
		BackedUp: backedUp,
	})
}

type shopEntry struct {
	engine.ShopItem
	Owned  bool `json:"owned"`
	Locked bool `json:"locked"`
}

func (a *API) handleShop(w http.ResponseWriter, r *http.Request) {
	u := a.Service.User(r.Context())
	items := engine.ShopCatalog()
	out := make([]shopEntry, 0, len(items))
	for _, it := range items {
		out = append(out, shopEntry{
			ShopItem: it,
			Owned:    u.HasItem(it.ID),
			Locked:   engine.CanBuyItem(engine.Stage(u.Stage), it.ID) != nil,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": u.Points, "items": out})
}

type buyRequest struct {
	ItemID string `json:"itemId" validate:"required,max=64"`
}

func (a *API) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ItemID = strings.TrimSpace(req.ItemID)
	if err := a.Service.Validator().Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	u, item, err := a.Service.BuyItem(r.Context(), req.ItemID)
	if err != nil {
		var gate engine.GateError
		switch {
		case errors.Is(err, engine.ErrUnknownItem):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Item not found")
		case errors.Is(err, engine.ErrInsufficientPoints):
			writeError(w, http.StatusConflict, "INSUFFICIENT_POINTS", fmt.Sprintf("%s costs %dP", item.Name, item.Cost))
		case errors.As(err, &gate):
			writeError(w, http.StatusForbidden, "LOCKED", gate.Error())
		default:
			a.Log.Error("buy failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to buy item")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u, "item": item})
}

func (a *API) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Service.Places(r.Context()))
}

func (a *API) handleAddPlace(w http.ResponseWriter, r *http.Request) {
	var in engine.PlaceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Address) == "" && a.Geo != nil {
		in.Address = a.Geo.Reverse(r.Context(), in.Lat, in.Lon)
	}

	place, err := a.Service.AddPlace(r.Context(), in)
	if err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			writeValidationError(w, err)
			return
		}
		a.Log.Error("add place failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save place")
		return
	}
	writeJSON(w, http.StatusCreated, place)
}

func (a *API) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = a.Service.User(r.Context()).Name
	}
	if a.Backup == nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", backup.ErrNotConfigured.Error())
		return
	}

	res, err := a.Service.Restore(r.Context(), a.Backup, name)
	if err != nil {
		a.writeBackupError(w, err)
		return
	}
	if !res.Found {
		writeJSON(w, http.StatusOK, map[string]any{
			"found":   false,
			"message": res.Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"found":   true,
		"message": res.Message,
		"total":   res.Total,
		"user":    res.User,
		"logs":    res.Logs,
	})
}

func (a *API) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if a.Backup == nil {
		writeError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", backup.ErrNotConfigured.Error())
		return
	}
	rows, err := a.Backup.FetchRows(r.Context())
	if err != nil {
		a.writeBackupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backup.Leaderboard(rows, limit))
}

func (a *API) writeBackupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, backup.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", err.Error())
	case errors.Is(err, backup.ErrMalformedData):
		writeError(w, http.StatusBadGateway, "MALFORMED_BACKUP", err.Error())
	default:
		a.Log.Warn("backup request failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "BACKUP_UNAVAILABLE", err.Error())
	}
}

func floatParam(raw string, fallback float64) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}
