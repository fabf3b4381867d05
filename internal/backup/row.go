package backup

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxRowPoints caps a single row's points so totals cannot overflow.
const MaxRowPoints = math.MaxInt32

// Row is one line of the remote sheet. Fields are loosely typed: the sheet may hand
// back numbers, strings with symbols ("100P") or nothing at all.
type Row struct {
	User      any `json:"user"`
	Mission   any `json:"mission"`
	Points    any `json:"points"`
	Timestamp any `json:"timestamp"`
}

// UserName returns the trimmed user cell.
func (r Row) UserName() string { return strings.TrimSpace(cellString(r.User)) }

func (r Row) MissionTitle() string { return cellString(r.Mission) }

func (r Row) TimestampString() string { return strings.TrimSpace(cellString(r.Timestamp)) }

// PointsValue coerces the points cell; see CoercePoints.
func (r Row) PointsValue() int { return CoercePoints(cellString(r.Points)) }

// CoercePoints drops every non-digit character and parses what remains.
// Anything unparseable is 0; values above MaxRowPoints are clamped.
func CoercePoints(raw string) int {
	var b strings.Builder
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	n, err := strconv.Atoi(b.String())
	switch {
	case errors.Is(err, strconv.ErrRange):
		return MaxRowPoints
	case err != nil:
		return 0
	case n > MaxRowPoints:
		return MaxRowPoints
	}
	return n
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
