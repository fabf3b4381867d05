package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func missionIDs(ms []Mission) string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return strings.Join(ids, ",")
}

func TestCatalogGeneratorFiltersByModeAndWeather(t *testing.T) {
	gen := CatalogGenerator{}
	got, err := gen.Generate(context.Background(), MissionRequest{
		Weather: Weather{Condition: ConditionSunny},
		Mode:    ModeIndoor,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if ids := missionIDs(got); ids != "unplug,lights,dryer" {
		t.Fatalf("ids=%s", ids)
	}

	got, _ = CatalogGenerator{Limit: 10}.Generate(context.Background(), MissionRequest{
		Weather: Weather{Condition: ConditionRain},
		Mode:    ModeOutdoor,
	})
	if ids := missionIDs(got); ids != "tumbler,plantmeal,transit,stairs,umbrella" {
		t.Fatalf("rainy outdoor ids=%s", ids)
	}
}

func TestCatalogGeneratorExcludesTitles(t *testing.T) {
	got, _ := CatalogGenerator{}.Generate(context.Background(), MissionRequest{
		Weather:       Weather{Condition: ConditionSunny},
		Mode:          ModeIndoor,
		ExcludeTitles: []string{" unplug idle chargers "},
	})
	if ids := missionIDs(got); ids != "lights,dryer,sort" {
		t.Fatalf("ids=%s", ids)
	}
}

type stubGeo struct{}

func (stubGeo) Reverse(context.Context, float64, float64) string { return "Mapo-gu Seogyo-dong" }

type failingWeather struct{}

func (failingWeather) Current(context.Context, float64, float64) (Weather, error) {
	return Weather{}, errors.New("timeout")
}

func TestSuggestMissionsDefaultsWeatherAndSkipsDoneToday(t *testing.T) {
	ctx := context.Background()
	svc, _, logs := newTestService(t)
	m, _ := FindMission("plantmeal")
	_, _ = svc.CompleteMission(ctx, m)

	wx, loc, missions, err := svc.SuggestMissions(ctx, CatalogGenerator{Limit: 10}, stubGeo{}, failingWeather{}, 37.55, 126.92, ModeOutdoor)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if wx.Condition != ConditionSunny || wx.TemperatureC != 20 {
		t.Fatalf("weather=%+v, want 20C Sunny default", wx)
	}
	if loc.Address != "Mapo-gu Seogyo-dong" {
		t.Fatalf("address=%q", loc.Address)
	}
	for _, got := range missions {
		if got.ID == "plantmeal" {
			t.Fatalf("completed mission suggested again")
		}
	}
	if logs.FilterMessage("weather lookup failed, using default").Len() != 1 {
		t.Fatalf("expected weather warning")
	}
}

func TestParseModeAndCategory(t *testing.T) {
	if ParseMode("Inside") != ModeIndoor || ParseMode("") != DefaultMode || ParseMode("outdoors") != ModeOutdoor {
		t.Fatalf("ParseMode mismatch")
	}
	if ParseCategory(" Waste ") != CategoryWaste || ParseCategory("recovered") != "" {
		t.Fatalf("ParseCategory mismatch")
	}
}
