package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ecoquest/internal/backup"
	"ecoquest/internal/storage"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *storage.MemoryBackend, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	backend := storage.NewMemoryBackend()
	svc := NewService(storage.NewStore(backend, log), log).WithClock(func() time.Time { return testNow })
	return svc, backend, logs
}

func TestAwardPointsIncrementsBalanceLifetimeAndCount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	if _, err := svc.AwardPoints(ctx, 300); err != nil {
		t.Fatalf("award: %v", err)
	}
	u, err := svc.AwardPoints(ctx, 250)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if u.Points != 550 || u.LifetimePoints != 550 || u.TotalMissionsCompleted != 2 {
		t.Fatalf("got %+v", u)
	}
	if u.Stage != string(StageFlower) {
		t.Fatalf("stage=%q, want flower", u.Stage)
	}
	if got := svc.User(ctx); got.Points != 550 {
		t.Fatalf("persisted points=%d, want 550", got.Points)
	}
}

func TestAwardPointsRejectsNegative(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.AwardPoints(context.Background(), -5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err=%v, want ErrInvalidAmount", err)
	}
}

func TestDeductPointsKeepsLifetimeAndStage(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, _ = svc.AwardPoints(ctx, 600)

	u, err := svc.DeductPoints(ctx, 400)
	if err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if u.Points != 200 || u.LifetimePoints != 600 {
		t.Fatalf("got points=%d lifetime=%d", u.Points, u.LifetimePoints)
	}
	if u.Stage != string(StageFlower) {
		t.Fatalf("spending lowered stage to %q", u.Stage)
	}
}

func TestDeductPointsInsufficientLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, _ = svc.AwardPoints(ctx, 50)

	if _, err := svc.DeductPoints(ctx, 51); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("err=%v, want ErrInsufficientPoints", err)
	}
	if u := svc.User(ctx); u.Points != 50 {
		t.Fatalf("points=%d, want 50", u.Points)
	}
}

func TestPurchaseAddsItemOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, _ = svc.AwardPoints(ctx, 100)

	if _, err := svc.Purchase(ctx, "flower_pot", 30); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	u, err := svc.Purchase(ctx, "flower_pot", 30)
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}
	if len(u.Inventory) != 1 {
		t.Fatalf("inventory=%v, want one entry", u.Inventory)
	}
	if u.Points != 40 {
		t.Fatalf("points=%d, want 40", u.Points)
	}
}

func TestPurchaseInsufficient(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	if _, err := svc.Purchase(ctx, "bench", 10); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("err=%v, want ErrInsufficientPoints", err)
	}
	if u := svc.User(ctx); len(u.Inventory) != 0 {
		t.Fatalf("inventory=%v, want empty", u.Inventory)
	}
}

func TestSaveFailureIsLoggedNotReturned(t *testing.T) {
	ctx := context.Background()
	svc, backend, logs := newTestService(t)
	backend.FailWrites = errors.New("disk full")

	u, err := svc.AwardPoints(ctx, 40)
	if err != nil {
		t.Fatalf("award returned %v", err)
	}
	if u.Points != 40 {
		t.Fatalf("in-memory points=%d, want 40", u.Points)
	}
	if logs.FilterMessage("failed to save user").Len() != 1 {
		t.Fatalf("expected save failure to be logged")
	}
	if got := svc.User(ctx); got.Points != 0 {
		t.Fatalf("persisted points=%d, want 0", got.Points)
	}
}

func TestCompleteMissionRecordsLog(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, _ = svc.AwardPoints(ctx, 480)

	m, err := FindMission("tumbler")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	res, err := svc.CompleteMission(ctx, m)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !res.StageUp || res.StageBefore != StageSprout || res.StageAfter != StageFlower {
		t.Fatalf("stage change = %q -> %q (up=%v)", res.StageBefore, res.StageAfter, res.StageUp)
	}
	if res.Streak != 1 {
		t.Fatalf("streak=%d, want 1", res.Streak)
	}
	logs := svc.Logs(ctx)
	if len(logs) != 1 || logs[0].MissionID != "tumbler" || logs[0].Points != m.Points {
		t.Fatalf("logs=%+v", logs)
	}
	if logs[0].CompletedAt != testNow.Format(time.RFC3339) {
		t.Fatalf("completedAt=%q", logs[0].CompletedAt)
	}
}

func TestCompleteResultPushEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, _ = svc.AwardPoints(ctx, 480)

	m, err := FindMission("tumbler")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	res, err := svc.CompleteMission(ctx, m)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	want := backup.PushEvent{
		User:    res.User.Name,
		Mission: m.Title,
		Points:  m.Points,
		Level:   string(StageFlower),
	}
	if got := res.PushEvent(); got != want {
		t.Fatalf("push event = %+v, want %+v", got, want)
	}
}

func TestCompleteMissionValidates(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.CompleteMission(context.Background(), Mission{Title: "no id", Points: 10}); err == nil {
		t.Fatalf("expected validation error for missing id")
	}
	if _, err := svc.CompleteMission(context.Background(), Mission{ID: "x", Title: "neg", Points: -1}); err == nil {
		t.Fatalf("expected validation error for negative points")
	}
}

func TestBuyItemGatedByStage(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	_, _ = svc.AwardPoints(ctx, 400)

	_, _, err := svc.BuyItem(ctx, "birdhouse")
	var gate GateError
	if !errors.As(err, &gate) {
		t.Fatalf("err=%v, want GateError", err)
	}
	if u := svc.User(ctx); u.Points != 400 {
		t.Fatalf("gated purchase spent points: %d", u.Points)
	}

	_, _ = svc.AwardPoints(ctx, 100)
	u, item, err := svc.BuyItem(ctx, "Birdhouse")
	if err != nil {
		t.Fatalf("buy after flower: %v", err)
	}
	if item.Cost != 300 || u.Points != 200 || !u.HasItem("birdhouse") {
		t.Fatalf("got item=%+v user=%+v", item, u)
	}
}

func TestBuyItemUnknown(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, _, err := svc.BuyItem(context.Background(), "spaceship"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("err=%v, want ErrUnknownItem", err)
	}
}

func TestRenameTrimsAndRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	u, err := svc.Rename(ctx, "  Mina  ")
	if err != nil || u.Name != "Mina" {
		t.Fatalf("rename: %+v %v", u, err)
	}
	if _, err := svc.Rename(ctx, "   "); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if got := svc.User(ctx).Name; got != "Mina" {
		t.Fatalf("name=%q, want Mina", got)
	}
}

func TestAddPlace(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	p, err := svc.AddPlace(ctx, PlaceInput{Name: " Library ", Type: "Indoor", Lat: 37.5, Lon: 127.0})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.Name != "Library" || p.Type != storage.PlaceIndoor {
		t.Fatalf("place=%+v", p)
	}
	places := svc.Places(ctx)
	if len(places) != len(storage.DefaultPlaces())+1 {
		t.Fatalf("places=%d", len(places))
	}
	if found, ok := svc.FindPlace(ctx, "library"); !ok || found.ID != p.ID {
		t.Fatalf("FindPlace: %+v %v", found, ok)
	}

	bad := []PlaceInput{
		{Name: "", Type: "indoor"},
		{Name: "Pool", Type: "underwater"},
		{Name: "North", Type: "outdoor", Lat: 91},
	}
	for _, in := range bad {
		if _, err := svc.AddPlace(ctx, in); err == nil {
			t.Fatalf("expected validation error for %+v", in)
		}
	}
}

func TestSummaryAndAchievements(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	sum := svc.Summary(ctx)
	if sum.NextStage != StageFlower || sum.ToNextStage != 500 || sum.BadgesEarned != 0 {
		t.Fatalf("fresh summary=%+v", sum)
	}

	m, _ := FindMission("walk")
	if _, err := svc.CompleteMission(ctx, m); err != nil {
		t.Fatalf("complete: %v", err)
	}
	sum = svc.Summary(ctx)
	if sum.LogCount != 1 || sum.Streak != 1 {
		t.Fatalf("summary=%+v", sum)
	}
	earned := map[string]bool{}
	for _, a := range sum.Achievements {
		earned[a.ID] = a.Earned
	}
	if !earned["first_mission"] || earned["three_days"] {
		t.Fatalf("achievements=%+v", sum.Achievements)
	}
}

func TestResetWipesEverything(t *testing.T) {
	ctx := context.Background()
	svc, backend, _ := newTestService(t)
	m, _ := FindMission("sort")
	_, _ = svc.CompleteMission(ctx, m)

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if keys := backend.Keys(); len(keys) != 0 {
		t.Fatalf("keys left after reset: %v", keys)
	}
	if u := svc.User(ctx); u.Points != 0 {
		t.Fatalf("points=%d after reset", u.Points)
	}
}
