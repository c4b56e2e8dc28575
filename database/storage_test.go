package database

import (
	"path/filepath"
	"testing"

	"eclipse-tracker/interfaces"
)

func openTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	storage, err := NewLocalStorage(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestPositionsRoundTrip(t *testing.T) {
	storage := openTestStorage(t)

	target := 120.0
	positions := []*interfaces.Position{
		{
			ID:             "pos_1",
			Ticker:         "AAPL",
			OptionType:     interfaces.Call,
			StrikePrice:    100,
			PremiumPaid:    2,
			Contracts:      1,
			ExpirationDate: "2027-03-20",
			EntryDate:      "2026-02-15",
			TargetPrice:    &target,
			Notes:          "earnings play",
			Status:         interfaces.StatusOpen,
		},
		{
			ID:             "pos_2",
			Ticker:         "TSLA",
			OptionType:     interfaces.Put,
			StrikePrice:    250,
			PremiumPaid:    5,
			Contracts:      2,
			ExpirationDate: "2026-06-19",
			EntryDate:      "2026-02-16",
			Status:         interfaces.StatusOpen,
		},
	}

	if err := storage.SavePositions(positions); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := storage.LoadPositions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(loaded))
	}

	first := loaded[0]
	if first.ID != "pos_1" || first.Ticker != "AAPL" || first.OptionType != interfaces.Call {
		t.Errorf("unexpected first position: %+v", first)
	}
	if first.TargetPrice == nil || *first.TargetPrice != 120 {
		t.Errorf("target price lost: %+v", first.TargetPrice)
	}
	if loaded[1].TargetPrice != nil {
		t.Error("absent target price should stay nil")
	}
}

func TestSaveReplacesCollection(t *testing.T) {
	storage := openTestStorage(t)

	base := interfaces.Position{
		OptionType:     interfaces.Call,
		StrikePrice:    100,
		PremiumPaid:    2,
		Contracts:      1,
		ExpirationDate: "2027-03-20",
		EntryDate:      "2026-02-15",
		Status:         interfaces.StatusOpen,
	}
	one := base
	one.ID, one.Ticker = "pos_1", "AAPL"
	two := base
	two.ID, two.Ticker = "pos_2", "TSLA"

	if err := storage.SavePositions([]*interfaces.Position{&one, &two}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Saving again with one position must drop the other
	if err := storage.SavePositions([]*interfaces.Position{&two}); err != nil {
		t.Fatalf("resave: %v", err)
	}

	loaded, err := storage.LoadPositions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "pos_2" {
		t.Errorf("expected only pos_2, got %+v", loaded)
	}

	if err := storage.SavePositions(nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	loaded, err = storage.LoadPositions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty collection, got %d", len(loaded))
	}
}

func TestClosedPositionsRoundTrip(t *testing.T) {
	storage := openTestStorage(t)

	closed := []*interfaces.ClosedPosition{
		{
			Position: interfaces.Position{
				ID:             "pos_1",
				Ticker:         "AAPL",
				OptionType:     interfaces.Call,
				StrikePrice:    100,
				PremiumPaid:    2,
				Contracts:      1,
				ExpirationDate: "2026-03-20",
				EntryDate:      "2026-02-15",
				Status:         interfaces.StatusClosed,
			},
			ExitDate:    "2026-02-20",
			ExitPremium: 3.5,
			RealizedPnL: 150,
		},
	}

	if err := storage.SaveClosedPositions(closed); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := storage.LoadClosedPositions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 closed position, got %d", len(loaded))
	}
	got := loaded[0]
	if got.ExitDate != "2026-02-20" || got.ExitPremium != 3.5 || got.RealizedPnL != 150 {
		t.Errorf("closed fields lost: %+v", got)
	}
	if got.Status != interfaces.StatusClosed {
		t.Errorf("expected CLOSED, got %v", got.Status)
	}
}

func TestLoadGoalsDefaults(t *testing.T) {
	storage := openTestStorage(t)

	goals, err := storage.LoadGoals()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 default goals, got %d", len(goals))
	}
	if goals[0].ID != "goal_1" || goals[1].ID != "goal_2" {
		t.Errorf("unexpected default goals: %+v %+v", goals[0], goals[1])
	}

	custom := []*interfaces.Goal{
		{ID: "goal_9", Name: "$10K", TargetAmount: 10000, TargetDate: "2026-12-31", CreatedDate: "2026-02-15"},
	}
	if err := storage.SaveGoals(custom); err != nil {
		t.Fatalf("save: %v", err)
	}
	goals, err = storage.LoadGoals()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != "goal_9" {
		t.Errorf("saved goals should replace the defaults: %+v", goals)
	}
}

func TestAPIKeyRoundTrip(t *testing.T) {
	storage := openTestStorage(t)

	key, err := storage.LoadAPIKey()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if key != "" {
		t.Errorf("expected empty key, got %q", key)
	}

	if err := storage.SaveAPIKey("abc123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := storage.SaveAPIKey("def456"); err != nil {
		t.Fatalf("resave: %v", err)
	}

	key, err = storage.LoadAPIKey()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if key != "def456" {
		t.Errorf("expected latest key, got %q", key)
	}
}

func TestClearAll(t *testing.T) {
	storage := openTestStorage(t)

	if err := storage.SaveAPIKey("abc123"); err != nil {
		t.Fatalf("save key: %v", err)
	}
	if err := storage.SaveGoals([]*interfaces.Goal{
		{ID: "goal_9", Name: "$10K", TargetAmount: 10000, TargetDate: "2026-12-31", CreatedDate: "2026-02-15"},
	}); err != nil {
		t.Fatalf("save goals: %v", err)
	}

	if err := storage.ClearAll(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	key, err := storage.LoadAPIKey()
	if err != nil {
		t.Fatalf("load key: %v", err)
	}
	if key != "" {
		t.Errorf("expected cleared key, got %q", key)
	}

	goals, err := storage.LoadGoals()
	if err != nil {
		t.Fatalf("load goals: %v", err)
	}
	if len(goals) != 2 {
		t.Errorf("expected defaults after clear, got %d goals", len(goals))
	}
}
