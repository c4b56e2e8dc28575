package services

import (
	"math"
	"testing"
	"time"

	"eclipse-tracker/interfaces"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBreakeven(t *testing.T) {
	if got := Breakeven(100, 2, interfaces.Call); got != 102 {
		t.Errorf("call breakeven: expected 102, got %v", got)
	}
	if got := Breakeven(100, 2, interfaces.Put); got != 98 {
		t.Errorf("put breakeven: expected 98, got %v", got)
	}
}

func TestIntrinsicValue(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		strike     float64
		optionType interfaces.OptionType
		want       float64
	}{
		{"call ITM", 110, 100, interfaces.Call, 10},
		{"call OTM", 95, 100, interfaces.Call, 0},
		{"call ATM", 100, 100, interfaces.Call, 0},
		{"put ITM", 90, 100, interfaces.Put, 10},
		{"put OTM", 105, 100, interfaces.Put, 0},
		{"put ATM", 100, 100, interfaces.Put, 0},
	}
	for _, tt := range tests {
		if got := IntrinsicValue(tt.price, tt.strike, tt.optionType); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestIsInTheMoneyStrict(t *testing.T) {
	if IsInTheMoney(100, 100, interfaces.Call) {
		t.Error("call at strike must not be ITM")
	}
	if IsInTheMoney(100, 100, interfaces.Put) {
		t.Error("put at strike must not be ITM")
	}
	if !IsInTheMoney(100.01, 100, interfaces.Call) {
		t.Error("call above strike must be ITM")
	}
	if !IsInTheMoney(99.99, 100, interfaces.Put) {
		t.Error("put below strike must be ITM")
	}
}

func TestMaxLossAndATMProfit(t *testing.T) {
	cases := []struct {
		strike    float64
		premium   float64
		contracts int
	}{
		{100, 2, 1},
		{50, 0.35, 10},
		{420, 12.5, 3},
	}
	for _, tc := range cases {
		maxLoss := MaxLoss(tc.premium, tc.contracts)
		if want := tc.premium * float64(tc.contracts) * 100; !almostEqual(maxLoss, want) {
			t.Errorf("MaxLoss(%v, %d): expected %v, got %v", tc.premium, tc.contracts, want, maxLoss)
		}

		// At-the-money profit equals negative max loss
		atm := ProfitAtPrice(tc.strike, tc.strike, tc.premium, tc.contracts, interfaces.Call)
		if !almostEqual(atm, -maxLoss) {
			t.Errorf("ATM profit: expected %v, got %v", -maxLoss, atm)
		}
	}
}

func TestProfitAtPriceScenario(t *testing.T) {
	// strike=100, premium=2, contracts=1, CALL, underlying at 110
	if got := ProfitAtPrice(110, 100, 2, 1, interfaces.Call); !almostEqual(got, 800) {
		t.Errorf("expected 800, got %v", got)
	}
}

func TestDaysToExpirationFrom(t *testing.T) {
	now := time.Date(2026, 2, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		expiration string
		want       int
	}{
		{"ten days out", "2026-02-25", 10},
		{"tomorrow", "2026-02-16", 1},
		{"same day", "2026-02-15", 0},
		{"already expired", "2026-02-01", 0},
		{"unparseable", "not-a-date", 0},
	}
	for _, tt := range tests {
		if got := DaysToExpirationFrom(tt.expiration, now); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestCalcTodayReturn(t *testing.T) {
	ret := CalcTodayReturn(105, 100)
	if !almostEqual(ret.DollarChange, 5) || !almostEqual(ret.PercentChange, 5) {
		t.Errorf("expected {5, 5}, got %+v", ret)
	}

	// Missing previous close degrades to a flat move, never divides by zero
	ret = CalcTodayReturn(105, 0)
	if ret.DollarChange != 0 || ret.PercentChange != 0 {
		t.Errorf("expected zero return with no previous close, got %+v", ret)
	}
}

func TestEstimatedOptionValueAtExpiry(t *testing.T) {
	// With zero days left the estimate is pure intrinsic value
	for _, price := range []float64{80, 95, 100, 102, 110, 150} {
		got := EstimatedOptionValue(price, 100, 2, 0, interfaces.Call)
		want := IntrinsicValue(price, 100, interfaces.Call)
		if !almostEqual(got, want) {
			t.Errorf("price %v: expected intrinsic %v, got %v", price, want, got)
		}
	}
}

func TestEstimatedOptionValueScenario(t *testing.T) {
	// Deep enough ITM that the full premium reads as intrinsic: no time
	// value survives, estimate == intrinsic == 5
	got := EstimatedOptionValue(105, 100, 2, 30, interfaces.Call)
	if !almostEqual(got, 5) {
		t.Errorf("expected 5, got %v", got)
	}

	// OTM at the 30-day baseline keeps the full premium as time value
	got = EstimatedOptionValue(95, 100, 2, 30, interfaces.Call)
	if !almostEqual(got, 2) {
		t.Errorf("expected 2, got %v", got)
	}

	// Decay factor clamps at 1: more than 30 days adds nothing
	got = EstimatedOptionValue(95, 100, 2, 120, interfaces.Call)
	if !almostEqual(got, 2) {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestEstimatedOptionValueMonotonicInTime(t *testing.T) {
	prev := -1.0
	for dte := 0; dte <= 90; dte++ {
		got := EstimatedOptionValue(95, 100, 2, dte, interfaces.Call)
		if got < prev {
			t.Fatalf("estimate decreased at dte=%d: %v < %v", dte, got, prev)
		}
		prev = got
	}
}

func TestPositionPnLAt(t *testing.T) {
	now := time.Date(2026, 2, 15, 14, 30, 0, 0, time.UTC)
	position := &interfaces.Position{
		Ticker:         "AAPL",
		OptionType:     interfaces.Call,
		StrikePrice:    100,
		PremiumPaid:    2,
		Contracts:      1,
		ExpirationDate: now.AddDate(0, 0, 30).Format(interfaces.DateLayout),
	}

	// intrinsic 5, no surviving time value: (5-2)*1*100
	if got := PositionPnLAt(position, 105, now); !almostEqual(got, 300) {
		t.Errorf("expected 300, got %v", got)
	}
}

func TestProjectionRange(t *testing.T) {
	points := ProjectionRange(105, 100, 2, 1, interfaces.Call)

	if len(points) != 51 {
		t.Fatalf("expected 51 points, got %d", len(points))
	}

	// lower = min(105,100)*0.90, upper = max(105,100,102)*1.30
	if !almostEqual(points[0].UnderlyingPrice, 90) {
		t.Errorf("first point: expected 90, got %v", points[0].UnderlyingPrice)
	}
	if !almostEqual(points[50].UnderlyingPrice, 136.5) {
		t.Errorf("last point: expected 136.5, got %v", points[50].UnderlyingPrice)
	}

	breakeven := Breakeven(100, 2, interfaces.Call)
	transitions := 0
	for i, point := range points {
		wantAbove := point.UnderlyingPrice > breakeven
		if point.IsAboveBreakeven != wantAbove {
			t.Errorf("point %d (%v): flag %v, expected %v", i, point.UnderlyingPrice, point.IsAboveBreakeven, wantAbove)
		}
		if point.IsAboveBreakeven && point.Profit <= 0 {
			t.Errorf("point %d above breakeven but profit %v", i, point.Profit)
		}
		if i > 0 && points[i-1].IsAboveBreakeven != point.IsAboveBreakeven {
			transitions++
		}
	}
	if transitions != 1 {
		t.Errorf("expected exactly one breakeven crossing, got %d", transitions)
	}
}

func TestProjectionRangePut(t *testing.T) {
	points := ProjectionRange(95, 100, 3, 2, interfaces.Put)

	if len(points) != 51 {
		t.Fatalf("expected 51 points, got %d", len(points))
	}

	breakeven := Breakeven(100, 3, interfaces.Put)
	for i, point := range points {
		wantAbove := point.UnderlyingPrice < breakeven
		if point.IsAboveBreakeven != wantAbove {
			t.Errorf("point %d (%v): flag %v, expected %v", i, point.UnderlyingPrice, point.IsAboveBreakeven, wantAbove)
		}
	}
}
