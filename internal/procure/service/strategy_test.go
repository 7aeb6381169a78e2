package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func twoLineView() []LineView {
	return []LineView{
		{
			RFQLineID:    "line-a",
			LineNo:       1,
			QtyRequested: dec("100"),
			UOM:          "EA",
			Quotes: []QuoteView{
				{QuoteID: "quote-ax", Vendor: VendorRef{VendorID: "vendor-x"}, PriceEach: dec("2.00"), QtyAvailable: dec("100")},
				{QuoteID: "quote-ay", Vendor: VendorRef{VendorID: "vendor-y"}, PriceEach: dec("1.80"), QtyAvailable: dec("40")},
			},
		},
		{
			RFQLineID:    "line-b",
			LineNo:       2,
			QtyRequested: dec("50"),
			UOM:          "EA",
			Quotes: []QuoteView{
				{QuoteID: "quote-bx", Vendor: VendorRef{VendorID: "vendor-x"}, PriceEach: dec("5.00"), QtyAvailable: dec("50")},
			},
		},
	}
}

func TestSelectLowestCostPicksCheapestQuote(t *testing.T) {
	result := SelectLowestCost(twoLineView(), nil)

	if len(result.Unfulfilled) != 0 {
		t.Fatalf("Expected no unfulfilled lines, got %v", result.Unfulfilled)
	}
	if got := result.Selections["line-a"]; got != "quote-ay" {
		t.Errorf("Expected line-a to pick quote-ay (cheapest), got %s", got)
	}
	if got := result.Selections["line-b"]; got != "quote-bx" {
		t.Errorf("Expected line-b to pick quote-bx, got %s", got)
	}
}

func TestSelectLowestCostTieBreaksOnAvailabilityThenID(t *testing.T) {
	lines := []LineView{
		{
			RFQLineID:    "line-1",
			LineNo:       1,
			QtyRequested: dec("10"),
			Quotes: []QuoteView{
				{QuoteID: "quote-b", PriceEach: dec("3.00"), QtyAvailable: dec("20")},
				{QuoteID: "quote-a", PriceEach: dec("3.00"), QtyAvailable: dec("50")},
			},
		},
		{
			RFQLineID:    "line-2",
			LineNo:       2,
			QtyRequested: dec("10"),
			Quotes: []QuoteView{
				{QuoteID: "quote-d", PriceEach: dec("3.00"), QtyAvailable: dec("20")},
				{QuoteID: "quote-c", PriceEach: dec("3.00"), QtyAvailable: dec("20")},
			},
		},
	}

	result := SelectLowestCost(lines, nil)

	if got := result.Selections["line-1"]; got != "quote-a" {
		t.Errorf("Equal price should break tie on availability, got %s", got)
	}
	if got := result.Selections["line-2"]; got != "quote-c" {
		t.Errorf("Equal price and availability should break tie on id, got %s", got)
	}
}

func TestSelectBestAvailabilityPrefersCoveringQuote(t *testing.T) {
	result := SelectBestAvailability(twoLineView(), nil)

	// VendorY is cheaper on line A but only covers 40 of 100
	if got := result.Selections["line-a"]; got != "quote-ax" {
		t.Errorf("Expected line-a to pick the covering quote-ax, got %s", got)
	}
	if got := result.Selections["line-b"]; got != "quote-bx" {
		t.Errorf("Expected line-b to pick quote-bx, got %s", got)
	}

	// Single-vendor outcome: total cost 100*2.00 + 50*5.00 = 450.00
	view := twoLineView()
	total := view[0].Quotes[0].PriceEach.Mul(view[0].QtyRequested).
		Add(view[1].Quotes[0].PriceEach.Mul(view[1].QtyRequested))
	if !total.Equal(dec("450.00")) {
		t.Errorf("Expected total 450.00, got %s", total)
	}
}

func TestSelectBestAvailabilityFallsBackToMaxAvailability(t *testing.T) {
	lines := []LineView{
		{
			RFQLineID:    "line-1",
			LineNo:       1,
			QtyRequested: dec("100"),
			Quotes: []QuoteView{
				{QuoteID: "quote-a", PriceEach: dec("1.00"), QtyAvailable: dec("30")},
				{QuoteID: "quote-b", PriceEach: dec("2.00"), QtyAvailable: dec("80")},
			},
		},
	}

	result := SelectBestAvailability(lines, nil)

	// Nobody covers 100, so the largest availability wins
	if got := result.Selections["line-1"]; got != "quote-b" {
		t.Errorf("Expected fallback to max availability quote-b, got %s", got)
	}
}

func TestSelectBestAvailabilityHonorsDesiredQuantities(t *testing.T) {
	lines := twoLineView()
	desired := map[string]decimal.Decimal{
		"line-a": dec("40"),
	}

	result := SelectBestAvailability(lines, desired)

	// With desired qty 40 the cheaper VendorY quote covers the line
	if got := result.Selections["line-a"]; got != "quote-ay" {
		t.Errorf("Expected quote-ay to cover the reduced qty, got %s", got)
	}
}

func TestStrategiesReportUnfulfilledLines(t *testing.T) {
	lines := []LineView{
		{RFQLineID: "line-1", LineNo: 1, QtyRequested: dec("10"), Quotes: []QuoteView{}},
		{
			RFQLineID:    "line-2",
			LineNo:       2,
			QtyRequested: dec("10"),
			Quotes: []QuoteView{
				{QuoteID: "quote-a", PriceEach: dec("1.00"), QtyAvailable: dec("10")},
			},
		},
	}

	for _, result := range []SelectionResult{
		SelectLowestCost(lines, nil),
		SelectBestAvailability(lines, nil),
	} {
		if len(result.Unfulfilled) != 1 || result.Unfulfilled[0] != "line-1" {
			t.Errorf("Expected line-1 unfulfilled, got %v", result.Unfulfilled)
		}
		if _, ok := result.Selections["line-1"]; ok {
			t.Error("Quoteless line must not appear in selections")
		}
		if got := result.Selections["line-2"]; got != "quote-a" {
			t.Errorf("Expected line-2 selected, got %s", got)
		}
	}
}
