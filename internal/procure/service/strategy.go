package service

import (
	"github.com/shopspring/decimal"
)

// Selection strategy names accepted on replenishment creation
const (
	StrategyLowestCost       = "lowest_cost"
	StrategyBestAvailability = "best_availability"
	StrategyManual           = "manual"
)

// SelectionResult output of a selection strategy. Selections maps RFQ
// line id to the chosen quote id; Unfulfilled lists lines that had no
// quotes to choose from.
type SelectionResult struct {
	Selections  map[string]string `json:"selections"`
	Unfulfilled []string          `json:"unfulfilled"`
}

// SelectLowestCost picks the cheapest quote per line. Ties break to the
// larger QtyAvailable, then to the smaller quote id so the result is
// deterministic for identical inputs.
func SelectLowestCost(lines []LineView, desired map[string]decimal.Decimal) SelectionResult {
	result := SelectionResult{Selections: make(map[string]string)}

	for _, line := range lines {
		if len(line.Quotes) == 0 {
			result.Unfulfilled = append(result.Unfulfilled, line.RFQLineID)
			continue
		}
		best := line.Quotes[0]
		for _, q := range line.Quotes[1:] {
			if quoteLess(q, best) {
				best = q
			}
		}
		result.Selections[line.RFQLineID] = best.QuoteID
	}

	return result
}

// SelectBestAvailability prefers quotes that can cover the desired
// quantity, picking the cheapest among them. When no quote covers it,
// falls back to the largest availability, breaking ties on price then
// quote id.
func SelectBestAvailability(lines []LineView, desired map[string]decimal.Decimal) SelectionResult {
	result := SelectionResult{Selections: make(map[string]string)}

	for _, line := range lines {
		if len(line.Quotes) == 0 {
			result.Unfulfilled = append(result.Unfulfilled, line.RFQLineID)
			continue
		}

		want := line.QtyRequested
		if d, ok := desired[line.RFQLineID]; ok {
			want = d
		}

		var covering []QuoteView
		for _, q := range line.Quotes {
			if q.QtyAvailable.GreaterThanOrEqual(want) {
				covering = append(covering, q)
			}
		}

		if len(covering) > 0 {
			best := covering[0]
			for _, q := range covering[1:] {
				if quoteLess(q, best) {
					best = q
				}
			}
			result.Selections[line.RFQLineID] = best.QuoteID
			continue
		}

		// Nothing covers the desired quantity: maximize availability
		best := line.Quotes[0]
		for _, q := range line.Quotes[1:] {
			if availabilityGreater(q, best) {
				best = q
			}
		}
		result.Selections[line.RFQLineID] = best.QuoteID
	}

	return result
}

// quoteLess orders by price asc, availability desc, quote id asc
func quoteLess(a, b QuoteView) bool {
	if c := a.PriceEach.Cmp(b.PriceEach); c != 0 {
		return c < 0
	}
	if c := a.QtyAvailable.Cmp(b.QtyAvailable); c != 0 {
		return c > 0
	}
	return a.QuoteID < b.QuoteID
}

// availabilityGreater orders by availability desc, price asc, quote id asc
func availabilityGreater(a, b QuoteView) bool {
	if c := a.QtyAvailable.Cmp(b.QtyAvailable); c != 0 {
		return c > 0
	}
	if c := a.PriceEach.Cmp(b.PriceEach); c != 0 {
		return c < 0
	}
	return a.QuoteID < b.QuoteID
}
