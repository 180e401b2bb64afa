// Package pricing implements deterministic margin and price analysis over a
// catalog snapshot. Nothing in this package performs I/O or mutates the snapshot.
package pricing

import "math"

// Margin returns the profit margin of price over cost as a percentage.
// It is 0 for non-positive prices and for non-finite inputs.
func Margin(price, cost float64) float64 {
	if price <= 0 || !finite(price) || !finite(cost) {
		return 0
	}
	return ((price - cost) / price) * 100
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
