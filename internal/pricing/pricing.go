// Package pricing converts token usage into a monetary estimate. All
// arithmetic is fixed-point decimal; binary floats would drift across the
// many records the store accumulates.
package pricing

import "github.com/shopspring/decimal"

var per1K = decimal.NewFromInt(1000)

// Table holds the configured per-1000-token rates. Zero rates make cost
// reporting a no-op.
type Table struct {
	InputPer1K  decimal.Decimal
	OutputPer1K decimal.Decimal
}

// Cost returns (promptTokens*InputPer1K + responseTokens*OutputPer1K) / 1000.
func (t Table) Cost(promptTokens, responseTokens int) decimal.Decimal {
	in := decimal.NewFromInt(int64(promptTokens)).Mul(t.InputPer1K)
	out := decimal.NewFromInt(int64(responseTokens)).Mul(t.OutputPer1K)
	return in.Add(out).Div(per1K)
}
