package usage

import "github.com/shopspring/decimal"

// Model pricing constants (USD per token) - can be configured externally
var ModelPricing = map[string]struct {
	PromptPrice     decimal.Decimal
	CompletionPrice decimal.Decimal
}{
	"gpt-4o":            {decimal.NewFromFloat(0.000005), decimal.NewFromFloat(0.000015)},
	"gpt-4o-mini":       {decimal.NewFromFloat(0.00000015), decimal.NewFromFloat(0.0000006)},
	"gpt-3.5-turbo":     {decimal.NewFromFloat(0.0000005), decimal.NewFromFloat(0.0000015)},
	"claude-3-haiku":    {decimal.NewFromFloat(0.00000025), decimal.NewFromFloat(0.00000125)},
	"claude-3.5-sonnet": {decimal.NewFromFloat(0.000003), decimal.NewFromFloat(0.000015)},
}

// CalculateCost estimates the cost of a model response when the caller did
// not provide one.
func CalculateCost(model string, promptTokens, completionTokens int64) decimal.Decimal {
	pricing, exists := ModelPricing[model]
	if !exists {
		// Default pricing for unknown models
		pricing = struct {
			PromptPrice     decimal.Decimal
			CompletionPrice decimal.Decimal
		}{
			PromptPrice:     decimal.NewFromFloat(0.000003),
			CompletionPrice: decimal.NewFromFloat(0.000006),
		}
	}

	promptCost := pricing.PromptPrice.Mul(decimal.NewFromInt(promptTokens))
	completionCost := pricing.CompletionPrice.Mul(decimal.NewFromInt(completionTokens))

	return promptCost.Add(completionCost)
}
