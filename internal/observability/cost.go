package observability

import (
	"strconv"

	"github.com/Conceptual-Machines/review-generator/internal/models"
)

// Pricing constants
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6

	// Sarvam-M pricing
	sarvamMInputPrice  = 0.0
	sarvamMOutputPrice = 0.0

	// Gemini 2.5 Flash pricing
	gemini25FlashInputPrice  = 0.0003
	gemini25FlashOutputPrice = 0.0025

	// GPT-4o-mini pricing
	gpt4oMiniInputPrice  = 0.00015
	gpt4oMiniOutputPrice = 0.0006

	defaultPricingModel = "gpt-4o-mini"
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for the supported completion models
var PricingTable = map[string]ModelPricing{
	"sarvam-m": {
		InputPricePer1K:  sarvamMInputPrice,
		OutputPricePer1K: sarvamMOutputPrice,
	},
	"gemini-2.5-flash": {
		InputPricePer1K:  gemini25FlashInputPrice,
		OutputPricePer1K: gemini25FlashOutputPrice,
	},
	"gpt-4o-mini": {
		InputPricePer1K:  gpt4oMiniInputPrice,
		OutputPricePer1K: gpt4oMiniOutputPrice,
	},
}

// CalculateCost calculates the cost in USD of one completion from its usage block
func CalculateCost(model string, usage models.TokenUsage) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		pricing = PricingTable[defaultPricingModel]
	}

	input, _ := usage.Int("prompt_tokens")
	output, _ := usage.Int("completion_tokens")

	inputCost := (float64(input) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(output) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
