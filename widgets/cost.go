package widgets

import (
	"fmt"
	"math"
)

// Rate is a model's price in dollars per 1K tokens.
type Rate struct {
	Model  string
	Input  float64
	Output float64
}

// Rates are the models offered by the estimator, cheapest first.
var Rates = []Rate{
	{Model: "GPT-3.5 Turbo", Input: 0.0015, Output: 0.002},
	{Model: "GPT-4 Turbo", Input: 0.01, Output: 0.03},
	{Model: "GPT-4 (8K)", Input: 0.03, Output: 0.06},
}

// Slider bounds and defaults for the estimator inputs.
const (
	MinTokens       = 100
	MaxTokens       = 4000
	DefaultTokens   = 500
	MinRequests     = 10
	MaxRequests     = 5000
	DefaultRequests = 1000
	DaysPerMonth    = 30
)

// CostInput is one estimator query.
type CostInput struct {
	Model          string
	TokensIn       int
	TokensOut      int
	RequestsPerDay int
}

// CostEstimate is the estimator's result in dollars.
type CostEstimate struct {
	CostInput
	Daily   float64
	Monthly float64
}

// DefaultCostInput is what the estimator shows before any input.
func DefaultCostInput() CostInput {
	return CostInput{
		Model:          Rates[0].Model,
		TokensIn:       DefaultTokens,
		TokensOut:      DefaultTokens,
		RequestsPerDay: DefaultRequests,
	}
}

// LookupRate finds a model's rate.
func LookupRate(model string) (Rate, bool) {
	for _, r := range Rates {
		if r.Model == model {
			return r, true
		}
	}
	return Rate{}, false
}

// EstimateCost clamps the inputs to the slider ranges and prices them:
// daily = (in*rateIn + out*rateOut) / 1000 * requests, monthly = daily * 30.
func EstimateCost(in CostInput) (CostEstimate, error) {
	rate, ok := LookupRate(in.Model)
	if !ok {
		return CostEstimate{}, fmt.Errorf("unknown model %q", in.Model)
	}
	in.TokensIn = clamp(in.TokensIn, MinTokens, MaxTokens)
	in.TokensOut = clamp(in.TokensOut, MinTokens, MaxTokens)
	in.RequestsPerDay = clamp(in.RequestsPerDay, MinRequests, MaxRequests)

	perRequest := (float64(in.TokensIn)*rate.Input + float64(in.TokensOut)*rate.Output) / 1000
	daily := perRequest * float64(in.RequestsPerDay)
	return CostEstimate{
		CostInput: in,
		Daily:     roundCents(daily),
		Monthly:   roundCents(daily * DaysPerMonth),
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
