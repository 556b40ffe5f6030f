package widgets

import "math"

const (
	MinTemperature     = 0.1
	MaxTemperature     = 1.0
	DefaultTemperature = 0.7
	DefaultDemoPrompt  = "Describe our app in one sentence."
)

// TemperatureDemo shows how a temperature band changes a sample output.
type TemperatureDemo struct {
	Temperature float64
	Prompt      string
	Band        string // low, medium, high
	Label       string
	Output      string
}

// DemoTemperature clamps t to [0.1, 1.0], rounds it to one decimal place and
// picks the matching band's sample output.
func DemoTemperature(t float64, prompt string) TemperatureDemo {
	if math.IsNaN(t) {
		t = DefaultTemperature
	}
	t = math.Round(math.Min(math.Max(t, MinTemperature), MaxTemperature)*10) / 10
	if prompt == "" {
		prompt = DefaultDemoPrompt
	}

	d := TemperatureDemo{Temperature: t, Prompt: prompt}
	switch {
	case t < 0.3:
		d.Band = "low"
		d.Label = "Low Temperature (Factual & Consistent)"
		d.Output = "Our app helps freelancers manage budgets. It's secure and simple."
	case t < 0.7:
		d.Band = "medium"
		d.Label = "Medium Temperature (Balanced & Natural)"
		d.Output = "Meet your financial sidekick: smart, helpful, and always on call."
	default:
		d.Band = "high"
		d.Label = "High Temperature (Creative & Risky)"
		d.Output = "Money? Managed. Chaos? Cancelled. Our app is your freedom button."
	}
	return d
}
