package forecast

import (
	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// Rule attaches a message to forecasts matching a direction and a minimum
// backtest error. An empty Direction matches any direction; MinMAPE 0 matches
// regardless of whether a MAPE exists.
type Rule struct {
	Direction analytics.TrendDirection `mapstructure:"direction" json:"direction,omitempty"`
	MinMAPE   float64                  `mapstructure:"min_mape" json:"minMape,omitempty"`
	Message   string                   `mapstructure:"message" json:"message"`
}

// Matches reports whether the rule applies
func (r Rule) Matches(direction analytics.TrendDirection, mape *float64) bool {
	if r.Direction != "" && r.Direction != direction {
		return false
	}
	if r.MinMAPE > 0 && (mape == nil || *mape < r.MinMAPE) {
		return false
	}
	return true
}

// RuleSet is evaluated in order; every matching rule contributes
type RuleSet []Rule

// Evaluate returns the messages of all matching rules, never nil
func (rs RuleSet) Evaluate(direction analytics.TrendDirection, mape *float64) []string {
	messages := []string{}
	for _, r := range rs {
		if r.Matches(direction, mape) {
			messages = append(messages, r.Message)
		}
	}
	return messages
}

// HighErrorMAPE is the backtest error above which forecasts carry a caution
const HighErrorMAPE = 20

// DefaultRules returns the built-in recommendation rules
func DefaultRules() RuleSet {
	return RuleSet{
		{Direction: analytics.TrendRising, Message: "Stock levels are projected to increase. Consider sustainable harvest planning."},
		{Direction: analytics.TrendRising, Message: "Monitor growth patterns for optimal fishing windows."},
		{Direction: analytics.TrendFalling, Message: "Stock levels showing decline. Recommend conservation measures."},
		{Direction: analytics.TrendFalling, Message: "Review fishing quotas and implement protective policies."},
		{Direction: analytics.TrendStable, Message: "Stock levels stable. Maintain current management practices."},
		{Direction: analytics.TrendFalling, MinMAPE: HighErrorMAPE, Message: "Decline forecast has high backtest error. Verify with survey data before acting."},
		{MinMAPE: HighErrorMAPE, Message: "Forecast uncertainty is high. Treat projected values with caution."},
	}
}
