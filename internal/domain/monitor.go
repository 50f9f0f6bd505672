package domain

import (
	"fmt"
	"sort"
	"strings"
)

// CriticalRule flags a numeric parameter outside [Min, Max].
type CriticalRule struct {
	Parameter string
	Min       float64
	Max       float64
	Message   string
}

var DefaultCriticalRules = []CriticalRule{
	{Parameter: "Temperature", Min: 10, Max: 40, Message: "Temperature out of safe range (10-40°C)"},
	{Parameter: "Pressure", Min: 900, Max: 1100, Message: "Pressure out of safe range (900-1100hPa)"},
	{Parameter: "pH", Min: 5, Max: 9, Message: "pH out of safe range (5-9)"},
	{Parameter: "Sequence Length", Min: 50, Max: 5000, Message: "Sequence length out of safe range (50-5000)"},
}

type Alert struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
	Message   string `json:"message"`
}

// CheckParameters returns an alert for every parameter breaking its rule.
// Values that do not parse as numbers are skipped.
func CheckParameters(params []Parameter, rules []CriticalRule) []Alert {
	byName := make(map[string]CriticalRule, len(rules))
	for _, r := range rules {
		byName[r.Parameter] = r
	}

	var alerts []Alert
	for _, p := range params {
		rule, ok := byName[p.Name]
		if !ok {
			continue
		}
		v, ok := p.Float()
		if !ok {
			continue
		}
		if v < rule.Min || v > rule.Max {
			alerts = append(alerts, Alert{
				Parameter: p.Name,
				Value:     p.Value + p.Unit,
				Message:   rule.Message,
			})
		}
	}
	return alerts
}

// AlertSummary joins alerts into one notification message.
func AlertSummary(alerts []Alert) string {
	lines := make([]string, 0, len(alerts))
	for _, a := range alerts {
		lines = append(lines, fmt.Sprintf("%s: %s - %s", a.Parameter, a.Value, a.Message))
	}
	return strings.Join(lines, "\n")
}

// ParameterMedians returns the median of every numeric parameter across
// versions, keyed by parameter name. For an even count the upper middle
// value is used.
func ParameterMedians(versions []*ExperimentVersion) map[string]float64 {
	values := make(map[string][]float64)
	for _, v := range versions {
		for _, p := range v.Parameters {
			if f, ok := p.Float(); ok {
				values[p.Name] = append(values[p.Name], f)
			}
		}
	}

	medians := make(map[string]float64, len(values))
	for name, vs := range values {
		sort.Float64s(vs)
		medians[name] = vs[len(vs)/2]
	}
	return medians
}
