package dashboard

import "strings"

// ConditionKind is the closed set of weather conditions the UI can draw. Free
// condition strings from the model are folded into one of these.
type ConditionKind int

const (
	ConditionCloud ConditionKind = iota
	ConditionThunderstorm
	ConditionRain
	ConditionSnow
	ConditionMist
	ConditionClear
	ConditionCloudSun
)

// ParseCondition folds a free-text condition into a ConditionKind. Unknown
// text falls back to cloud.
func ParseCondition(condition string) ConditionKind {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "thunderstorm"):
		return ConditionThunderstorm
	case strings.Contains(c, "drizzle"), strings.Contains(c, "rain"):
		return ConditionRain
	case strings.Contains(c, "snow"):
		return ConditionSnow
	case strings.Contains(c, "mist"), strings.Contains(c, "fog"), strings.Contains(c, "haze"):
		return ConditionMist
	case strings.Contains(c, "clear"):
		return ConditionClear
	case strings.Contains(c, "sun") && strings.Contains(c, "cloud"):
		return ConditionCloudSun
	case strings.Contains(c, "sun"):
		return ConditionClear
	default:
		return ConditionCloud
	}
}

// Icon returns the SVG symbol reference for the condition.
func (k ConditionKind) Icon() string {
	switch k {
	case ConditionThunderstorm:
		return "#icon-thunderstorm"
	case ConditionRain:
		return "#icon-rain"
	case ConditionSnow:
		return "#icon-snow"
	case ConditionMist:
		return "#icon-mist"
	case ConditionClear:
		return "#icon-sun"
	case ConditionCloudSun:
		return "#icon-cloud-sun"
	default:
		return "#icon-cloud"
	}
}

// ConditionIcon is the one-step helper templates use.
func ConditionIcon(condition string) string {
	return ParseCondition(condition).Icon()
}

// AgroTipIcon maps a tip category to its icon. The prompt constrains
// categories to Planting, Watering, Protection and General, but the mapping
// tolerates anything.
func AgroTipIcon(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "planting":
		return "#icon-agro"
	case "watering":
		return "#icon-humidity"
	case "protection":
		return "#icon-alert"
	default:
		return "#icon-info"
	}
}

// AvalancheRiskClass maps a risk level to its CSS class. Unknown levels get
// no class.
func AvalancheRiskClass(risk string) string {
	r := strings.ToLower(risk)
	switch {
	case strings.Contains(r, "extreme"):
		return "risk-extreme"
	case strings.Contains(r, "high"):
		return "risk-high"
	case strings.Contains(r, "considerable"):
		return "risk-considerable"
	case strings.Contains(r, "moderate"):
		return "risk-moderate"
	case strings.Contains(r, "low"):
		return "risk-low"
	default:
		return ""
	}
}

// SeverityClass converts an alert severity into a CSS class suffix, e.g.
// "severity-warning".
func SeverityClass(severity string) string {
	s := strings.TrimSpace(strings.ToLower(severity))
	if s == "" {
		return "severity-advisory"
	}
	return "severity-" + strings.ReplaceAll(s, " ", "-")
}
