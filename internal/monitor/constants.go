// Package monitor implements the alert evaluation engine: per-item
// statistical evaluation, deduplicating alert persistence, auto-resolution,
// the live polling scheduler, and the backfill pass.
package monitor

// Monitoring types define the categories of tracked metrics. Each type has
// independent alerting configuration.
const (
	TypeMPS        = "mps"
	TypeSLAQueue   = "sla_fila"
	TypeSLAProject = "sla_projeto"
)

// MonitoringTypes lists every known monitoring type in evaluation order.
var MonitoringTypes = []string{TypeMPS, TypeSLAQueue, TypeSLAProject}

// Alert types classify the detected condition.
const (
	AlertTypeLimit   = "limite"
	AlertTypeAnomaly = "anomalia"
	AlertTypeTrend   = "tendencia"
)

// Severities rank alert urgency.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Global threshold defaults, used when an item carries no override.
const (
	DefaultAttentionTarget = 80.0
	DefaultExcellentTarget = 98.0
)

// ValidMonitoringType reports whether t is a known monitoring type.
func ValidMonitoringType(t string) bool {
	for _, known := range MonitoringTypes {
		if t == known {
			return true
		}
	}
	return false
}
