package entities

import "time"

// MonitoringSettings parameterizes the detectors for one monitoring type.
// Exactly one row per type; read before each evaluation cycle and mutated
// only through the settings API.
type MonitoringSettings struct {
	ID                             uint      `gorm:"primaryKey" json:"id"`
	MonitoringType                 string    `gorm:"column:tipo_monitoramento;size:20;not null;uniqueIndex" json:"tipo_monitoramento"`
	AnomalyEnabled                 bool      `gorm:"column:anomalia_habilitada;not null;default:true" json:"anomaly_enabled"`
	AnomalyWindowDays              int       `gorm:"column:anomalia_janela_dias;not null;default:7" json:"anomaly_moving_avg_days"`
	AnomalyStdDevMultiplier        float64   `gorm:"column:anomalia_multiplicador;not null;default:2" json:"anomaly_stddev_multiplier"`
	TrendEnabled                   bool      `gorm:"column:tendencia_habilitada;not null;default:true" json:"trend_enabled"`
	TrendConsecutivePeriods        int       `gorm:"column:tendencia_periodos;not null;default:3" json:"trend_consecutive_periods"`
	AutoResolveEnabled             bool      `gorm:"column:resolucao_auto_habilitada;not null;default:true" json:"auto_resolve_enabled"`
	AutoResolveConsecutiveReadings int       `gorm:"column:resolucao_auto_leituras;not null;default:2" json:"auto_resolve_consecutive_readings"`
	UpdatedAt                      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (MonitoringSettings) TableName() string {
	return "configuracoes_alerta"
}
