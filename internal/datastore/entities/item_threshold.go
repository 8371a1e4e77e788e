package entities

import "time"

// ItemThreshold is an optional per-item override of the attention/excellent
// targets. Items without a row use the monitoring type's global defaults.
type ItemThreshold struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	MonitoringType  string    `gorm:"column:tipo_monitoramento;size:20;not null;uniqueIndex:idx_metas_item,priority:1" json:"tipo_monitoramento"`
	ItemID          string    `gorm:"column:identificador_item;size:255;not null;uniqueIndex:idx_metas_item,priority:2" json:"identificador_item"`
	AttentionTarget float64   `gorm:"column:meta_atencao;not null" json:"meta_atencao"`
	ExcellentTarget float64   `gorm:"column:meta_excelente;not null" json:"meta_excelente"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM.
func (ItemThreshold) TableName() string {
	return "metas_item"
}
