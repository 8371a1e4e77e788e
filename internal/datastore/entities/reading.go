package entities

import "time"

// Reading is a single percentage observation for one monitored item at one
// point in time. Values are nominally 0-100 but may exceed bounds
// transiently; readings are immutable once recorded.
type Reading struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MonitoringType string    `gorm:"column:tipo_monitoramento;size:20;not null;index:idx_historico_item,priority:1" json:"tipo_monitoramento"`
	ItemID         string    `gorm:"column:identificador_item;size:255;not null;index:idx_historico_item,priority:2" json:"identificador_item"`
	Timestamp      time.Time `gorm:"column:registrado_em;not null;index:idx_historico_item,priority:3" json:"registrado_em"`
	Value          float64   `gorm:"column:percentual;not null" json:"percentual"`
}

// TableName returns the table name for GORM.
func (Reading) TableName() string {
	return "historico_metricas"
}
