package entities

import "time"

// Alert is a persisted alerting condition for one monitored item. Column
// names follow the legacy dashboard schema (Portuguese) so the existing
// frontend keeps reading the same tables.
//
// At most one untreated alert may exist per (tipo_monitoramento,
// identificador_item, tipo_alerta). ActiveKey encodes that triple while the
// alert is active and is set to NULL on treatment; the unique index on it is
// the database-level backstop against duplicate active alerts (NULLs never
// collide, so treated history rows coexist freely).
type Alert struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	MonitoringType string     `gorm:"column:tipo_monitoramento;size:20;not null;index:idx_alertas_item" json:"tipo_monitoramento"`
	ItemID         string     `gorm:"column:identificador_item;size:255;not null;index:idx_alertas_item" json:"identificador_item"`
	AlertType      string     `gorm:"column:tipo_alerta;size:20;not null" json:"tipo_alerta"`
	Severity       string     `gorm:"column:severidade;size:10;not null" json:"severidade"`
	CurrentPercent float64    `gorm:"column:percentual_atual;not null" json:"percentual_atual"`
	Context        string     `gorm:"column:contexto;type:text;default:''" json:"contexto"`
	DetectedAt     time.Time  `gorm:"column:detectado_em;not null" json:"detectado_em"`
	Treated        bool       `gorm:"column:tratado;not null;default:false;index" json:"tratado"`
	TreatedAt      *time.Time `gorm:"column:tratado_em" json:"tratado_em"`
	TreatComment   *string    `gorm:"column:comentario_tratamento;size:1000" json:"comentario_tratamento"`
	CleanStreak    int        `gorm:"column:leituras_limpas;not null;default:0" json:"leituras_limpas"`
	ActiveKey      *string    `gorm:"column:chave_ativa;size:300;uniqueIndex" json:"-"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for GORM.
func (Alert) TableName() string {
	return "alertas"
}
