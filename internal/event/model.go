package event

import "time"

// Event 定义了一场活动（一次DJ演出），它拥有自己独立的点歌队列。
// 当前设计同一时刻只有一个活动处于激活状态。
type Event struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	Nombre   string    `gorm:"not null" json:"nombre"`
	Activo   bool      `gorm:"default:true" json:"activo"`
	CreadoEn time.Time `gorm:"autoCreateTime" json:"creado_en"`
}

// TableName 指定表名，保持与历史数据文件兼容
func (Event) TableName() string {
	return "eventos"
}
