package vote

import "time"

// Vote 定义了单次投票记录的数据结构。
// (solicitud_id, ip_votante) 上的唯一索引在存储层强制
// “每个身份对每条请求最多一票”的不变量。
// 记录只会被创建，从不修改或删除。
type Vote struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	SolicitudID uint      `gorm:"not null;uniqueIndex:idx_votos_solicitud_ip" json:"solicitud_id"`
	IPVotante   string    `gorm:"not null;uniqueIndex:idx_votos_solicitud_ip" json:"-"`
	CreadoEn    time.Time `gorm:"autoCreateTime" json:"creado_en"`
}

// TableName 指定表名，保持与历史数据文件兼容
func (Vote) TableName() string {
	return "votos"
}
