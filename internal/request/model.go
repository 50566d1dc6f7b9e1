package request

import "time"

// Estado 定义了点歌请求生命周期状态的枚举类型
type Estado string

const (
	// EstadoPending 是新请求的初始状态，等待DJ审核
	EstadoPending Estado = "pending"
	// EstadoApproved 表示DJ已接受该请求
	EstadoApproved Estado = "approved"
	// EstadoRejected 表示DJ已拒绝该请求（终态）
	EstadoRejected Estado = "rejected"
	// EstadoPlayed 表示歌曲已播放（终态）
	EstadoPlayed Estado = "played"
)

// Request 定义了一条点歌请求的持久化模型。
// 请求只会被创建、被投票递增和被状态转换，从不物理删除。
type Request struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	EventoID uint   `gorm:"index;not null" json:"evento_id"`
	Cancion  string `gorm:"not null" json:"cancion"`
	Artista  string `gorm:"not null" json:"artista"`

	// SpotifyID 是外部歌曲目录的标识（历史字段名，实际来自iTunes查询）
	SpotifyID   string `json:"spotify_id"`
	PortadaURL  string `json:"portada_url"`
	Dedicatoria string `json:"dedicatoria"`

	// Votos 从1开始：提交者自带一票
	Votos  int    `gorm:"default:1" json:"votos"`
	Estado Estado `gorm:"index;default:pending" json:"estado"`

	// IPSolicitante 是提交者的网络身份，用于限流，不对外暴露
	IPSolicitante string    `gorm:"index" json:"-"`
	CreadoEn      time.Time `gorm:"autoCreateTime" json:"creado_en"`
}

// TableName 指定表名，保持与历史数据文件兼容
func (Request) TableName() string {
	return "solicitudes"
}
