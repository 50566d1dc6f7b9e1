package settings

// Config 定义了每个活动一条的品牌与收款链接配置。
// 它是被动的键值设置，不参与队列核心的控制逻辑。
type Config struct {
	ID       uint `gorm:"primarykey" json:"id"`
	EventoID uint `gorm:"uniqueIndex;not null" json:"evento_id"`

	EventName string `gorm:"default:Mi Evento" json:"event_name"`
	Subtitle  string `gorm:"default:asong.live — DJ Request System" json:"subtitle"`
	LogoURL   string `json:"logo_url"`

	// 收款方式
	Cashapp  string `json:"cashapp"`
	Venmo    string `json:"venmo"`
	Applepay string `json:"applepay"`
	LoveText string `gorm:"default:Show Your Love" json:"love_text"`

	// 社交链接
	Instagram string `json:"instagram"`
	Tiktok    string `json:"tiktok"`
	Facebook  string `json:"facebook"`
	SpotifyDJ string `json:"spotify_dj"`
	Website   string `json:"website"`
}

// TableName 指定表名，保持与历史数据文件兼容
func (Config) TableName() string {
	return "configuracion"
}
