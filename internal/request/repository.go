package request

import (
	"errors"
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"gorm.io/gorm"
)

// ErrNotFound 表示请求的点歌记录不存在
var ErrNotFound = errors.New("点歌请求不存在")

// queueOrder 是队列的全序排序规则：
// 票数降序，平票时创建时间升序（先到先得），最后用ID兜底保证稳定
const queueOrder = "votos DESC, creado_en ASC, id ASC"

// HistoryRow 是DJ控制台完整历史视图的一行，附带活动名称。
type HistoryRow struct {
	Request
	EventoNombre string `json:"evento_nombre"`
}

// create 持久化一条新的点歌请求
func create(r *Request) error {
	return database.DB.Create(r).Error
}

// countPendingByIP 统计同一IP在同一活动中处于pending状态的请求数，
// 作为提交限流的依据
func countPendingByIP(eventoID uint, ip string) (int64, error) {
	var count int64
	err := database.DB.Model(&Request{}).
		Where("evento_id = ? AND ip_solicitante = ? AND estado = ?", eventoID, ip, EstadoPending).
		Count(&count).Error
	return count, err
}

// ListQueue 返回一个活动的公开队列视图：
// 只含pending/approved状态，按queueOrder排序。
// 排序是纯派生视图，每次读取都重新计算，从不缓存。
func ListQueue(eventoID uint) ([]Request, error) {
	var rows []Request
	err := database.DB.
		Where("evento_id = ? AND estado IN ?", eventoID, []Estado{EstadoPending, EstadoApproved}).
		Order(queueOrder).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询队列失败: %w", err)
	}
	return rows, nil
}

// ListHistory 返回一个活动的完整历史视图（DJ控制台用），
// 包含rejected与played的记录，并携带活动名称。
func ListHistory(eventoID uint) ([]HistoryRow, error) {
	var rows []HistoryRow
	err := database.DB.Model(&Request{}).
		Select("solicitudes.*, eventos.nombre AS evento_nombre").
		Joins("JOIN eventos ON eventos.id = solicitudes.evento_id").
		Where("solicitudes.evento_id = ?", eventoID).
		Order(queueOrder).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询完整历史失败: %w", err)
	}
	return rows, nil
}

// GetByID 根据ID获取单条点歌请求
func GetByID(id uint) (*Request, error) {
	var r Request
	err := database.DB.First(&r, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询点歌请求失败: %w", err)
	}
	return &r, nil
}

// UpdateEstado 持久化一次状态转换
func UpdateEstado(id uint, estado Estado) error {
	return database.DB.Model(&Request{}).Where("id = ?", id).
		UpdateColumn("estado", estado).Error
}
