package request

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/dj-request-backend/internal/platform/config"
)

var (
	// ErrValidation 表示提交缺少必填字段
	ErrValidation = errors.New("canción y artista son requeridos")
	// ErrRateLimited 表示同一IP的待审核请求数已达上限
	ErrRateLimited = errors.New("ya tienes solicitudes pendientes, espera a que el DJ las revise")
)

// SubmitInput 是一次点歌提交的输入参数。
type SubmitInput struct {
	EventoID    uint
	Cancion     string
	Artista     string
	SpotifyID   string
	PortadaURL  string
	Dedicatoria string
	IP          string
}

// Submit 校验并持久化一条新的点歌请求。
// 校验失败返回ErrValidation；触发限流返回ErrRateLimited。
// 献词超长时截断而不是拒绝。
func Submit(in SubmitInput) (*Request, error) {
	cancion := strings.TrimSpace(in.Cancion)
	artista := strings.TrimSpace(in.Artista)
	if cancion == "" || artista == "" {
		return nil, ErrValidation
	}

	// 截断按字符计数，避免把多字节字符切坏
	dedicatoria := strings.TrimSpace(in.Dedicatoria)
	maxDedication := config.Cfg.Request.MaxDedication
	if runes := []rune(dedicatoria); len(runes) > maxDedication {
		dedicatoria = string(runes[:maxDedication])
	}

	// 反垃圾策略：同一IP同一活动最多N条pending
	count, err := countPendingByIP(in.EventoID, in.IP)
	if err != nil {
		return nil, fmt.Errorf("统计待审核请求失败: %w", err)
	}
	if count >= int64(config.Cfg.Request.MaxPending) {
		return nil, ErrRateLimited
	}

	nueva := Request{
		EventoID:      in.EventoID,
		Cancion:       cancion,
		Artista:       artista,
		SpotifyID:     in.SpotifyID,
		PortadaURL:    in.PortadaURL,
		Dedicatoria:   dedicatoria,
		Votos:         1,
		Estado:        EstadoPending,
		IPSolicitante: in.IP,
	}
	if err := create(&nueva); err != nil {
		return nil, fmt.Errorf("无法持久化点歌请求: %w", err)
	}
	return &nueva, nil
}
