package dj

import (
	"errors"
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/notify"
	"github.com/SlpAus/dj-request-backend/internal/request"
)

var (
	// ErrBadSecret 表示DJ共享密码不正确
	ErrBadSecret = errors.New("contraseña incorrecta")
	// ErrInvalidState 表示目标状态不在允许的集合内
	ErrInvalidState = errors.New("estado inválido")
)

// Service 实现DJ的审核操作：状态转换与“下一首”信号。
type Service struct {
	hub *notify.Hub
}

func NewService(hub *notify.Hub) *Service {
	return &Service{hub: hub}
}

// mensajeUsuario 是推送给提交者本人的状态消息
type mensajeUsuario struct {
	Tipo    string `json:"tipo"`
	Mensaje string `json:"mensaje"`
}

// mensajeEstado 是推送给DJ和大屏的通用状态变更事件
type mensajeEstado struct {
	Tipo   string         `json:"tipo"`
	ID     uint           `json:"id"`
	Estado request.Estado `json:"estado"`
}

// mensajeParaEstado 生成对提交者友好的状态文案
func mensajeParaEstado(estado request.Estado, cancion string) string {
	switch estado {
	case request.EstadoApproved:
		return fmt.Sprintf("¡Tu canción %s fue aprobada! 🎉", cancion)
	case request.EstadoRejected:
		return fmt.Sprintf("Tu canción %s fue rechazada esta vez", cancion)
	case request.EstadoPlayed:
		return fmt.Sprintf("¡Tu canción %s está sonando ahora! 🎶", cancion)
	default:
		return ""
	}
}

// Transition 执行一次DJ驱动的状态转换。
//
// 目标状态只允许 approved/rejected/played（不允许转回pending）。
// 当前设计沿用宽松的状态机：不校验转换的前置状态，
// 任何历史状态都接受这三个目标。收紧需要显式的设计变更。
//
// 持久化成功后才推送通知：先通知该请求的提交者（带歌名的文案），
// 再向DJ与大屏广播通用的状态变更事件。
func (s *Service) Transition(solicitudID uint, target request.Estado) error {
	switch target {
	case request.EstadoApproved, request.EstadoRejected, request.EstadoPlayed:
	default:
		return ErrInvalidState
	}

	sol, err := request.GetByID(solicitudID)
	if err != nil {
		return err
	}

	if err := request.UpdateEstado(solicitudID, target); err != nil {
		return fmt.Errorf("无法持久化状态转换: %w", err)
	}

	s.hub.NotifySubmitter(solicitudID, mensajeUsuario{
		Tipo:    string(target),
		Mensaje: mensajeParaEstado(target, sol.Cancion),
	})
	s.hub.BroadcastDJ(mensajeEstado{Tipo: "estado_actualizado", ID: solicitudID, Estado: target})

	return nil
}

// SignalNext 向提交者发送“你的歌是下一首”的信号。
// 这只是一个通知旁路，不持久化、不改变estado。
func (s *Service) SignalNext(solicitudID uint) error {
	sol, err := request.GetByID(solicitudID)
	if err != nil {
		return err
	}

	s.hub.NotifySubmitter(solicitudID, mensajeUsuario{
		Tipo:    "next_song",
		Mensaje: fmt.Sprintf("¡Prepárate! Tu canción %s es la siguiente 🎧", sol.Cancion),
	})
	return nil
}
