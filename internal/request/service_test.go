package request

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SlpAus/dj-request-backend/internal/event"
	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 为每个测试准备一个独立的SQLite数据库和一个激活的活动
func setupTestDB(t *testing.T) *event.Event {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("无法打开测试数据库: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("无法获取底层连接池: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	database.DB = db
	if err := db.AutoMigrate(&event.Event{}, &Request{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	config.Cfg = &config.Config{
		Request: config.RequestConfig{MaxPending: 3, MaxDedication: 200},
	}

	ev := &event.Event{Nombre: "Evento de prueba", Activo: true}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("无法创建测试活动: %v", err)
	}
	return ev
}

func TestSubmitValidation(t *testing.T) {
	ev := setupTestDB(t)

	tests := []struct {
		name    string
		cancion string
		artista string
	}{
		{name: "missing title", cancion: "", artista: "The Weeknd"},
		{name: "missing artist", cancion: "Blinding Lights", artista: ""},
		{name: "whitespace only", cancion: "   ", artista: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Submit(SubmitInput{
				EventoID: ev.ID,
				Cancion:  tt.cancion,
				Artista:  tt.artista,
				IP:       "10.0.0.1",
			})
			if !errors.Is(err, ErrValidation) {
				t.Errorf("期望ErrValidation，得到 %v", err)
			}
		})
	}
}

func TestSubmitDefaults(t *testing.T) {
	ev := setupTestDB(t)

	nueva, err := Submit(SubmitInput{
		EventoID: ev.ID,
		Cancion:  "Blinding Lights",
		Artista:  "The Weeknd",
		IP:       "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("提交失败: %v", err)
	}
	if nueva.Votos != 1 {
		t.Errorf("新请求的票数应为1（提交者自带一票），得到 %d", nueva.Votos)
	}
	if nueva.Estado != EstadoPending {
		t.Errorf("新请求的状态应为pending，得到 %s", nueva.Estado)
	}
}

func TestSubmitTruncatesDedication(t *testing.T) {
	ev := setupTestDB(t)

	long := strings.Repeat("ñ", 250)
	nueva, err := Submit(SubmitInput{
		EventoID:    ev.ID,
		Cancion:     "Blinding Lights",
		Artista:     "The Weeknd",
		Dedicatoria: long,
		IP:          "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("超长献词应被截断而不是拒绝: %v", err)
	}
	if got := len([]rune(nueva.Dedicatoria)); got != 200 {
		t.Errorf("献词应被截断到200字符，得到 %d", got)
	}
}

func TestSubmitRateLimit(t *testing.T) {
	ev := setupTestDB(t)

	// 同一IP提交3条，全部应成功
	var first *Request
	for i := 0; i < 3; i++ {
		nueva, err := Submit(SubmitInput{
			EventoID: ev.ID,
			Cancion:  "Canción",
			Artista:  "Artista",
			IP:       "10.0.0.1",
		})
		if err != nil {
			t.Fatalf("第%d次提交失败: %v", i+1, err)
		}
		if first == nil {
			first = nueva
		}
	}

	// 第4条触发限流
	_, err := Submit(SubmitInput{EventoID: ev.ID, Cancion: "Otra", Artista: "Alguien", IP: "10.0.0.1"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("期望ErrRateLimited，得到 %v", err)
	}

	// 其他IP不受影响
	if _, err := Submit(SubmitInput{EventoID: ev.ID, Cancion: "Otra", Artista: "Alguien", IP: "10.0.0.2"}); err != nil {
		t.Fatalf("不同IP的提交不应被限流: %v", err)
	}

	// 一条转出pending后，同一IP可以再次提交
	if err := UpdateEstado(first.ID, EstadoApproved); err != nil {
		t.Fatalf("状态转换失败: %v", err)
	}
	if _, err := Submit(SubmitInput{EventoID: ev.ID, Cancion: "Otra", Artista: "Alguien", IP: "10.0.0.1"}); err != nil {
		t.Fatalf("待审核数量下降后提交应恢复: %v", err)
	}
}

// mustCreate 直接写入一条请求，用于构造排序测试的固定数据
func mustCreate(t *testing.T, r *Request) *Request {
	t.Helper()
	if err := database.DB.Create(r).Error; err != nil {
		t.Fatalf("无法创建测试请求: %v", err)
	}
	return r
}

func TestListQueueOrdering(t *testing.T) {
	ev := setupTestDB(t)
	base := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)

	// 乱序插入：票数不同 + 平票不同时间
	tres := mustCreate(t, &Request{EventoID: ev.ID, Cancion: "C", Artista: "X", Votos: 3, Estado: EstadoPending, CreadoEn: base.Add(2 * time.Minute)})
	unoTarde := mustCreate(t, &Request{EventoID: ev.ID, Cancion: "B", Artista: "X", Votos: 1, Estado: EstadoPending, CreadoEn: base.Add(3 * time.Minute)})
	unoTemprano := mustCreate(t, &Request{EventoID: ev.ID, Cancion: "A", Artista: "X", Votos: 1, Estado: EstadoApproved, CreadoEn: base})
	cinco := mustCreate(t, &Request{EventoID: ev.ID, Cancion: "D", Artista: "X", Votos: 5, Estado: EstadoApproved, CreadoEn: base.Add(4 * time.Minute)})

	want := []uint{cinco.ID, tres.ID, unoTemprano.ID, unoTarde.ID}

	// 排序必须稳定可复现：重复读取结果一致
	for i := 0; i < 3; i++ {
		rows, err := ListQueue(ev.ID)
		if err != nil {
			t.Fatalf("查询队列失败: %v", err)
		}
		if len(rows) != len(want) {
			t.Fatalf("队列长度 = %d, 期望 %d", len(rows), len(want))
		}
		for j, w := range want {
			if rows[j].ID != w {
				t.Errorf("第%d次读取: 位置%d = id %d, 期望 id %d", i, j, rows[j].ID, w)
			}
		}
	}
}

func TestRejectedExcludedFromPublicQueue(t *testing.T) {
	ev := setupTestDB(t)

	rechazada := mustCreate(t, &Request{EventoID: ev.ID, Cancion: "Mala", Artista: "X", Votos: 9, Estado: EstadoRejected})
	mustCreate(t, &Request{EventoID: ev.ID, Cancion: "Buena", Artista: "X", Votos: 1, Estado: EstadoPending})

	rows, err := ListQueue(ev.ID)
	if err != nil {
		t.Fatalf("查询队列失败: %v", err)
	}
	for _, r := range rows {
		if r.ID == rechazada.ID {
			t.Error("rejected的请求不应出现在公开队列中")
		}
	}

	// 但仍可单独查询
	got, err := GetByID(rechazada.ID)
	if err != nil {
		t.Fatalf("rejected的请求应仍可按ID获取: %v", err)
	}
	if got.Estado != EstadoRejected {
		t.Errorf("estado = %s, 期望 rejected", got.Estado)
	}

	// 并且出现在DJ完整历史里
	history, err := ListHistory(ev.ID)
	if err != nil {
		t.Fatalf("查询历史失败: %v", err)
	}
	found := false
	for _, row := range history {
		if row.ID == rechazada.ID {
			found = true
			if row.EventoNombre != ev.Nombre {
				t.Errorf("evento_nombre = %q, 期望 %q", row.EventoNombre, ev.Nombre)
			}
		}
	}
	if !found {
		t.Error("rejected的请求应出现在DJ完整历史中")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	setupTestDB(t)

	if _, err := GetByID(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("期望ErrNotFound，得到 %v", err)
	}
}
