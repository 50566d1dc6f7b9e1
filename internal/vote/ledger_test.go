package vote

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/SlpAus/dj-request-backend/internal/event"
	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"github.com/SlpAus/dj-request-backend/internal/request"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 准备一个带有一条待审核请求的独立数据库。
// Redis在测试中保持默认的不健康状态，投票走纯SQLite路径。
func setupTestDB(t *testing.T) *request.Request {
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
	if err := db.AutoMigrate(&event.Event{}, &request.Request{}, &Vote{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	config.Cfg = &config.Config{
		Request: config.RequestConfig{MaxPending: 3, MaxDedication: 200},
	}

	ev := &event.Event{Nombre: "Evento de prueba", Activo: true}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("无法创建测试活动: %v", err)
	}
	sol := &request.Request{
		EventoID:      ev.ID,
		Cancion:       "Blinding Lights",
		Artista:       "The Weeknd",
		Votos:         1,
		Estado:        request.EstadoPending,
		IPSolicitante: "10.0.0.1",
	}
	if err := db.Create(sol).Error; err != nil {
		t.Fatalf("无法创建测试请求: %v", err)
	}
	return sol
}

func TestCastIncrementsCount(t *testing.T) {
	sol := setupTestDB(t)

	votos, err := Cast(sol.ID, "10.0.0.2")
	if err != nil {
		t.Fatalf("投票失败: %v", err)
	}
	if votos != 2 {
		t.Errorf("votos = %d, 期望 2", votos)
	}

	// 返回值必须与持久化的计数一致
	got, err := request.GetByID(sol.ID)
	if err != nil {
		t.Fatalf("读取请求失败: %v", err)
	}
	if got.Votos != votos {
		t.Errorf("持久化票数 = %d, 返回值 = %d", got.Votos, votos)
	}
}

func TestCastDuplicateLeavesCountUnchanged(t *testing.T) {
	sol := setupTestDB(t)

	if _, err := Cast(sol.ID, "10.0.0.2"); err != nil {
		t.Fatalf("首次投票失败: %v", err)
	}
	if _, err := Cast(sol.ID, "10.0.0.2"); !errors.Is(err, ErrDuplicateVote) {
		t.Fatalf("期望ErrDuplicateVote，得到 %v", err)
	}

	got, err := request.GetByID(sol.ID)
	if err != nil {
		t.Fatalf("读取请求失败: %v", err)
	}
	if got.Votos != 2 {
		t.Errorf("重复投票后票数 = %d, 期望保持 2", got.Votos)
	}

	// 投票记录表中每个(请求, IP)至多一行
	var count int64
	if err := database.DB.Model(&Vote{}).
		Where("solicitud_id = ? AND ip_votante = ?", sol.ID, "10.0.0.2").
		Count(&count).Error; err != nil {
		t.Fatalf("统计投票记录失败: %v", err)
	}
	if count != 1 {
		t.Errorf("投票记录数 = %d, 期望 1", count)
	}
}

func TestCastNotFound(t *testing.T) {
	setupTestDB(t)

	if _, err := Cast(9999, "10.0.0.2"); !errors.Is(err, request.ErrNotFound) {
		t.Errorf("期望request.ErrNotFound，得到 %v", err)
	}
}

func TestCastRejectsEmptyIP(t *testing.T) {
	sol := setupTestDB(t)

	if _, err := Cast(sol.ID, ""); err == nil {
		t.Error("空IP应被拒绝")
	}
}

// 并发投票下计数不能丢失：N个不同IP同时投票，最终票数恰好+N
func TestCastConcurrent(t *testing.T) {
	sol := setupTestDB(t)

	const voters = 10
	ips := make([]string, voters)
	for i := range ips {
		ips[i] = "10.0.1." + string(rune('0'+i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for _, ip := range ips {
		wg.Add(1)
		go func(ip string) {
			defer wg.Done()
			if _, err := Cast(sol.ID, ip); err != nil {
				errs <- err
			}
		}(ip)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("并发投票出错: %v", err)
	}

	got, err := request.GetByID(sol.ID)
	if err != nil {
		t.Fatalf("读取请求失败: %v", err)
	}
	if got.Votos != 1+voters {
		t.Errorf("并发投票后票数 = %d, 期望 %d", got.Votos, 1+voters)
	}
}

// 同一IP并发投同一首歌：只有一次成功
func TestCastConcurrentSameIP(t *testing.T) {
	sol := setupTestDB(t)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Cast(sol.ID, "10.0.0.2")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok, dup := 0, 0
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicateVote):
			dup++
		default:
			t.Errorf("意外错误: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("成功次数 = %d, 期望恰好 1", ok)
	}
	if dup != attempts-1 {
		t.Errorf("重复拒绝次数 = %d, 期望 %d", dup, attempts-1)
	}

	got, err := request.GetByID(sol.ID)
	if err != nil {
		t.Fatalf("读取请求失败: %v", err)
	}
	if got.Votos != 2 {
		t.Errorf("票数 = %d, 期望 2", got.Votos)
	}
}
