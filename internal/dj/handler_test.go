package dj

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/SlpAus/dj-request-backend/internal/event"
	"github.com/SlpAus/dj-request-backend/internal/notify"
	"github.com/SlpAus/dj-request-backend/internal/platform/config"
	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"github.com/SlpAus/dj-request-backend/internal/request"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "dj1234"

// setupTestRouter 准备独立数据库、一个激活的活动和挂好DJ路由的router
func setupTestRouter(t *testing.T) (*gin.Engine, *event.Event) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	if err := db.AutoMigrate(&event.Event{}, &request.Request{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	config.Cfg = &config.Config{
		DJ:      config.DJConfig{Password: testPassword},
		Request: config.RequestConfig{MaxPending: 3, MaxDedication: 200},
	}

	ev := &event.Event{Nombre: "Evento de prueba", Activo: true}
	if err := db.Create(ev).Error; err != nil {
		t.Fatalf("无法创建测试活动: %v", err)
	}

	hub := notify.NewHub()
	handler := NewHandler(hub)

	router := gin.New()
	router.GET("/api/dj/solicitudes", handler.Solicitudes)
	router.POST("/api/dj/estado/:solicitudID", handler.Estado)
	router.POST("/api/dj/next/:solicitudID", handler.Next)
	router.POST("/api/dj/message", handler.Message)

	return router, ev
}

func createRequest(t *testing.T, ev *event.Event, estado request.Estado) *request.Request {
	t.Helper()
	sol := &request.Request{
		EventoID: ev.ID,
		Cancion:  "Blinding Lights",
		Artista:  "The Weeknd",
		Votos:    1,
		Estado:   estado,
	}
	if err := database.DB.Create(sol).Error; err != nil {
		t.Fatalf("无法创建测试请求: %v", err)
	}
	return sol
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestEstadoTransitions(t *testing.T) {
	tests := []struct {
		name       string
		initial    request.Estado
		body       gin.H
		wantCode   int
		wantEstado request.Estado
	}{
		{
			name:       "approve pending",
			initial:    request.EstadoPending,
			body:       gin.H{"password": testPassword, "estado": "approved"},
			wantCode:   http.StatusOK,
			wantEstado: request.EstadoApproved,
		},
		{
			name:       "reject pending",
			initial:    request.EstadoPending,
			body:       gin.H{"password": testPassword, "estado": "rejected"},
			wantCode:   http.StatusOK,
			wantEstado: request.EstadoRejected,
		},
		{
			name:    "played directly from pending is accepted",
			initial: request.EstadoPending,
			body:    gin.H{"password": testPassword, "estado": "played"},
			// 状态机是宽松的：不校验前置状态
			wantCode:   http.StatusOK,
			wantEstado: request.EstadoPlayed,
		},
		{
			name:       "re-approve a rejected request",
			initial:    request.EstadoRejected,
			body:       gin.H{"password": testPassword, "estado": "approved"},
			wantCode:   http.StatusOK,
			wantEstado: request.EstadoApproved,
		},
		{
			name:       "pending is not a valid target",
			initial:    request.EstadoApproved,
			body:       gin.H{"password": testPassword, "estado": "pending"},
			wantCode:   http.StatusBadRequest,
			wantEstado: request.EstadoApproved,
		},
		{
			name:       "unknown estado",
			initial:    request.EstadoPending,
			body:       gin.H{"password": testPassword, "estado": "burning"},
			wantCode:   http.StatusBadRequest,
			wantEstado: request.EstadoPending,
		},
		{
			name:       "wrong password",
			initial:    request.EstadoPending,
			body:       gin.H{"password": "nope", "estado": "approved"},
			wantCode:   http.StatusForbidden,
			wantEstado: request.EstadoPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, ev := setupTestRouter(t)
			sol := createRequest(t, ev, tt.initial)

			recorder := postJSON(router, fmt.Sprintf("/api/dj/estado/%d", sol.ID), tt.body)
			if recorder.Code != tt.wantCode {
				t.Fatalf("状态码 = %d, 期望 %d, body: %s", recorder.Code, tt.wantCode, recorder.Body)
			}

			got, err := request.GetByID(sol.ID)
			if err != nil {
				t.Fatalf("读取请求失败: %v", err)
			}
			if got.Estado != tt.wantEstado {
				t.Errorf("estado = %s, 期望 %s", got.Estado, tt.wantEstado)
			}
		})
	}
}

func TestEstadoNotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	recorder := postJSON(router, "/api/dj/estado/9999", gin.H{"password": testPassword, "estado": "approved"})
	if recorder.Code != http.StatusNotFound {
		t.Errorf("状态码 = %d, 期望 404", recorder.Code)
	}
}

func TestNext(t *testing.T) {
	router, ev := setupTestRouter(t)
	sol := createRequest(t, ev, request.EstadoApproved)

	// next只是通知旁路，不改变estado
	recorder := postJSON(router, fmt.Sprintf("/api/dj/next/%d", sol.ID), gin.H{"password": testPassword})
	if recorder.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200, body: %s", recorder.Code, recorder.Body)
	}

	got, err := request.GetByID(sol.ID)
	if err != nil {
		t.Fatalf("读取请求失败: %v", err)
	}
	if got.Estado != request.EstadoApproved {
		t.Errorf("next不应改变estado: %s", got.Estado)
	}
}

func TestSolicitudesRequiresPassword(t *testing.T) {
	router, ev := setupTestRouter(t)
	createRequest(t, ev, request.EstadoRejected)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/dj/solicitudes?password=nope&evento_id=%d", ev.ID), nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Errorf("状态码 = %d, 期望 403", recorder.Code)
	}
}

func TestSolicitudesIncludesAllStates(t *testing.T) {
	router, ev := setupTestRouter(t)
	createRequest(t, ev, request.EstadoPending)
	createRequest(t, ev, request.EstadoRejected)
	createRequest(t, ev, request.EstadoPlayed)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/dj/solicitudes?password=%s&evento_id=%d", testPassword, ev.ID), nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200, body: %s", recorder.Code, recorder.Body)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &rows); err != nil {
		t.Fatalf("响应不是合法JSON: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("DJ历史视图应包含全部3条请求，得到 %d", len(rows))
	}
}

func TestMessage(t *testing.T) {
	router, _ := setupTestRouter(t)

	recorder := postJSON(router, "/api/dj/message", gin.H{"password": testPassword, "texto": "¡Última canción!", "color": "#ff0000"})
	if recorder.Code != http.StatusOK {
		t.Errorf("状态码 = %d, 期望 200, body: %s", recorder.Code, recorder.Body)
	}

	recorder = postJSON(router, "/api/dj/message", gin.H{"password": "nope", "texto": "hola"})
	if recorder.Code != http.StatusForbidden {
		t.Errorf("状态码 = %d, 期望 403", recorder.Code)
	}
}
