package health

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/SlpAus/dj-request-backend/internal/platform/database"
	"github.com/SlpAus/dj-request-backend/internal/platform/startup"
	"github.com/SlpAus/dj-request-backend/pkg/lifecycle"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

var runIDPattern = regexp.MustCompile(`run_id:([a-f0-9]+)`)

// getRedisRunID 从Redis服务器信息中提取run_id。
// run_id在Redis重启后会变化，用它来判断缓存是否需要重建。
func getRedisRunID() (string, error) {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()
	info, err := database.RDB.Info(ctx, "server").Result()
	if err != nil {
		return "", err
	}
	matches := runIDPattern.FindStringSubmatch(info)
	if len(matches) < 2 {
		return "", fmt.Errorf("无法在Redis INFO中找到run_id")
	}
	return matches[1], nil
}

// InitializeRunID 在应用启动时执行一次，记录初始的run_id。
// Redis不可用时保持不健康状态，等待巡检恢复。
func InitializeRunID() {
	if !database.IsRedisHealthy() {
		return
	}
	runID, err := getRedisRunID()
	if err != nil {
		fmt.Printf("无法获取Redis Run ID: %v\n", err)
		database.UpdateStatus(false, "")
		return
	}
	database.SetInitialRunID(runID)
	fmt.Printf("获取初始Redis Run ID成功: %s\n", runID)
}

// PerformCheck 执行一次健康检查。
// 当检测到Redis重启（run_id变化）或从故障中恢复时，
// 先重建投票去重缓存，确认无误后才把状态标记为健康。
func PerformCheck() {
	if database.RDB == nil {
		return
	}

	runID, err := getRedisRunID()
	if err != nil {
		database.UpdateStatus(false, "")
		return
	}

	if runID == database.GetLastKnownRunID() && database.IsRedisHealthy() {
		return
	}

	// Redis重启过或刚恢复，缓存内容不可信，必须重建
	if err := startup.RebuildCache(); err != nil {
		fmt.Printf("健康检查错误: 缓存热重建失败: %v\n", err)
		database.UpdateStatus(false, "")
		return
	}

	// 重建后再次确认run_id没有变化，避免重建期间Redis又重启
	idAfterRebuild, err := getRedisRunID()
	if err != nil || idAfterRebuild != runID {
		fmt.Println("健康检查错误: 缓存重建期间Redis再次重启，重建无效。")
		database.UpdateStatus(false, "")
		return
	}

	database.UpdateStatus(true, runID)
}

// StartRedisHealthCheck 启动后台的持续健康巡检。
// 它在收到停机信号前，每checkInterval执行一次检查。
func StartRedisHealthCheck(handle *lifecycle.Handle) {
	defer handle.Close()
	fmt.Println("Redis健康巡检已启动。")

	for {
		if err := handle.Sleep(checkInterval); err != nil {
			fmt.Println("Redis健康巡检已停止。")
			return
		}
		PerformCheck()
	}
}
