package request

import (
	"fmt"

	"github.com/SlpAus/dj-request-backend/internal/platform/database"
)

// PrimeDB 负责自动迁移solicitudes表
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Request{}); err != nil {
		return fmt.Errorf("无法迁移solicitudes表: %w", err)
	}
	return nil
}
