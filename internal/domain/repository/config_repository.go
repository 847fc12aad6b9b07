package repository

import (
	"github.com/diillson/billing-usage-report-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	// LoadEnvironment reads .env files and USAGE_REPORT_* variables.
	LoadEnvironment(envFiles ...string) (*types.Config, error)
}
