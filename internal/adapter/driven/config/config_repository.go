package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/billing-usage-report-go/internal/domain/repository"
	"github.com/diillson/billing-usage-report-go/internal/shared/types"
)

// EnvPrefix is the prefix of every environment variable read by the tool.
const EnvPrefix = "USAGE_REPORT_"

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// LoadEnvironment carrega arquivos .env (sem sobrescrever variáveis já
// definidas) e lê as variáveis USAGE_REPORT_*.
// Missing .env files are ignored; a file that exists but cannot be parsed is an error.
func (r *ConfigRepositoryImpl) LoadEnvironment(envFiles ...string) (*types.Config, error) {
	for _, path := range envFiles {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("error loading env file %s: %w", path, err)
		}
	}

	cfg := &types.Config{
		Prefix:       getEnv("PREFIX"),
		InnerArchive: getEnv("INNER_ARCHIVE"),
		EntityColumn: getEnv("ENTITY_COLUMN"),
		FromColumn:   getEnv("FROM_COLUMN"),
		ToColumn:     getEnv("TO_COLUMN"),
		ReportName:   getEnv("REPORT_NAME"),
		ReportType:   splitList(getEnv("REPORT_TYPE")),
		Dir:          getEnv("DIR"),
		S3Region:     getEnv("S3_REGION"),
		S3Endpoint:   getEnv("S3_ENDPOINT"),
	}

	var err error
	if cfg.Month, err = getEnvInt("MONTH"); err != nil {
		return nil, err
	}
	if cfg.Year, err = getEnvInt("YEAR"); err != nil {
		return nil, err
	}
	if v := getEnv("SKIP_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid %sSKIP_ROWS %q", EnvPrefix, v)
		}
		cfg.SkipRows = &n
	}

	return cfg, nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

func getEnvInt(key string) (int, error) {
	v := getEnv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
	}
	return n, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
