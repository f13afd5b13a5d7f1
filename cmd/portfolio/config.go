package main

import (
	"flag"
	"os"
	"strconv"

	"portfolio_engine/internal/logger"

	"gopkg.in/yaml.v3"
)

// ServerConfig 对应 configs/server.yaml
type ServerConfig struct {
	Server struct {
		Port             string `yaml:"port"`
		Debug            bool   `yaml:"debug"`
		RequestTimeoutMs int    `yaml:"request_timeout_ms"`
	} `yaml:"server"`
	Paths struct {
		Users     string `yaml:"users"`
		Pipelines string `yaml:"pipelines"`
		Catalog   string `yaml:"catalog"`
		Seed      string `yaml:"seed"`
	} `yaml:"paths"`
	Ranking struct {
		Scene string `yaml:"scene"`
		Limit int    `yaml:"limit"`
	} `yaml:"ranking"`
}

func loadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultServerConfig() *ServerConfig {
	cfg := &ServerConfig{}
	cfg.Server.Port = "8080"
	cfg.Server.RequestTimeoutMs = 2000
	cfg.Paths.Users = "configs/users.yaml"
	cfg.Paths.Pipelines = "configs/pipelines.json"
	cfg.Paths.Catalog = "data/portfolio.db"
	cfg.Paths.Seed = "configs/seed.yaml"
	cfg.Ranking.Scene = "recommend"
	cfg.Ranking.Limit = 3
	return cfg
}

// merge 用 loaded 中的非零值覆盖 cfg
func (cfg *ServerConfig) merge(loaded *ServerConfig) {
	if loaded.Server.Port != "" {
		cfg.Server.Port = loaded.Server.Port
	}
	// Debug 默认为 false，如果配置文件里显式设置了 true 则覆盖
	if loaded.Server.Debug {
		cfg.Server.Debug = true
	}
	if loaded.Server.RequestTimeoutMs > 0 {
		cfg.Server.RequestTimeoutMs = loaded.Server.RequestTimeoutMs
	}
	if loaded.Paths.Users != "" {
		cfg.Paths.Users = loaded.Paths.Users
	}
	if loaded.Paths.Pipelines != "" {
		cfg.Paths.Pipelines = loaded.Paths.Pipelines
	}
	if loaded.Paths.Catalog != "" {
		cfg.Paths.Catalog = loaded.Paths.Catalog
	}
	if loaded.Paths.Seed != "" {
		cfg.Paths.Seed = loaded.Paths.Seed
	}
	if loaded.Ranking.Scene != "" {
		cfg.Ranking.Scene = loaded.Ranking.Scene
	}
	if loaded.Ranking.Limit > 0 {
		cfg.Ranking.Limit = loaded.Ranking.Limit
	}
}

// applyEnv 环境变量 (可来自 .env) 覆盖配置文件
func (cfg *ServerConfig) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := getenv("PORTFOLIO_DB"); v != "" {
		cfg.Paths.Catalog = v
	}
	if v := getenv("PORTFOLIO_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Server.Debug = debug
		} else {
			logger.Warn("ignoring invalid PORTFOLIO_DEBUG=%q", v)
		}
	}
}

// InitServerConfig 初始化服务器配置，优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
func InitServerConfig(args []string) (*ServerConfig, error) {
	fs := flag.NewFlagSet("portfolio", flag.ContinueOnError)
	configPath := fs.String("config", "configs/server.yaml", "Path to server config file")
	portFlag := fs.String("port", "", "Server port")
	debugFlag := fs.Bool("debug", false, "Enable debug logging")
	userConfigPathFlag := fs.String("users", "", "Path to users.yaml")
	pipelineConfigPathFlag := fs.String("pipelines", "", "Path to pipelines.json")
	catalogPathFlag := fs.String("db", "", "Path to the SQLite catalog")
	seedPathFlag := fs.String("seed", "", "Path to seed.yaml")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := defaultServerConfig()

	if loaded, err := loadServerConfig(*configPath); err == nil {
		cfg.merge(loaded)
	} else {
		logger.Info("Could not load config file '%s': %v. Using defaults or flags.", *configPath, err)
	}

	cfg.applyEnv(os.Getenv)

	if *portFlag != "" {
		cfg.Server.Port = *portFlag
	}
	if *debugFlag {
		cfg.Server.Debug = true
	}
	if *userConfigPathFlag != "" {
		cfg.Paths.Users = *userConfigPathFlag
	}
	if *pipelineConfigPathFlag != "" {
		cfg.Paths.Pipelines = *pipelineConfigPathFlag
	}
	if *catalogPathFlag != "" {
		cfg.Paths.Catalog = *catalogPathFlag
	}
	if *seedPathFlag != "" {
		cfg.Paths.Seed = *seedPathFlag
	}

	return cfg, nil
}
