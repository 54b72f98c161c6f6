package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"resume-agent-go/internal/logger"
)

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Address string `yaml:"address"` // 监听地址，如 ":8080"
}

// QwenConfig 通义千问模型配置（OpenAI兼容接口）
// APIKey 为空表示模型能力不可用，服务以启发式路径运行
type QwenConfig struct {
	APIKey         string `yaml:"api_key"`
	APIURL         string `yaml:"api_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// MinIOConfig 对象存储配置
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	ResumesBucket   string `yaml:"resumes_bucket"`
	Location        string `yaml:"location"`
}

// MySQLConfig 关系型数据库配置
type MySQLConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel        int    `yaml:"log_level"` // gorm logger级别: 1=Silent 2=Error 3=Warn 4=Info
}

// DSN 构造MySQL连接串
func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// RedisConfig 缓存配置
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	// 候选人档案缓存TTL(分钟)，0表示使用默认值
	CandidateCacheTTLMinutes int `yaml:"candidate_cache_ttl_minutes"`
}

// RabbitMQConfig 消息队列配置，URL为空表示不启用事件发布
type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

// UploadConfig 上传处理配置
type UploadConfig struct {
	TmpDir        string `yaml:"tmp_dir"`
	MaxFileSizeMB int    `yaml:"max_file_size_mb"`
}

// Config 应用程序配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Qwen     QwenConfig     `yaml:"qwen"`
	MinIO    MinIOConfig    `yaml:"minio"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Upload   UploadConfig   `yaml:"upload"`
	Logger   logger.Config  `yaml:"logger"`
}

// LoadConfig 加载配置文件。configPath为空时在常见位置查找
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".resume-agent", "config.yaml"),
		}

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths,
				filepath.Join(execDir, "config.yaml"),
				filepath.Join(execDir, "..", "config.yaml"),
			)
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		if configPath == "" {
			return nil, fmt.Errorf("未找到配置文件，查找路径: %v", searchPaths)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖敏感配置
	if key := os.Getenv("QWEN_API_KEY"); key != "" {
		config.Qwen.APIKey = key
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults 填充未配置项的默认值
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Qwen.TimeoutSeconds <= 0 {
		c.Qwen.TimeoutSeconds = 60
	}
	if c.MinIO.ResumesBucket == "" {
		c.MinIO.ResumesBucket = "resumes"
	}
	if c.MySQL.Port == 0 {
		c.MySQL.Port = 3306
	}
	if c.MySQL.MaxIdleConns == 0 {
		c.MySQL.MaxIdleConns = 10
	}
	if c.MySQL.MaxOpenConns == 0 {
		c.MySQL.MaxOpenConns = 100
	}
	if c.MySQL.ConnMaxLifetime == 0 {
		c.MySQL.ConnMaxLifetime = 60
	}
	if c.Upload.TmpDir == "" {
		c.Upload.TmpDir = "/tmp/resumes"
	}
	if c.Upload.MaxFileSizeMB == 0 {
		c.Upload.MaxFileSizeMB = 20
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "json"
	}
	if c.Logger.TimeFormat == "" {
		c.Logger.TimeFormat = time.RFC3339
	}
}
