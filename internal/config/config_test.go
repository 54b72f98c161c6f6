package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `
server:
  address: ":9090"
qwen:
  api_key: "sk-test"
  model: "qwen-plus"
mysql:
  host: "127.0.0.1"
  user: "root"
  password: "secret"
  database: "resume_db"
minio:
  endpoint: "localhost:9000"
  resumes_bucket: "cvs"
redis:
  address: "localhost:6379"
logger:
  level: "debug"
  format: "pretty"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err, "加载配置文件失败")

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "sk-test", cfg.Qwen.APIKey)
	assert.Equal(t, "cvs", cfg.MinIO.ResumesBucket)
	assert.Equal(t, "debug", cfg.Logger.Level)
	// 默认值填充
	assert.Equal(t, 3306, cfg.MySQL.Port)
	assert.Equal(t, "/tmp/resumes", cfg.Upload.TmpDir)
	assert.Equal(t, 60, cfg.Qwen.TimeoutSeconds)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeTempConfig(t, `
qwen:
  api_key: "from-file"
`)
	t.Setenv("QWEN_API_KEY", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Qwen.APIKey, "环境变量应覆盖配置文件中的API Key")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	cfg := MySQLConfig{Host: "db", Port: 3306, User: "u", Password: "p", Database: "resume_db"}
	assert.Equal(t, "u:p@tcp(db:3306)/resume_db?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}
