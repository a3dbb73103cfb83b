package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig 默认配置的关键参数
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama3.1:8b", cfg.Ollama.Model)
	assert.Equal(t, 0.0, cfg.Ollama.Temperature)
	assert.Equal(t, 12000, cfg.Ollama.NumPredict)

	assert.Equal(t, 10, cfg.Enrichment.MaxExperiences)
	assert.Equal(t, 2, cfg.Enrichment.MaxAttempts)
	assert.Equal(t, 50, cfg.Enrichment.MinDescLength)
	assert.Equal(t, 500, cfg.Enrichment.MaxDescLength)
}

// TestLoadConfigFromYAML 从YAML加载并用默认值补齐缺省字段
func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
ollama:
  base_url: "http://ollama.internal:11434"
  model: "qwen2.5:7b"
logger:
  level: "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://ollama.internal:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "qwen2.5:7b", cfg.Ollama.Model)
	assert.Equal(t, "debug", cfg.Logger.Level)
	// 未配置的字段回落到默认值
	assert.Equal(t, DefaultConfig().Ollama.TimeoutSeconds, cfg.Ollama.TimeoutSeconds)
	assert.Equal(t, DefaultConfig().Enrichment.MaxExperiences, cfg.Enrichment.MaxExperiences)
}

// TestLoadConfigMissingFileInTest 测试环境下找不到配置文件时回落到默认配置
func TestLoadConfigMissingFileInTest(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Ollama.Model, cfg.Ollama.Model)
}

// TestEnvOverrides 环境变量覆盖Ollama连接参数
func TestEnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://gpu-box:11434")
	t.Setenv("OLLAMA_MODEL", "mistral:7b")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "mistral:7b", cfg.Ollama.Model)
}
