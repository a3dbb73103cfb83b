package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OllamaConfig Ollama推理服务配置
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"` // 例如 "http://localhost:11434"
	Model   string `yaml:"model"`    // 例如 "llama3.1:8b"
	// 超时与重试
	TimeoutSeconds   int `yaml:"timeout_seconds"`    // 单次调用超时(秒)
	MaxRetries       int `yaml:"max_retries"`        // 最大重试次数
	RetryWaitSeconds int `yaml:"retry_wait_seconds"` // 首次重试等待时间(秒)，指数退避
	// 限流：每分钟请求数，0表示不限流
	QPM int `yaml:"qpm"`
	// 采样参数
	Temperature   float64 `yaml:"temperature"`
	NumPredict    int     `yaml:"num_predict"`
	TopK          int     `yaml:"top_k"`
	TopP          float64 `yaml:"top_p"`
	RepeatPenalty float64 `yaml:"repeat_penalty"`
}

// EnrichmentConfig 经历描述润色的质量门限配置
// 这些阈值是经验调优值，默认值复现既有行为，调用方可按需调整
type EnrichmentConfig struct {
	MaxExperiences   int `yaml:"max_experiences"`    // 最多处理前N条经历
	MaxAttempts      int `yaml:"max_attempts"`       // 每条经历的完整尝试轮数
	MinDescLength    int `yaml:"min_desc_length"`    // 生成描述的最小长度
	MaxDescLength    int `yaml:"max_desc_length"`    // 生成描述的最大长度
	QualityMinLength int `yaml:"quality_min_length"` // 既有描述视为高质量的最小长度
	QualityMaxLength int `yaml:"quality_max_length"` // 既有描述视为高质量的最大长度
	QualityMinWords  int `yaml:"quality_min_words"`  // 高质量描述的最小词数(需大于该值)
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// Config 应用程序配置
type Config struct {
	Ollama     OllamaConfig     `yaml:"ollama"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Logger     LoggerConfig     `yaml:"logger"`
}

// DefaultConfig 返回带默认值的配置
// 默认采样参数与既有解析器行为保持一致
func DefaultConfig() *Config {
	return &Config{
		Ollama: OllamaConfig{
			BaseURL:          "http://localhost:11434",
			Model:            "llama3.1:8b",
			TimeoutSeconds:   60,
			MaxRetries:       2,
			RetryWaitSeconds: 2,
			Temperature:      0.0,
			NumPredict:       12000,
			TopK:             10,
			TopP:             0.9,
			RepeatPenalty:    1.1,
		},
		Enrichment: EnrichmentConfig{
			MaxExperiences:   10,
			MaxAttempts:      2,
			MinDescLength:    50,
			MaxDescLength:    500,
			QualityMinLength: 100,
			QualityMaxLength: 500,
			QualityMinWords:  20,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig 从文件加载配置
// 未指定路径时在常见位置查找；测试环境下找不到文件则回退到默认配置
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".cv-parser", "config.yaml"),
		}

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		if configPath == "" {
			if inTestEnvironment() {
				config := DefaultConfig()
				applyEnvOverrides(config)
				return config, nil
			}
			configPath = "config.yaml"
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		if inTestEnvironment() {
			config := DefaultConfig()
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyEnvOverrides(config)
	applyDefaults(config)
	return config, nil
}

// applyEnvOverrides 从环境变量覆盖Ollama连接参数（如果存在）
func applyEnvOverrides(config *Config) {
	if envURL := os.Getenv("OLLAMA_BASE_URL"); envURL != "" {
		config.Ollama.BaseURL = envURL
	}
	if envModel := os.Getenv("OLLAMA_MODEL"); envModel != "" {
		config.Ollama.Model = envModel
	}
}

// applyDefaults 补齐YAML中缺省的字段
func applyDefaults(config *Config) {
	def := DefaultConfig()
	if config.Ollama.BaseURL == "" {
		config.Ollama.BaseURL = def.Ollama.BaseURL
	}
	if config.Ollama.Model == "" {
		config.Ollama.Model = def.Ollama.Model
	}
	if config.Ollama.TimeoutSeconds == 0 {
		config.Ollama.TimeoutSeconds = def.Ollama.TimeoutSeconds
	}
	if config.Enrichment.MaxExperiences == 0 {
		config.Enrichment.MaxExperiences = def.Enrichment.MaxExperiences
	}
	if config.Enrichment.MaxAttempts == 0 {
		config.Enrichment.MaxAttempts = def.Enrichment.MaxAttempts
	}
	if config.Enrichment.MinDescLength == 0 {
		config.Enrichment.MinDescLength = def.Enrichment.MinDescLength
	}
	if config.Enrichment.MaxDescLength == 0 {
		config.Enrichment.MaxDescLength = def.Enrichment.MaxDescLength
	}
	if config.Enrichment.QualityMinLength == 0 {
		config.Enrichment.QualityMinLength = def.Enrichment.QualityMinLength
	}
	if config.Enrichment.QualityMaxLength == 0 {
		config.Enrichment.QualityMaxLength = def.Enrichment.QualityMaxLength
	}
	if config.Enrichment.QualityMinWords == 0 {
		config.Enrichment.QualityMinWords = def.Enrichment.QualityMinWords
	}
	if config.Logger.Level == "" {
		config.Logger.Level = def.Logger.Level
	}
}

// inTestEnvironment 粗略判断是否运行在go test下
func inTestEnvironment() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}
