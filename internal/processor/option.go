package processor

import (
	"io"
	"log"

	"cv-parser-go/internal/config"
	"cv-parser-go/internal/llm"
)

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithcompGenerator 设置文本生成器组件(描述增强用)
func WithcompGenerator(generator llm.TextGenerator) ComponentOpt {
	return func(c *Components) {
		c.Generator = generator
	}
}

// ----- 设置选项 -----

// WithsetDebug 设置调试模式
func WithsetDebug(debug bool) SettingOpt {
	return func(s *Settings) {
		s.Debug = debug
	}
}

// WithsetLogger 设置日志记录器
func WithsetLogger(logger *log.Logger) SettingOpt {
	return func(s *Settings) {
		if logger != nil {
			s.Logger = logger
		} else {
			// 提供一个 discard logger 以防万一
			s.Logger = log.New(io.Discard, "[NilLoggerFallback] ", log.LstdFlags)
		}
	}
}

// WithsetModel 设置模型名(只用于parsing_method元数据)
func WithsetModel(model string) SettingOpt {
	return func(s *Settings) {
		s.Model = model
	}
}

// WithsetEnrichment 设置描述增强参数
func WithsetEnrichment(cfg config.EnrichmentConfig) SettingOpt {
	return func(s *Settings) {
		s.Enrichment = cfg
	}
}

// LogDebug 记录调试日志
func (p *CVProcessor) LogDebug(message string) {
	if p.Settings.Debug && p.Settings.Logger != nil {
		p.Settings.Logger.Println(message)
	}
}

// LogInfo 记录信息日志
func (p *CVProcessor) LogInfo(message string) {
	if p.Settings.Logger != nil {
		p.Settings.Logger.Println(message)
	}
}
