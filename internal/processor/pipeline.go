package processor

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cv-parser-go/internal/config"
	"cv-parser-go/internal/constants"
	"cv-parser-go/internal/llm"
	"cv-parser-go/internal/parser"
	"cv-parser-go/internal/types"
	"cv-parser-go/pkg/utils"
)

// Components CVProcessor的外部依赖组件
type Components struct {
	Generator llm.TextGenerator
}

// Settings CVProcessor的运行参数
type Settings struct {
	Debug      bool
	Logger     *log.Logger
	Model      string
	Enrichment config.EnrichmentConfig
}

// CVProcessor 简历解析流水线
// 串联清洗、格式识别、结构化抽取和全部后处理步骤
// 设计原则：除文件不存在外，任何单步失败都降级为警告，流水线总是产出文档
type CVProcessor struct {
	Components Components
	Settings   Settings

	europass  *parser.EuropassParser
	extractor *parser.LLMExtractor
}

// NewCVProcessor 创建简历处理器
func NewCVProcessor(compOpts []ComponentOpt, setOpts []SettingOpt) *CVProcessor {
	p := &CVProcessor{
		Settings: Settings{
			Logger:     log.New(io.Discard, "[CVProcessor] ", log.LstdFlags),
			Enrichment: config.DefaultConfig().Enrichment,
		},
	}

	for _, opt := range compOpts {
		opt(&p.Components)
	}
	for _, opt := range setOpts {
		opt(&p.Settings)
	}

	p.europass = parser.NewEuropassParser(p.Settings.Logger)
	p.extractor = parser.NewLLMExtractor(p.Components.Generator, p.Settings.Logger)

	return p
}

// ParseFile 解析简历文本文件
// 唯一的致命错误是文件无法读取；其余问题都体现为文档内的警告
func (p *CVProcessor) ParseFile(ctx context.Context, path string) (*types.ParsedDocument, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, NewFileNotFoundError(filepath.Base(path), err.Error())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewReadFileError(filepath.Base(path), err.Error())
	}

	hash := utils.CalculateSHA256(data)
	p.LogInfo(fmt.Sprintf("[CVProcessor] 开始解析: %s (hash=%.16s)", filepath.Base(path), hash))

	return p.ParseText(ctx, string(data), filepath.Base(path), hash)
}

// ParseText 解析已就绪的简历文本(OCR结果)
func (p *CVProcessor) ParseText(ctx context.Context, text, fileName, fileHash string) (*types.ParsedDocument, error) {
	start := time.Now()

	// 清洗OCR编码错误
	text = parser.CleanOCRText(text)
	p.LogDebug(fmt.Sprintf("[CVProcessor] 清洗完成: %d 字符", len(text)))

	// 格式识别，两条抽取路径
	isEuropass := parser.DetectEuropassFormat(text)

	var doc *types.ParsedDocument
	var method string
	if isEuropass {
		p.LogInfo("[CVProcessor] 识别为欧标格式")
		doc = p.europass.Parse(text)
		method = constants.ParsingMethodEuropass
	} else {
		p.LogInfo("[CVProcessor] 识别为标准格式，走LLM抽取")
		doc = p.extractor.Extract(ctx, text)
		method = constants.ParsingMethodStandard
	}

	// 元数据
	doc.DocumentID = uuid.New().String()
	doc.FileSHA256 = fileHash
	doc.FileName = fileName
	doc.FullText = text
	doc.ParsingMethod = fmt.Sprintf("%s_v%s_%s", method, constants.ParserVersion, p.Settings.Model)
	doc.ParsedAt = time.Now()

	// 后处理链，顺序固定
	p.runPostprocessing(ctx, doc)

	p.LogInfo(fmt.Sprintf("[CVProcessor] 解析完成: confidence=%.2f, warnings=%d, 耗时=%v",
		doc.ConfidenceScore, len(doc.Warnings), time.Since(start)))

	return doc, nil
}

// runPostprocessing 按固定顺序执行全部后处理步骤
func (p *CVProcessor) runPostprocessing(ctx context.Context, doc *types.ParsedDocument) {
	// 教育回退
	if len(doc.Education) == 0 {
		p.educationFallback(doc)
	}
	p.LogDebug(fmt.Sprintf("[CVProcessor] 教育: %d 条", len(doc.Education)))

	// 语言回退
	if len(doc.Languages) == 0 {
		p.languagesFallback(doc)
	}
	p.LogDebug(fmt.Sprintf("[CVProcessor] 语言: %d 门", len(doc.Languages)))

	// CEFR等级归一化
	p.validateLanguageLevels(doc)

	// 技能过滤与启发式补充
	p.filterAndEnrichSkills(doc)
	p.LogDebug(fmt.Sprintf("[CVProcessor] 技能: %d 项", len(doc.Skills)))

	// 认证去重
	p.deduplicateCertifications(doc)

	// 摘要回退
	if doc.Summary == "" {
		p.summaryFallback(doc)
	}

	// 经历描述增强(LLM)
	p.enrichExperienceDescriptions(ctx, doc)

	// 国家补全
	p.enrichCountryInfo(doc)

	// 在职检测
	p.detectCurrentJobs(doc)

	// 日期清洗
	p.cleanDateFields(doc)

	// 溯源span抽取
	p.extractSpans(doc)
	doc.CollectAllSpans()
	p.LogDebug(fmt.Sprintf("[CVProcessor] spans: %d 个", len(doc.AllSpans)))

	// GDPR声明检测：只扫描文末窗口
	tail := doc.FullText
	if len(tail) > constants.GDPRSearchWindow {
		tail = tail[len(tail)-constants.GDPRSearchWindow:]
	}
	doc.GDPRConsent = strings.Contains(strings.ToLower(tail), "gdpr")

	// 诊断与置信度
	doc.DetectMissingSections()
	doc.ComputeSectionConfidence()
	doc.DetectLowConfidenceSections()
}
