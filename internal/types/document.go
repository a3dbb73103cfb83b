package types

import (
	"fmt"
	"time"
)

// DocumentType 表示文档类型
type DocumentType string

const (
	// DocumentTypeCV 简历文档
	DocumentTypeCV DocumentType = "cv"
	// DocumentTypeJD 岗位描述文档
	DocumentTypeJD DocumentType = "jd"
)

// SkillSource 表示技能的来源标签
type SkillSource string

const (
	// SkillSourceExtracted 由LLM直接抽取
	SkillSourceExtracted SkillSource = "extracted"
	// SkillSourceInferred 由上下文推断
	SkillSourceInferred SkillSource = "inferred"
	// SkillSourceHeuristic 由关键词启发式补充
	SkillSourceHeuristic SkillSource = "heuristic"
)

// Span 表示抽取字段在原文中的字符偏移引用，用于可解释性(XAI)
type Span struct {
	Start      int     `json:"start"`      // 起始偏移(含)
	End        int     `json:"end"`        // 结束偏移(不含)
	Text       string  `json:"text"`       // 原文切片
	Field      string  `json:"field"`      // 目标字段路径，如 experience[2].title
	Confidence float64 `json:"confidence"` // 定位置信度
}

// PersonalInfo 个人信息，所有字段均可缺省，空实例也是合法的
type PersonalInfo struct {
	FullName   string `json:"full_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"` // 完整地址，如 Via Roma 156, 35100 Padova (PD)
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	GitHub     string `json:"github,omitempty"`
	Website    string `json:"website,omitempty"`
}

// Experience 一段工作经历
// 日期字段保留原文文本，不解析为日历日期
type Experience struct {
	Title            string   `json:"title,omitempty"`
	Company          string   `json:"company,omitempty"`
	City             string   `json:"city,omitempty"`
	Country          string   `json:"country,omitempty"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	IsCurrent        bool     `json:"is_current"`
	Description      string   `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Spans            []Span   `json:"spans,omitempty"`
}

// Education 一段教育经历
type Education struct {
	Degree         string `json:"degree,omitempty"`
	FieldOfStudy   string `json:"field_of_study,omitempty"`
	Institution    string `json:"institution,omitempty"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"` // 0 表示缺省
	GPA            string `json:"gpa,omitempty"`             // 原文文本，如 "110/110"
	Spans          []Span `json:"spans,omitempty"`
}

// Skill 一项技能及其来源标签
type Skill struct {
	Name        string      `json:"name"`
	Category    string      `json:"category,omitempty"`
	Proficiency string      `json:"proficiency,omitempty"`
	Source      SkillSource `json:"source"`
	Confidence  float64     `json:"confidence"`
}

// Language 一门语言及其能力描述
// Level 为规范化后的CEFR等级(C2..A1)，缺省为空字符串
type Language struct {
	Name            string `json:"name"`
	Proficiency     string `json:"proficiency,omitempty"`
	Level           string `json:"level,omitempty"`
	Certificate     string `json:"certificate,omitempty"`
	CertificateYear int    `json:"certificate_year,omitempty"`
}

// Certification 一项认证
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	DateObtained string `json:"date_obtained,omitempty"`
}

// SectionWeights 各章节在总置信度中的固定权重，权重之和为1.0
var SectionWeights = map[string]float64{
	"personal_info":  0.25,
	"experience":     0.25,
	"education":      0.20,
	"skills":         0.15,
	"languages":      0.10,
	"certifications": 0.05,
}

// ScoredSections 参与低置信度告警检查的章节，按固定顺序
var ScoredSections = []string{
	"personal_info",
	"experience",
	"education",
	"skills",
	"languages",
	"certifications",
}

// ParsedDocument 解析后的结构化文档
// 由单一抽取器创建后，按固定顺序被各后处理阶段原地修改；
// 交还调用方后不再变更，所有权独占于创建它的调用
type ParsedDocument struct {
	// 元数据
	DocumentID    string       `json:"document_id,omitempty"`
	DocumentType  DocumentType `json:"document_type"`
	FileSHA256    string       `json:"file_sha256,omitempty"`
	FileName      string       `json:"file_name,omitempty"`
	FullText      string       `json:"full_text,omitempty"`
	ParsingMethod string       `json:"parsing_method,omitempty"`
	ParsedAt      time.Time    `json:"parsed_at,omitempty"`

	// 内容
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Summary        string          `json:"summary,omitempty"`
	SummarySpan    *Span           `json:"summary_span,omitempty"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Languages      []Language      `json:"languages"`
	Certifications []Certification `json:"certifications"`

	GDPRConsent bool `json:"gdpr_consent"`

	// 诊断
	ConfidenceScore   float64            `json:"confidence_score"`
	SectionConfidence map[string]float64 `json:"section_confidence"`
	Warnings          []string           `json:"warnings"`
	AllSpans          []Span             `json:"all_spans"`
}

// NewParsedDocument 创建一个指定类型的空文档
func NewParsedDocument(docType DocumentType) *ParsedDocument {
	return &ParsedDocument{
		DocumentType:      docType,
		ParsedAt:          time.Now(),
		SectionConfidence: make(map[string]float64),
	}
}

// AddWarning 追加一条告警，重复的告警只保留第一条
func (d *ParsedDocument) AddWarning(warning string) {
	for _, w := range d.Warnings {
		if w == warning {
			return
		}
	}
	d.Warnings = append(d.Warnings, warning)
}

// CollectAllSpans 汇总嵌套实体上挂载的span到AllSpans
func (d *ParsedDocument) CollectAllSpans() {
	for i := range d.Experience {
		d.AllSpans = append(d.AllSpans, d.Experience[i].Spans...)
	}
	for i := range d.Education {
		d.AllSpans = append(d.AllSpans, d.Education[i].Spans...)
	}
	if d.SummarySpan != nil {
		d.AllSpans = append(d.AllSpans, *d.SummarySpan)
	}
}

// DetectMissingSections 检测缺失章节并追加固定告警
func (d *ParsedDocument) DetectMissingSections() {
	if d.Summary == "" {
		d.AddWarning("LOW: Missing professional summary (optional section)")
	}
	if len(d.Experience) == 0 {
		d.AddWarning("HIGH: No work experience found")
	}
	if len(d.Education) == 0 {
		d.AddWarning("MEDIUM: No education found")
	}
	if len(d.Skills) == 0 {
		d.AddWarning("MEDIUM: No skills found")
	}
	if len(d.Languages) == 0 {
		d.AddWarning("LOW: No languages found")
	}
	if len(d.AllSpans) == 0 {
		d.AddWarning("INFO: No XAI spans extracted (explainability unavailable)")
	}
}

// ComputeSectionConfidence 计算各章节置信度并汇总为总置信度
// 各章节为字段存在性的加权平均，总分为固定凸组合(SectionWeights)
func (d *ParsedDocument) ComputeSectionConfidence() {
	if d.SectionConfidence == nil {
		d.SectionConfidence = make(map[string]float64)
	}

	// 个人信息: 姓名/邮箱/电话/城市四个字段的存在比例
	personalFields := []string{
		d.PersonalInfo.FullName,
		d.PersonalInfo.Email,
		d.PersonalInfo.Phone,
		d.PersonalInfo.City,
	}
	present := 0
	for _, f := range personalFields {
		if f != "" {
			present++
		}
	}
	d.SectionConfidence["personal_info"] = float64(present) / float64(len(personalFields))

	// 摘要
	if d.Summary != "" {
		d.SectionConfidence["summary"] = 1.0
	} else {
		d.SectionConfidence["summary"] = 0.0
	}

	// 工作经历: 每条按 title/company/start_date 全权重、description 半权重，归一化到[0,1]
	if len(d.Experience) > 0 {
		var total float64
		for _, exp := range d.Experience {
			var score float64
			if exp.Title != "" {
				score++
			}
			if exp.Company != "" {
				score++
			}
			if exp.StartDate != "" {
				score++
			}
			if exp.Description != "" {
				score += 0.5
			}
			total += score / 3.5
		}
		d.SectionConfidence["experience"] = total / float64(len(d.Experience))
	} else {
		d.SectionConfidence["experience"] = 0.0
	}

	// 教育经历: degree/institution 全权重、graduation_year 半权重
	if len(d.Education) > 0 {
		var total float64
		for _, edu := range d.Education {
			var score float64
			if edu.Degree != "" {
				score++
			}
			if edu.Institution != "" {
				score++
			}
			if edu.GraduationYear != 0 {
				score += 0.5
			}
			total += score / 2.5
		}
		d.SectionConfidence["education"] = total / float64(len(d.Education))
	} else {
		d.SectionConfidence["education"] = 0.0
	}

	// 技能: 3条及以上为满分
	if len(d.Skills) >= 3 {
		d.SectionConfidence["skills"] = 1.0
	} else {
		d.SectionConfidence["skills"] = float64(len(d.Skills)) / 3.0
	}

	// 语言: 2门及以上为满分
	if len(d.Languages) >= 2 {
		d.SectionConfidence["languages"] = 1.0
	} else {
		d.SectionConfidence["languages"] = float64(len(d.Languages)) / 2.0
	}

	// 认证: 有即满分
	if len(d.Certifications) >= 1 {
		d.SectionConfidence["certifications"] = 1.0
	} else {
		d.SectionConfidence["certifications"] = 0.0
	}

	// 总置信度
	var overall float64
	for section, weight := range SectionWeights {
		overall += d.SectionConfidence[section] * weight
	}
	d.ConfidenceScore = overall
}

// DetectLowConfidenceSections 为低置信度章节追加告警
// 0.0或低于0.5为HIGH级别，低于0.7为MEDIUM级别
func (d *ParsedDocument) DetectLowConfidenceSections() {
	for _, section := range ScoredSections {
		confidence := d.SectionConfidence[section]
		switch {
		case confidence == 0.0:
			d.AddWarning(fmt.Sprintf("HIGH: Low confidence '%s' (%.2f)", section, confidence))
		case confidence < 0.5:
			d.AddWarning(fmt.Sprintf("HIGH: Low confidence for '%s' (%.2f)", section, confidence))
		case confidence < 0.7:
			d.AddWarning(fmt.Sprintf("MEDIUM: Moderate confidence '%s' (%.2f)", section, confidence))
		}
	}
}
