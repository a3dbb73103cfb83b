package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"cv-parser-go/internal/constants"
	"cv-parser-go/internal/llm"
	"cv-parser-go/internal/types"
)

// extractionSchema LLM输出的宽松形状校验：只约束各段的类型，不要求任何字段
// 缺字段按空值处理，多余字段直接忽略
const extractionSchema = `{
  "type": "object",
  "properties": {
    "personal_info": {"type": "object"},
    "summary": {"type": ["string", "null"]},
    "experience": {"type": "array"},
    "education": {"type": "array"},
    "skills": {"type": "array"},
    "languages": {"type": "array"},
    "certifications": {"type": "array"}
  }
}`

var compiledExtractionSchema = jsonschema.MustCompileString("extraction.json", extractionSchema)

// LLMExtractor 标准格式简历的LLM结构化抽取器
type LLMExtractor struct {
	generator llm.TextGenerator
	logger    *log.Logger
}

// NewLLMExtractor 创建LLM抽取器
func NewLLMExtractor(generator llm.TextGenerator, logger *log.Logger) *LLMExtractor {
	return &LLMExtractor{generator: generator, logger: logger}
}

// Extract 调用LLM抽取简历结构，任何失败都降级为空文档并附警告，绝不中断流水线
func (e *LLMExtractor) Extract(ctx context.Context, text string) *types.ParsedDocument {
	if e.generator == nil {
		if e.logger != nil {
			e.logger.Printf("[LLMExtractor] LLM客户端不可用，跳过抽取")
		}
		doc := types.NewParsedDocument(types.DocumentTypeCV)
		doc.AddWarning("HIGH: LLM extraction failed, document is empty")
		return doc
	}

	prompt := buildExtractionPrompt(text)

	response, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		if e.logger != nil {
			e.logger.Printf("[LLMExtractor] LLM调用失败: %v", err)
		}
		doc := types.NewParsedDocument(types.DocumentTypeCV)
		doc.AddWarning("HIGH: LLM extraction failed, document is empty")
		return doc
	}

	doc, err := e.parseResponse(response)
	if err != nil {
		if e.logger != nil {
			e.logger.Printf("[LLMExtractor] 响应解析失败: %v", err)
		}
		doc = types.NewParsedDocument(types.DocumentTypeCV)
		doc.AddWarning("HIGH: LLM extraction failed, document is empty")
	}
	return doc
}

// buildExtractionPrompt 构造抽取提示词，全文超长时截断
func buildExtractionPrompt(text string) string {
	if len(text) > constants.MaxPromptChars {
		text = text[:constants.MaxPromptChars]
	}

	return fmt.Sprintf(`Extract CV data into VALID JSON.

RULES:
1. Output ONLY valid JSON
2. Extract ALL fields
3. Languages: ONLY language names
4. Skills: Technical skills only
5. Certifications: Full names

SCHEMA:
{
  "personal_info": {"full_name": "Name", "email": "email", "phone": "phone", "address": "Via X", "city": "City", "country": "Country"},
  "summary": "Professional summary",
  "experience": [{"title": "Job", "company": "Company", "city": "City", "start_date": "YYYY", "end_date": "YYYY", "responsibilities": ["r1"]}],
  "education": [{"degree": "Degree", "institution": "Institution", "graduation_year": 2020, "gpa": "110/110"}],
  "skills": [{"name": "Python"}],
  "languages": [{"name": "Italiano", "proficiency": "Madrelingua"}],
  "certifications": [{"name": "Cert", "date_obtained": "2023"}]
}

CV:
%s

JSON:`, text)
}

// parseResponse 三级修复：整体有效 → 提取首个平衡JSON对象 → 失败
func (e *LLMExtractor) parseResponse(response string) (*types.ParsedDocument, error) {
	candidate := strings.TrimSpace(response)

	if !gjson.Valid(candidate) {
		candidate = extractJSONObject(candidate)
		if candidate == "" || !gjson.Valid(candidate) {
			return nil, fmt.Errorf("响应中未找到有效JSON")
		}
	}

	var value interface{}
	if err := json.Unmarshal([]byte(candidate), &value); err != nil {
		return nil, fmt.Errorf("JSON反序列化失败: %w", err)
	}
	if err := compiledExtractionSchema.Validate(value); err != nil {
		return nil, fmt.Errorf("JSON结构校验失败: %w", err)
	}

	return mapToDocument(candidate), nil
}

// extractJSONObject 从自由文本中提取首个大括号平衡的JSON对象
// 处理LLM把JSON包在说明文字里的常见情况
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

// mapToDocument 把校验通过的JSON映射为文档
// 逐字段用gjson取值：类型不符的字段得到零值，等同于缺失
func mapToDocument(data string) *types.ParsedDocument {
	doc := types.NewParsedDocument(types.DocumentTypeCV)

	if pi := gjson.Get(data, "personal_info"); pi.IsObject() {
		doc.PersonalInfo = types.PersonalInfo{
			FullName:   pi.Get("full_name").String(),
			Email:      pi.Get("email").String(),
			Phone:      pi.Get("phone").String(),
			Address:    pi.Get("address").String(),
			PostalCode: pi.Get("postal_code").String(),
			City:       pi.Get("city").String(),
			Country:    pi.Get("country").String(),
			LinkedIn:   pi.Get("linkedin").String(),
			GitHub:     pi.Get("github").String(),
			Website:    pi.Get("website").String(),
		}
	}

	doc.Summary = gjson.Get(data, "summary").String()

	gjson.Get(data, "experience").ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		exp := types.Experience{
			Title:       item.Get("title").String(),
			Company:     item.Get("company").String(),
			City:        item.Get("city").String(),
			Country:     item.Get("country").String(),
			StartDate:   item.Get("start_date").String(),
			EndDate:     item.Get("end_date").String(),
			IsCurrent:   item.Get("is_current").Bool(),
			Description: item.Get("description").String(),
		}
		item.Get("responsibilities").ForEach(func(_, r gjson.Result) bool {
			if r.String() != "" {
				exp.Responsibilities = append(exp.Responsibilities, r.String())
			}
			return true
		})
		doc.Experience = append(doc.Experience, exp)
		return true
	})

	gjson.Get(data, "education").ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		doc.Education = append(doc.Education, types.Education{
			Degree:         item.Get("degree").String(),
			FieldOfStudy:   item.Get("field_of_study").String(),
			Institution:    item.Get("institution").String(),
			City:           item.Get("city").String(),
			Country:        item.Get("country").String(),
			GraduationYear: int(item.Get("graduation_year").Int()),
			GPA:            item.Get("gpa").String(),
		})
		return true
	})

	gjson.Get(data, "skills").ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() && item.Get("name").String() != "" {
			doc.Skills = append(doc.Skills, types.Skill{
				Name:        item.Get("name").String(),
				Category:    item.Get("category").String(),
				Proficiency: item.Get("proficiency").String(),
				Source:      types.SkillSourceExtracted,
				Confidence:  1.0,
			})
		}
		return true
	})

	gjson.Get(data, "languages").ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() && item.Get("name").String() != "" {
			doc.Languages = append(doc.Languages, types.Language{
				Name:            item.Get("name").String(),
				Proficiency:     item.Get("proficiency").String(),
				Level:           item.Get("level").String(),
				Certificate:     item.Get("certificate").String(),
				CertificateYear: int(item.Get("certificate_year").Int()),
			})
		}
		return true
	})

	gjson.Get(data, "certifications").ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() && item.Get("name").String() != "" {
			doc.Certifications = append(doc.Certifications, types.Certification{
				Name:         item.Get("name").String(),
				Issuer:       item.Get("issuer").String(),
				DateObtained: item.Get("date_obtained").String(),
			})
		}
		return true
	})

	return doc
}
