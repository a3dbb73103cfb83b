package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-parser-go/internal/constants"
	"cv-parser-go/internal/llm"
	"cv-parser-go/internal/types"
)

const validExtractionJSON = `{
  "personal_info": {"full_name": "Mario Rossi", "email": "mario@example.com", "phone": "+39 333 1234567", "city": "Padova"},
  "summary": "Infermiere esperto in terapia intensiva.",
  "experience": [{"title": "Infermiere", "company": "Ospedale di Padova", "start_date": "2019", "end_date": "2023", "responsibilities": ["assistenza pazienti"]}],
  "education": [{"degree": "Laurea in Infermieristica", "institution": "Università di Padova", "graduation_year": 2015, "gpa": "105/110"}],
  "skills": [{"name": "ECMO"}, {"name": "Python"}],
  "languages": [{"name": "Italiano", "proficiency": "Madrelingua"}],
  "certifications": [{"name": "BLS", "date_obtained": "2020"}]
}`

// TestExtractCleanJSON LLM返回纯JSON时的完整映射
func TestExtractCleanJSON(t *testing.T) {
	mock := llm.NewMockGenerator(validExtractionJSON)
	e := NewLLMExtractor(mock, nil)

	doc := e.Extract(context.Background(), "Mario Rossi, Infermiere...")

	require.NotNil(t, doc)
	assert.Equal(t, "Mario Rossi", doc.PersonalInfo.FullName)
	assert.Equal(t, "Infermiere esperto in terapia intensiva.", doc.Summary)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Infermiere", doc.Experience[0].Title)
	assert.Equal(t, []string{"assistenza pazienti"}, doc.Experience[0].Responsibilities)
	require.Len(t, doc.Education, 1)
	assert.Equal(t, 2015, doc.Education[0].GraduationYear)
	require.Len(t, doc.Skills, 2)
	assert.Equal(t, types.SkillSourceExtracted, doc.Skills[0].Source)
	// 抽取到的技能默认满置信度，区别于0.6的启发式补充
	assert.InDelta(t, 1.0, doc.Skills[0].Confidence, 1e-9)
	assert.InDelta(t, 1.0, doc.Skills[1].Confidence, 1e-9)
	require.Len(t, doc.Languages, 1)
	assert.Equal(t, "Madrelingua", doc.Languages[0].Proficiency)
	require.Len(t, doc.Certifications, 1)
	assert.Empty(t, doc.Warnings)
}

// TestExtractJSONWrappedInProse JSON被说明文字包裹时仍能修复
func TestExtractJSONWrappedInProse(t *testing.T) {
	mock := llm.NewMockGenerator("Here is the data: " + validExtractionJSON + "\nHope this helps!")
	e := NewLLMExtractor(mock, nil)

	doc := e.Extract(context.Background(), "text")

	assert.Equal(t, "Mario Rossi", doc.PersonalInfo.FullName)
	require.Len(t, doc.Skills, 2)
}

// TestExtractNestedBraces 说明文字里带大括号也不影响平衡提取
func TestExtractNestedBraces(t *testing.T) {
	response := `The JSON is: {"summary": "Worked on {embedded} systems", "skills": [{"name": "C"}]}`
	mock := llm.NewMockGenerator(response)
	e := NewLLMExtractor(mock, nil)

	doc := e.Extract(context.Background(), "text")

	assert.Equal(t, "Worked on {embedded} systems", doc.Summary)
}

// TestExtractGarbageResponse 完全无效的响应降级为空文档加警告
func TestExtractGarbageResponse(t *testing.T) {
	mock := llm.NewMockGenerator("I cannot parse this CV, sorry.")
	e := NewLLMExtractor(mock, nil)

	doc := e.Extract(context.Background(), "text")

	require.NotNil(t, doc)
	assert.Empty(t, doc.Experience)
	assert.Contains(t, doc.Warnings, "HIGH: LLM extraction failed, document is empty")
}

// TestExtractGeneratorError LLM调用失败降级为空文档
func TestExtractGeneratorError(t *testing.T) {
	mock := llm.NewMockGenerator()
	mock.Err = errors.New("connection refused")
	e := NewLLMExtractor(mock, nil)

	doc := e.Extract(context.Background(), "text")

	require.NotNil(t, doc)
	assert.Contains(t, doc.Warnings, "HIGH: LLM extraction failed, document is empty")
}

// TestExtractNilGenerator 没有LLM客户端时也能走完
func TestExtractNilGenerator(t *testing.T) {
	e := NewLLMExtractor(nil, nil)
	doc := e.Extract(context.Background(), "text")

	require.NotNil(t, doc)
	assert.Contains(t, doc.Warnings, "HIGH: LLM extraction failed, document is empty")
}

// TestExtractSkipsNonObjectEntries 数组里的非对象和无名条目都跳过
func TestExtractSkipsNonObjectEntries(t *testing.T) {
	response := `{"skills": ["Python", {"name": "Docker"}, {"level": "expert"}], "languages": [{"proficiency": "good"}]}`
	mock := llm.NewMockGenerator(response)
	e := NewLLMExtractor(mock, nil)

	doc := e.Extract(context.Background(), "text")

	require.Len(t, doc.Skills, 1)
	assert.Equal(t, "Docker", doc.Skills[0].Name)
	assert.Empty(t, doc.Languages)
}

// TestExtractRejectsWrongShape 段类型不对时整体拒绝
func TestExtractRejectsWrongShape(t *testing.T) {
	mock := llm.NewMockGenerator(`{"experience": "ho lavorato come infermiere"}`)
	e := NewLLMExtractor(mock, nil)

	doc := e.Extract(context.Background(), "text")

	assert.Empty(t, doc.Experience)
	assert.Contains(t, doc.Warnings, "HIGH: LLM extraction failed, document is empty")
}

// TestBuildExtractionPromptTruncation 超长文本截断到上限
func TestBuildExtractionPromptTruncation(t *testing.T) {
	long := strings.Repeat("a", constants.MaxPromptChars+500)
	prompt := buildExtractionPrompt(long)

	assert.NotContains(t, prompt, strings.Repeat("a", constants.MaxPromptChars+1))
	assert.Contains(t, prompt, strings.Repeat("a", constants.MaxPromptChars))

	mock := llm.NewMockGenerator(validExtractionJSON)
	e := NewLLMExtractor(mock, nil)
	e.Extract(context.Background(), long)
	require.Len(t, mock.Prompts, 1)
	assert.Less(t, len(mock.Prompts[0]), constants.MaxPromptChars+1000)
}

// TestExtractJSONObjectHelper 平衡括号提取的边界情况
func TestExtractJSONObjectHelper(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, extractJSONObject(`prefix {"a": 1} suffix`))
	assert.Equal(t, `{"a": {"b": 2}}`, extractJSONObject(`{"a": {"b": 2}}`))
	assert.Equal(t, `{"s": "brace } in string"}`, extractJSONObject(`x {"s": "brace } in string"} y`))
	assert.Empty(t, extractJSONObject("no braces here"))
	assert.Empty(t, extractJSONObject(`{"unterminated": `))
}
