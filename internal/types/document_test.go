package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSectionWeightsSumToOne 章节权重必须构成凸组合
func TestSectionWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, section := range ScoredSections {
		weight, ok := SectionWeights[section]
		require.True(t, ok, "缺少章节权重: %s", section)
		sum += weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

// TestComputeSectionConfidenceEmptyDocument 空文档所有章节置信度为0
func TestComputeSectionConfidenceEmptyDocument(t *testing.T) {
	doc := NewParsedDocument(DocumentTypeCV)
	doc.ComputeSectionConfidence()

	for _, section := range ScoredSections {
		assert.Equal(t, 0.0, doc.SectionConfidence[section], "章节 %s", section)
	}
	assert.Equal(t, 0.0, doc.ConfidenceScore)
}

// TestComputeSectionConfidenceBounds 置信度始终落在[0,1]
func TestComputeSectionConfidenceBounds(t *testing.T) {
	doc := NewParsedDocument(DocumentTypeCV)
	doc.PersonalInfo = PersonalInfo{
		FullName: "Mario Rossi",
		Email:    "mario.rossi@example.com",
		Phone:    "+39 333 1234567",
		City:     "Padova",
	}
	doc.Summary = "Infermiere con dieci anni di esperienza in terapia intensiva."
	for i := 0; i < 8; i++ {
		doc.Experience = append(doc.Experience, Experience{Title: "Infermiere", Company: "Ospedale"})
		doc.Education = append(doc.Education, Education{Degree: "Laurea", Institution: "Università"})
		doc.Skills = append(doc.Skills, Skill{Name: "ECMO"})
		doc.Languages = append(doc.Languages, Language{Name: "Italiano"})
		doc.Certifications = append(doc.Certifications, Certification{Name: "BLS"})
	}

	doc.ComputeSectionConfidence()

	for section, conf := range doc.SectionConfidence {
		assert.GreaterOrEqual(t, conf, 0.0, "章节 %s", section)
		assert.LessOrEqual(t, conf, 1.0, "章节 %s", section)
	}
	assert.GreaterOrEqual(t, doc.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, doc.ConfidenceScore, 1.0)
}

// TestComputeSectionConfidencePersonalInfo 个人信息按齐备字段数打分
func TestComputeSectionConfidencePersonalInfo(t *testing.T) {
	doc := NewParsedDocument(DocumentTypeCV)
	doc.PersonalInfo = PersonalInfo{
		FullName: "Mario Rossi",
		Email:    "mario@example.com",
		Phone:    "+39 333 1234567",
	}
	doc.ComputeSectionConfidence()

	// 4个计分字段中命中3个
	assert.InDelta(t, 0.75, doc.SectionConfidence["personal_info"], 1e-9)
}

// TestDetectMissingSectionsWarnings 缺章节时产生固定告警文案
func TestDetectMissingSectionsWarnings(t *testing.T) {
	doc := NewParsedDocument(DocumentTypeCV)
	doc.DetectMissingSections()

	assert.Contains(t, doc.Warnings, "HIGH: No work experience found")
	assert.Contains(t, doc.Warnings, "MEDIUM: No education found")
	assert.Contains(t, doc.Warnings, "MEDIUM: No skills found")
	assert.Contains(t, doc.Warnings, "LOW: No languages found")
	assert.Contains(t, doc.Warnings, "LOW: Missing professional summary (optional section)")
	assert.Contains(t, doc.Warnings, "INFO: No XAI spans extracted (explainability unavailable)")
}

// TestAddWarningDeduplicates 相同告警不重复累积
func TestAddWarningDeduplicates(t *testing.T) {
	doc := NewParsedDocument(DocumentTypeCV)
	doc.AddWarning("HIGH: No work experience found")
	doc.AddWarning("HIGH: No work experience found")

	assert.Len(t, doc.Warnings, 1)
}

// TestDetectLowConfidenceSections 低置信度章节的告警分级
func TestDetectLowConfidenceSections(t *testing.T) {
	doc := NewParsedDocument(DocumentTypeCV)
	doc.SectionConfidence = map[string]float64{
		"personal_info": 0.0,
		"experience":    0.3,
		"education":     0.6,
		"skills":        0.9,
	}
	doc.DetectLowConfidenceSections()

	assert.Contains(t, doc.Warnings, "HIGH: Low confidence 'personal_info' (0.00)")
	assert.Contains(t, doc.Warnings, "HIGH: Low confidence for 'experience' (0.30)")
	assert.Contains(t, doc.Warnings, "MEDIUM: Moderate confidence 'education' (0.60)")
	for _, w := range doc.Warnings {
		assert.NotContains(t, w, "skills")
	}
}

// TestCollectAllSpansAppends 汇总span时保留已有的顶层span
func TestCollectAllSpansAppends(t *testing.T) {
	doc := NewParsedDocument(DocumentTypeCV)
	doc.AllSpans = append(doc.AllSpans, Span{Field: "personal_info.email", Confidence: 0.99})
	doc.Experience = append(doc.Experience, Experience{
		Title: "Infermiere",
		Spans: []Span{{Field: "experience[0].title", Confidence: 0.90}},
	})

	doc.CollectAllSpans()

	require.Len(t, doc.AllSpans, 2)
	assert.Equal(t, "personal_info.email", doc.AllSpans[0].Field)
	assert.Equal(t, "experience[0].title", doc.AllSpans[1].Field)
}
