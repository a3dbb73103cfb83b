package processor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"cv-parser-go/internal/types"
)

// extractSpans 抽取字段到原文的溯源span
// 定位不到的字段直接跳过，只给找得到原文的字段标span
func (p *CVProcessor) extractSpans(doc *types.ParsedDocument) {
	if doc.FullText == "" {
		return
	}

	text := doc.FullText
	textLower := strings.ToLower(text)

	p.extractPersonalInfoSpans(doc, text, textLower)
	p.extractExperienceSpans(doc, text, textLower)
	p.extractEducationSpans(doc, text, textLower)
	p.extractSkillsSpans(doc, text, textLower)
	p.extractLanguagesSpans(doc, text, textLower)
	p.extractCertificationsSpans(doc, text, textLower)
}

// findSpan 大小写不敏感定位，命中则构造span
func findSpan(text, textLower, value, field string, confidence float64) (types.Span, bool) {
	valueLower := strings.ToLower(value)
	lowIdx := strings.Index(textLower, valueLower)
	if lowIdx == -1 {
		return types.Span{}, false
	}
	start, end := mapLoweredRange(text, textLower, lowIdx, lowIdx+len(valueLower))
	return types.Span{
		Start:      start,
		End:        end,
		Text:       text[start:end],
		Field:      field,
		Confidence: confidence,
	}, true
}

// mapLoweredRange 把小写副本上的字节区间映射回原文区间
// 个别rune小写化后字节宽度会变(如U+023A变U+2C65由2字节到3字节)，偏移不能直接照搬
func mapLoweredRange(text, textLower string, lowStart, lowEnd int) (int, int) {
	if len(text) == len(textLower) {
		return lowStart, lowEnd
	}
	start := -1
	lowOff := 0
	for off, r := range text {
		if start == -1 && lowOff >= lowStart {
			start = off
		}
		if start != -1 && lowOff >= lowEnd {
			return start, off
		}
		lowOff += utf8.RuneLen(unicode.ToLower(r))
	}
	if start == -1 {
		start = len(text)
	}
	return start, len(text)
}

func (p *CVProcessor) extractPersonalInfoSpans(doc *types.ParsedDocument, text, textLower string) {
	pi := doc.PersonalInfo

	if len(pi.Email) > 5 {
		if span, ok := findSpan(text, textLower, pi.Email, "personal_info.email", 0.99); ok {
			doc.AllSpans = append(doc.AllSpans, span)
		}
	}

	// 电话号码大小写无关，用精确匹配
	if len(pi.Phone) > 8 {
		if idx := strings.Index(text, pi.Phone); idx != -1 {
			doc.AllSpans = append(doc.AllSpans, types.Span{
				Start:      idx,
				End:        idx + len(pi.Phone),
				Text:       pi.Phone,
				Field:      "personal_info.phone",
				Confidence: 0.95,
			})
		}
	}

	if len(pi.FullName) > 5 {
		if span, ok := findSpan(text, textLower, pi.FullName, "personal_info.full_name", 0.95); ok {
			doc.AllSpans = append(doc.AllSpans, span)
		}
	}

	if len(pi.City) > 3 {
		if span, ok := findSpan(text, textLower, pi.City, "personal_info.city", 0.90); ok {
			doc.AllSpans = append(doc.AllSpans, span)
		}
	}
}

func (p *CVProcessor) extractExperienceSpans(doc *types.ParsedDocument, text, textLower string) {
	limit := len(doc.Experience)
	if limit > 5 {
		limit = 5
	}

	for i := 0; i < limit; i++ {
		exp := doc.Experience[i]

		if len(exp.Title) > 5 {
			if span, ok := findSpan(text, textLower, exp.Title, fmt.Sprintf("experience[%d].title", i), 0.90); ok {
				doc.AllSpans = append(doc.AllSpans, span)
			}
		}

		if len(exp.Company) > 5 {
			company := cleanCompanyName(exp.Company)
			if span, ok := findSpan(text, textLower, company, fmt.Sprintf("experience[%d].company", i), 0.90); ok {
				doc.AllSpans = append(doc.AllSpans, span)
			}
		}
	}
}

func (p *CVProcessor) extractEducationSpans(doc *types.ParsedDocument, text, textLower string) {
	limit := len(doc.Education)
	if limit > 3 {
		limit = 3
	}

	for i := 0; i < limit; i++ {
		edu := doc.Education[i]

		if len(edu.Degree) > 10 {
			if span, ok := findSpan(text, textLower, edu.Degree, fmt.Sprintf("education[%d].degree", i), 0.85); ok {
				doc.AllSpans = append(doc.AllSpans, span)
			}
		}

		if len(edu.Institution) > 10 {
			if span, ok := findSpan(text, textLower, edu.Institution, fmt.Sprintf("education[%d].institution", i), 0.85); ok {
				doc.AllSpans = append(doc.AllSpans, span)
			}
		}
	}
}

func (p *CVProcessor) extractSkillsSpans(doc *types.ParsedDocument, text, textLower string) {
	limit := len(doc.Skills)
	if limit > 10 {
		limit = 10
	}

	for i := 0; i < limit; i++ {
		skill := doc.Skills[i]
		if len(skill.Name) > 3 {
			if span, ok := findSpan(text, textLower, skill.Name, fmt.Sprintf("skills[%d].name", i), 0.80); ok {
				doc.AllSpans = append(doc.AllSpans, span)
			}
		}
	}
}

func (p *CVProcessor) extractLanguagesSpans(doc *types.ParsedDocument, text, textLower string) {
	for i, lang := range doc.Languages {
		if len(lang.Name) > 4 {
			if span, ok := findSpan(text, textLower, lang.Name, fmt.Sprintf("languages[%d].name", i), 0.85); ok {
				doc.AllSpans = append(doc.AllSpans, span)
			}
		}
	}
}

func (p *CVProcessor) extractCertificationsSpans(doc *types.ParsedDocument, text, textLower string) {
	limit := len(doc.Certifications)
	if limit > 5 {
		limit = 5
	}

	for i := 0; i < limit; i++ {
		cert := doc.Certifications[i]
		if len(cert.Name) <= 5 {
			continue
		}

		field := fmt.Sprintf("certifications[%d].name", i)
		if span, ok := findSpan(text, textLower, cert.Name, field, 0.85); ok {
			doc.AllSpans = append(doc.AllSpans, span)
			continue
		}

		// 全名找不到时退而找开头的缩写
		if acronym := acronymRe.FindString(cert.Name); acronym != "" {
			if span, ok := findSpan(text, textLower, acronym, field, 0.75); ok {
				doc.AllSpans = append(doc.AllSpans, span)
			}
		}
	}
}
