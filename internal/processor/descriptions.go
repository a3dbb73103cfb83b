package processor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"cv-parser-go/internal/types"
)

var (
	markdownBoldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	leadingBulletRe  = regexp.MustCompile(`^[\*\-\x{2022}]\s+`)
	actionVerbs      = []string{
		"managed", "developed", "implemented", "led", "created",
		"designed", "built", "coordinated", "achieved", "improved",
		"gestito", "sviluppato", "implementato", "creato", "progettato",
		"coordinato", "migliorato", "realizzato",
	}
	unwantedPrefixes = []string{
		"here is",
		"job description:",
		"summary:",
		"description:",
		"the role",
		"as a",
		"in this role",
		"this position",
	}
	genericPhrases = []string{
		"responsible for various tasks",
		"performed duties as assigned",
		"worked on projects",
		"handled responsibilities",
	}
)

// enrichExperienceDescriptions 为经历生成或改写描述
// 高质量描述跳过；缺失的生成、低质量的改写；每条限定重试次数
func (p *CVProcessor) enrichExperienceDescriptions(ctx context.Context, doc *types.ParsedDocument) {
	if len(doc.Experience) == 0 || p.Components.Generator == nil {
		return
	}

	maxProcess := p.Settings.Enrichment.MaxExperiences
	if maxProcess <= 0 || maxProcess > len(doc.Experience) {
		maxProcess = len(doc.Experience)
	}

	enriched, improved, skipped := 0, 0, 0
	for i := 0; i < maxProcess; i++ {
		exp := &doc.Experience[i]

		improving := false
		if exp.Description != "" {
			if p.isHighQualityDescription(exp.Description) {
				skipped++
				continue
			}
			improving = true
		}

		desc := p.generateDescriptionWithRetry(ctx, doc, exp)
		if desc == "" {
			continue
		}

		exp.Description = desc
		if improving {
			improved++
		} else {
			enriched++
		}
	}

	p.LogDebug(fmt.Sprintf("[CVProcessor] 描述增强: 生成=%d 改写=%d 跳过=%d", enriched, improved, skipped))
}

// isHighQualityDescription 判断描述是否足够好不需要重写
// 长度合理 + 有行为动词 + 词数够多
func (p *CVProcessor) isHighQualityDescription(description string) bool {
	if description == "" {
		return false
	}
	if len(description) < p.Settings.Enrichment.QualityMinLength ||
		len(description) > p.Settings.Enrichment.QualityMaxLength {
		return false
	}

	descLower := strings.ToLower(description)
	hasAction := false
	for _, verb := range actionVerbs {
		if strings.Contains(descLower, verb) {
			hasAction = true
			break
		}
	}
	if !hasAction {
		return false
	}

	return len(strings.Fields(description)) > p.Settings.Enrichment.QualityMinWords
}

// generateDescriptionWithRetry 多策略生成：上下文 → 职责 → 最后一轮才允许的最小兜底
func (p *CVProcessor) generateDescriptionWithRetry(ctx context.Context, doc *types.ParsedDocument, exp *types.Experience) string {
	maxAttempts := p.Settings.Enrichment.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 2
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		// 策略1：全文上下文(质量最好)
		jobContext := extractJobContext(doc.FullText, exp)
		if len(jobContext) >= 100 {
			if desc := p.generateFromContext(ctx, exp, jobContext); desc != "" && p.validateDescriptionQuality(desc) {
				return desc
			}
		}

		// 策略2：结构化职责
		if len(exp.Responsibilities) > 0 {
			if desc := p.generateFromResponsibilities(ctx, exp); desc != "" && p.validateDescriptionQuality(desc) {
				return desc
			}
		}

		// 策略3：只凭职位和公司，仅最后一轮使用，门槛放低
		if attempt == maxAttempts-1 {
			if desc := p.generateMinimal(ctx, exp); len(desc) >= 50 {
				return desc
			}
		}
	}

	return ""
}

// extractJobContext 在全文中定位经历的上下文窗口
// 三级退化：职位+公司(1000字符) → 职位(800) → 公司(600)
func extractJobContext(text string, exp *types.Experience) string {
	if text == "" || exp.Title == "" {
		return ""
	}

	textLower := strings.ToLower(text)

	// 职位和公司同时命中
	if exp.Title != "" && exp.Company != "" {
		lowIdx := strings.Index(textLower, strings.ToLower(exp.Title))
		if lowIdx != -1 {
			windowEnd := lowIdx + 300
			if windowEnd > len(textLower) {
				windowEnd = len(textLower)
			}
			window := textLower[lowIdx:windowEnd]
			if strings.Contains(window, strings.ToLower(cleanCompanyName(exp.Company))) {
				return contextWindow(text, textLower, lowIdx, 1000)
			}
		}
	}

	// 只凭职位
	lowIdx := strings.Index(textLower, strings.ToLower(exp.Title))
	if lowIdx != -1 {
		return contextWindow(text, textLower, lowIdx, 800)
	}

	// 只凭公司(可靠性最低)
	if exp.Company != "" {
		lowIdx := strings.Index(textLower, strings.ToLower(cleanCompanyName(exp.Company)))
		if lowIdx != -1 {
			return contextWindow(text, textLower, lowIdx, 600)
		}
	}

	return ""
}

// contextWindow 从小写副本上的命中位置起在原文上取窗口
func contextWindow(text, textLower string, lowIdx, size int) string {
	start, _ := mapLoweredRange(text, textLower, lowIdx, lowIdx)
	end := start + size
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// cleanCompanyName 公司名去掉"- 城市"后缀
func cleanCompanyName(company string) string {
	if strings.Contains(company, "-") {
		return strings.TrimSpace(strings.Split(company, "-")[0])
	}
	return company
}

func (p *CVProcessor) generateFromContext(ctx context.Context, exp *types.Experience, jobContext string) string {
	if len(jobContext) > 700 {
		jobContext = jobContext[:700]
	}
	company := exp.Company
	if company == "" {
		company = "N/A"
	}

	prompt := fmt.Sprintf(`Generate a professional job description (150-300 characters).

JOB TITLE: %s
COMPANY: %s

CONTEXT FROM CV:
%s

Write a concise summary covering:
- Main responsibilities (2-3 points)
- Key achievements or impact (if mentioned)

OUTPUT: Single paragraph, 150-300 chars. Start directly, no prefix.

DESCRIPTION:`, exp.Title, company, jobContext)

	response, err := p.Components.Generator.Generate(ctx, prompt)
	if err != nil {
		return ""
	}
	return cleanLLMDescription(response)
}

func (p *CVProcessor) generateFromResponsibilities(ctx context.Context, exp *types.Experience) string {
	if len(exp.Responsibilities) == 0 {
		return ""
	}

	resps := exp.Responsibilities
	if len(resps) > 4 {
		resps = resps[:4]
	}
	var sb strings.Builder
	for _, r := range resps {
		if len(r) > 120 {
			r = r[:120]
		}
		sb.WriteString("- " + r + "\n")
	}

	company := exp.Company
	if company == "" {
		company = "N/A"
	}

	prompt := fmt.Sprintf(`Generate a professional job description (150-300 characters).

JOB TITLE: %s
COMPANY: %s

KEY RESPONSIBILITIES:
%s
Write a concise summary of the role. Single paragraph, 150-300 chars. No prefix.

DESCRIPTION:`, exp.Title, company, strings.TrimRight(sb.String(), "\n"))

	response, err := p.Components.Generator.Generate(ctx, prompt)
	if err != nil {
		return ""
	}
	return cleanLLMDescription(response)
}

func (p *CVProcessor) generateMinimal(ctx context.Context, exp *types.Experience) string {
	company := exp.Company
	if company == "" {
		company = "Company"
	}

	prompt := fmt.Sprintf(`Generate a brief professional job description (100-200 characters).

JOB TITLE: %s
COMPANY: %s

Write a one-sentence summary of typical responsibilities for this role. 100-200 chars. No prefix.

DESCRIPTION:`, exp.Title, company)

	response, err := p.Components.Generator.Generate(ctx, prompt)
	if err != nil {
		return ""
	}
	return cleanLLMDescription(response)
}

// cleanLLMDescription 清洗LLM生成的描述
// 去前缀、去markdown、首字母大写、卡长度区间
func cleanLLMDescription(response string) string {
	desc := strings.TrimSpace(response)
	if desc == "" {
		return ""
	}

	descLower := strings.ToLower(desc)
	for _, prefix := range unwantedPrefixes {
		if strings.HasPrefix(descLower, prefix) {
			desc = strings.TrimSpace(desc[len(prefix):])
			desc = strings.TrimSpace(strings.TrimLeft(desc, ":-"))
			descLower = strings.ToLower(desc)
		}
	}

	desc = markdownBoldRe.ReplaceAllString(desc, "$1")
	desc = leadingBulletRe.ReplaceAllString(desc, "")

	if desc != "" && desc[0] >= 'a' && desc[0] <= 'z' {
		desc = strings.ToUpper(desc[:1]) + desc[1:]
	}

	if len(desc) < 50 {
		return ""
	}
	if len(desc) > 500 {
		desc = truncateEllipsis(desc, 497)
	}

	return desc
}

// truncateEllipsis 按字节上限截断加省略号，不在多字节rune中间下刀
func truncateEllipsis(s string, cut int) string {
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// validateDescriptionQuality 生成结果的质量闸门
func (p *CVProcessor) validateDescriptionQuality(description string) bool {
	if description == "" {
		return false
	}
	if len(description) < p.Settings.Enrichment.MinDescLength ||
		len(description) > p.Settings.Enrichment.MaxDescLength {
		return false
	}

	descLower := strings.ToLower(description)
	for _, pattern := range genericPhrases {
		if strings.Contains(descLower, pattern) {
			return false
		}
	}
	return true
}
