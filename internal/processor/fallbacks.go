package processor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cv-parser-go/internal/constants"
	"cv-parser-go/internal/parser"
	"cv-parser-go/internal/types"
)

var (
	yearRe        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	gpaRe         = regexp.MustCompile(`(\d{2,3})/(\d{2,3})`)
	langLineRe    = regexp.MustCompile(`^([A-Za-zàèéìòù\s]+):\s*([^\n\|]{3,100})`)
	acronymRe     = regexp.MustCompile(`^([A-Z\-]+)`)
	parenDateRe   = regexp.MustCompile(`\s*\([^)]*\)`)
	cefrLevels    = []string{"C2", "C1", "B2", "B1", "A2", "A1"}
	validCEFR     = map[string]bool{"C2": true, "C1": true, "B2": true, "B1": true, "A2": true, "A1": true}
	sectionBreaks = []string{
		"esperienza", "experience", "formazione", "education",
		"competenze", "skills", "certificazioni", "lingue", "progetti",
	}
)

// cefrTokenRes 显式等级记号的匹配正则，如 "c1" 或 "(b2)"
var cefrTokenRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(cefrLevels))
	for _, cefr := range cefrLevels {
		token := strings.ToLower(cefr)
		res[cefr] = regexp.MustCompile(`\b` + token + `\b|\(` + token + `\)`)
	}
	return res
}()

// cefrKeywordMap 口语化熟练度词到CEFR等级的映射，按严格度降序匹配
var cefrKeywordMap = []struct {
	keyword string
	level   string
}{
	{"madrelingua", "C2"},
	{"native", "C2"},
	{"fluente", "C1"},
	{"fluent", "C1"},
	{"avanzato", "C1"},
	{"advanced", "C1"},
	{"buono", "B2"},
	{"good", "B2"},
	{"intermedio", "B2"},
	{"intermediate", "B2"},
	{"base", "A2"},
	{"basic", "A2"},
}

// negationPatterns 技能否定语境模板，%s为技能关键词
var negationPatterns = []string{
	"no experience with %s",
	"no knowledge of %s",
	"don't know %s",
	"do not know %s",
	"not familiar with %s",
	"never used %s",
	"no %s",
	"non conosco %s",
	"nessuna esperienza con %s",
	"mai usato %s",
	"non ho esperienza con %s",
}

// educationFallback LLM没抽到教育经历时的正则回退
// 只认 "学位 | 学校 | 年份" 这种竖线分隔的行
func (p *CVProcessor) educationFallback(doc *types.ParsedDocument) {
	section := findSection(doc.FullText, []string{"formazione", "education", "istruzione"})
	if section == "" {
		return
	}

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") || len(line) <= 20 {
			continue
		}

		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 {
			continue
		}

		edu := types.Education{
			Degree:      parts[0],
			Institution: parts[1],
		}
		for _, part := range parts {
			if ym := yearRe.FindString(part); ym != "" {
				if year, err := strconv.Atoi(ym); err == nil {
					edu.GraduationYear = year
				}
				break
			}
		}
		if gm := gpaRe.FindString(line); gm != "" {
			edu.GPA = gm
		}

		doc.Education = append(doc.Education, edu)
	}
}

// languagesFallback LLM没抽到语言时的正则回退
func (p *CVProcessor) languagesFallback(doc *types.ParsedDocument) {
	section := findSection(doc.FullText, []string{"lingue", "languages"})
	if section == "" || !strings.Contains(section, "|") {
		return
	}

	for _, segment := range strings.Split(section, "|") {
		m := langLineRe.FindStringSubmatch(strings.TrimSpace(segment))
		if m == nil {
			continue
		}

		name := strings.TrimSpace(m[1])
		prof := strings.TrimSpace(m[2])

		if entry, ok := parser.LanguageDatabase[strings.ToLower(name)]; ok {
			doc.Languages = append(doc.Languages, types.Language{
				Name:        entry.Name,
				Proficiency: prof,
			})
		}
	}
}

// validateLanguageLevels 从熟练度描述推导CEFR等级并归一化
// 优先认显式的等级记号(如 "C1" 或 "(B2)")，再退到关键词映射
func (p *CVProcessor) validateLanguageLevels(doc *types.ParsedDocument) {
	if len(doc.Languages) == 0 {
		return
	}

	for i := range doc.Languages {
		lang := &doc.Languages[i]
		if lang.Proficiency == "" {
			if lang.Level != "" {
				lang.Level = normalizeCEFR(lang.Level)
			}
			continue
		}

		profLower := strings.ToLower(lang.Proficiency)

		if lang.Level == "" {
			for _, cefr := range cefrLevels {
				if cefrTokenRes[cefr].MatchString(profLower) {
					lang.Level = cefr
					break
				}
			}

			if lang.Level == "" {
				for _, kw := range cefrKeywordMap {
					if strings.Contains(profLower, kw.keyword) {
						lang.Level = kw.level
						break
					}
				}
			}
		}

		if lang.Level != "" {
			lang.Level = normalizeCEFR(lang.Level)
		}
	}
}

// normalizeCEFR 等级规范化，非法值清空
func normalizeCEFR(level string) string {
	level = strings.ToUpper(strings.TrimSpace(level))
	if !validCEFR[level] {
		return ""
	}
	return level
}

// filterAndEnrichSkills 技能清理：去超长、去软技能，数量不足时启发式补充，最后截断
func (p *CVProcessor) filterAndEnrichSkills(doc *types.ParsedDocument) {
	var filtered []types.Skill
	for _, skill := range doc.Skills {
		if len(skill.Name) > 50 {
			continue
		}
		nameLower := strings.ToLower(skill.Name)
		excluded := false
		for soft := range parser.SoftSkillsExclude {
			if strings.Contains(nameLower, soft) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		filtered = append(filtered, skill)
	}
	doc.Skills = filtered

	if len(doc.Skills) < 5 {
		added := p.addHeuristicSkills(doc)
		p.LogDebug(fmt.Sprintf("[CVProcessor] 技能不足，启发式补充 %d 项", added))
	}

	if len(doc.Skills) > constants.MaxSkills {
		doc.Skills = doc.Skills[:constants.MaxSkills]
	}
}

// addHeuristicSkills 从全文按关键词频次补充技能
// 出现至少3次、无否定语境、未重复才算数
func (p *CVProcessor) addHeuristicSkills(doc *types.ParsedDocument) int {
	if doc.FullText == "" {
		return 0
	}

	textLower := strings.ToLower(doc.FullText)
	existing := make(map[string]bool, len(doc.Skills))
	for _, s := range doc.Skills {
		existing[strings.ToLower(s.Name)] = true
	}

	// 固定遍历顺序，保证同一份文本两次解析补出同一组技能
	keywords := make([]string, 0, len(parser.SkillKeywords))
	for keyword := range parser.SkillKeywords {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	added := 0
	for _, keyword := range keywords {
		if len(doc.Skills) >= constants.MaxSkills {
			break
		}
		if strings.Count(textLower, keyword) < 3 {
			continue
		}
		if existing[keyword] {
			continue
		}
		if hasNegationContext(textLower, keyword) {
			continue
		}

		name := titleCaseSkill(keyword)
		doc.Skills = append(doc.Skills, types.Skill{
			Name:       name,
			Source:     types.SkillSourceHeuristic,
			Confidence: 0.6,
		})
		existing[keyword] = true
		added++
	}

	return added
}

// hasNegationContext 检查关键词是否出现在否定语境中
func hasNegationContext(textLower, keyword string) bool {
	for _, pattern := range negationPatterns {
		if strings.Contains(textLower, fmt.Sprintf(pattern, keyword)) {
			return true
		}
	}
	return false
}

// titleCaseSkill 短关键词(≤5)全大写当缩写，长的逐词首字母大写
func titleCaseSkill(keyword string) string {
	if len(keyword) <= 5 {
		return strings.ToUpper(keyword)
	}
	words := strings.Fields(keyword)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// deduplicateCertifications 按缩写分组去重
// 同组保留名称最长的，颁发机构从组内其他条目回填
func (p *CVProcessor) deduplicateCertifications(doc *types.ParsedDocument) {
	if len(doc.Certifications) == 0 {
		return
	}

	groups := make(map[string][]types.Certification)
	var order []string
	for _, cert := range doc.Certifications {
		var key string
		if m := acronymRe.FindString(cert.Name); m != "" {
			key = strings.ReplaceAll(strings.ToLower(m), "-", "")
		} else {
			key = strings.ToLower(cert.Name)
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], cert)
	}

	unique := make([]types.Certification, 0, len(order))
	for _, key := range order {
		certs := groups[key]
		best := certs[0]
		for _, c := range certs[1:] {
			if len(c.Name) > len(best.Name) {
				best = c
			}
		}
		if best.Issuer == "" {
			for _, c := range certs {
				if c.Issuer != "" {
					best.Issuer = c.Issuer
					break
				}
			}
		}
		// 组内都没有机构时查认证数据库回填
		if best.Issuer == "" {
			if info, ok := parser.CertificationDB[key]; ok {
				best.Issuer = info.Issuer
			}
		}
		unique = append(unique, best)
	}

	doc.Certifications = unique
}

// summaryFallback 从简介段落抽取摘要
func (p *CVProcessor) summaryFallback(doc *types.ParsedDocument) {
	section := findSection(doc.FullText, []string{
		"profilo professionale",
		"professional profile",
		"professional summary",
		"about me",
		"riepilogo",
	})
	if section == "" {
		return
	}

	var contentLines []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		// 跳过标题行本身
		if strings.Contains(lower, "profilo") || strings.Contains(lower, "professional") || strings.Contains(lower, "summary") {
			continue
		}
		contentLines = append(contentLines, line)
	}

	if len(contentLines) == 0 {
		return
	}
	if len(contentLines) > 3 {
		contentLines = contentLines[:3]
	}

	summary := strings.Join(contentLines, " ")
	if len(summary) > 300 {
		summary = truncateEllipsis(summary, 297)
	}
	if len(summary) >= 50 {
		doc.Summary = summary
	}
}

// enrichCountryInfo 认得出的意大利城市补国家
func (p *CVProcessor) enrichCountryInfo(doc *types.ParsedDocument) {
	if doc.PersonalInfo.Country != "" || doc.PersonalInfo.City == "" {
		return
	}

	italianCities := map[string]bool{
		"milano": true, "roma": true, "padova": true, "napoli": true,
		"torino": true, "bologna": true, "mortara": true,
	}
	if italianCities[strings.ToLower(doc.PersonalInfo.City)] {
		doc.PersonalInfo.Country = "Italy"
	}
}

// detectCurrentJobs 结束日期缺失或含在职词的经历标记为当前职位
func (p *CVProcessor) detectCurrentJobs(doc *types.ParsedDocument) {
	currentWords := []string{"present", "presente", "corso", "ongoing"}

	for i := range doc.Experience {
		exp := &doc.Experience[i]
		isCurrent := exp.EndDate == ""
		if !isCurrent {
			endLower := strings.ToLower(exp.EndDate)
			for _, w := range currentWords {
				if strings.Contains(endLower, w) {
					isCurrent = true
					break
				}
			}
		}
		if isCurrent {
			exp.IsCurrent = true
			exp.EndDate = ""
		}
	}
}

// cleanDateFields 去掉日期里的括号备注和尾部标点
func (p *CVProcessor) cleanDateFields(doc *types.ParsedDocument) {
	for i := range doc.Experience {
		doc.Experience[i].StartDate = cleanSingleDate(doc.Experience[i].StartDate)
		doc.Experience[i].EndDate = cleanSingleDate(doc.Experience[i].EndDate)
	}
	for i := range doc.Certifications {
		doc.Certifications[i].DateObtained = cleanSingleDate(doc.Certifications[i].DateObtained)
	}
}

// cleanSingleDate 清洗单个日期串，洗成空串时保留原值
func cleanSingleDate(dateStr string) string {
	if dateStr == "" {
		return dateStr
	}
	cleaned := parenDateRe.ReplaceAllString(dateStr, "")
	cleaned = strings.TrimRight(strings.TrimSpace(cleaned), ",-;")
	if cleaned == "" {
		return dateStr
	}
	return cleaned
}

// findSection 按指示词定位文本段落
// 段落在下一个节标题处截断，最长3000字符
func findSection(text string, indicators []string) string {
	if text == "" {
		return ""
	}
	textLower := strings.ToLower(text)

	for _, ind := range indicators {
		idx := strings.Index(textLower, ind)
		if idx == -1 {
			continue
		}

		// 先在小写副本上定边界，再映射回原文
		lowEnd := len(textLower)
		searchFrom := idx + len(ind) + 10
		if searchFrom < len(textLower) {
			for _, sec := range sectionBreaks {
				nextIdx := strings.Index(textLower[searchFrom:], sec)
				if nextIdx != -1 && searchFrom+nextIdx < lowEnd {
					lowEnd = searchFrom + nextIdx
				}
			}
		}

		if lowEnd > idx+3000 {
			lowEnd = idx + 3000
		}
		start, end := mapLoweredRange(text, textLower, idx, lowEnd)
		return text[start:end]
	}
	return ""
}
