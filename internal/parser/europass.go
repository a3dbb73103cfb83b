package parser

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"cv-parser-go/internal/types"
)

// 欧标格式各段的定位正则
var (
	europassPersonalRe  = regexp.MustCompile(`(?is)INFORMAZIONI PERSONALI(.*?)(?:ESPERIENZA LAVORATIVA|ISTRUZIONE)`)
	europassExpRe       = regexp.MustCompile(`(?is)ESPERIENZA LAVORATIVA(.*?)(?:ISTRUZIONE E FORMAZIONE|CAPACITA)`)
	europassEduRe       = regexp.MustCompile(`(?is)ISTRUZIONE E FORMAZIONE(.*?)(?:CAPACITA|ALTRE LINGUA|$)`)
	europassLangRe      = regexp.MustCompile(`(?is)ALTRE LINGUA(.*?)(?:CAPACITA|$)`)
	europassEntrySplit  = regexp.MustCompile(`(?i)\*\s*Date\s*\(da\s*[-–]\s*a\)`)
	europassDateRangeRe = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|in corso)`)
	europassCityRe      = regexp.MustCompile(`-\s*([A-Z][a-zA-Z\s]+)\s*\(`)
	europassCompCityRe  = regexp.MustCompile(`-\s*([A-Z][a-zA-Z]+)\s*\(`)
	europassYearRe      = regexp.MustCompile(`(\d{4})`)
	gpaRe               = regexp.MustCompile(`(\d{2,3})/(\d{2,3})`)
	respSplitRe         = regexp.MustCompile(`[;,]\s*`)
)

// EuropassParser 基于字段标签的欧标简历结构化解析器
// 不经过LLM，直接用正则和行扫描抽取
type EuropassParser struct {
	logger *log.Logger
}

// NewEuropassParser 创建欧标解析器
func NewEuropassParser(logger *log.Logger) *EuropassParser {
	return &EuropassParser{logger: logger}
}

// Parse 解析欧标格式简历文本
func (p *EuropassParser) Parse(text string) *types.ParsedDocument {
	if p.logger != nil {
		p.logger.Printf("[EuropassParser] 使用欧标解析器")
	}

	doc := types.NewParsedDocument(types.DocumentTypeCV)
	doc.PersonalInfo = p.extractPersonalInfo(text)
	doc.Experience = p.extractExperience(text)
	doc.Education = p.extractEducation(text)
	doc.Languages = p.extractLanguages(text)

	if p.logger != nil {
		p.logger.Printf("[EuropassParser] 完成: %d段经历, %d条教育, %d门语言",
			len(doc.Experience), len(doc.Education), len(doc.Languages))
	}
	return doc
}

// extractPersonalInfo 从INFORMAZIONI PERSONALI段逐行抽取个人信息
// 欧标格式的值总在标签行的下一行
func (p *EuropassParser) extractPersonalInfo(text string) types.PersonalInfo {
	info := types.PersonalInfo{}

	m := europassPersonalRe.FindStringSubmatch(text)
	if m == nil {
		return info
	}

	lines := strings.Split(m[1], "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		if lower == "nome" && i+1 < len(lines) {
			name := strings.TrimSpace(lines[i+1])
			if len(name) > 3 {
				info.FullName = name
			}
		}
		if lower == "e-mail" && i+1 < len(lines) {
			email := strings.TrimSpace(lines[i+1])
			if strings.Contains(email, "@") {
				info.Email = email
			}
		}
		if lower == "telefono" && i+1 < len(lines) {
			phone := strings.TrimSpace(lines[i+1])
			if len(phone) > 5 {
				info.Phone = phone
			}
		}
		if lower == "indirizzo" && i+1 < len(lines) {
			address := strings.TrimSpace(lines[i+1])
			if len(address) > 10 {
				info.Address = address
				if cm := europassCityRe.FindStringSubmatch(address); cm != nil {
					info.City = strings.TrimSpace(cm[1])
				}
			}
		}
	}

	return info
}

// extractExperience 从ESPERIENZA LAVORATIVA段抽取工作经历
// 按 "* Date (da - a)" 切分条目；没有职位也没有公司的条目丢弃
func (p *EuropassParser) extractExperience(text string) []types.Experience {
	var experiences []types.Experience

	m := europassExpRe.FindStringSubmatch(text)
	if m == nil {
		return experiences
	}

	entries := europassEntrySplit.Split(m[1], -1)
	for _, entry := range entries[1:] {
		exp := types.Experience{}
		lines := nonEmptyLines(entry)
		if len(lines) == 0 {
			continue
		}

		// 日期范围
		if dm := europassDateRangeRe.FindStringSubmatch(lines[0]); dm != nil {
			exp.StartDate = dm[1]
			if !strings.Contains(strings.ToLower(dm[2]), "corso") {
				exp.EndDate = dm[2]
			}
		}

		// 雇主
		for i, line := range lines {
			lower := strings.ToLower(line)
			if strings.Contains(lower, "nome e indirizzo") || strings.Contains(lower, "datore di lavoro") {
				if i+1 < len(lines) {
					exp.Company = lines[i+1]
					if cm := europassCompCityRe.FindStringSubmatch(exp.Company); cm != nil {
						exp.City = cm[1]
					}
				}
				break
			}
		}

		// 职位
		for i, line := range lines {
			if strings.Contains(strings.ToLower(line), "tipo di impiego") {
				if i+1 < len(lines) {
					exp.Title = lines[i+1]
				}
				break
			}
		}

		// 职责：取标签后最多3行，按分号/逗号切分，保留前5条
		for i, line := range lines {
			if strings.Contains(strings.ToLower(line), "mansioni e responsabilita") {
				end := i + 4
				if end > len(lines) {
					end = len(lines)
				}
				respText := strings.Join(lines[i+1:end], " ")
				if respText != "" {
					for _, r := range respSplitRe.Split(respText, -1) {
						r = strings.TrimSpace(r)
						if len(r) > 10 {
							exp.Responsibilities = append(exp.Responsibilities, r)
						}
						if len(exp.Responsibilities) >= 5 {
							break
						}
					}
				}
				break
			}
		}

		if exp.Title != "" || exp.Company != "" {
			experiences = append(experiences, exp)
		}
	}

	return experiences
}

// extractEducation 从ISTRUZIONE E FORMAZIONE段抽取教育经历
func (p *EuropassParser) extractEducation(text string) []types.Education {
	var educations []types.Education

	m := europassEduRe.FindStringSubmatch(text)
	if m == nil {
		return educations
	}

	entries := europassEntrySplit.Split(m[1], -1)
	for _, entry := range entries[1:] {
		edu := types.Education{}
		lines := nonEmptyLines(entry)
		if len(lines) == 0 {
			continue
		}

		if ym := europassYearRe.FindStringSubmatch(lines[0]); ym != nil {
			if year, err := strconv.Atoi(ym[1]); err == nil {
				edu.GraduationYear = year
			}
		}

		for i, line := range lines {
			if strings.Contains(strings.ToLower(line), "nome e tipo di istituto") {
				if i+1 < len(lines) {
					edu.Institution = lines[i+1]
				}
				break
			}
		}

		for i, line := range lines {
			if strings.Contains(strings.ToLower(line), "qualifica conseguita") {
				if i+1 < len(lines) {
					edu.Degree = lines[i+1]
				}
				break
			}
		}

		if gm := gpaRe.FindString(entry); gm != "" {
			edu.GPA = gm
		}

		if edu.Degree != "" || edu.Institution != "" {
			educations = append(educations, edu)
		}
	}

	return educations
}

// extractLanguages 从ALTRE LINGUA段抽取语言
// 行扫描状态机：命中语言名开新条目，后续行累积为熟练度描述
func (p *EuropassParser) extractLanguages(text string) []types.Language {
	var languages []types.Language

	m := europassLangRe.FindStringSubmatch(text)
	if m == nil {
		return languages
	}

	lines := nonEmptyLines(m[1])

	var currentLang string
	var currentProf []string

	flush := func() {
		if currentLang != "" {
			languages = append(languages, types.Language{
				Name:        currentLang,
				Proficiency: strings.Join(currentProf, " "),
			})
		}
	}

	for _, line := range lines {
		lower := strings.ToLower(line)

		if entry, ok := LanguageDatabase[lower]; ok {
			flush()
			currentLang = entry.Name
			currentProf = nil
			continue
		}

		if currentLang != "" {
			for _, word := range []string{"intermediate", "advanced", "toefl", "ielts", "capacita"} {
				if strings.Contains(lower, word) {
					currentProf = append(currentProf, line)
					break
				}
			}
		}
	}
	flush()

	return languages
}

// nonEmptyLines 按行切分并去掉空白行
func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
