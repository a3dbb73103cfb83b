package parser

// LanguageEntry 语言数据库条目：规范名称和ISO代码
type LanguageEntry struct {
	Name string
	Code string
}

// LanguageDatabase 意英双语的语言识别表，键为小写写法
var LanguageDatabase = map[string]LanguageEntry{
	"italiano":   {"Italiano", "it"},
	"italian":    {"Italian", "it"},
	"inglese":    {"Inglese", "en"},
	"english":    {"English", "en"},
	"francese":   {"Francese", "fr"},
	"french":     {"French", "fr"},
	"spagnolo":   {"Spagnolo", "es"},
	"spanish":    {"Spanish", "es"},
	"tedesco":    {"Tedesco", "de"},
	"german":     {"German", "de"},
	"portoghese": {"Portoghese", "pt"},
	"portuguese": {"Portuguese", "pt"},
	"cinese":     {"Cinese", "zh"},
	"chinese":    {"Chinese", "zh"},
	"giapponese": {"Giapponese", "ja"},
	"japanese":   {"Japanese", "ja"},
	"russo":      {"Russo", "ru"},
	"russian":    {"Russian", "ru"},
	"arabo":      {"Arabo", "ar"},
	"arabic":     {"Arabic", "ar"},
}

// SkillKeywords 硬技能关键词白名单(医疗/IT/营销三个领域)
var SkillKeywords = map[string]bool{
	// 医疗
	"pals": true, "bls": true, "blsd": true, "bls-d": true,
	"acls": true, "nrp": true, "ecmo": true, "picc": true, "cvc": true,
	"ventilazione": true, "intubazione": true, "monitoraggio emodinamico": true,
	"rianimazione": true, "chemioterapia": true, "ecg": true, "cpap": true,
	// IT
	"python": true, "java": true, "javascript": true, "react": true,
	"vue": true, "angular": true, "node.js": true, "django": true,
	"fastapi": true, "flask": true, "docker": true, "kubernetes": true,
	"aws": true, "azure": true, "gcp": true, "sql": true,
	"postgresql": true, "mongodb": true, "redis": true, "git": true,
	"ci/cd": true, "jenkins": true, "github actions": true,
	"autocad": true, "revit": true, "archicad": true, "sketchup": true,
	"photoshop": true, "illustrator": true, "indesign": true,
	// 营销
	"seo": true, "sem": true, "google ads": true, "facebook ads": true,
	"meta ads": true, "google analytics": true, "ga4": true,
	"hubspot": true, "mailchimp": true, "wordpress": true, "shopify": true,
}

// SoftSkillsExclude 需要从技能列表中剔除的软技能
var SoftSkillsExclude = map[string]bool{
	"gestione stress":        true,
	"decision-making":        true,
	"empatia":                true,
	"comunicazione":          true,
	"leadership":             true,
	"lavoro di squadra":      true,
	"team work":              true,
	"problem solving":        true,
	"attenzione ai dettagli": true,
	"flessibilità":           true,
	"organizzazione":         true,
}

// CertInfo 认证数据库条目
type CertInfo struct {
	FullName string
	Issuer   string
}

// CertificationDB 已知认证的规范名称与颁发机构，键为缩写小写
var CertificationDB = map[string]CertInfo{
	"pals": {"PALS (Pediatric Advanced Life Support)", "AHA"},
	"bls":  {"BLS (Basic Life Support)", "AHA"},
	"blsd": {"BLS-D (Basic Life Support & Defibrillation)", "AHA"},
	"nrp":  {"NRP (Neonatal Resuscitation Program)", "AAP"},
	"acls": {"ACLS (Advanced Cardiovascular Life Support)", "AHA"},
	"ecmo": {"ECMO Specialist", "ELSO"},
}
