package constants

const (
	// ParserVersion 当前解析器版本，写入ParsingMethod标签
	ParserVersion = "1.7.4"

	// ParsingMethodEuropass Europass模板抽取
	ParsingMethodEuropass = "europass"
	// ParsingMethodStandard 标准格式LLM抽取
	ParsingMethodStandard = "standard"

	// MaxPromptChars 送入LLM抽取提示词的原文截断长度
	MaxPromptChars = 8000
	// MaxSkills 后处理完成后技能列表的上限
	MaxSkills = 15
	// GDPRSearchWindow 在原文末尾多少字符内搜索GDPR同意关键词
	GDPRSearchWindow = 2000
)
