package parser

import "strings"

// ocrReplacements OCR常见的UTF-8编码错误(mojibake)修复表
// 顺序敏感：长序列必须排在其前缀之前(如 â€œ 要在 â€ 之前替换)
var ocrReplacements = []struct {
	old string
	new string
}{
	{"â€\"", "-"},
	{"â€˜", "'"},
	{"â€™", "'"},
	{"â€œ", "\""},
	{"â€", "\""},
	{"Ã©", "é"},
	{"Ã¨", "è"},
	{"Ã ", "à"},
	{"Ã²", "ò"},
	{"Ã¹", "ù"},
	{"Ã¬", "ì"},
	{"Ã€", "À"},
	{"Ã‰", "É"},
	{"Ãˆ", "È"},
}

// CleanOCRText 修复OCR文本中的编码错误
func CleanOCRText(text string) string {
	for _, r := range ocrReplacements {
		text = strings.ReplaceAll(text, r.old, r.new)
	}
	return text
}
