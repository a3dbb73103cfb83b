package parser

import "strings"

// europassStrongIndicators 欧标简历的强特征短语
var europassStrongIndicators = []string{
	"formato europeo",
	"curriculum vitae europeo",
	"europass",
	"informazioni personali",
}

// europassFieldLabels 欧标简历的字段标签(弱特征，需要至少2个)
var europassFieldLabels = []string{
	"* date (da",
	"* nome e indirizzo",
	"* tipo di azienda",
	"* tipo di impiego",
}

// DetectEuropassFormat 判断文本是否为欧标(Europass)格式简历
// 命中任意1个强特征、或至少2个字段标签即判定为欧标格式
func DetectEuropassFormat(text string) bool {
	textLower := strings.ToLower(text)

	strongCount := 0
	for _, ind := range europassStrongIndicators {
		if strings.Contains(textLower, ind) {
			strongCount++
		}
	}
	if strongCount >= 1 {
		return true
	}

	fieldCount := 0
	for _, label := range europassFieldLabels {
		if strings.Contains(textLower, label) {
			fieldCount++
		}
	}
	return fieldCount >= 2
}
