package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCleanOCRText 常见mojibake修复
func TestCleanOCRText(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"意大利语重音", "attivitÃ  svolta, qualitÃ©, perchÃ¨ cosÃ¬", "attività svolta, qualité, perchè così"},
		{"弯引号", "â€œquotedâ€ and â€˜singleâ€™", `"quoted" and 'single'`},
		{"无mojibake原样返回", "Mario Rossi, Infermiere", "Mario Rossi, Infermiere"},
		{"空串", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanOCRText(tc.input))
		})
	}
}

// TestCleanOCRTextAccents 逐个重音字符修复
func TestCleanOCRTextAccents(t *testing.T) {
	assert.Equal(t, "è é à ò ù ì À É È", CleanOCRText("Ã¨ Ã© Ã  Ã² Ã¹ Ã¬ Ã€ Ã‰ Ãˆ"))
}

// TestDetectEuropassFormat 格式识别的强弱特征组合
func TestDetectEuropassFormat(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		expected bool
	}{
		{"强特征: europass", "CURRICULUM VITAE\nEuropass\nNome: Mario", true},
		{"强特征: formato europeo", "FORMATO EUROPEO PER IL CURRICULUM VITAE", true},
		{"强特征: informazioni personali", "INFORMAZIONI PERSONALI\nNome\nMario Rossi", true},
		{"两个字段标签", "* Date (da - a) 2019-2021\n* Tipo di impiego Infermiere", true},
		{"单个字段标签不够", "* Date (da - a) 2019-2021\nInfermiere presso ospedale", false},
		{"标准格式", "Mario Rossi\nSoftware Engineer\nEXPERIENCE\nAcme Corp", false},
		{"空文本", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectEuropassFormat(tc.text))
		})
	}
}
