package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-parser-go/internal/types"
)

const europassSample = `FORMATO EUROPEO PER IL CURRICULUM VITAE

INFORMAZIONI PERSONALI

Nome
Mario Rossi
Indirizzo
Via Giuseppe Verdi 42 - Padova (PD), 35100
Telefono
+39 333 1234567
E-mail
mario.rossi@example.com

ESPERIENZA LAVORATIVA

* Date (da - a)
2019 - in corso
* Nome e indirizzo del datore di lavoro
Azienda Ospedaliera - Padova (PD)
* Tipo di azienda o settore
Sanità
* Tipo di impiego
Infermiere di terapia intensiva
* Principali mansioni e responsabilita
Assistenza infermieristica ai pazienti critici; gestione ventilazione meccanica; monitoraggio emodinamico continuo

* Date (da - a)
2015 - 2019
* Nome e indirizzo del datore di lavoro
Casa di Cura Santa Maria - Mortara (PV)
* Tipo di impiego
Infermiere di reparto

ISTRUZIONE E FORMAZIONE

* Date (da - a)
2012 - 2015
* Nome e tipo di istituto di istruzione o formazione
Università degli Studi di Padova
* Qualifica conseguita
Laurea in Infermieristica
Votazione: 105/110

ALTRE LINGUA

Inglese
Capacità di lettura: buono
IELTS 6.5 intermediate

Francese
Capacità di lettura: base

CAPACITA E COMPETENZE TECNICHE
ECMO, ventilazione meccanica
`

// TestEuropassParseFull 完整欧标样例的端到端解析
func TestEuropassParseFull(t *testing.T) {
	p := NewEuropassParser(nil)
	doc := p.Parse(europassSample)

	require.NotNil(t, doc)
	assert.Equal(t, types.DocumentTypeCV, doc.DocumentType)

	// 个人信息
	assert.Equal(t, "Mario Rossi", doc.PersonalInfo.FullName)
	assert.Equal(t, "mario.rossi@example.com", doc.PersonalInfo.Email)
	assert.Equal(t, "+39 333 1234567", doc.PersonalInfo.Phone)
	assert.Equal(t, "Via Giuseppe Verdi 42 - Padova (PD), 35100", doc.PersonalInfo.Address)
	assert.Equal(t, "Padova", doc.PersonalInfo.City)

	// 工作经历
	require.Len(t, doc.Experience, 2)
	first := doc.Experience[0]
	assert.Equal(t, "Infermiere di terapia intensiva", first.Title)
	assert.Equal(t, "Azienda Ospedaliera - Padova (PD)", first.Company)
	assert.Equal(t, "Padova", first.City)
	assert.Equal(t, "2019", first.StartDate)
	assert.Empty(t, first.EndDate, "in corso 不应产生结束日期")
	require.NotEmpty(t, first.Responsibilities)
	assert.Contains(t, first.Responsibilities[0], "Assistenza infermieristica")

	second := doc.Experience[1]
	assert.Equal(t, "Infermiere di reparto", second.Title)
	assert.Equal(t, "2015", second.StartDate)
	assert.Equal(t, "2019", second.EndDate)

	// 教育经历
	require.Len(t, doc.Education, 1)
	edu := doc.Education[0]
	assert.Equal(t, "Laurea in Infermieristica", edu.Degree)
	assert.Equal(t, "Università degli Studi di Padova", edu.Institution)
	assert.Equal(t, 2012, edu.GraduationYear)
	assert.Equal(t, "105/110", edu.GPA)

	// 语言
	require.Len(t, doc.Languages, 2)
	assert.Equal(t, "Inglese", doc.Languages[0].Name)
	assert.Contains(t, doc.Languages[0].Proficiency, "IELTS")
	assert.Equal(t, "Francese", doc.Languages[1].Name)
}

// TestEuropassParseEmptySections 缺段落时各部分为空但不崩溃
func TestEuropassParseEmptySections(t *testing.T) {
	p := NewEuropassParser(nil)
	doc := p.Parse("FORMATO EUROPEO PER IL CURRICULUM VITAE\n\nNiente altro.")

	require.NotNil(t, doc)
	assert.Empty(t, doc.PersonalInfo.FullName)
	assert.Empty(t, doc.Experience)
	assert.Empty(t, doc.Education)
	assert.Empty(t, doc.Languages)
}

// TestEuropassDiscardEntriesWithoutTitleOrCompany 无职位无公司的经历条目丢弃
func TestEuropassDiscardEntriesWithoutTitleOrCompany(t *testing.T) {
	text := `ESPERIENZA LAVORATIVA

* Date (da - a)
2018 - 2020
Qualche testo senza etichette riconoscibili

ISTRUZIONE E FORMAZIONE
`
	p := NewEuropassParser(nil)
	exps := p.extractExperience(text)
	assert.Empty(t, exps)
}
