// Package languages holds the fixed table of supported target languages.
//
// Each entry maps the human-facing name accepted by the API to the model code
// used by the NLLB tokenizer (for example "spa_Latn") and to a BCP 47 tag for
// backends that speak ISO codes.
package languages

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// SourceCode is the model code of the fixed source language.
const SourceCode = "eng_Latn"

type Language struct {
	Name string
	Code string
	Tag  language.Tag
}

// table order is the order reported by Names.
var table = []Language{
	{Name: "spanish", Code: "spa_Latn", Tag: language.Spanish},
	{Name: "french", Code: "fra_Latn", Tag: language.French},
	{Name: "german", Code: "deu_Latn", Tag: language.German},
	{Name: "italian", Code: "ita_Latn", Tag: language.Italian},
	{Name: "portuguese", Code: "por_Latn", Tag: language.Portuguese},
	{Name: "russian", Code: "rus_Cyrl", Tag: language.Russian},
	{Name: "chinese", Code: "zho_Hans", Tag: language.SimplifiedChinese},
	{Name: "japanese", Code: "jpn_Jpan", Tag: language.Japanese},
	{Name: "korean", Code: "kor_Hang", Tag: language.Korean},
	{Name: "arabic", Code: "arb_Arab", Tag: language.Arabic},
	{Name: "hindi", Code: "hin_Deva", Tag: language.Hindi},
	{Name: "english", Code: "eng_Latn", Tag: language.English},
}

var (
	byName = make(map[string]Language, len(table))
	byCode = make(map[string]Language, len(table))
)

func init() {
	for _, l := range table {
		byName[l.Name] = l
		byCode[l.Code] = l
	}
}

// Lookup resolves a language name case-insensitively.
func Lookup(name string) (Language, bool) {
	l, ok := byName[strings.ToLower(name)]
	return l, ok
}

// ByCode resolves a model code such as "deu_Latn".
func ByCode(code string) (Language, bool) {
	l, ok := byCode[code]
	return l, ok
}

// Names returns the supported language names in table order.
func Names() []string {
	names := make([]string, 0, len(table))
	for _, l := range table {
		names = append(names, l.Name)
	}
	return names
}

// Codes returns the supported model codes in table order.
func Codes() []string {
	codes := make([]string, 0, len(table))
	for _, l := range table {
		codes = append(codes, l.Code)
	}
	return codes
}

// ISO returns the BCP 47 form of the tag, e.g. "es" or "zh-Hans".
func (l Language) ISO() string {
	return l.Tag.String()
}

// Base returns the two-letter ISO 639-1 code.
func (l Language) Base() string {
	base, _ := l.Tag.Base()
	return base.String()
}

// DisplayName returns the English name of the language, used in LLM prompts.
func (l Language) DisplayName() string {
	return display.English.Tags().Name(l.Tag)
}
