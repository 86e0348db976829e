package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/valpere/formtran/internal/languages"
)

// supported mirrors the language table; detection is limited to it so the
// detector stays small and unambiguous.
var supported = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Russian,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Korean,
	lingua.Arabic,
	lingua.Hindi,
}

type Detector struct {
	detector lingua.LanguageDetector
	byISO    map[string]string
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(supported...).
		Build()

	byISO := make(map[string]string)
	for _, code := range languages.Codes() {
		l, _ := languages.ByCode(code)
		byISO[l.Base()] = code
	}

	return &Detector{detector: detector, byISO: byISO}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code of text.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// DetectCode returns the model code (e.g. "spa_Latn") of text.
func (d *Detector) DetectCode(text string) (string, bool) {
	iso, ok := d.DetectISO(text)
	if !ok {
		return "", false
	}
	code, ok := d.byISO[iso]
	return code, ok
}
