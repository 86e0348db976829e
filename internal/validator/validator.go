// Package validator checks that a translated form string is in the requested
// target language.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/formtran/internal/detector"
	"github.com/valpere/formtran/internal/languages"
)

// minValidationLength is the rune count below which detection is skipped.
// Option labels like "Yes" or "A" are too short to classify.
const minValidationLength = 20

// Validator is safe for concurrent use. Building the detector is expensive,
// so one instance is shared for the process lifetime.
type Validator struct {
	det *detector.Detector
}

func New() *Validator {
	return &Validator{det: detector.New()}
}

// IsValid reports whether translatedText appears to be in targetCode, a model
// code such as "spa_Latn". Short or ambiguous texts pass. Unknown target
// codes pass as well, since there is nothing to compare against.
func (v *Validator) IsValid(translatedText, targetCode string) (bool, error) {
	target, ok := languages.ByCode(targetCode)
	if !ok {
		return true, nil
	}

	text := strings.TrimSpace(translatedText)
	if text == "" {
		return false, fmt.Errorf("translation is empty")
	}

	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return true, nil
	}

	if !strings.EqualFold(detected, target.Base()) {
		return false, fmt.Errorf("expected %s but detected %s", target.Base(), detected)
	}

	return true, nil
}
