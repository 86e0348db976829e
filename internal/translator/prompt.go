package translator

import (
	"fmt"

	"github.com/valpere/formtran/internal/languages"
	"github.com/valpere/formtran/internal/placeholder"
)

// formFieldPrompt builds the instruction shared by the chat-model backends.
func formFieldPrompt(sourceLang, targetLang string) (string, error) {
	target, ok := languages.ByCode(targetLang)
	if !ok {
		return "", fmt.Errorf("unsupported target language %q", targetLang)
	}
	sourceName := "English"
	if source, ok := languages.ByCode(sourceLang); ok {
		sourceName = source.DisplayName()
	}
	return fmt.Sprintf("You translate the text of online survey forms from %s to %s. "+
		"The input is a single form title, description, question or answer option. "+
		"Only respond with the translation, nothing else. No explanations, no quotes.",
		sourceName, target.DisplayName()), nil
}

// restore puts shielded spans back, failing if the model dropped any.
func restore(p placeholder.Protected, translated string) (string, error) {
	if missing := p.Missing(translated); len(missing) > 0 {
		return "", fmt.Errorf("model dropped %d protected span(s)", len(missing))
	}
	return p.Restore(translated), nil
}
