package postprocess

import "testing"

func TestRemoveReasoningBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no blocks", input: "¿Cuál es tu nombre?", expected: "¿Cuál es tu nombre?"},
		{name: "thinking block", input: "<thinking>form title</thinking>Encuesta", expected: "Encuesta"},
		{name: "think block multiline", input: "<think>\nstep 1\nstep 2\n</think>\nEncuesta", expected: "Encuesta"},
		{name: "reasoning block in middle", input: "Elige<reasoning>radio label</reasoning> uno", expected: "Elige uno"},
		{name: "truncated block", input: "<thinking>still going", expected: ""},
		{name: "case insensitive", input: "<THINK>x</THINK>Hola", expected: "Hola"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeReasoningBlocks(tt.input); got != tt.expected {
				t.Errorf("removeReasoningBlocks(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveLeadIns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "here is the translation", input: "Here is the translation: Encuesta", expected: "Encuesta"},
		{name: "here's the translated text", input: "Here's the translated text: Hola", expected: "Hola"},
		{name: "translation in language", input: "Translation in Spanish: Hola", expected: "Hola"},
		{name: "sure lead-in", input: "Sure, here is the translation: Hola", expected: "Hola"},
		{name: "no colon keeps text", input: "Translation services offered", expected: "Translation services offered"},
		{name: "not at start", input: "Hola. Here is the translation: x", expected: "Hola. Here is the translation: x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeLeadIns(tt.input); got != tt.expected {
				t.Errorf("removeLeadIns(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemoveQuoteWrapping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "double quotes", input: `"Hola"`, expected: "Hola"},
		{name: "guillemets", input: "«Bonjour»", expected: "Bonjour"},
		{name: "curly quotes", input: "“Hallo”", expected: "Hallo"},
		{name: "corner brackets", input: "「こんにちは」", expected: "こんにちは"},
		{name: "mismatched", input: `"Hola'`, expected: `"Hola'`},
		{name: "single rune", input: `"`, expected: `"`},
		{name: "inner quotes kept", input: `Say "hi" now`, expected: `Say "hi" now`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeQuoteWrapping(tt.input); got != tt.expected {
				t.Errorf("removeQuoteWrapping(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripSpecialTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "clean text", input: "Encuesta", expected: "Encuesta"},
		{name: "eos and pad", input: "Encuesta</s><pad><pad>", expected: "Encuesta"},
		{name: "leading language code", input: "spa_Latn Encuesta</s>", expected: "Encuesta"},
		{name: "fairseq style code", input: "__fra_Latn__ Sondage", expected: "Sondage"},
		{name: "bos token", input: "<s> Umfrage </s>", expected: "Umfrage"},
		{name: "code mid text kept", input: "Use eng_Latn here", expected: "Use eng_Latn here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripSpecialTokens(tt.input); got != tt.expected {
				t.Errorf("StripSpecialTokens(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no markup untouched", input: "Tom & Jerry", expected: "Tom & Jerry"},
		{name: "bold tags removed", input: "<b>Encuesta</b>", expected: "Encuesta"},
		{name: "entities decoded", input: "<i>Tom &amp; Jerry</i>", expected: "Tom & Jerry"},
		{name: "script dropped", input: "Hola<script>alert(1)</script>", expected: "Hola"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.input); got != tt.expected {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize_ComposesAccents(t *testing.T) {
	decomposed := "Encuesta ra\u0301pida "
	if got := Normalize(decomposed); got != "Encuesta rápida" {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestClean_FullPipeline(t *testing.T) {
	input := "<think>hmm</think>Here is the translation: \"¿Cuál es tu <b>nombre</b>?\""
	if got := Clean(input); got != "¿Cuál es tu nombre?" {
		t.Errorf("Clean() = %q", got)
	}
}
