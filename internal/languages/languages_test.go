package languages

import "testing"

func TestLookup_CaseInsensitive(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantOK   bool
	}{
		{name: "lowercase", input: "spanish", wantCode: "spa_Latn", wantOK: true},
		{name: "title case", input: "French", wantCode: "fra_Latn", wantOK: true},
		{name: "upper case", input: "GERMAN", wantCode: "deu_Latn", wantOK: true},
		{name: "cyrillic script", input: "russian", wantCode: "rus_Cyrl", wantOK: true},
		{name: "unknown", input: "klingon", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "code instead of name", input: "spa_Latn", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := Lookup(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && l.Code != tt.wantCode {
				t.Errorf("Lookup(%q) code = %q, want %q", tt.input, l.Code, tt.wantCode)
			}
		})
	}
}

func TestNames_TableOrder(t *testing.T) {
	names := Names()
	if len(names) != 12 {
		t.Fatalf("expected 12 languages, got %d", len(names))
	}
	if names[0] != "spanish" {
		t.Errorf("expected spanish first, got %q", names[0])
	}
	if names[len(names)-1] != "english" {
		t.Errorf("expected english last, got %q", names[len(names)-1])
	}
}

func TestByCode(t *testing.T) {
	l, ok := ByCode("jpn_Jpan")
	if !ok {
		t.Fatal("expected jpn_Jpan to resolve")
	}
	if l.Name != "japanese" {
		t.Errorf("expected japanese, got %q", l.Name)
	}
	if l.Base() != "ja" {
		t.Errorf("expected base ja, got %q", l.Base())
	}

	if _, ok := ByCode("xxx_Xxxx"); ok {
		t.Error("expected unknown code to fail")
	}
}

func TestSourceCodeIsEnglish(t *testing.T) {
	l, ok := ByCode(SourceCode)
	if !ok || l.Name != "english" {
		t.Errorf("expected source code to be english, got %+v", l)
	}
}

func TestDisplayName(t *testing.T) {
	l, _ := Lookup("german")
	if l.DisplayName() != "German" {
		t.Errorf("expected German, got %q", l.DisplayName())
	}
}

func TestISO_Chinese(t *testing.T) {
	l, _ := Lookup("chinese")
	if l.ISO() != "zh-Hans" {
		t.Errorf("expected zh-Hans, got %q", l.ISO())
	}
	if l.Base() != "zh" {
		t.Errorf("expected zh, got %q", l.Base())
	}
}
