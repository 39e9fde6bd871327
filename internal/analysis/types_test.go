package analysis

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"extract", ModeExtract, false},
		{"full", ModeExtract, false},
		{"", ModeExtract, false},
		{"summarize", ModeSummarize, false},
		{"summary", ModeSummarize, false},
		{" Summarize ", ModeSummarize, false},
		{"translate", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input   string
		want    Language
		wantErr bool
	}{
		{"ar", LangArabic, false},
		{"arabic", LangArabic, false},
		{"", LangArabic, false},
		{"en", LangEnglish, false},
		{"English", LangEnglish, false},
		{"eng", LangEnglish, false},
		{"fr", "", true},
	}

	for _, tt := range tests {
		got, err := ParseLanguage(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLanguage(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLanguage(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"txt", FormatText, false},
		{"text", FormatText, false},
		{"", FormatText, false},
		{"docx", FormatDocx, false},
		{"word", FormatDocx, false},
		{"none", FormatNone, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLanguageHelpers(t *testing.T) {
	if LangArabic.Name() != "arabic" || LangEnglish.Name() != "english" {
		t.Error("language names do not match prompt vocabulary")
	}
	if LangArabic.Direction() != "right-to-left" || LangEnglish.Direction() != "left-to-right" {
		t.Error("language directions do not match prompt vocabulary")
	}
	if !LangArabic.RTL() || LangEnglish.RTL() {
		t.Error("RTL flags inverted")
	}
}

func TestFormatExt(t *testing.T) {
	if FormatText.Ext() != ".txt" {
		t.Errorf("FormatText.Ext() = %q", FormatText.Ext())
	}
	if FormatDocx.Ext() != ".docx" {
		t.Errorf("FormatDocx.Ext() = %q", FormatDocx.Ext())
	}
}

func TestResultContent(t *testing.T) {
	r := &Result{Text: "full text", Summary: "short"}

	if got := r.Content(ModeExtract); got != "full text" {
		t.Errorf("extract content = %q", got)
	}
	if got := r.Content(ModeSummarize); got != "short" {
		t.Errorf("summarize content = %q", got)
	}

	noSummary := &Result{Text: "full text"}
	if got := noSummary.Content(ModeSummarize); got != "full text" {
		t.Errorf("summarize without summary should fall back to text, got %q", got)
	}
}

func TestTitle(t *testing.T) {
	if got := Title(ModeExtract, "report"); got != "Extracted Text - report" {
		t.Errorf("Title(extract) = %q", got)
	}
	if got := Title(ModeSummarize, "report"); got != "Summary - report" {
		t.Errorf("Title(summarize) = %q", got)
	}
}
