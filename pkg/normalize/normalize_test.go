package normalize

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase", "ABC", "abc"},
		{"katakana", "ストーブ", "すとーぶ"},
		{"hiragana untouched", "すとーぶ", "すとーぶ"},
		{"fullwidth", "ＡＢＣ１２３", "abc123"},
		{"halfwidth katakana", "ｽﾄｰﾌﾞ", "すとーぶ"},
		{"collapse spaces", "laser   rifle", "laser rifle"},
		{"tabs and newlines", "a\t\n b", "a b"},
		{"ideographic space", "a　b", "a b"},
		{"no trim", "  x ", " x "},
		{"mixed", "Laser ライフル", "laser らいふる"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.in); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringIdempotent(t *testing.T) {
	samples := []string{
		"ストーブ", "Laser Rifle", "ＣＡＢ－０１４１", "Ｗ_8 special",
		"Ünïcödé  TEXT", "ｶﾞﾄﾘﾝｸﾞ", "ヴァルキリー", "", "   ", "zh-cht 火焰喷射器",
	}
	for _, s := range samples {
		once := String(s)
		if twice := String(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestEquivalence(t *testing.T) {
	if String("ストーブ") != String("すとーぶ") {
		t.Error("katakana and hiragana should normalize equally")
	}
	if String("ABC") != String("abc") {
		t.Error("case should fold")
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"ABC", "abc"},
		{42, "42"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := Value(tt.in); got != tt.want {
			t.Errorf("Value(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
