package utils

import "testing"

func TestValidatePhoneNumber(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"01712345678", true},
		{"01312345678", true},
		{"01912345678", true},
		{"8801712345678", true},
		{"+8801812345678", true},
		{"+880 17 1234 5678", true},
		{"1712345678", true},
		{"01212345678", false}, // 012 is not an operator prefix
		{"01012345678", false},
		{"0171234567", false}, // too short
		{"017123456789", false},
		{"02123456789", false},
		{"", false},
		{"not a number", false},
	}

	for _, c := range cases {
		if got := ValidatePhoneNumber(c.input); got != c.want {
			t.Errorf("ValidatePhoneNumber(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"01712345678", "8801712345678"},
		{"+880 1712-345678", "8801712345678"},
		{"8801712345678", "8801712345678"},
		{"1712345678", "8801712345678"},
	}

	for _, c := range cases {
		if got := FormatPhoneNumber(c.input); got != c.want {
			t.Errorf("FormatPhoneNumber(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestDisplayPhoneNumber(t *testing.T) {
	if got := DisplayPhoneNumber("01712345678"); got != "+880 17 1234 5678" {
		t.Errorf("DisplayPhoneNumber(01712345678) = %q", got)
	}
}
