package style

import (
	"strings"
	"testing"
)

func TestColourify(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		plain string // expected text with escapes removed
		ansi  bool   // whether escape codes should appear
	}{
		{name: "no tokens", in: "hello there", plain: "hello there"},
		{name: "simple", in: "&Ghello&x there", plain: "hello there", ansi: true},
		{name: "unterminated", in: "hello &", plain: "hello &"},
		{name: "unknown pair", in: "you & me &Z ok", plain: "you & me &Z ok"},
		{name: "reset only", in: "&xplain", plain: "plain"},
		{name: "nested switch", in: "&Ra&Gb&xc", plain: "abc", ansi: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Colourify(tt.in)
			if gotAnsi := strings.Contains(got, "\x1b["); gotAnsi != tt.ansi {
				t.Fatalf("Colourify(%q) = %q, ansi = %v, want %v", tt.in, got, gotAnsi, tt.ansi)
			}
			stripped := stripAnsi(got)
			if stripped != tt.plain {
				t.Fatalf("Colourify(%q) text = %q, want %q", tt.in, stripped, tt.plain)
			}
		})
	}
}

func stripAnsi(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestStripColours(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"&RThe &GRed &BRoom&x", "The Red Room"},
		{"plain", "plain"},
		{"&Z stays", "&Z stays"},
		{"fish & chips", "fish & chips"},
	}
	for _, tt := range tests {
		if got := StripColours(tt.in); got != tt.want {
			t.Fatalf("StripColours(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFrames(t *testing.T) {
	header := Header80("THE LOBBY")
	if !strings.Contains(header, "THE LOBBY") {
		t.Fatal("header lost its title")
	}
	for _, line := range strings.Split(strings.TrimRight(StripColours(header), "\r\n"), "\r\n") {
		if len(line) != wide+4 {
			t.Fatalf("header line %q is %d wide, want %d", line, len(line), wide+4)
		}
	}
	if body := StripColours(Body80("row")); len(body) != wide+4+2 {
		t.Fatalf("body row is %d wide, want %d", len(body), wide+4+2)
	}
	if left := Body2Cols80("a", "b"); !strings.Contains(left, "a") || !strings.Contains(left, "b") {
		t.Fatal("two-column row lost a column")
	}
}

func TestWrap(t *testing.T) {
	lines := wrap("Flying, vigilance, and a rules paragraph long enough to need wrapping somewhere", 20)
	if len(lines) < 2 {
		t.Fatalf("wrap produced %d lines, want several", len(lines))
	}
	for _, line := range lines {
		if len(line) > 20 && !strings.Contains(line, " ") {
			continue // a single overlong word is passed through whole
		}
		if len(line) > 20 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
	if got := wrap("", 20); got != nil {
		t.Fatalf("wrap of empty string = %v", got)
	}
}
