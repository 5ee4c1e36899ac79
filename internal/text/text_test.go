package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no ANSI", "hello", "hello"},
		{"color code", "\x1b[31mhello\x1b[0m", "hello"},
		{"bold", "\x1b[1mbold\x1b[0m", "bold"},
		{"multiple codes", "\x1b[1m\x1b[31mhi\x1b[0m", "hi"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}

func TestCountVisibleWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain text", "hello", 5},
		{"with ANSI", "\x1b[31mhello\x1b[0m", 5},
		{"multiple ANSI", "\x1b[1m\x1b[31mhi\x1b[0m", 2},
		{"empty", "", 0},
		{"unicode", "世界", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountVisibleWidth(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncate with ellipsis", "hello world", 8, "hello..."},
		{"very short width", "hello", 3, "hel"},
		{"zero width", "hello", 0, ""},
		{"negative width", "hello", -1, ""},
		{"empty string", "", 10, ""},
		{"unicode fits", "Hello世界", 8, "Hello世界"},
		{"with ANSI no truncation", "\x1b[31mhello\x1b[0m", 5, "\x1b[31mhello\x1b[0m"},
		{"truncate with ANSI", "\x1b[31mhello world\x1b[0m", 8, "hello..."},
		{"width 1", "hello", 1, "h"},
		{"width 4 with ellipsis", "hello world", 4, "h..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.width))
		})
	}
}

func TestTruncateMiddle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncate middle", "abcdefghij", 7, "ab...ij"},
		{"short width uses regular truncate", "hello", 4, "h..."},
		{"zero width", "hello", 0, ""},
		{"path example", "/Users/foo/bar", 10, "/Us.../bar"},
		{"empty string", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateMiddle(tt.input, tt.width))
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"add padding", "hello", 10, "hello     "},
		{"no padding needed", "hello", 5, "hello"},
		{"already wider", "hello world", 5, "hello world"},
		{"empty string", "", 5, "     "},
		{"zero width", "hello", 0, "hello"},
		{"with ANSI", "\x1b[31mhi\x1b[0m", 5, "\x1b[31mhi\x1b[0m   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PadRight(tt.input, tt.width))
		})
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		spaces int
		want   string
	}{
		{"single line", "hello", 2, "  hello"},
		{"multi line", "hello\nworld", 2, "  hello\n  world"},
		{"empty line preserved", "hello\n\nworld", 2, "  hello\n\n  world"},
		{"empty string", "", 2, ""},
		{"zero spaces", "hello", 0, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Indent(tt.input, tt.spaces))
		})
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single line", "hello", "hello"},
		{"multi line", "hello\nworld", "hello"},
		{"empty", "", ""},
		{"only newline", "\n", ""},
		{"multiple newlines", "a\nb\nc", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstLine(tt.input))
		})
	}
}
