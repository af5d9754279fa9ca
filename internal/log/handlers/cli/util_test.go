package cli

import (
	"testing"

	"github.com/fatih/color"
)

func TestEscapeAwareRuneCountInString(t *testing.T) {
	bold := color.New(color.Bold)
	blue := color.New(color.FgBlue)

	s := blue.Sprintf("•ABC%s%s", bold.Sprintf("DEF"), "\x1B[00;38;5;244m\x1B[m\x1B[00;38;5;33mGHI\x1B[0m")
	count := escapeAwareRuneCountInString(s)
	if count != 10 {
		t.Errorf("Count was incorrect, got: %d, want: %d.", count, 10)
	}
}

func TestRightPad(t *testing.T) {
	if got := rightPad("abc", 5); got != "abc  " {
		t.Errorf("unexpected padding: %q", got)
	}
	// longer than the target width must not panic
	if got := rightPad("abcdef", 5); got != "abcdef" {
		t.Errorf("unexpected padding: %q", got)
	}
}
