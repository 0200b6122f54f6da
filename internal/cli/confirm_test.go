package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestAskConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{answer: "y\n", want: true},
		{answer: " YES \n", want: true},
		{answer: "yes", want: true},
		{answer: "\n", want: false},
		{answer: "n\n", want: false},
		{answer: "yep\n", want: false},
		{answer: "", want: false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := askConfirm(strings.NewReader(tt.answer), &out, "Import 3 projects with 1 warning?")
		assert.Equal(t, tt.want, got, "answer %q", tt.answer)
		assert.True(t, strings.HasPrefix(ansi.Strip(out.String()), "Import 3 projects with 1 warning? [y/N] "), "prompt %q", out.String())
	}
}

func TestAskConfirmDefaultMessage(t *testing.T) {
	var out bytes.Buffer
	askConfirm(strings.NewReader("n\n"), &out, "")
	assert.Equal(t, "Continue? [y/N] ", ansi.Strip(out.String()))
}

func TestPromptForConfirmSkipsInJSONMode(t *testing.T) {
	setupCLI(t)
	assert.False(t, shouldPromptForConfirm())
	assert.False(t, promptForConfirm("Import?"))
}
