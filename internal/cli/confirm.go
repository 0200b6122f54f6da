package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/portfolio-labs/ptrack/internal/ui"
)

// shouldPromptForConfirm reports whether there is a person to ask: text
// output with both stdin and stdout on a terminal.
func shouldPromptForConfirm() bool {
	if isJSONOutput() {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
}

// promptForConfirm asks a yes/no question on the terminal. It returns false
// without asking when there is no terminal.
func promptForConfirm(message string) bool {
	if !shouldPromptForConfirm() {
		return false
	}
	return askConfirm(os.Stdin, os.Stdout, message)
}

// askConfirm writes message to out and reads one answer from in. Only "y"
// or "yes" accept; an empty answer or end of input declines.
func askConfirm(in io.Reader, out io.Writer, message string) bool {
	if message == "" {
		message = "Continue?"
	}
	fmt.Fprintf(out, "%s %s ", message, ui.Hint("[y/N]"))

	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
