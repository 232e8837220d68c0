// Package output renders LLM results to the terminal: Markdown formatting,
// clipboard copy, and styled diagnostics.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// Render prints the result as Markdown, falling back to plain text when the
// renderer is unavailable. With showSuccess set it appends a dim footer with
// an approximate token count and the local time.
func Render(result string, showSuccess bool) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Println(result)
	} else if rendered, renderErr := renderer.Render(result); renderErr != nil {
		fmt.Println(result)
	} else {
		fmt.Print(rendered)
	}

	if showSuccess {
		words := len(strings.Fields(result))
		footer := fmt.Sprintf("✓ result has been copied to clipboard · tokens: %d · %s",
			words, time.Now().Format("15:04:05"))
		fmt.Println(footerStyle.Render(footer))
	}
}

// CopyToClipboard copies text to the system clipboard. Failure is downgraded
// to a warning so result display is never blocked.
func CopyToClipboard(text string) {
	if err := clipboard.WriteAll(text); err != nil {
		fmt.Fprintln(os.Stderr, WARNING(fmt.Sprintf("Warning: could not copy to clipboard: %v", err)))
	}
}
