package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Notifier delivers a formatted message to one channel
type Notifier interface {
	// Notify attempts one delivery of text
	Notify(ctx context.Context, text string) error

	// Name returns the channel name for logging
	Name() string
}

// ConsoleNotifier prints messages, the fallback channel that is always on
type ConsoleNotifier struct {
	out io.Writer
}

// Ensure ConsoleNotifier implements Notifier
var _ Notifier = (*ConsoleNotifier)(nil)

// NewConsoleNotifier creates a console notifier; nil writes to stdout
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleNotifier{out: out}
}

// Name returns the channel name
func (c *ConsoleNotifier) Name() string {
	return "console"
}

// Notify writes text followed by a newline
func (c *ConsoleNotifier) Notify(ctx context.Context, text string) error {
	_, err := fmt.Fprintln(c.out, text)
	return err
}

// splitMessage cuts text into chunks of at most limit runes, preferring
// blank-line then line boundaries. A single longer line is hard-cut.
func splitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		lineLen := utf8.RuneCountInString(line)
		if lineLen > limit {
			flush()
			runes := []rune(strings.TrimRight(line, "\n"))
			for len(runes) > limit {
				chunks = append(chunks, string(runes[:limit]))
				runes = runes[limit:]
			}
			line = string(runes)
			lineLen = len(runes)
		}
		if currentLen+lineLen > limit {
			flush()
		}
		current.WriteString(line)
		currentLen += lineLen
	}
	flush()

	return chunks
}
