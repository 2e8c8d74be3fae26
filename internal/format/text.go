package format

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultWidth    = 80
	minPreviewWidth = 20
	ellipsis        = "…"
)

// Preview collapses whitespace in text and truncates it to width display
// cells. width <= 0 disables truncation.
func Preview(text string, width int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if width <= 0 {
		return collapsed
	}
	return runewidth.Truncate(collapsed, width, ellipsis)
}

// TerminalWidth reports the column count of w when it is a terminal. It
// falls back to $COLUMNS, then 80.
func TerminalWidth(w io.Writer) int {
	if file, ok := w.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		if cols, _, err := term.GetSize(int(file.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if v, err := strconv.Atoi(colsStr); err == nil && v > 0 {
			return v
		}
	}
	return defaultWidth
}

// previewWidth leaves room for a table's border and label column.
func previewWidth(total int) int {
	if total <= 0 {
		return 0
	}
	if w := total - 34; w >= minPreviewWidth {
		return w
	}
	return minPreviewWidth
}
