package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/vendor-dash/internal/common"
)

// Notice renders err as the one-line message shown to the user. Backend and
// network failures look the same apart from their text.
func Notice(err error) string {
	if err == nil {
		return ""
	}
	return FormatError(common.UserMessage(err))
}

// PrintNotice writes Notice(err) to w and logs the underlying error.
func PrintNotice(w io.Writer, err error) {
	if err == nil {
		return
	}
	slog.Debug("command failed", "error", err)
	if _, werr := fmt.Fprintln(w, Notice(err)); werr != nil {
		slog.Warn("Failed to write notice", "error", werr)
	}
}
