package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/weightplot/schema"
)

// Color variables for console output.
var (
	DownColor = color.New(color.FgGreen, color.Bold) // DownColor marks a falling trend.
	UpColor   = color.New(color.FgRed, color.Bold)   // UpColor marks a rising trend.
	FlatColor = color.New(color.FgCyan)              // FlatColor is informational.
)

// GetColorLabel returns a colored trend direction for console output (table).
func GetColorLabel(direction schema.TrendDirection) string {
	text := string(direction)

	switch direction {
	case schema.TrendDown:
		return DownColor.Sprint(text)
	case schema.TrendUp:
		return UpColor.Sprint(text)
	default: // "Flat"
		return FlatColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogParseIssue reports one line that could not be fully parsed.
func LogParseIssue(issue *schema.ParseIssue) {
	LogWarn(fmt.Sprintf("error parsing line %d", issue.Index), issue)
	_, _ = fmt.Fprintf(os.Stderr, "    %s\n", issue.Line)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".weightplot_history.db"
	}
	return filepath.Join(homeDir, ".weightplot_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
