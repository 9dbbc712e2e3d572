package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/readiness/schema"
)

// Color variables for console output.
var (
	PeakColor = color.New(color.FgGreen, color.Bold) // PeakColor marks a day to push hard.
	GoodColor = color.New(color.FgCyan)              // GoodColor marks a normal training day.
	FairColor = color.New(color.FgYellow)            // FairColor suggests going easy.
	LowColor  = color.New(color.FgRed, color.Bold)   // LowColor suggests recovery.
)

// GetColorLabel returns a colored readiness label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score int) string {
	text := schema.GetPlainLabel(score)

	switch text {
	case schema.PeakValue:
		return PeakColor.Sprint(text)
	case schema.GoodValue:
		return GoodColor.Sprint(text)
	case schema.FairValue:
		return FairColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetDBFilePath returns the path to the default SQLite DB file.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".readiness_history.db"
	}
	return filepath.Join(homeDir, ".readiness_history.db")
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
