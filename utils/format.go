package utils

import (
	"fmt"
	"math"
	"os"
	"time"

	"golang.org/x/term"
)

// MessageType is a custom type used as a placeholder for various message types.
type MessageType int

// The message types used across the CLI application.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
	WarningMessage
)

// Colors used across the CLI application.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
	WarningColor = "\x1b[33m"
)

// colorEnabled reports whether stderr, where the CLI writes its messages, is a terminal.
var colorEnabled = term.IsTerminal(int(os.Stderr.Fd()))

var messageColors = map[MessageType]string{
	DefaultMessage: DefaultColor,
	StatusMessage:  StatusColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
	WarningMessage: WarningColor,
}

// DecorateText shows the message types in different colors.
// Text is returned unchanged when stderr is not a terminal.
func DecorateText(s string, msgType MessageType) string {
	col, ok := messageColors[msgType]
	if !ok || !colorEnabled {
		return s
	}
	return col + s + DefaultColor
}

// FormatTime formats time.Duration output to a human readable value.
func FormatTime(d time.Duration) string {
	switch {
	case d.Seconds() < 60.0:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d.Minutes() < 60.0:
		return fmt.Sprintf("%dm %.2fs", int64(d.Minutes()), math.Mod(d.Seconds(), 60))
	case d.Hours() < 24.0:
		return fmt.Sprintf("%dh %dm %.2fs",
			int64(d.Hours()), int64(math.Mod(d.Minutes(), 60)), math.Mod(d.Seconds(), 60))
	}
	return fmt.Sprintf("%dd %dh %dm %.2fs",
		int64(d.Hours()/24), int64(math.Mod(d.Hours(), 24)),
		int64(math.Mod(d.Minutes(), 60)), math.Mod(d.Seconds(), 60))
}
