package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// ANSI color codes, disabled automatically when stdout is not a terminal.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

func colorize(color, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return color + s + reset
}

func logLine(color, symbol, tag, msg string) {
	ts := time.Now().Format("15:04:05")
	fmt.Printf("%s %s %s %s\n",
		colorize(dim, ts),
		colorize(color, symbol),
		colorize(bold, fmt.Sprintf("[%s]", tag)),
		msg)
}

// Info logs an informational message with a component tag.
func Info(tag, msg string) {
	logLine(blue, "•", tag, msg)
}

// Success logs a success message with a component tag.
func Success(tag, msg string) {
	logLine(green, "✓", tag, msg)
}

// Warn logs a warning message with a component tag.
func Warn(tag, msg string) {
	logLine(yellow, "!", tag, msg)
}

// Error logs an error message with a component tag.
func Error(tag, msg string) {
	logLine(red, "✗", tag, msg)
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Println(colorize(cyan, "╔══════════════════════════════════════╗"))
	fmt.Println(colorize(cyan, "║      Clans Optimizer — "+pad(version, 13)+" ║"))
	fmt.Println(colorize(cyan, "╚══════════════════════════════════════╝"))
}

// Server logs the address the HTTP server is listening on.
func Server(addr string) {
	Success("Server", fmt.Sprintf("Listening on http://%s", addr))
}

// Section prints a section heading for grouped statistics.
func Section(title string) {
	fmt.Println(colorize(bold, "── "+title+" ──"))
}

// Stats prints a single key/value statistic line under a Section.
func Stats(key string, value interface{}) {
	fmt.Printf("   %s %v\n", colorize(dim, key+":"), value)
}

func pad(s string, width int) string {
	for len([]rune(s)) < width {
		s += " "
	}
	if len([]rune(s)) > width {
		return string([]rune(s)[:width])
	}
	return s
}
