// Package markup defines the small set of tview colour tags the dashboard
// emits and converts them for non-tview outputs (ANSI terminals, plain text,
// the web mirror).
package markup

import (
	"strings"

	"github.com/rivo/tview"
)

const (
	Red    = "[red]"
	Green  = "[green]"
	Yellow = "[yellow]"
	Gray   = "[gray]"
	Cyan   = "[cyan]"
	Reset  = "[-]"

	Bold      = "[::b]"
	BoldReset = "[::-]"

	BadgeOn    = "[black:green]"
	BadgeOff   = "[black:gray]"
	BadgeInfo  = "[black:cyan]"
	BadgeReset = "[-:-]"
)

const resetANSI = "\x1b[0m"

var ansiReplacer = strings.NewReplacer(
	Red, "\x1b[31m",
	Green, "\x1b[32m",
	Yellow, "\x1b[33m",
	Gray, "\x1b[90m",
	Cyan, "\x1b[36m",
	Reset, "\x1b[39m",
	Bold, "\x1b[1m",
	BoldReset, "\x1b[22m",
	BadgeOn, "\x1b[30;42m",
	BadgeOff, "\x1b[30;47m",
	BadgeInfo, "\x1b[30;46m",
	BadgeReset, resetANSI,
	"[]", "]",
)

var stripReplacer = strings.NewReplacer(
	Red, "",
	Green, "",
	Yellow, "",
	Gray, "",
	Cyan, "",
	Reset, "",
	Bold, "",
	BoldReset, "",
	BadgeOn, "",
	BadgeOff, "",
	BadgeInfo, "",
	BadgeReset, "",
	"[]", "]",
)

// Escape protects untrusted text (table names, client names) from being
// read as tags.
func Escape(text string) string {
	return tview.Escape(text)
}

// Color wraps text in a colour tag.
func Color(tag, text string) string {
	if text == "" {
		return ""
	}
	return tag + text + Reset
}

// Badge renders text as a short inverse-colour label.
func Badge(tag, text string) string {
	return tag + " " + text + " " + BadgeReset
}

// Strip removes every known tag and undoes Escape.
func Strip(text string) string {
	if text == "" {
		return ""
	}
	return stripReplacer.Replace(text)
}

// ANSI converts known tags to escape sequences, or strips them when colour
// is disabled. A trailing reset is appended when anything was converted.
func ANSI(text string, color bool) string {
	if text == "" {
		return ""
	}
	if !color {
		return Strip(text)
	}
	out := ansiReplacer.Replace(text)
	if strings.Contains(out, "\x1b[") {
		out += resetANSI
	}
	return out
}
