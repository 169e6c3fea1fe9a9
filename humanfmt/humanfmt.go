// Package humanfmt holds the pure formatting helpers shared by the report
// renderer, the status bar and the command line tools.
package humanfmt

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// truncPrecision is wide enough to keep real fractions (9.999 stays 9.999)
// while snapping float noise such as 2.9999999999999996 onto the integer.
const truncPrecision = 9

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Trunc cuts a value at its decimal separator after rendering it as a decimal
// string. It truncates toward zero; it never rounds up to the next integer.
func Trunc(value float64) int64 {
	text := strconv.FormatFloat(value, 'f', truncPrecision, 64)
	pos := strings.IndexByte(text, '.')
	if pos < 0 {
		pos = strings.IndexByte(text, ',')
	}
	if pos >= 0 {
		text = text[:pos]
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatSeconds renders seconds as HH:MM:SS. Every component is truncated,
// components below ten get a leading zero and hours are not capped at 99.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	var hours int64
	if seconds >= 3600 {
		hours = Trunc(seconds / 3600)
		seconds -= float64(hours * 3600)
	}
	var mins int64
	if seconds >= 60 {
		mins = Trunc(seconds / 60)
		seconds -= float64(mins * 60)
	}
	return pad2(hours) + ":" + pad2(mins) + ":" + pad2(Trunc(seconds))
}

func pad2(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}

// Bytes renders a byte count in IEC units ("1.5 KiB").
func Bytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

// Comma groups thousands ("1,234,567").
func Comma(n int64) string {
	return humanize.Comma(n)
}

// DurationMicros renders a microsecond duration with a precision that fits
// its magnitude.
func DurationMicros(us int64) string {
	if us <= 0 {
		return "0s"
	}
	d := time.Duration(us) * time.Microsecond
	switch {
	case d >= time.Minute:
		d = d.Round(time.Second)
	case d >= time.Second:
		d = d.Round(time.Millisecond)
	case d >= time.Millisecond:
		d = d.Round(10 * time.Microsecond)
	}
	return d.String()
}

// Micros renders a unix-microsecond timestamp in UTC, or "never" for zero.
func Micros(us int64) string {
	if us <= 0 {
		return "never"
	}
	return time.UnixMicro(us).UTC().Format(timestampLayout)
}
